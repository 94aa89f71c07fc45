// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 8080)
  - DatabaseURL: Database connection string (default: file:sunrise.db for sqlite)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - APIBaseURL: Where the record manager view sends its API calls
    (default: http://localhost:<port>)
  - SessionSecret: HMAC secret for view session cookies (random if empty)
  - LogLevel: slog level (default: info)
  - MaxSessions: View sessions kept in memory (default: 1024)
  - CacheSize: Location cache entries (default: 256)

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type
	-api             API base URL
	-session-secret  Session secret
	-log-level       Log level
	-max-sessions    Session limit
	-cache-size      Cache size

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	API_BASE_URL   → -api
	SESSION_SECRET → -session-secret
	LOG_LEVEL      → -log-level
	MAX_SESSIONS   → -max-sessions
	CACHE_SIZE     → -cache-size

A .env file in the working directory is loaded before the environment is
read. CLI flags take precedence over environment variables, which take
precedence over .env.

# Validation

ParseFlags returns an error if:

  - DATABASE_TYPE is not sqlite or postgres
  - DATABASE_URL is missing for postgres
  - a numeric setting is not a positive integer
  - LOG_LEVEL is not a slog level name
*/
package cliparse
