package cliparse

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	APIBaseURL    string
	SessionSecret string
	LogLevel      slog.Level
	MaxSessions   int
	CacheSize     int
}

// ParseFlags validates flags and fills the rest from the environment.
// A .env file in the working directory is loaded first; variables that are
// already set in the process environment win over it.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var logLevel string

	// Missing .env is fine
	_ = godotenv.Load()

	fs := flag.NewFlagSet("sunrise-sunset", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.APIBaseURL, "api", "", "Base URL of the sunrise/sunset API used by the view")
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session cookie secret (prefer env)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.IntVar(&cfg.MaxSessions, "max-sessions", 0, "Maximum number of view sessions kept in memory")
	fs.IntVar(&cfg.CacheSize, "cache-size", 0, "Location cache size")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	var err error
	if cfg.Port, err = intSetting(cfg.Port, "PORT", 8080); err != nil {
		return Config{}, err
	}
	if cfg.MaxSessions, err = intSetting(cfg.MaxSessions, "MAX_SESSIONS", 1024); err != nil {
		return Config{}, err
	}
	if cfg.CacheSize, err = intSetting(cfg.CacheSize, "CACHE_SIZE", 256); err != nil {
		return Config{}, err
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == DatabasePostgres {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:sunrise.db"
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = os.Getenv("API_BASE_URL")
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:" + strconv.Itoa(cfg.Port)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	// Empty secret is allowed; main generates a random one per process
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}

	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
	}
	if logLevel == "" {
		logLevel = "info"
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return Config{}, errors.New("invalid log level: " + logLevel)
	}

	return cfg, nil
}

// intSetting returns the flag value when set, else the env value, else def.
func intSetting(flagValue int, env string, def int) (int, error) {
	if flagValue != 0 {
		return flagValue, nil
	}
	s := os.Getenv(env)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid " + env + " env variable")
	}
	return v, nil
}
