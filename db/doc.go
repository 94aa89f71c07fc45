// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, migrations and query building.

# Connecting

Open registers both drivers and pings the database:

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

SQLite (modernc.org/sqlite, pure Go) is the default. Foreign keys are
enabled through the DSN and the pool is limited to one connection.
PostgreSQL uses lib/pq.

# Migrations

Migrate applies the embedded goose migrations for the dialect:

	if err := db.Migrate(ctx, conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times; goose tracks applied versions.

# Tables

  - sunrise_sunset: one sunrise/sunset record per row
  - location: named places
  - location_sunrise_sunset: links locations to records

# Relationships

	location *──* sunrise_sunset (via location_sunrise_sunset)

Link rows use ON DELETE CASCADE on both sides.

# Query Building

Builder returns a squirrel builder with the right placeholder format
($1 for postgres, ? for sqlite):

	q, args, err := db.Builder(cfg.DatabaseType).
		Select("id", "date").From("sunrise_sunset").ToSql()
*/
package db
