// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP handlers for the sunrise/sunset REST API.

# Handler Types

Each handler is a struct holding the database, config and shared state:

  - SunriseSunsetHandler: record CRUD and lookup by date
  - LocationHandler: locations and their links to records
  - CounterHandler: the service operation counter

Handlers are created via constructor functions:

	counter := &handlers.Counter{}
	records := handlers.NewSunriseSunsetHandler(db, cfg, locations, counter)

# Records

	GET    /api/sunrise-sunset               → List (ordered by id)
	GET    /api/sunrise-sunset/by-date?date= → ByDate
	POST   /api/sunrise-sunset               → Create
	PUT    /api/sunrise-sunset/{id}          → Update (404 if missing)
	DELETE /api/sunrise-sunset/{id}          → Delete (idempotent)

# Locations

	GET    /api/location                     → List
	GET    /api/location/{id}                → Get
	GET    /api/location/by-date?date=       → ByDate (ordered by name)
	POST   /api/location?sunrise_sunset_ids= → Create
	POST   /api/location/bulk                → Bulk (create or update)
	PUT    /api/location/{id}                → Update
	DELETE /api/location/{id}                → Delete

sunrise_sunset_ids accepts repeated or comma separated ids. Ids that do
not name an existing record are skipped.

# Caching

Location reads go through cache.Locations. Every write to a location or a
record purges the whole cache, because cached locations embed their
linked records.
*/
package handlers
