// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires every handler into one http.Handler.

Routes use Go 1.22 method and wildcard patterns:

	GET    /health
	GET    /api/counter
	*      /api/sunrise-sunset[/{id}|/by-date]
	*      /api/location[/{id}|/by-date|/bulk]
	GET    /                      record manager page
	POST   /records, /cancel, /records/{id}/edit, /records/{id}/delete

The mux is wrapped, outermost first, in middleware.RequestID,
middleware.Recovery and middleware.CORS. API and page handlers are
additionally wrapped in middleware.WithLogging.
*/
package router
