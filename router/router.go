// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/sunrise-sunset/cache"
	"github.com/danielhkuo/sunrise-sunset/client"
	"github.com/danielhkuo/sunrise-sunset/cliparse"
	"github.com/danielhkuo/sunrise-sunset/handlers"
	"github.com/danielhkuo/sunrise-sunset/middleware"
	"github.com/danielhkuo/sunrise-sunset/view"
)

// NewRouter builds the REST API and the record manager page. The page
// reaches the API over HTTP at cfg.APIBaseURL, which normally points back
// at this same server.
func NewRouter(db *sql.DB, cfg cliparse.Config, logger *slog.Logger) (http.Handler, error) {
	mux := http.NewServeMux()

	locations, err := cache.NewLocations(cfg.CacheSize)
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	counter := &handlers.Counter{}
	recordHandler := handlers.NewSunriseSunsetHandler(db, cfg, locations, counter)
	locationHandler := handlers.NewLocationHandler(db, cfg, locations, counter)
	counterHandler := handlers.NewCounterHandler(counter)

	recordClient := client.New(cfg.APIBaseURL, logger)
	sessions, err := view.NewSessions(cfg.MaxSessions, cfg.SessionSecret, func() *view.Manager {
		return view.NewManager(recordClient, logger)
	}, logger)
	if err != nil {
		return nil, err
	}
	page := view.NewHandler(sessions, logger)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Sunrise/sunset records
	mux.HandleFunc("GET /api/sunrise-sunset", middleware.WithLogging(recordHandler.List))
	mux.HandleFunc("GET /api/sunrise-sunset/by-date", middleware.WithLogging(recordHandler.ByDate))
	mux.HandleFunc("POST /api/sunrise-sunset", middleware.WithLogging(recordHandler.Create))
	mux.HandleFunc("PUT /api/sunrise-sunset/{id}", middleware.WithLogging(recordHandler.Update))
	mux.HandleFunc("DELETE /api/sunrise-sunset/{id}", middleware.WithLogging(recordHandler.Delete))

	// Locations
	mux.HandleFunc("GET /api/location", middleware.WithLogging(locationHandler.List))
	mux.HandleFunc("GET /api/location/by-date", middleware.WithLogging(locationHandler.ByDate))
	mux.HandleFunc("GET /api/location/{id}", middleware.WithLogging(locationHandler.Get))
	mux.HandleFunc("POST /api/location", middleware.WithLogging(locationHandler.Create))
	mux.HandleFunc("POST /api/location/bulk", middleware.WithLogging(locationHandler.Bulk))
	mux.HandleFunc("PUT /api/location/{id}", middleware.WithLogging(locationHandler.Update))
	mux.HandleFunc("DELETE /api/location/{id}", middleware.WithLogging(locationHandler.Delete))

	mux.HandleFunc("GET /api/counter", middleware.WithLogging(counterHandler.GetCount))

	// Record manager page
	mux.HandleFunc("GET /{$}", middleware.WithLogging(page.Index))
	mux.HandleFunc("POST /records", middleware.WithLogging(page.Submit))
	mux.HandleFunc("POST /records/{id}/edit", middleware.WithLogging(page.Edit))
	mux.HandleFunc("POST /records/{id}/delete", middleware.WithLogging(page.Delete))
	mux.HandleFunc("POST /cancel", middleware.WithLogging(page.Cancel))

	return middleware.RequestID(middleware.Recovery(middleware.CORS(mux))), nil
}
