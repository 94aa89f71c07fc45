// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/danielhkuo/sunrise-sunset/cache"
	"github.com/danielhkuo/sunrise-sunset/cliparse"
	"github.com/danielhkuo/sunrise-sunset/db"
	"github.com/danielhkuo/sunrise-sunset/middleware"
	"github.com/danielhkuo/sunrise-sunset/models"
)

type SunriseSunsetHandler struct {
	db        *sql.DB
	sq        squirrel.StatementBuilderType
	locations *cache.Locations
	counter   *Counter
}

func NewSunriseSunsetHandler(conn *sql.DB, cfg cliparse.Config, locations *cache.Locations, counter *Counter) *SunriseSunsetHandler {
	return &SunriseSunsetHandler{
		db:        conn,
		sq:        db.Builder(cfg.DatabaseType),
		locations: locations,
		counter:   counter,
	}
}

// List handles GET /api/sunrise-sunset
// Returns all records ordered by id
func (h *SunriseSunsetHandler) List(w http.ResponseWriter, r *http.Request) {
	h.counter.Increment()

	records, err := queryRecords(r.Context(), h.db,
		h.sq.Select(recordColumns...).From("sunrise_sunset").OrderBy("id"))
	if err != nil {
		slog.Error("failed to query records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}

// ByDate handles GET /api/sunrise-sunset/by-date?date=
func (h *SunriseSunsetHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if strings.TrimSpace(date) == "" {
		slog.Warn("date parameter is missing or empty")
		middleware.ErrorResponse(w, http.StatusBadRequest, "Date parameter is required")
		return
	}

	h.counter.Increment()

	records, err := queryRecords(r.Context(), h.db,
		h.sq.Select(recordColumns...).From("sunrise_sunset").
			Where(squirrel.Eq{"date": date}).
			OrderBy("id"))
	if err != nil {
		slog.Error("failed to query records by date", "date", date, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}

// Create handles POST /api/sunrise-sunset
// Any id in the body is ignored; the database assigns one
func (h *SunriseSunsetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rec models.SunriseSunset
	if err := middleware.ParseJSONBody(r, &rec); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.counter.Increment()

	query, args, err := h.sq.Insert("sunrise_sunset").
		Columns("date", "latitude", "longitude", "sunrise", "sunset").
		Values(rec.Date, dbFloat(rec.Latitude), dbFloat(rec.Longitude), rec.Sunrise, rec.Sunset).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		slog.Error("failed to build insert", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create record")
		return
	}

	var id int64
	if err := h.db.QueryRowContext(r.Context(), query, args...).Scan(&id); err != nil {
		slog.Error("failed to insert record", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create record")
		return
	}
	h.locations.Purge()

	rec.ID = &id
	slog.Info("record created", "id", id, "date", rec.Date)

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// Update handles PUT /api/sunrise-sunset/{id}
func (h *SunriseSunsetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	var rec models.SunriseSunset
	if err := middleware.ParseJSONBody(r, &rec); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.counter.Increment()

	query, args, err := h.sq.Update("sunrise_sunset").
		Set("date", rec.Date).
		Set("latitude", dbFloat(rec.Latitude)).
		Set("longitude", dbFloat(rec.Longitude)).
		Set("sunrise", rec.Sunrise).
		Set("sunset", rec.Sunset).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		slog.Error("failed to build update", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update record")
		return
	}

	result, err := h.db.ExecContext(r.Context(), query, args...)
	if err != nil {
		slog.Error("failed to update record", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update record")
		return
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Record not found")
		return
	}
	h.locations.Purge()

	rec.ID = &id
	slog.Info("record updated", "id", id)

	middleware.JSONResponse(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/sunrise-sunset/{id}
// Deleting a missing record is not an error
func (h *SunriseSunsetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	h.counter.Increment()

	query, args, err := h.sq.Delete("sunrise_sunset").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		slog.Error("failed to build delete", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete record")
		return
	}

	if _, err := h.db.ExecContext(r.Context(), query, args...); err != nil {
		slog.Error("failed to delete record", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	h.locations.Purge()

	slog.Info("record deleted", "id", id)
	w.WriteHeader(http.StatusOK)
}
