// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

const sunriseSunsetIDsParam = "sunrise_sunset_ids"

var locationColumns = []string{"l.id", "l.name", "l.country", "l.latitude", "l.longitude"}

type LocationHandler struct {
	db      *sql.DB
	sq      squirrel.StatementBuilderType
	cache   *cache.Locations
	counter *Counter
}

func NewLocationHandler(conn *sql.DB, cfg cliparse.Config, locations *cache.Locations, counter *Counter) *LocationHandler {
	return &LocationHandler{
		db:      conn,
		sq:      db.Builder(cfg.DatabaseType),
		cache:   locations,
		counter: counter,
	}
}

// List handles GET /api/location
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	h.counter.Increment()

	key := cache.AllKey()
	if locations, ok := h.cache.Get(key); ok {
		middleware.JSONResponse(w, http.StatusOK, locations)
		return
	}

	gen := h.cache.Generation()
	locations, err := h.queryLocations(r.Context(), h.db,
		h.sq.Select(locationColumns...).From("location l").OrderBy("l.id"))
	if err != nil {
		slog.Error("failed to query locations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	h.cache.PutIfCurrent(key, locations, gen)

	middleware.JSONResponse(w, http.StatusOK, locations)
}

// Get handles GET /api/location/{id}
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	h.counter.Increment()

	key := cache.LocationKey(id)
	if locations, ok := h.cache.Get(key); ok && len(locations) == 1 {
		middleware.JSONResponse(w, http.StatusOK, locations[0])
		return
	}

	gen := h.cache.Generation()
	loc, err := h.getLocation(r.Context(), h.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Location not found")
		return
	}
	if err != nil {
		slog.Error("failed to query location", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	h.cache.PutIfCurrent(key, []models.Location{loc}, gen)

	middleware.JSONResponse(w, http.StatusOK, loc)
}

// ByDate handles GET /api/location/by-date?date=
// Returns locations linked to at least one record on that date, by name
func (h *LocationHandler) ByDate(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if strings.TrimSpace(date) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Date parameter is required")
		return
	}

	h.counter.Increment()

	key := cache.DateKey(date)
	if locations, ok := h.cache.Get(key); ok {
		middleware.JSONResponse(w, http.StatusOK, locations)
		return
	}

	query := h.sq.Select(locationColumns...).Distinct().
		From("location l").
		Join("location_sunrise_sunset ls ON ls.location_id = l.id").
		Join("sunrise_sunset s ON s.id = ls.sunrise_sunset_id").
		Where(squirrel.Eq{"s.date": date}).
		OrderBy("l.name", "l.id")

	gen := h.cache.Generation()
	locations, err := h.queryLocations(r.Context(), h.db, query)
	if err != nil {
		slog.Error("failed to query locations by date", "date", date, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	h.cache.PutIfCurrent(key, locations, gen)

	middleware.JSONResponse(w, http.StatusOK, locations)
}

// Create handles POST /api/location?sunrise_sunset_ids=1,2
// Unknown record ids are skipped
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ids, _, err := parseIDList(r, sunriseSunsetIDsParam)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "sunrise_sunset_ids must be integers")
		return
	}

	var loc models.Location
	if err := middleware.ParseJSONBody(r, &loc); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if msg := validateLocation(loc); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	h.counter.Increment()

	var created models.Location
	err = h.inTx(r.Context(), func(tx *sql.Tx) error {
		id, err := h.insertLocation(r.Context(), tx, loc)
		if err != nil {
			return err
		}
		if err := h.linkRecords(r.Context(), tx, id, ids); err != nil {
			return err
		}
		created, err = h.getLocation(r.Context(), tx, id)
		return err
	})
	if err != nil {
		slog.Error("failed to create location", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create location")
		return
	}
	h.cache.Purge()

	slog.Info("location created", "id", *created.ID, "name", created.Name)
	middleware.JSONResponse(w, http.StatusOK, created)
}

// Bulk handles POST /api/location/bulk?sunrise_sunset_ids=1,2
// Locations whose id exists are updated and their links replaced; the
// rest are created. Every location ends up linked to the given records.
func (h *LocationHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	ids, _, err := parseIDList(r, sunriseSunsetIDsParam)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "sunrise_sunset_ids must be integers")
		return
	}

	var locs []models.Location
	if err := middleware.ParseJSONBody(r, &locs); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	for i, loc := range locs {
		if msg := validateLocation(loc); msg != "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("location %d: %s", i, msg))
			return
		}
	}

	h.counter.Increment()

	saved := make([]models.Location, 0, len(locs))
	err = h.inTx(r.Context(), func(tx *sql.Tx) error {
		for _, loc := range locs {
			id, err := h.upsertLocation(r.Context(), tx, loc)
			if err != nil {
				return err
			}
			if err := h.unlinkRecords(r.Context(), tx, id); err != nil {
				return err
			}
			if err := h.linkRecords(r.Context(), tx, id, ids); err != nil {
				return err
			}
			result, err := h.getLocation(r.Context(), tx, id)
			if err != nil {
				return err
			}
			saved = append(saved, result)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to bulk save locations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save locations")
		return
	}
	h.cache.Purge()

	slog.Info("locations bulk saved", "count", len(saved))
	middleware.JSONResponse(w, http.StatusOK, saved)
}

// Update handles PUT /api/location/{id}?sunrise_sunset_ids=1,2
// Links are replaced only when sunrise_sunset_ids is present
func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	ids, replaceLinks, err := parseIDList(r, sunriseSunsetIDsParam)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "sunrise_sunset_ids must be integers")
		return
	}

	var loc models.Location
	if err := middleware.ParseJSONBody(r, &loc); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if msg := validateLocation(loc); msg != "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, msg)
		return
	}

	h.counter.Increment()

	var updated models.Location
	err = h.inTx(r.Context(), func(tx *sql.Tx) error {
		found, err := h.updateLocation(r.Context(), tx, id, loc)
		if err != nil {
			return err
		}
		if !found {
			return sql.ErrNoRows
		}
		if replaceLinks {
			if err := h.unlinkRecords(r.Context(), tx, id); err != nil {
				return err
			}
			if err := h.linkRecords(r.Context(), tx, id, ids); err != nil {
				return err
			}
		}
		updated, err = h.getLocation(r.Context(), tx, id)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Location not found")
		return
	}
	if err != nil {
		slog.Error("failed to update location", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update location")
		return
	}
	h.cache.Purge()

	slog.Info("location updated", "id", id)
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/location/{id}
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be an integer")
		return
	}

	h.counter.Increment()

	query, args, err := h.sq.Delete("location").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		slog.Error("failed to build delete", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete location")
		return
	}

	result, err := h.db.ExecContext(r.Context(), query, args...)
	if err != nil {
		slog.Error("failed to delete location", "id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete location")
		return
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Location not found")
		return
	}
	h.cache.Purge()

	slog.Info("location deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func validateLocation(loc models.Location) string {
	if strings.TrimSpace(loc.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(loc.Country) == "" {
		return "country is required"
	}
	return ""
}

func (h *LocationHandler) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (h *LocationHandler) insertLocation(ctx context.Context, q querier, loc models.Location) (int64, error) {
	query, args, err := h.sq.Insert("location").
		Columns("name", "country", "latitude", "longitude").
		Values(loc.Name, loc.Country, dbFloat(loc.Latitude), dbFloat(loc.Longitude)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert location: %w", err)
	}
	return id, nil
}

// updateLocation reports whether a row with id existed.
func (h *LocationHandler) updateLocation(ctx context.Context, q querier, id int64, loc models.Location) (bool, error) {
	query, args, err := h.sq.Update("location").
		Set("name", loc.Name).
		Set("country", loc.Country).
		Set("latitude", dbFloat(loc.Latitude)).
		Set("longitude", dbFloat(loc.Longitude)).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, err
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update location: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// upsertLocation updates loc when its id exists, otherwise inserts it.
func (h *LocationHandler) upsertLocation(ctx context.Context, q querier, loc models.Location) (int64, error) {
	if loc.ID != nil {
		found, err := h.updateLocation(ctx, q, *loc.ID, loc)
		if err != nil {
			return 0, err
		}
		if found {
			return *loc.ID, nil
		}
	}
	return h.insertLocation(ctx, q, loc)
}

func (h *LocationHandler) unlinkRecords(ctx context.Context, q querier, locationID int64) error {
	query, args, err := h.sq.Delete("location_sunrise_sunset").
		Where(squirrel.Eq{"location_id": locationID}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to unlink records: %w", err)
	}
	return nil
}

// linkRecords links the location to every existing record in ids.
func (h *LocationHandler) linkRecords(ctx context.Context, q querier, locationID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query, args, err := h.sq.Select("id").From("sunrise_sunset").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to look up records: %w", err)
	}
	var existing []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		existing = append(existing, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}

	insert := h.sq.Insert("location_sunrise_sunset").Columns("location_id", "sunrise_sunset_id")
	for _, id := range existing {
		insert = insert.Values(locationID, id)
	}
	query, args, err = insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to link records: %w", err)
	}
	return nil
}

func (h *LocationHandler) getLocation(ctx context.Context, q querier, id int64) (models.Location, error) {
	locations, err := h.queryLocations(ctx, q,
		h.sq.Select(locationColumns...).From("location l").Where(squirrel.Eq{"l.id": id}))
	if err != nil {
		return models.Location{}, err
	}
	if len(locations) == 0 {
		return models.Location{}, sql.ErrNoRows
	}
	return locations[0], nil
}

// queryLocations runs a select built from locationColumns and attaches
// the linked records to each location.
func (h *LocationHandler) queryLocations(ctx context.Context, q querier, query squirrel.SelectBuilder) ([]models.Location, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}

	locations := []models.Location{}
	index := map[int64]int{}
	for rows.Next() {
		var loc models.Location
		var id int64
		var lat, lon sql.NullFloat64
		if err := rows.Scan(&id, &loc.Name, &loc.Country, &lat, &lon); err != nil {
			rows.Close()
			return nil, err
		}
		loc.ID = &id
		loc.Latitude = nullableFloat(lat)
		loc.Longitude = nullableFloat(lon)
		loc.SunriseSunsets = []models.SunriseSunset{}
		index[id] = len(locations)
		locations = append(locations, loc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return locations, nil
	}

	ids := make([]int64, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}

	linkQuery, linkArgs, err := h.sq.
		Select("ls.location_id", "s.id", "s.date", "s.latitude", "s.longitude", "s.sunrise", "s.sunset").
		From("location_sunrise_sunset ls").
		Join("sunrise_sunset s ON s.id = ls.sunrise_sunset_id").
		Where(squirrel.Eq{"ls.location_id": ids}).
		OrderBy("s.id").
		ToSql()
	if err != nil {
		return nil, err
	}

	linkRows, err := q.QueryContext(ctx, linkQuery, linkArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load linked records: %w", err)
	}
	defer linkRows.Close()

	for linkRows.Next() {
		var locationID int64
		rec, err := scanRecord(linkRows, &locationID)
		if err != nil {
			return nil, err
		}
		i := index[locationID]
		locations[i].SunriseSunsets = append(locations[i].SunriseSunsets, rec)
	}
	return locations, linkRows.Err()
}
