// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/danielhkuo/sunrise-sunset/models"
)

var errInvalidID = errors.New("invalid id")

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var recordColumns = []string{"id", "date", "latitude", "longitude", "sunrise", "sunset"}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner, extra ...any) (models.SunriseSunset, error) {
	var rec models.SunriseSunset
	var id int64
	var lat, lon sql.NullFloat64

	dest := append(extra, &id, &rec.Date, &lat, &lon, &rec.Sunrise, &rec.Sunset)
	if err := row.Scan(dest...); err != nil {
		return models.SunriseSunset{}, err
	}

	rec.ID = &id
	rec.Latitude = nullableFloat(lat)
	rec.Longitude = nullableFloat(lon)
	return rec, nil
}

// queryRecords runs a select built from recordColumns.
func queryRecords(ctx context.Context, q querier, query squirrel.SelectBuilder) ([]models.SunriseSunset, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []models.SunriseSunset{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// dbFloat maps nil and NaN to NULL
func dbFloat(f *float64) any {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return nil
	}
	return *f
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errInvalidID
	}
	return id, nil
}

// parseIDList reads a repeated or comma separated id list from the query.
// present reports whether the parameter was given at all.
func parseIDList(r *http.Request, name string) (ids []int64, present bool, err error) {
	values, present := r.URL.Query()[name]
	if !present {
		return nil, false, nil
	}

	ids = []int64{}
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, true, errInvalidID
			}
			ids = append(ids, id)
		}
	}
	return ids, true, nil
}
