// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/sunrise-sunset/cliparse"
	"github.com/danielhkuo/sunrise-sunset/db"
	"github.com/danielhkuo/sunrise-sunset/models"
)

// SetupTestDB creates a fresh migrated sqlite database in a temp dir.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx := context.Background()
	url := "file:" + filepath.Join(t.TempDir(), "test.db")

	conn, err := db.Open(ctx, db.SQLite, url)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:          8080,
		DatabaseURL:   "file:test.db",
		DatabaseType:  cliparse.DatabaseSQLite,
		APIBaseURL:    "http://localhost:8080",
		SessionSecret: "test-session-secret",
		MaxSessions:   16,
		CacheSize:     16,
	}
}

// CreateTestRecord inserts a sunrise/sunset record and returns its ID
func CreateTestRecord(t *testing.T, conn *sql.DB, date string, lat, lon float64, sunrise, sunset string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO sunrise_sunset (date, latitude, longitude, sunrise, sunset)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, date, lat, lon, sunrise, sunset).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test record: %v", err)
	}

	return id
}

// CreateTestLocation inserts a location linked to the given records
func CreateTestLocation(t *testing.T, conn *sql.DB, name, country string, recordIDs ...int64) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO location (name, country) VALUES (?, ?) RETURNING id
	`, name, country).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test location: %v", err)
	}

	for _, recID := range recordIDs {
		_, err := conn.Exec(`
			INSERT INTO location_sunrise_sunset (location_id, sunrise_sunset_id) VALUES (?, ?)
		`, id, recID)
		if err != nil {
			t.Fatalf("Failed to link test location: %v", err)
		}
	}

	return id
}

// SampleRecord returns a filled, unsaved record
func SampleRecord(date string) models.SunriseSunset {
	return models.SunriseSunset{
		Date:      date,
		Latitude:  models.Float64(53.9),
		Longitude: models.Float64(27.6),
		Sunrise:   "06:41",
		Sunset:    "18:04",
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
