// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/sunrise-sunset/middleware"
	"github.com/danielhkuo/sunrise-sunset/models"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_List(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/sunrise-sunset", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":2,"date":"2025-04-05","latitude":53.9,"longitude":27.6,"sunrise":"06:39","sunset":"18:06"},
			{"id":1,"date":"2025-04-04","latitude":null,"longitude":null,"sunrise":"06:41","sunset":"18:04"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", newTestLogger())
	records, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Server order is preserved
	assert.Equal(t, int64(2), *records[0].ID)
	assert.Equal(t, int64(1), *records[1].ID)
	assert.Nil(t, records[1].Latitude)
}

func TestClient_ListEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	records, err := New(srv.URL, newTestLogger()).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestClient_Create(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/sunrise-sunset", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Nil(t, body["id"])
		// NaN latitude goes over the wire as null
		assert.Contains(t, body, "latitude")
		assert.Nil(t, body["latitude"])

		w.Write([]byte(`{"id":7,"date":"2025-04-04","latitude":null,"longitude":27.6,"sunrise":"06:41","sunset":"18:04"}`))
	}))
	defer srv.Close()

	rec := models.SunriseSunset{
		Date:      "2025-04-04",
		Latitude:  models.Float64(math.NaN()),
		Longitude: models.Float64(27.6),
		Sunrise:   "06:41",
		Sunset:    "18:04",
	}

	created, err := New(srv.URL, newTestLogger()).Create(context.Background(), rec)
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, int64(7), *created.ID)
}

func TestClient_Update(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/sunrise-sunset/5", r.URL.Path)
		io.Copy(w, r.Body)
	}))
	defer srv.Close()

	rec := models.SunriseSunset{ID: models.Int64(5), Date: "2025-04-04", Sunrise: "06:30", Sunset: "18:00"}
	updated, err := New(srv.URL, newTestLogger()).Update(context.Background(), 5, rec)
	require.NoError(t, err)
	assert.Equal(t, "06:30", updated.Sunrise)
}

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/sunrise-sunset/3", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL, newTestLogger()).Delete(context.Background(), 3))
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_APIError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal Server Error","message":"Database error"}` + "\n"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, newTestLogger()).List(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, `{"error":"Internal Server Error","message":"Database error"}`, apiErr.Body)

	// No retry
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_TransportError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := New(url, newTestLogger()).Delete(context.Background(), 1)
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestClient_PropagatesRequestID(t *testing.T) {
	t.Parallel()

	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(middleware.RequestIDHeader)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	// Run the call inside the middleware so the context carries an id
	var want string
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want = middleware.RequestIDFromContext(r.Context())
		_, err := New(srv.URL, newTestLogger()).List(r.Context())
		assert.NoError(t, err)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	require.NotEmpty(t, want)
	assert.Equal(t, want, got)
}

func TestClient_WithHTTPClient(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, newTestLogger(), WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
	_, err := c.List(context.Background())
	assert.Error(t, err)
}
