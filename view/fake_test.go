// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package view

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/danielhkuo/sunrise-sunset/client"
	"github.com/danielhkuo/sunrise-sunset/models"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var errTransport = errors.New("connection refused")

// fakeClient is an in-memory record collection.
type fakeClient struct {
	mu      sync.Mutex
	records []models.SunriseSunset
	nextID  int64
	calls   []string

	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func newFakeClient(records ...models.SunriseSunset) *fakeClient {
	f := &fakeClient{nextID: 1}
	for _, rec := range records {
		rec.ID = models.Int64(f.nextID)
		f.nextID++
		f.records = append(f.records, rec)
	}
	return f
}

func (f *fakeClient) List(ctx context.Context) ([]models.SunriseSunset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")

	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.SunriseSunset, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeClient) Create(ctx context.Context, rec models.SunriseSunset) (models.SunriseSunset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")

	if f.createErr != nil {
		return models.SunriseSunset{}, f.createErr
	}
	rec.ID = models.Int64(f.nextID)
	f.nextID++
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeClient) Update(ctx context.Context, id int64, rec models.SunriseSunset) (models.SunriseSunset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update")

	if f.updateErr != nil {
		return models.SunriseSunset{}, f.updateErr
	}
	for i := range f.records {
		if *f.records[i].ID == id {
			rec.ID = models.Int64(id)
			f.records[i] = rec
			return rec, nil
		}
	}
	return models.SunriseSunset{}, &client.APIError{StatusCode: 404, Body: `{"message":"Record not found"}`}
}

func (f *fakeClient) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")

	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.records {
		if *f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeClient) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeClient) setRecords(records ...models.SunriseSunset) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = records
}

func sampleRecord(date string) models.SunriseSunset {
	return models.SunriseSunset{
		Date:      date,
		Latitude:  models.Float64(53.9),
		Longitude: models.Float64(27.6),
		Sunrise:   "06:41",
		Sunset:    "18:04",
	}
}
