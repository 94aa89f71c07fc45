// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package view

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/danielhkuo/sunrise-sunset/client"
	"github.com/danielhkuo/sunrise-sunset/models"
)

// Error messages shown in the banner, one per operation kind.
const (
	MsgLoadFailed   = "Failed to load sunrise/sunset records"
	MsgSaveFailed   = "Failed to save record"
	MsgDeleteFailed = "Failed to delete record"
)

// Form field names accepted by EditField.
const (
	FieldID        = "id"
	FieldDate      = "date"
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldSunrise   = "sunrise"
	FieldSunset    = "sunset"
)

var fieldNames = []string{FieldDate, FieldLatitude, FieldLongitude, FieldSunrise, FieldSunset}

// RecordClient is the record collection endpoint. *client.Client
// implements it.
type RecordClient interface {
	List(ctx context.Context) ([]models.SunriseSunset, error)
	Create(ctx context.Context, rec models.SunriseSunset) (models.SunriseSunset, error)
	Update(ctx context.Context, id int64, rec models.SunriseSunset) (models.SunriseSunset, error)
	Delete(ctx context.Context, id int64) error
}

// State is a snapshot of a Manager for rendering.
type State struct {
	Records []models.SunriseSunset
	Draft   models.SunriseSunset
	Editing bool
	Error   string
}

// Manager keeps one browser's Collection in sync with the backend and
// owns the form Draft. The lock guards state only and is never held
// across a request, so overlapping operations all run and whichever
// response lands last wins.
type Manager struct {
	client RecordClient
	log    *slog.Logger

	mu      sync.Mutex
	records []models.SunriseSunset
	draft   models.SunriseSunset
	editing bool
	err     string
}

func NewManager(rc RecordClient, logger *slog.Logger) *Manager {
	return &Manager{
		client:  rc,
		log:     logger.With("component", "view"),
		records: []models.SunriseSunset{},
	}
}

// Load replaces the Collection with the server's list. On failure the
// Collection is left as it was.
func (m *Manager) Load(ctx context.Context) {
	records, err := m.client.List(ctx)
	if err != nil {
		m.log.ErrorContext(ctx, "failed to load records", slog.String("error", detail(err)))
		m.setError(MsgLoadFailed)
		return
	}

	m.mu.Lock()
	m.records = records
	m.err = ""
	m.mu.Unlock()
}

// EditField sets one Draft field from form text. Coordinates that do not
// parse become NaN. Unknown names are ignored.
func (m *Manager) EditField(name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch name {
	case FieldDate:
		m.draft.Date = value
	case FieldLatitude:
		m.draft.Latitude = parseCoordinate(value)
	case FieldLongitude:
		m.draft.Longitude = parseCoordinate(value)
	case FieldSunrise:
		m.draft.Sunrise = value
	case FieldSunset:
		m.draft.Sunset = value
	}
}

func parseCoordinate(value string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		f = math.NaN()
	}
	return &f
}

// Submit creates the Draft, or updates it when it carries an id. On
// success the Collection is reloaded and the form reset; on failure the
// Draft is kept so the user can retry.
func (m *Manager) Submit(ctx context.Context) {
	m.mu.Lock()
	draft := m.draft
	m.mu.Unlock()

	var err error
	if draft.ID != nil {
		_, err = m.client.Update(ctx, *draft.ID, draft)
	} else {
		_, err = m.client.Create(ctx, draft)
	}
	if err != nil {
		m.log.ErrorContext(ctx, "failed to save record", slog.String("error", detail(err)))
		m.setError(MsgSaveFailed)
		return
	}

	m.setError("")
	m.Load(ctx)
	m.Cancel()
}

// SetDraftID marks the Draft as an edit of the record with the given id.
// EditField never sets the id.
func (m *Manager) SetDraftID(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.draft.ID = &id
	m.editing = true
}

// Edit copies rec into the Draft and enters editing.
func (m *Manager) Edit(rec models.SunriseSunset) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.draft = rec
	m.editing = true
}

// Select edits the Collection record with the given id. It reports
// false when no such record is loaded.
func (m *Manager) Select(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rec := range m.records {
		if rec.ID != nil && *rec.ID == id {
			m.draft = rec
			m.editing = true
			return true
		}
	}
	return false
}

// Delete removes a record without confirmation and reloads.
func (m *Manager) Delete(ctx context.Context, id int64) {
	if err := m.client.Delete(ctx, id); err != nil {
		m.log.ErrorContext(ctx, "failed to delete record", slog.Int64("id", id), slog.String("error", detail(err)))
		m.setError(MsgDeleteFailed)
		return
	}

	m.setError("")
	m.Load(ctx)
}

// Cancel resets the Draft and leaves editing. No request is made.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.draft = models.SunriseSunset{}
	m.editing = false
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]models.SunriseSunset, len(m.records))
	copy(records, m.records)
	return State{
		Records: records,
		Draft:   m.draft,
		Editing: m.editing,
		Error:   m.err,
	}
}

func (m *Manager) setError(msg string) {
	m.mu.Lock()
	m.err = msg
	m.mu.Unlock()
}

// detail prefers the server's error body over the transport message.
func detail(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Body != "" {
		return apiErr.Body
	}
	return err.Error()
}
