// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"fmt"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/danielhkuo/sunrise-sunset/models"
)

const allLocationsKey = "all_locations"

// Locations caches location query results. Any write to locations or
// sunrise/sunset records must call Purge, since cached locations embed
// their linked records.
//
// A reader that misses should take Generation before querying and store
// with PutIfCurrent, so rows read before a concurrent write are not
// cached after that write's Purge.
type Locations struct {
	entries *lru.Cache[string, []models.Location]

	mu  sync.Mutex
	gen uint64
}

func NewLocations(size int) (*Locations, error) {
	entries, err := lru.New[string, []models.Location](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create location cache: %w", err)
	}
	return &Locations{entries: entries}, nil
}

// AllKey is the key for the full location list.
func AllKey() string {
	return allLocationsKey
}

// LocationKey is the key for a single location.
func LocationKey(id int64) string {
	return fmt.Sprintf("location_%d", id)
}

// DateKey is the key for locations linked to records on date.
func DateKey(date string) string {
	return "locations_date_" + date
}

func (c *Locations) Get(key string) ([]models.Location, bool) {
	v, ok := c.entries.Get(key)
	if ok {
		slog.Debug("location cache hit", "key", key)
	}
	return v, ok
}

func (c *Locations) Put(key string, locations []models.Location) {
	c.entries.Add(key, locations)
}

// Generation identifies the cache contents since the last Purge.
func (c *Locations) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// PutIfCurrent stores locations only if no Purge happened since gen was
// read. It reports whether the entry was stored.
func (c *Locations) PutIfCurrent(key string, locations []models.Location, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		slog.Debug("location cache write skipped after purge", "key", key)
		return false
	}
	c.entries.Add(key, locations)
	return true
}

// Purge drops every cached entry.
func (c *Locations) Purge() {
	c.mu.Lock()
	c.gen++
	c.entries.Purge()
	c.mu.Unlock()
	slog.Debug("location cache purged")
}

func (c *Locations) Len() int {
	return c.entries.Len()
}
