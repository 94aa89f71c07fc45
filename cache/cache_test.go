// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/sunrise-sunset/models"
)

func TestLocations_PutGetPurge(t *testing.T) {
	c, err := NewLocations(8)
	require.NoError(t, err)

	loc := models.Location{ID: models.Int64(1), Name: "Minsk", Country: "BY"}
	c.Put(AllKey(), []models.Location{loc})
	c.Put(LocationKey(1), []models.Location{loc})

	got, ok := c.Get(AllKey())
	require.True(t, ok)
	assert.Equal(t, []models.Location{loc}, got)

	_, ok = c.Get(DateKey("2025-04-04"))
	assert.False(t, ok)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get(LocationKey(1))
	assert.False(t, ok)
}

func TestLocations_Evicts(t *testing.T) {
	c, err := NewLocations(2)
	require.NoError(t, err)

	c.Put(LocationKey(1), nil)
	c.Put(LocationKey(2), nil)
	c.Put(LocationKey(3), nil)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(LocationKey(1))
	assert.False(t, ok, "oldest entry should be evicted")
}

func TestNewLocations_InvalidSize(t *testing.T) {
	_, err := NewLocations(0)
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "all_locations", AllKey())
	assert.Equal(t, "location_42", LocationKey(42))
	assert.Equal(t, "locations_date_2025-04-04", DateKey("2025-04-04"))
}

func TestLocations_PutIfCurrent(t *testing.T) {
	c, err := NewLocations(8)
	require.NoError(t, err)

	stale := []models.Location{{ID: models.Int64(1), Name: "Old", Country: "BY"}}

	// A read started before a write must not repopulate the cache after
	// that write purged it
	gen := c.Generation()
	c.Purge()
	assert.False(t, c.PutIfCurrent(AllKey(), stale, gen))
	_, ok := c.Get(AllKey())
	assert.False(t, ok)

	gen = c.Generation()
	assert.True(t, c.PutIfCurrent(AllKey(), stale, gen))
	got, ok := c.Get(AllKey())
	require.True(t, ok)
	assert.Equal(t, stale, got)
}

func TestLocations_GenerationAdvancesOnPurge(t *testing.T) {
	c, err := NewLocations(8)
	require.NoError(t, err)

	first := c.Generation()
	c.Purge()
	c.Purge()
	assert.Equal(t, first+2, c.Generation())
}
