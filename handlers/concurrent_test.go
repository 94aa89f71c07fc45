// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/sunrise-sunset/models"
	"github.com/danielhkuo/sunrise-sunset/testutil"
)

// TestConcurrentRecordCreates verifies that simultaneous creates each get
// a distinct id and none are lost
func TestConcurrentRecordCreates(t *testing.T) {
	handler, db, counter := newRecordHandler(t)

	numWriters := 10
	var successCount atomic.Int32
	ids := make([]int64, numWriters)
	var wg sync.WaitGroup

	for i := 0; i < numWriters; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			rec := testutil.SampleRecord(fmt.Sprintf("2025-04-%02d", idx+1))
			w := httptest.NewRecorder()
			handler.Create(w, testutil.MakeRequest("POST", "/api/sunrise-sunset", rec, nil))

			if w.Code != http.StatusOK {
				return
			}
			var created models.SunriseSunset
			if err := jsonDecode(w, &created); err != nil || created.ID == nil {
				return
			}
			ids[idx] = *created.ID
			successCount.Add(1)
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numWriters {
		t.Fatalf("Expected %d successful creates, got %d", numWriters, successCount.Load())
	}

	seen := make(map[int64]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("Duplicate id %d", id)
		}
		seen[id] = true
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sunrise_sunset").Scan(&count); err != nil {
		t.Fatalf("Failed to count records: %v", err)
	}
	if count != numWriters {
		t.Errorf("Expected %d records in database, got %d", numWriters, count)
	}

	if counter.Count() != int64(numWriters) {
		t.Errorf("Expected counter %d, got %d", numWriters, counter.Count())
	}
}

// TestConcurrentReadsAndWrites mixes location reads with record writes;
// every write purges the cache so no read may panic or fail
func TestConcurrentReadsAndWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	locations := newTestCache(t)
	counter := &Counter{}

	records := NewSunriseSunsetHandler(db, cfg, locations, counter)
	locs := NewLocationHandler(db, cfg, locations, counter)

	recID := testutil.CreateTestRecord(t, db, "2025-04-04", 53.9, 27.6, "06:41", "18:04")
	testutil.CreateTestLocation(t, db, "Minsk", "Belarus", recID)

	var failures atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w := httptest.NewRecorder()
			if idx%2 == 0 {
				locs.List(w, testutil.MakeRequest("GET", "/api/location", nil, nil))
			} else {
				rec := testutil.SampleRecord("2025-04-04")
				rec.Sunrise = "06:" + strconv.Itoa(10+idx)
				req := testutil.MakeRequest("PUT", "/api/sunrise-sunset/"+strconv.FormatInt(recID, 10), rec, nil)
				req.SetPathValue("id", strconv.FormatInt(recID, 10))
				records.Update(w, req)
			}

			if w.Code != http.StatusOK {
				failures.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if failures.Load() != 0 {
		t.Errorf("Expected no failed requests, got %d", failures.Load())
	}
	if counter.Count() != 20 {
		t.Errorf("Expected counter 20, got %d", counter.Count())
	}
}
