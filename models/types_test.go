// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSunriseSunsetMarshal_NaNBecomesNull(t *testing.T) {
	rec := SunriseSunset{
		Date:      "2025-03-03",
		Latitude:  Float64(math.NaN()),
		Longitude: Float64(27.6),
		Sunrise:   "06:41",
		Sunset:    "18:04",
	}

	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	expected := `{"id":null,"date":"2025-03-03","latitude":null,"longitude":27.6,"sunrise":"06:41","sunset":"18:04"}`
	if string(data) != expected {
		t.Errorf("expected %s, got %s", expected, data)
	}

	// The original value must not be modified
	if rec.Latitude == nil || !math.IsNaN(*rec.Latitude) {
		t.Error("marshal should not modify the record")
	}
}

func TestSunriseSunsetMarshal_InSlice(t *testing.T) {
	recs := []SunriseSunset{
		{ID: Int64(1), Latitude: Float64(math.Inf(1))},
		{ID: Int64(2), Latitude: Float64(-100)},
	}

	data, err := json.Marshal(recs)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded []SunriseSunset
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded[0].Latitude != nil {
		t.Errorf("expected null latitude for +Inf, got %v", *decoded[0].Latitude)
	}
	// Out-of-range values are not validated
	if decoded[1].Latitude == nil || *decoded[1].Latitude != -100 {
		t.Errorf("expected latitude -100 to pass through, got %v", decoded[1].Latitude)
	}
}
