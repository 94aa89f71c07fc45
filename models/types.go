// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"math"
)

// SunriseSunset is one sunrise/sunset record. ID is nil until the server
// assigns one. Coordinates are nil when the client sent null.
type SunriseSunset struct {
	ID        *int64   `json:"id"`
	Date      string   `json:"date"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Sunrise   string   `json:"sunrise"`
	Sunset    string   `json:"sunset"`
}

// MarshalJSON encodes NaN coordinates as null; encoding/json rejects NaN.
func (s SunriseSunset) MarshalJSON() ([]byte, error) {
	type plain SunriseSunset
	p := plain(s)
	p.Latitude = finite(p.Latitude)
	p.Longitude = finite(p.Longitude)
	return json.Marshal(p)
}

func finite(f *float64) *float64 {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return nil
	}
	return f
}

// Location is a named place linked to any number of sunrise/sunset records.
type Location struct {
	ID             *int64          `json:"id"`
	Name           string          `json:"name"`
	Country        string          `json:"country"`
	Latitude       *float64        `json:"latitude"`
	Longitude      *float64        `json:"longitude"`
	SunriseSunsets []SunriseSunset `json:"sunrise_sunsets"`
}

// Response types

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Helpers

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 {
	return &v
}
