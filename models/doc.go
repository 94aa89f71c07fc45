// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain and response types shared by the API,
the client and the view.

# Domain Types

  - SunriseSunset: id, date, latitude, longitude, sunrise, sunset
  - Location: id, name, country, latitude, longitude, sunrise_sunsets

IDs are *int64 so that a record which has not been saved yet encodes as
"id": null. Coordinates are *float64; NaN and ±Inf encode as null.

# Response Types

  - ErrorResponse: error, message

# JSON Format

All types use snake_case JSON keys:

	{
	  "id": 1,
	  "date": "2025-03-03",
	  "latitude": 53.9,
	  "longitude": 27.6,
	  "sunrise": "06:41",
	  "sunset": "18:04"
	}
*/
package models
