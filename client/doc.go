// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package client is a typed HTTP client for the sunrise/sunset record
// collection endpoint. It never retries and sets no timeout unless an
// http.Client is supplied with WithHTTPClient.
package client
