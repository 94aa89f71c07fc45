// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/sunrise-sunset/middleware"
	"github.com/danielhkuo/sunrise-sunset/models"
)

// RecordsPath is the collection endpoint relative to the base URL.
const RecordsPath = "/api/sunrise-sunset"

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the sunrise/sunset record collection.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client, which has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the service at baseURL, e.g. http://localhost:8080.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(baseURL, "/") + RecordsPath,
		httpClient: &http.Client{},
		log:        logger.With("component", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]models.SunriseSunset, error) {
	var records []models.SunriseSunset
	if err := c.do(ctx, http.MethodGet, c.endpoint, nil, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.SunriseSunset{}
	}
	return records, nil
}

// Create posts a new record and returns it with its assigned id.
func (c *Client) Create(ctx context.Context, rec models.SunriseSunset) (models.SunriseSunset, error) {
	var created models.SunriseSunset
	err := c.do(ctx, http.MethodPost, c.endpoint, rec, &created)
	return created, err
}

// Update replaces the record with the given id.
func (c *Client) Update(ctx context.Context, id int64, rec models.SunriseSunset) (models.SunriseSunset, error) {
	var updated models.SunriseSunset
	err := c.do(ctx, http.MethodPut, c.recordURL(id), rec, &updated)
	return updated, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.recordURL(id), nil, nil)
}

func (c *Client) recordURL(id int64) string {
	return c.endpoint + "/" + strconv.FormatInt(id, 10)
}

// do sends body as JSON when non-nil and decodes the response into out
// when out is non-nil.
func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	c.log.DebugContext(ctx, "request", slog.String("method", method), slog.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode json: %w", err)
	}
	return nil
}
