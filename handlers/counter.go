// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"sync/atomic"

	"github.com/danielhkuo/sunrise-sunset/middleware"
)

// Counter counts record and location operations since startup.
type Counter struct {
	n atomic.Int64
}

func (c *Counter) Increment() {
	c.n.Add(1)
}

func (c *Counter) Count() int64 {
	return c.n.Load()
}

func (c *Counter) Reset() {
	c.n.Store(0)
}

type CounterHandler struct {
	counter *Counter
}

func NewCounterHandler(counter *Counter) *CounterHandler {
	return &CounterHandler{counter: counter}
}

// GetCount handles GET /api/counter
// Reading the counter does not count as an operation
func (h *CounterHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.counter.Count())
}
