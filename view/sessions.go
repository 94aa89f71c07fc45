// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package view

import (
	"fmt"
	"log/slog"
	"net/http"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/danielhkuo/sunrise-sunset/auth"
)

const SessionCookie = "sunrise_session"

// Sessions maps signed session cookies to Managers. The least recently
// used session is dropped once the store is full.
type Sessions struct {
	managers   *lru.Cache[string, *Manager]
	secret     string
	newManager func() *Manager
	log        *slog.Logger
}

func NewSessions(size int, secret string, newManager func() *Manager, logger *slog.Logger) (*Sessions, error) {
	managers, err := lru.New[string, *Manager](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}
	return &Sessions{
		managers:   managers,
		secret:     secret,
		newManager: newManager,
		log:        logger.With("component", "sessions"),
	}, nil
}

// Get returns the Manager for the request's session, creating one and
// setting the cookie when the request has none. created reports whether
// the Manager is new and still needs its first Load.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) (m *Manager, created bool) {
	sessionID := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if id, err := auth.VerifySession(c.Value, s.secret); err == nil {
			sessionID = id
		} else {
			s.log.Debug("rejected session cookie", "error", err)
		}
	}

	if sessionID != "" {
		if m, ok := s.managers.Get(sessionID); ok {
			return m, false
		}
	} else {
		sessionID = auth.NewSessionID()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    auth.SignSession(sessionID, s.secret),
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	// Two first requests for one session may race here; keep whichever
	// Manager got in first.
	m = s.newManager()
	if prev, ok, _ := s.managers.PeekOrAdd(sessionID, m); ok {
		return prev, false
	}
	s.log.Debug("session started", "session", sessionID, "sessions", s.managers.Len())
	return m, true
}

func (s *Sessions) Len() int {
	return s.managers.Len()
}
