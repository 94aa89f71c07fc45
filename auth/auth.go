// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidSession = errors.New("invalid session cookie")

// GenerateSecret creates a random hex secret of the specified byte length
func GenerateSecret(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewSessionID returns a fresh random session id
func NewSessionID() string {
	return uuid.NewString()
}

// SignSession returns the cookie value for a session id: the id and its
// HMAC-SHA256 joined by a dot
func SignSession(sessionID, secret string) string {
	return sessionID + "." + sign(sessionID, secret)
}

// VerifySession checks a cookie value produced by SignSession and
// returns the session id it carries
func VerifySession(value, secret string) (string, error) {
	sessionID, sig, ok := strings.Cut(value, ".")
	if !ok || sessionID == "" || sig == "" {
		return "", ErrInvalidSession
	}
	if _, err := uuid.Parse(sessionID); err != nil {
		return "", ErrInvalidSession
	}

	expected := sign(sessionID, secret)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", ErrInvalidSession
	}
	return sessionID, nil
}

func sign(sessionID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(sessionID))
	// URL-safe base64 without padding keeps the cookie value unquoted
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}
