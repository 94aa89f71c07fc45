// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session ids and cookie signing for the record view.

# Sessions

Each browser gets a random UUID session id:

	id := auth.NewSessionID()

The id travels in a cookie signed with HMAC-SHA256, so a client cannot
pick another browser's session by guessing ids:

	value := auth.SignSession(id, secret)
	id, err := auth.VerifySession(value, secret)

The signature is URL-safe base64 without padding. VerifySession returns
ErrInvalidSession for any malformed or tampered value.

# Secrets

When no session secret is configured a random one is generated at
startup:

	secret, err := auth.GenerateSecret(32)  // 64 hex characters

Sessions then do not survive a restart.
*/
package auth
