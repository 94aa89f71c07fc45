// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package view implements the sunrise/sunset record manager page.

# Manager

A Manager holds one browser's state: the Collection of records mirrored
from the backend, the form Draft, the editing flag and a single error
message. It has two states, browsing and editing:

	m := view.NewManager(client.New(baseURL, logger), logger)
	m.Load(ctx)
	m.EditField("latitude", "53.9")
	m.Submit(ctx)  // POST, or PUT when the Draft has an id

Every successful mutation is followed by a full reload of the
Collection. A successful Load, Submit or Delete clears the error message.
Nothing is retried.

# Pages

Handler renders the page with html/template and accepts plain form posts:

	GET  /                   → Index
	POST /records            → Submit
	POST /records/{id}/edit  → Edit
	POST /records/{id}/delete → Delete
	POST /cancel             → Cancel

Posts answer 303 See Other back to the page.

# Sessions

Managers live in a bounded LRU keyed by a session id carried in an
HMAC-signed cookie (see package auth). A new session loads its Collection
on first use.
*/
package view
