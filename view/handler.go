// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package view

import (
	"embed"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(
	template.New("index.html").
		Funcs(template.FuncMap{"coord": formatCoordinate, "recordID": formatID}).
		ParseFS(templateFS, "templates/index.html"),
)

// formatCoordinate renders nil and NaN as empty text.
func formatCoordinate(f *float64) string {
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

// Handler serves the record manager page and its form posts. Every post
// redirects back to the page.
type Handler struct {
	sessions *Sessions
	log      *slog.Logger
}

func NewHandler(sessions *Sessions, logger *slog.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		log:      logger.With("component", "view"),
	}
}

// manager returns the session's Manager, loading the Collection the
// first time a session is seen.
func (h *Handler) manager(w http.ResponseWriter, r *http.Request) *Manager {
	m, created := h.sessions.Get(w, r)
	if created {
		m.Load(r.Context())
	}
	return m
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	state := h.manager(w, r).State()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, state); err != nil {
		h.log.Error("failed to render page", "error", err)
	}
}

// Submit handles POST /records
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	m := h.manager(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	// The form carries the id being edited, so an update survives a lost
	// session instead of turning into a create
	if v := strings.TrimSpace(r.PostForm.Get(FieldID)); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, "invalid record id", http.StatusBadRequest)
			return
		}
		m.SetDraftID(id)
	}
	for _, name := range fieldNames {
		if _, ok := r.PostForm[name]; ok {
			m.EditField(name, r.PostForm.Get(name))
		}
	}
	m.Submit(r.Context())

	h.redirect(w, r)
}

// Edit handles POST /records/{id}/edit
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	if !h.manager(w, r).Select(id) {
		h.log.Warn("edit of unknown record", "id", id)
	}
	h.redirect(w, r)
}

// Delete handles POST /records/{id}/delete
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid record id", http.StatusBadRequest)
		return
	}

	h.manager(w, r).Delete(r.Context(), id)
	h.redirect(w, r)
}

// Cancel handles POST /cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.manager(w, r).Cancel()
	h.redirect(w, r)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
