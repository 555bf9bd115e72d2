// Package handler provides HTTP request handlers for the server-rendered
// pages and the health endpoints.
package handler

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/marigunko/my-recipe-book/internal/auth"
	"github.com/marigunko/my-recipe-book/internal/model"
)

// Handler wraps shared page-rendering dependencies.
type Handler struct {
	templates *template.Template
	logger    *slog.Logger
}

// New creates a new Handler.
func New(templates *template.Template, logger *slog.Logger) *Handler {
	return &Handler{
		templates: templates,
		logger:    logger,
	}
}

// render executes a named page template. Template failures log and
// return a plain 500; the status must be written before the body.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template render failed",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}

// requireUser is the session guard: it returns the authenticated user
// from the request context, or redirects to the login page and returns
// nil. Every protected page handler calls it even though the access
// gate has already run; no protected body renders without it.
func (h *Handler) requireUser(w http.ResponseWriter, r *http.Request) *model.User {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return nil
	}
	return user
}

// Root redirects to the landing page; the access gate then decides
// between the book and the login form.
//
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/book", http.StatusSeeOther)
}

// NotFound renders the not-found page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusNotFound, "not_found", nil)
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// writeJSON writes a JSON response with the given status code.
// Used by the health endpoints.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		_ = err
	}
}
