package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/marigunko/my-recipe-book/internal/model"
	"github.com/marigunko/my-recipe-book/internal/service"
)

// SectionManager is the slice of SectionService the book page needs.
type SectionManager interface {
	List(ctx context.Context, userID string) ([]*model.Section, error)
	Get(ctx context.Context, userID, id string) (*model.Section, error)
	Create(ctx context.Context, userID, title string) (*model.Section, error)
	Update(ctx context.Context, userID, id, title string) error
	Delete(ctx context.Context, userID, id string) error
}

// BookHandler serves the sections page and its mutations.
type BookHandler struct {
	*Handler
	sections SectionManager
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(base *Handler, sections SectionManager) *BookHandler {
	return &BookHandler{
		Handler:  base,
		sections: sections,
	}
}

// bookPage is the template data for the sections page. EditingID holds
// the one section rendered as an edit form; it comes from the ?edit
// query parameter, so at most one row per list is ever in edit mode.
type bookPage struct {
	Sections []*model.Section

	EditingID        string
	EditTitle        string
	UpdateError      string
	UpdateFieldError string

	CreateTitle string
	CreateError string

	DeleteError string
}

func (h *BookHandler) loadPage(ctx context.Context, userID string) (bookPage, error) {
	sections, err := h.sections.List(ctx, userID)
	if err != nil {
		return bookPage{}, err
	}
	return bookPage{Sections: sections}, nil
}

// Show handles GET /book.
func (h *BookHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	page, err := h.loadPage(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("failed to list sections",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if editID := r.URL.Query().Get("edit"); editID != "" {
		for _, section := range page.Sections {
			if section.ID == editID {
				page.EditingID = editID
				page.EditTitle = section.Title
				break
			}
		}
	}

	h.render(w, http.StatusOK, "book", page)
}

// CreateSection handles POST /book/sections. A validation failure
// re-renders the page with a field-scoped message and issues no
// database call; remote failures surface verbatim near the form.
func (h *BookHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	title := r.PostFormValue("title")

	if _, err := h.sections.Create(r.Context(), user.ID, title); err != nil {
		page, loadErr := h.loadPage(r.Context(), user.ID)
		if loadErr != nil {
			http.Error(w, loadErr.Error(), http.StatusInternalServerError)
			return
		}
		page.CreateTitle = title
		page.CreateError = err.Error()

		status := http.StatusUnprocessableEntity
		if !errors.Is(err, service.ErrSectionTitleRequired) {
			status = http.StatusBadGateway
		}
		h.render(w, status, "book", page)
		return
	}

	h.logger.Info("section_created", "user_id", user.ID)
	http.Redirect(w, r, "/book", http.StatusSeeOther)
}

// UpdateSection handles POST /book/sections/{id}. The mutation is
// scoped by id AND owner id; a foreign or stale id affects zero rows
// and resolves as a successful no-op. Validation failure keeps the row
// in edit mode with an inline message.
func (h *BookHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	id := chi.URLParam(r, "id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	title := r.PostFormValue("title")

	if err := h.sections.Update(r.Context(), user.ID, id, title); err != nil {
		page, loadErr := h.loadPage(r.Context(), user.ID)
		if loadErr != nil {
			http.Error(w, loadErr.Error(), http.StatusInternalServerError)
			return
		}
		page.EditingID = id
		page.EditTitle = title

		status := http.StatusBadGateway
		if errors.Is(err, service.ErrSectionTitleRequired) {
			status = http.StatusUnprocessableEntity
			page.UpdateFieldError = err.Error()
		} else {
			page.UpdateError = err.Error()
		}
		h.render(w, status, "book", page)
		return
	}

	h.logger.Info("section_updated", "user_id", user.ID, "section_id", id)
	http.Redirect(w, r, "/book", http.StatusSeeOther)
}

// ConfirmDeleteSection handles GET /book/sections/{id}/delete. Deletion
// always goes through this confirmation page; declining is simply
// navigating away, which issues no mutation.
func (h *BookHandler) ConfirmDeleteSection(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	id := chi.URLParam(r, "id")

	section, err := h.sections.Get(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			h.NotFound(w, r)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.render(w, http.StatusOK, "confirm_delete", confirmPage{
		Kind:   "section",
		Title:  section.Title,
		Action: "/book/sections/" + section.ID + "/delete",
		Cancel: "/book",
	})
}

// DeleteSection handles POST /book/sections/{id}/delete.
func (h *BookHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.sections.Delete(r.Context(), user.ID, id); err != nil {
		page, loadErr := h.loadPage(r.Context(), user.ID)
		if loadErr != nil {
			http.Error(w, loadErr.Error(), http.StatusInternalServerError)
			return
		}
		page.DeleteError = err.Error()
		h.render(w, http.StatusBadGateway, "book", page)
		return
	}

	h.logger.Info("section_deleted", "user_id", user.ID, "section_id", id)
	http.Redirect(w, r, "/book", http.StatusSeeOther)
}

// confirmPage is the template data for the delete confirmation page.
type confirmPage struct {
	Kind   string
	Title  string
	Action string
	Cancel string
}
