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

// RecipeManager is the slice of RecipeService the section page needs.
type RecipeManager interface {
	List(ctx context.Context, userID, sectionID string) ([]*model.Recipe, error)
	Create(ctx context.Context, userID, sectionID string, in service.RecipeInput) (*model.Recipe, error)
	Update(ctx context.Context, userID, sectionID, id string, in service.RecipeInput) error
	Delete(ctx context.Context, userID, sectionID, id string) error
}

// SectionPageHandler serves one section's recipe list, the new-recipe
// form, and recipe mutations.
type SectionPageHandler struct {
	*Handler
	sections SectionManager
	recipes  RecipeManager
}

// NewSectionPageHandler creates a new SectionPageHandler.
func NewSectionPageHandler(base *Handler, sections SectionManager, recipes RecipeManager) *SectionPageHandler {
	return &SectionPageHandler{
		Handler:  base,
		sections: sections,
		recipes:  recipes,
	}
}

// sectionPage is the template data for one section's recipe list.
type sectionPage struct {
	Section *model.Section
	Recipes []*model.Recipe

	EditingID  string
	EditValues service.RecipeInput

	TitleError        string
	IngredientsError  string
	InstructionsError string
	UpdateError       string
	DeleteError       string
}

// newRecipePage is the template data for the recipe creation form.
type newRecipePage struct {
	Section *model.Section
	Values  service.RecipeInput

	TitleError        string
	IngredientsError  string
	InstructionsError string
	FormError         string
}

// loadSection resolves the section for the authenticated owner. A
// nonexistent or foreign-owned id renders the not-found page (deep
// links to other users' sections are indistinguishable from missing
// ones).
func (h *SectionPageHandler) loadSection(w http.ResponseWriter, r *http.Request, userID string) *model.Section {
	id := chi.URLParam(r, "id")

	section, err := h.sections.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			h.NotFound(w, r)
			return nil
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil
	}

	return section
}

func (h *SectionPageHandler) loadPage(ctx context.Context, userID string, section *model.Section) (sectionPage, error) {
	recipes, err := h.recipes.List(ctx, userID, section.ID)
	if err != nil {
		return sectionPage{}, err
	}
	return sectionPage{Section: section, Recipes: recipes}, nil
}

// Show handles GET /section/{id}.
func (h *SectionPageHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	section := h.loadSection(w, r, user.ID)
	if section == nil {
		return
	}

	page, err := h.loadPage(r.Context(), user.ID, section)
	if err != nil {
		h.logger.Error("failed to list recipes",
			slog.String("user_id", user.ID),
			slog.String("section_id", section.ID),
			slog.String("error", err.Error()),
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if editID := r.URL.Query().Get("edit"); editID != "" {
		for _, recipe := range page.Recipes {
			if recipe.ID == editID {
				page.EditingID = editID
				page.EditValues = service.RecipeInput{
					Title:        recipe.Title,
					Ingredients:  recipe.Ingredients,
					Instructions: recipe.Instructions,
				}
				break
			}
		}
	}

	h.render(w, http.StatusOK, "section", page)
}

// NewRecipeForm handles GET /section/{id}/new-recipe.
func (h *SectionPageHandler) NewRecipeForm(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	section := h.loadSection(w, r, user.ID)
	if section == nil {
		return
	}

	h.render(w, http.StatusOK, "new_recipe", newRecipePage{Section: section})
}

func recipeInputFromForm(r *http.Request) service.RecipeInput {
	return service.RecipeInput{
		Title:        r.PostFormValue("title"),
		Ingredients:  r.PostFormValue("ingredients"),
		Instructions: r.PostFormValue("instructions"),
	}
}

// setFieldError assigns a validation error to its field slot; anything
// else is a remote failure surfaced verbatim via the fallback slot.
func setFieldError(err error, titleSlot, ingredientsSlot, instructionsSlot, fallbackSlot *string) (validation bool) {
	switch {
	case errors.Is(err, service.ErrRecipeTitleRequired):
		*titleSlot = err.Error()
		return true
	case errors.Is(err, service.ErrIngredientsRequired):
		*ingredientsSlot = err.Error()
		return true
	case errors.Is(err, service.ErrInstructionsRequired):
		*instructionsSlot = err.Error()
		return true
	default:
		*fallbackSlot = err.Error()
		return false
	}
}

// CreateRecipe handles POST /section/{id}/new-recipe.
func (h *SectionPageHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	section := h.loadSection(w, r, user.ID)
	if section == nil {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	input := recipeInputFromForm(r)

	if _, err := h.recipes.Create(r.Context(), user.ID, section.ID, input); err != nil {
		if errors.Is(err, service.ErrSectionNotFound) {
			h.NotFound(w, r)
			return
		}

		page := newRecipePage{Section: section, Values: input}
		status := http.StatusBadGateway
		if setFieldError(err, &page.TitleError, &page.IngredientsError, &page.InstructionsError, &page.FormError) {
			status = http.StatusUnprocessableEntity
		}
		h.render(w, status, "new_recipe", page)
		return
	}

	h.logger.Info("recipe_created", "user_id", user.ID, "section_id", section.ID)
	http.Redirect(w, r, "/section/"+section.ID, http.StatusSeeOther)
}

// UpdateRecipe handles POST /section/{id}/recipes/{recipeID}. Scoped by
// id AND owner id AND section id; zero rows affected is a successful
// no-op. Validation failure keeps the row in edit mode.
func (h *SectionPageHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	section := h.loadSection(w, r, user.ID)
	if section == nil {
		return
	}

	recipeID := chi.URLParam(r, "recipeID")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}

	input := recipeInputFromForm(r)

	if err := h.recipes.Update(r.Context(), user.ID, section.ID, recipeID, input); err != nil {
		page, loadErr := h.loadPage(r.Context(), user.ID, section)
		if loadErr != nil {
			http.Error(w, loadErr.Error(), http.StatusInternalServerError)
			return
		}
		page.EditingID = recipeID
		page.EditValues = input

		status := http.StatusBadGateway
		if setFieldError(err, &page.TitleError, &page.IngredientsError, &page.InstructionsError, &page.UpdateError) {
			status = http.StatusUnprocessableEntity
		}
		h.render(w, status, "section", page)
		return
	}

	h.logger.Info("recipe_updated",
		"user_id", user.ID,
		"section_id", section.ID,
		"recipe_id", recipeID,
	)
	http.Redirect(w, r, "/section/"+section.ID, http.StatusSeeOther)
}

// ConfirmDeleteRecipe handles GET /section/{id}/recipes/{recipeID}/delete.
func (h *SectionPageHandler) ConfirmDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	section := h.loadSection(w, r, user.ID)
	if section == nil {
		return
	}

	recipeID := chi.URLParam(r, "recipeID")

	recipes, err := h.recipes.List(r.Context(), user.ID, section.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var title string
	for _, recipe := range recipes {
		if recipe.ID == recipeID {
			title = recipe.Title
			break
		}
	}
	if title == "" {
		h.NotFound(w, r)
		return
	}

	h.render(w, http.StatusOK, "confirm_delete", confirmPage{
		Kind:   "recipe",
		Title:  title,
		Action: "/section/" + section.ID + "/recipes/" + recipeID + "/delete",
		Cancel: "/section/" + section.ID,
	})
}

// DeleteRecipe handles POST /section/{id}/recipes/{recipeID}/delete.
func (h *SectionPageHandler) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	user := h.requireUser(w, r)
	if user == nil {
		return
	}

	section := h.loadSection(w, r, user.ID)
	if section == nil {
		return
	}

	recipeID := chi.URLParam(r, "recipeID")

	if err := h.recipes.Delete(r.Context(), user.ID, section.ID, recipeID); err != nil {
		page, loadErr := h.loadPage(r.Context(), user.ID, section)
		if loadErr != nil {
			http.Error(w, loadErr.Error(), http.StatusInternalServerError)
			return
		}
		page.DeleteError = err.Error()
		h.render(w, http.StatusBadGateway, "section", page)
		return
	}

	h.logger.Info("recipe_deleted",
		"user_id", user.ID,
		"section_id", section.ID,
		"recipe_id", recipeID,
	)
	http.Redirect(w, r, "/section/"+section.ID, http.StatusSeeOther)
}
