package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/marigunko/my-recipe-book/internal/cache"
	"github.com/marigunko/my-recipe-book/internal/model"
	"github.com/marigunko/my-recipe-book/internal/repository"
)

// Field-scoped validation errors for recipe forms.
var (
	ErrRecipeTitleRequired  = errors.New("recipe title is required")
	ErrIngredientsRequired  = errors.New("ingredients are required")
	ErrInstructionsRequired = errors.New("instructions are required")
)

// RecipeInput carries the user-editable fields of a recipe.
type RecipeInput struct {
	Title        string
	Ingredients  string
	Instructions string
}

func (in RecipeInput) trimmed() RecipeInput {
	return RecipeInput{
		Title:        strings.TrimSpace(in.Title),
		Ingredients:  strings.TrimSpace(in.Ingredients),
		Instructions: strings.TrimSpace(in.Instructions),
	}
}

func (in RecipeInput) validate() error {
	if in.Title == "" {
		return ErrRecipeTitleRequired
	}
	if in.Ingredients == "" {
		return ErrIngredientsRequired
	}
	if in.Instructions == "" {
		return ErrInstructionsRequired
	}
	return nil
}

// RecipeService handles recipe CRUD within one owned section, with the
// same cache contract as sections.
type RecipeService struct {
	repo  *repository.Repository
	cache *cache.Cache
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(repo *repository.Repository, cacheClient *cache.Cache) *RecipeService {
	return &RecipeService{
		repo:  repo,
		cache: cacheClient,
	}
}

// List returns all recipes in one owned section, newest first, reading
// through the cache.
func (s *RecipeService) List(ctx context.Context, userID, sectionID string) ([]*model.Recipe, error) {
	cached, err := s.cache.GetRecipes(ctx, userID, sectionID)
	if err == nil {
		return cached, nil
	}

	recipes, err := s.repo.ListRecipes(ctx, userID, sectionID)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetRecipes(ctx, userID, sectionID, recipes)

	return recipes, nil
}

// Create validates and stores a new recipe in an owned section. The
// section is fetched first, scoped by owner, so a recipe can never be
// created inside someone else's section.
func (s *RecipeService) Create(ctx context.Context, userID, sectionID string, in RecipeInput) (*model.Recipe, error) {
	in = in.trimmed()
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetSection(ctx, sectionID, userID); err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}

	recipe := &model.Recipe{
		ID:           ulid.Make().String(),
		UserID:       userID,
		SectionID:    sectionID,
		Title:        in.Title,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}

	_ = s.cache.PrependRecipe(ctx, userID, sectionID, recipe)

	return recipe, nil
}

// Update replaces a recipe's full field set, scoped by id AND owner id
// AND section id. Zero rows affected is a successful no-op.
func (s *RecipeService) Update(ctx context.Context, userID, sectionID, id string, in RecipeInput) error {
	in = in.trimmed()
	if err := in.validate(); err != nil {
		return err
	}

	recipe := &model.Recipe{
		ID:           id,
		UserID:       userID,
		SectionID:    sectionID,
		Title:        in.Title,
		Ingredients:  in.Ingredients,
		Instructions: in.Instructions,
	}

	if _, err := s.repo.UpdateRecipe(ctx, recipe); err != nil {
		return err
	}

	_ = s.cache.InvalidateRecipes(ctx, userID, sectionID)

	return nil
}

// Delete removes a recipe scoped by id AND owner id AND section id.
func (s *RecipeService) Delete(ctx context.Context, userID, sectionID, id string) error {
	if _, err := s.repo.DeleteRecipe(ctx, id, userID, sectionID); err != nil {
		return err
	}

	_ = s.cache.InvalidateRecipes(ctx, userID, sectionID)

	return nil
}
