package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marigunko/my-recipe-book/internal/model"
)

// ErrRecipeNotFound indicates the recipe does not exist within the
// caller's section, or is not owned by the caller.
var ErrRecipeNotFound = errors.New("recipe not found")

// CreateRecipe inserts a new recipe into its owner's section.
func (r *Repository) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	query := `
		INSERT INTO recipes (id, user_id, section_id, title, ingredients, instructions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.UserID,
		recipe.SectionID,
		recipe.Title,
		recipe.Ingredients,
		recipe.Instructions,
		recipe.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}

	return nil
}

// GetRecipe retrieves one recipe scoped by id AND owner id AND section id.
func (r *Repository) GetRecipe(ctx context.Context, id, userID, sectionID string) (*model.Recipe, error) {
	query := `
		SELECT id, user_id, section_id, title, ingredients, instructions, created_at
		FROM recipes
		WHERE id = $1 AND user_id = $2 AND section_id = $3
	`

	var recipe model.Recipe
	err := r.pool.QueryRow(ctx, query, id, userID, sectionID).Scan(
		&recipe.ID,
		&recipe.UserID,
		&recipe.SectionID,
		&recipe.Title,
		&recipe.Ingredients,
		&recipe.Instructions,
		&recipe.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	return &recipe, nil
}

// ListRecipes retrieves all recipes in one owned section, newest first.
func (r *Repository) ListRecipes(ctx context.Context, userID, sectionID string) ([]*model.Recipe, error) {
	query := `
		SELECT id, user_id, section_id, title, ingredients, instructions, created_at
		FROM recipes
		WHERE user_id = $1 AND section_id = $2
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID, sectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		var recipe model.Recipe
		if err := rows.Scan(
			&recipe.ID,
			&recipe.UserID,
			&recipe.SectionID,
			&recipe.Title,
			&recipe.Ingredients,
			&recipe.Instructions,
			&recipe.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, &recipe)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	return recipes, nil
}

// UpdateRecipe replaces a recipe's full field set, scoped by id AND
// owner id AND section id so stale or tampered ids cannot cross
// ownership or section boundaries. Zero rows affected is a no-op.
func (r *Repository) UpdateRecipe(ctx context.Context, recipe *model.Recipe) (int64, error) {
	query := `
		UPDATE recipes
		SET title = $4, ingredients = $5, instructions = $6
		WHERE id = $1 AND user_id = $2 AND section_id = $3
	`

	tag, err := r.pool.Exec(ctx, query,
		recipe.ID,
		recipe.UserID,
		recipe.SectionID,
		recipe.Title,
		recipe.Ingredients,
		recipe.Instructions,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update recipe: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteRecipe removes a recipe scoped by id AND owner id AND section id.
func (r *Repository) DeleteRecipe(ctx context.Context, id, userID, sectionID string) (int64, error) {
	query := `
		DELETE FROM recipes
		WHERE id = $1 AND user_id = $2 AND section_id = $3
	`

	tag, err := r.pool.Exec(ctx, query, id, userID, sectionID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete recipe: %w", err)
	}

	return tag.RowsAffected(), nil
}
