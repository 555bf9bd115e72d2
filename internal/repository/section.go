package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/marigunko/my-recipe-book/internal/model"
)

// ErrSectionNotFound indicates the section does not exist or is not
// owned by the requesting user. The two cases are indistinguishable on
// purpose: every query filters by owner id as well as primary key.
var ErrSectionNotFound = errors.New("section not found")

// CreateSection inserts a new section for its owner.
func (r *Repository) CreateSection(ctx context.Context, section *model.Section) error {
	query := `
		INSERT INTO sections (id, user_id, title, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query,
		section.ID,
		section.UserID,
		section.Title,
		section.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create section: %w", err)
	}

	return nil
}

// GetSection retrieves one section scoped by id AND owner id.
func (r *Repository) GetSection(ctx context.Context, id, userID string) (*model.Section, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM sections
		WHERE id = $1 AND user_id = $2
	`

	var section model.Section
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&section.ID,
		&section.UserID,
		&section.Title,
		&section.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to get section: %w", err)
	}

	return &section, nil
}

// ListSections retrieves all sections owned by a user, newest first.
func (r *Repository) ListSections(ctx context.Context, userID string) ([]*model.Section, error) {
	query := `
		SELECT id, user_id, title, created_at
		FROM sections
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", err)
	}
	defer rows.Close()

	var sections []*model.Section
	for rows.Next() {
		var section model.Section
		if err := rows.Scan(
			&section.ID,
			&section.UserID,
			&section.Title,
			&section.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		sections = append(sections, &section)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sections: %w", err)
	}

	return sections, nil
}

// UpdateSectionTitle updates a section's title scoped by id AND owner id.
// A foreign or stale id matches zero rows; that is reported as affected=0,
// never as an error (the caller treats it as a successful no-op).
func (r *Repository) UpdateSectionTitle(ctx context.Context, id, userID, title string) (int64, error) {
	query := `
		UPDATE sections
		SET title = $3
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID, title)
	if err != nil {
		return 0, fmt.Errorf("failed to update section: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteSection removes a section scoped by id AND owner id.
// Child recipes are removed by the schema's ON DELETE CASCADE, not here.
func (r *Repository) DeleteSection(ctx context.Context, id, userID string) (int64, error) {
	query := `
		DELETE FROM sections
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete section: %w", err)
	}

	return tag.RowsAffected(), nil
}
