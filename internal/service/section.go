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

// ErrSectionTitleRequired indicates an empty section title after trimming.
var ErrSectionTitleRequired = errors.New("section title is required")

// ErrSectionNotFound indicates the section does not exist or is not
// owned by the caller.
var ErrSectionNotFound = errors.New("section not found")

// SectionService handles section CRUD with the optimistic list-cache
// contract: reads go through the cache, creates patch it and mark it
// stale, updates and deletes invalidate it.
type SectionService struct {
	repo  *repository.Repository
	cache *cache.Cache
}

// NewSectionService creates a new SectionService.
func NewSectionService(repo *repository.Repository, cacheClient *cache.Cache) *SectionService {
	return &SectionService{
		repo:  repo,
		cache: cacheClient,
	}
}

func (s *SectionService) validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ErrSectionTitleRequired
	}
	return title, nil
}

// List returns all sections owned by the user, newest first.
// Reads through the cache; a miss or stale entry refetches from the
// database and rewrites the cache.
func (s *SectionService) List(ctx context.Context, userID string) ([]*model.Section, error) {
	cached, err := s.cache.GetSections(ctx, userID)
	if err == nil {
		return cached, nil
	}

	sections, err := s.repo.ListSections(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Best effort; a failed cache write never fails the read.
	_ = s.cache.SetSections(ctx, userID, sections)

	return sections, nil
}

// Get returns one owned section, or ErrSectionNotFound.
func (s *SectionService) Get(ctx context.Context, userID, id string) (*model.Section, error) {
	section, err := s.repo.GetSection(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrSectionNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return section, nil
}

// Create validates and stores a new section, then optimistically
// patches it into the cached list.
func (s *SectionService) Create(ctx context.Context, userID, title string) (*model.Section, error) {
	title, err := s.validateTitle(title)
	if err != nil {
		return nil, err
	}

	section := &model.Section{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, err
	}

	_ = s.cache.PrependSection(ctx, userID, section)

	return section, nil
}

// Update changes a section's title, scoped by id AND owner id. A
// foreign or stale id matches zero rows and is reported as success;
// the caller cannot distinguish "not found" from "not owned" and must
// not try to.
func (s *SectionService) Update(ctx context.Context, userID, id, title string) error {
	title, err := s.validateTitle(title)
	if err != nil {
		return err
	}

	if _, err := s.repo.UpdateSectionTitle(ctx, id, userID, title); err != nil {
		return err
	}

	_ = s.cache.InvalidateSections(ctx, userID)

	return nil
}

// Delete removes a section scoped by id AND owner id. Child recipes go
// with it via the schema's cascade; both list caches are dropped.
func (s *SectionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.repo.DeleteSection(ctx, id, userID); err != nil {
		return err
	}

	_ = s.cache.InvalidateSections(ctx, userID)
	_ = s.cache.InvalidateRecipes(ctx, userID, id)

	return nil
}
