package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marigunko/my-recipe-book/internal/model"
)

// List cache keys and TTLs.
//
// Lists are cached per owner (and per section for recipes) as JSON
// arrays. Mutations either patch the cached array optimistically and
// mark it stale, or invalidate it outright; the next read reconciles
// against PostgreSQL in a single coalesced refresh.
const (
	sectionListPrefix = "sections:"
	recipeListPrefix  = "recipes:"
	staleKeySuffix    = ":stale"

	// ListTTL is the TTL for cached entity lists.
	ListTTL = 5 * time.Minute
)

// ErrCacheMiss indicates the requested list is not cached (or was
// marked stale and must be refetched).
var ErrCacheMiss = errors.New("cache miss")

// SectionListKey builds the cache key for one owner's section list.
func SectionListKey(userID string) string {
	return sectionListPrefix + userID
}

// RecipeListKey builds the cache key for one owned section's recipes.
func RecipeListKey(userID, sectionID string) string {
	return recipeListPrefix + userID + ":" + sectionID
}

// GetSections returns the cached section list for an owner.
// A stale-marked entry reads as a miss so the caller refetches.
func (c *Cache) GetSections(ctx context.Context, userID string) ([]*model.Section, error) {
	var sections []*model.Section
	if err := c.getList(ctx, SectionListKey(userID), &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// SetSections caches an owner's section list.
func (c *Cache) SetSections(ctx context.Context, userID string, sections []*model.Section) error {
	return c.setList(ctx, SectionListKey(userID), sections)
}

// PrependSection optimistically patches a newly created section into
// the front of the cached list, then marks the entry stale so the next
// read reconciles against the database.
func (c *Cache) PrependSection(ctx context.Context, userID string, section *model.Section) error {
	key := SectionListKey(userID)

	var sections []*model.Section
	err := c.getListIgnoringStale(ctx, key, &sections)
	if err == nil {
		patched := append([]*model.Section{section}, sections...)
		if err := c.setList(ctx, key, patched); err != nil {
			return err
		}
	}

	return c.markStale(ctx, key)
}

// InvalidateSections drops an owner's cached section list.
func (c *Cache) InvalidateSections(ctx context.Context, userID string) error {
	return c.invalidate(ctx, SectionListKey(userID))
}

// GetRecipes returns the cached recipe list for one owned section.
func (c *Cache) GetRecipes(ctx context.Context, userID, sectionID string) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	if err := c.getList(ctx, RecipeListKey(userID, sectionID), &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// SetRecipes caches one owned section's recipe list.
func (c *Cache) SetRecipes(ctx context.Context, userID, sectionID string, recipes []*model.Recipe) error {
	return c.setList(ctx, RecipeListKey(userID, sectionID), recipes)
}

// PrependRecipe optimistically patches a newly created recipe into the
// cached list and marks the entry stale.
func (c *Cache) PrependRecipe(ctx context.Context, userID, sectionID string, recipe *model.Recipe) error {
	key := RecipeListKey(userID, sectionID)

	var recipes []*model.Recipe
	err := c.getListIgnoringStale(ctx, key, &recipes)
	if err == nil {
		patched := append([]*model.Recipe{recipe}, recipes...)
		if err := c.setList(ctx, key, patched); err != nil {
			return err
		}
	}

	return c.markStale(ctx, key)
}

// InvalidateRecipes drops the cached recipe list for one owned section.
func (c *Cache) InvalidateRecipes(ctx context.Context, userID, sectionID string) error {
	return c.invalidate(ctx, RecipeListKey(userID, sectionID))
}

func (c *Cache) getList(ctx context.Context, key string, out any) error {
	stale, err := c.client.Exists(ctx, key+staleKeySuffix).Result()
	if err == nil && stale > 0 {
		// Stale entry: force a refetch and clear the marker so the
		// follow-up refresh is coalesced into a single read.
		c.client.Del(ctx, key+staleKeySuffix)
		return ErrCacheMiss
	}

	return c.getListIgnoringStale(ctx, key, out)
}

func (c *Cache) getListIgnoringStale(ctx context.Context, key string, out any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return ErrCacheMiss
	}

	if err := json.Unmarshal(data, out); err != nil {
		// Corrupted entry - treat as miss
		c.client.Del(ctx, key)
		return ErrCacheMiss
	}

	return nil
}

func (c *Cache) setList(ctx context.Context, key string, list any) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal list: %w", err)
	}

	return c.client.Set(ctx, key, data, ListTTL).Err()
}

func (c *Cache) markStale(ctx context.Context, key string) error {
	return c.client.Set(ctx, key+staleKeySuffix, "", ListTTL).Err()
}

func (c *Cache) invalidate(ctx context.Context, key string) error {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, key)
	pipe.Del(ctx, key+staleKeySuffix)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to invalidate list cache: %w", err)
	}

	return nil
}
