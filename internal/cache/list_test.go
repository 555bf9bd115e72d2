package cache

import (
	"testing"
)

func TestSectionListKey(t *testing.T) {
	t.Parallel()

	key := SectionListKey("user-1")
	if key != "sections:user-1" {
		t.Errorf("SectionListKey = %q, want %q", key, "sections:user-1")
	}
}

func TestRecipeListKey(t *testing.T) {
	t.Parallel()

	key := RecipeListKey("user-1", "sec-9")
	if key != "recipes:user-1:sec-9" {
		t.Errorf("RecipeListKey = %q, want %q", key, "recipes:user-1:sec-9")
	}
}

func TestListKeys_DistinctPerScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"different owners", SectionListKey("user-1"), SectionListKey("user-2")},
		{"different sections", RecipeListKey("u", "s1"), RecipeListKey("u", "s2")},
		{"sections vs recipes", SectionListKey("u"), RecipeListKey("u", "s")},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if tt.a == tt.b {
				t.Errorf("keys should differ, both are %q", tt.a)
			}
		})
	}
}
