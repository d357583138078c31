// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// ErrRecipeNotFound is returned for lookups of unknown recipe ids.
var ErrRecipeNotFound = errors.New("recipe not found")

// RecipeStore is the in-memory recipe catalog. Recipes are read-mostly;
// the only mutation is the times-cooked counter on completion. All
// accessors return copies.
type RecipeStore struct {
	mu       sync.RWMutex
	recipes  map[string]*Recipe
	order    []string
	onChange func(Recipe)
}

// NewRecipeStore builds a store from the given recipes, preserving
// their order for listing.
func NewRecipeStore(recipes []Recipe) *RecipeStore {
	s := &RecipeStore{recipes: make(map[string]*Recipe, len(recipes))}
	for i := range recipes {
		r := recipes[i]
		s.recipes[r.ID] = &r
		s.order = append(s.order, r.ID)
	}
	return s
}

// OnChange registers a hook invoked with a copy of each recipe that
// mutates. Used to schedule mirror writes.
func (s *RecipeStore) OnChange(fn func(Recipe)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Recipe returns a copy of the recipe with the given id.
func (s *RecipeStore) Recipe(id string) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recipes[id]
	if !ok {
		return Recipe{}, ErrRecipeNotFound
	}
	return *r, nil
}

// Recipes returns copies of all recipes in catalog order.
func (s *RecipeStore) Recipes() []Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Recipe, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.recipes[id])
	}
	return out
}

// Search returns recipes whose name, description, or category contains
// the query, case-insensitively. An empty query matches everything.
func (s *RecipeStore) Search(query string) []Recipe {
	q := strings.ToLower(strings.TrimSpace(query))
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Recipe
	for _, id := range s.order {
		r := s.recipes[id]
		if q == "" ||
			strings.Contains(strings.ToLower(r.Name), q) ||
			strings.Contains(strings.ToLower(r.Description), q) ||
			strings.Contains(strings.ToLower(r.Category), q) {
			out = append(out, *r)
		}
	}
	return out
}

// Categories returns the distinct recipe categories, sorted.
func (s *RecipeStore) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, r := range s.recipes {
		seen[r.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// IncrementTimesCooked bumps the counter for a completed recipe and
// fires the change hook.
func (s *RecipeStore) IncrementTimesCooked(id string) error {
	s.mu.Lock()
	r, ok := s.recipes[id]
	if !ok {
		s.mu.Unlock()
		return ErrRecipeNotFound
	}
	r.TimesCooked++
	updated := *r
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(updated)
	}
	return nil
}
