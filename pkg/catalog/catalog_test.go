// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalogValidates(t *testing.T) {
	require.NoError(t, Validate(SeedModules(), SeedRecipes()))
}

func TestValidate_UnknownModuleReference(t *testing.T) {
	modules := []Module{{ID: "water-dispenser", MaxLevel: 100, CurrentLevel: 100, ModuleType: TypeDispenser, OperationMode: ModeBatch}}
	recipes := []Recipe{{
		ID:          "ghost",
		Ingredients: []Ingredient{{ID: "x", ModuleID: "missing-module"}},
	}}
	err := Validate(modules, recipes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing-module")
}

func TestRequiredModules_UnionOfIngredientsAndSteps(t *testing.T) {
	r := Recipe{
		Ingredients: []Ingredient{
			{ModuleID: "hopper-dispenser", ProcessingSteps: []ProcessingStep{{ModuleID: "chopping-unit"}}},
			{ModuleID: "water-dispenser"},
			{ModuleID: "hopper-dispenser"}, // duplicate collapses
		},
	}
	assert.Equal(t, []string{"chopping-unit", "hopper-dispenser", "water-dispenser"}, r.RequiredModules())
}

func TestCustomization_Clamp(t *testing.T) {
	c := Customization{Salt: -10, Spice: 150, Water: 50, Oil: 0, Temperature: 100, Grinding: 101, Chopping: -1}
	c.Clamp()
	assert.Equal(t, Customization{Salt: 0, Spice: 100, Water: 50, Oil: 0, Temperature: 100, Grinding: 100, Chopping: 0}, c)
}

func TestCustomization_Validate(t *testing.T) {
	c := DefaultCustomization()
	assert.NoError(t, c.Validate())

	c.Spice = 130
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "spice")
}

func TestRecipeStore_Lookup(t *testing.T) {
	s := NewRecipeStore(SeedRecipes())

	r, err := s.Recipe("tomato-soup")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", r.Name)
	assert.Equal(t, 15, r.CookingTime)

	_, err = s.Recipe("pizza")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipeStore_IncrementTimesCooked(t *testing.T) {
	s := NewRecipeStore(SeedRecipes())
	before, err := s.Recipe("tomato-soup")
	require.NoError(t, err)

	var hooked []string
	s.OnChange(func(r Recipe) { hooked = append(hooked, r.ID) })

	require.NoError(t, s.IncrementTimesCooked("tomato-soup"))

	after, err := s.Recipe("tomato-soup")
	require.NoError(t, err)
	assert.Equal(t, before.TimesCooked+1, after.TimesCooked)
	assert.Equal(t, []string{"tomato-soup"}, hooked)

	assert.ErrorIs(t, s.IncrementTimesCooked("pizza"), ErrRecipeNotFound)
}

func TestRecipeStore_CopiesAreIsolated(t *testing.T) {
	s := NewRecipeStore(SeedRecipes())
	r, err := s.Recipe("tomato-soup")
	require.NoError(t, err)
	r.Name = "mutated"

	again, err := s.Recipe("tomato-soup")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", again.Name)
}

func TestRecipeStore_Search(t *testing.T) {
	s := NewRecipeStore(SeedRecipes())

	soups := s.Search("soup")
	assert.Len(t, soups, 2)

	lentils := s.Search("Lentil")
	assert.Len(t, lentils, 2)

	assert.Len(t, s.Search(""), 4)
	assert.Empty(t, s.Search("pizza"))
}
