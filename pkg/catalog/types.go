// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

// Package catalog holds the appliance data model: hardware modules,
// recipes, and user customization knobs, plus the seed catalog the
// system boots from. JSON field names match the front-end contract.
package catalog

import (
	"fmt"
	"sort"
)

// ModuleStatus is derived from a module's level versus its threshold,
// or forced by a hardware alert.
type ModuleStatus string

const (
	StatusNormal   ModuleStatus = "normal"
	StatusWarning  ModuleStatus = "warning"
	StatusCritical ModuleStatus = "critical"
)

// ModuleType identifies the physical subsystem class.
type ModuleType string

const (
	TypeDispenser ModuleType = "dispenser"
	TypeProcessor ModuleType = "processor"
	TypeHeater    ModuleType = "heater"
	TypeCleaner   ModuleType = "cleaner"
)

// Valid reports whether t is a known module type.
func (t ModuleType) Valid() bool {
	switch t {
	case TypeDispenser, TypeProcessor, TypeHeater, TypeCleaner:
		return true
	}
	return false
}

// OperationMode describes how a module runs.
type OperationMode string

const (
	ModeContinuous OperationMode = "continuous"
	ModeBatch      OperationMode = "batch"
	ModeTimed      OperationMode = "timed"
)

// Valid reports whether m is a known operation mode.
func (m OperationMode) Valid() bool {
	switch m {
	case ModeContinuous, ModeBatch, ModeTimed:
		return true
	}
	return false
}

// Module is one consumable or processing subsystem of the cooker.
// Levels are mutated only by the registry.
type Module struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	CurrentLevel  int           `json:"currentLevel"`
	MaxLevel      int           `json:"maxLevel"`
	Threshold     int           `json:"threshold"`
	Unit          string        `json:"unit"`
	Status        ModuleStatus  `json:"status"`
	ModuleType    ModuleType    `json:"moduleType"`
	OperationMode OperationMode `json:"operationMode"`
}

// ProcessingStep is a processing operation an ingredient undergoes.
type ProcessingStep struct {
	ModuleID    string `json:"moduleId"`
	Operation   string `json:"operation"`
	Duration    int    `json:"duration,omitempty"`    // seconds
	Speed       int    `json:"speed,omitempty"`       // percent
	Temperature int    `json:"temperature,omitempty"` // celsius
}

// Ingredient is one dispensed component of a recipe.
type Ingredient struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Quantity        int              `json:"quantity"`
	Unit            string           `json:"unit"`
	ModuleID        string           `json:"moduleId"`
	ProcessingSteps []ProcessingStep `json:"processingSteps,omitempty"`
}

// Recipe is a named sequence of dispense and processing steps.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	CookingTime int          `json:"cookingTime"` // minutes
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []string     `json:"steps"`
	Rating      float64      `json:"rating"`
	TimesCooked int          `json:"timesCooked"`
}

// RequiredModules returns the sorted union of every module id referenced
// by the recipe's ingredients and their processing steps.
func (r Recipe) RequiredModules() []string {
	seen := make(map[string]struct{})
	for _, ing := range r.Ingredients {
		seen[ing.ModuleID] = struct{}{}
		for _, step := range ing.ProcessingSteps {
			seen[step.ModuleID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Customization holds the user's percentage knobs, each in [0,100].
type Customization struct {
	Salt        int `json:"salt"`
	Spice       int `json:"spice"`
	Water       int `json:"water"`
	Oil         int `json:"oil"`
	Temperature int `json:"temperature"`
	Grinding    int `json:"grinding"`
	Chopping    int `json:"chopping"`
}

// DefaultCustomization returns every knob at its midpoint.
func DefaultCustomization() Customization {
	return Customization{Salt: 50, Spice: 50, Water: 50, Oil: 50, Temperature: 50, Grinding: 50, Chopping: 50}
}

// Clamp forces every knob into [0,100].
func (c *Customization) Clamp() {
	for _, p := range []*int{&c.Salt, &c.Spice, &c.Water, &c.Oil, &c.Temperature, &c.Grinding, &c.Chopping} {
		if *p < 0 {
			*p = 0
		} else if *p > 100 {
			*p = 100
		}
	}
}

// Validate returns an error naming the first knob outside [0,100].
func (c Customization) Validate() error {
	knobs := []struct {
		name  string
		value int
	}{
		{"salt", c.Salt}, {"spice", c.Spice}, {"water", c.Water}, {"oil", c.Oil},
		{"temperature", c.Temperature}, {"grinding", c.Grinding}, {"chopping", c.Chopping},
	}
	for _, k := range knobs {
		if k.value < 0 || k.value > 100 {
			return fmt.Errorf("customization %s=%d outside [0,100]", k.name, k.value)
		}
	}
	return nil
}

// Validate checks catalog integrity: module enums are valid, levels are
// sane, and every module id referenced by a recipe exists.
func Validate(modules []Module, recipes []Recipe) error {
	known := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		if m.ID == "" {
			return fmt.Errorf("module with empty id")
		}
		if !m.ModuleType.Valid() {
			return fmt.Errorf("module %s: unknown type %q", m.ID, m.ModuleType)
		}
		if !m.OperationMode.Valid() {
			return fmt.Errorf("module %s: unknown operation mode %q", m.ID, m.OperationMode)
		}
		if m.MaxLevel <= 0 || m.CurrentLevel < 0 || m.CurrentLevel > m.MaxLevel {
			return fmt.Errorf("module %s: level %d outside [0,%d]", m.ID, m.CurrentLevel, m.MaxLevel)
		}
		known[m.ID] = struct{}{}
	}
	for _, r := range recipes {
		for _, id := range r.RequiredModules() {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("recipe %s: references unknown module %q", r.ID, id)
			}
		}
	}
	return nil
}
