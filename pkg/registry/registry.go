// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

// Package registry owns the authoritative in-memory state of every
// hardware module: levels, thresholds, and derived status. All level
// mutation goes through ApplyDelta/Refill; hardware alerts go through
// ApplyStatusAlert. Observers receive copies, never live references.
package registry

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/emberworks/cocotte/pkg/catalog"
	"github.com/emberworks/cocotte/pkg/cookwire"
)

// ErrModuleNotFound is reported for deltas or refills targeting an
// unknown module id. Batch operations skip the entry and continue.
var ErrModuleNotFound = errors.New("module not found")

// Alert describes a module in warning or critical state, as delivered
// to alert subscribers.
type Alert struct {
	ModuleID     string               `json:"moduleId"`
	ModuleName   string               `json:"moduleName"`
	Status       catalog.ModuleStatus `json:"status"`
	CurrentLevel int                  `json:"currentLevel"`
	Threshold    int                  `json:"threshold"`
	MaxLevel     int                  `json:"maxLevel"`
	Unit         string               `json:"unit"`
	Timestamp    time.Time            `json:"timestamp"`
}

// Registry is the module state owner.
type Registry struct {
	mu    sync.RWMutex
	mods  map[string]*catalog.Module
	order []string

	moduleSubs map[int]func([]catalog.Module)
	alertSubs  map[int]func([]Alert)
	nextSub    int
	onChange   func([]catalog.Module)
}

// New builds a registry from the given modules. Status is recomputed
// from levels at construction so a stale seed cannot lie.
func New(modules []catalog.Module) *Registry {
	r := &Registry{
		mods:       make(map[string]*catalog.Module, len(modules)),
		moduleSubs: make(map[int]func([]catalog.Module)),
		alertSubs:  make(map[int]func([]Alert)),
	}
	for i := range modules {
		m := modules[i]
		m.Status = deriveStatus(m.CurrentLevel, m.Threshold)
		r.mods[m.ID] = &m
		r.order = append(r.order, m.ID)
	}
	return r
}

// deriveStatus is the level→status rule: critical iff empty, warning
// iff at or below threshold, else normal.
func deriveStatus(level, threshold int) catalog.ModuleStatus {
	switch {
	case level == 0:
		return catalog.StatusCritical
	case level <= threshold:
		return catalog.StatusWarning
	default:
		return catalog.StatusNormal
	}
}

// OnChange registers a hook invoked with copies of mutated modules.
// Used to schedule mirror writes.
func (r *Registry) OnChange(fn func([]catalog.Module)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Modules returns copies of all modules in catalog order.
func (r *Registry) Modules() []catalog.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]catalog.Module, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.mods[id])
	}
	return out
}

// Module returns a copy of one module.
func (r *Registry) Module(id string) (catalog.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mods[id]
	if !ok {
		return catalog.Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, id)
	}
	return *m, nil
}

// ApplyDelta adds change to a module's level, clamped to [0, max], and
// recomputes status. Returns the updated copy.
func (r *Registry) ApplyDelta(id string, change int) (catalog.Module, error) {
	r.mu.Lock()
	m, ok := r.mods[id]
	if !ok {
		r.mu.Unlock()
		return catalog.Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, id)
	}
	applyDeltaLocked(m, change)
	updated := *m
	r.mu.Unlock()

	r.notify([]catalog.Module{updated})
	return updated, nil
}

// ApplyDeltas applies a batch of wire deltas. Unknown module ids are
// skipped; the batch never fails as a whole. Returns the updated copies.
func (r *Registry) ApplyDeltas(deltas []cookwire.LevelDelta) []catalog.Module {
	r.mu.Lock()
	var updated []catalog.Module
	for _, d := range deltas {
		m, ok := r.mods[d.ModuleID]
		if !ok {
			continue
		}
		applyDeltaLocked(m, d.Change)
		updated = append(updated, *m)
	}
	r.mu.Unlock()

	r.notify(updated)
	return updated
}

func applyDeltaLocked(m *catalog.Module, change int) {
	level := m.CurrentLevel + change
	if level < 0 {
		level = 0
	} else if level > m.MaxLevel {
		level = m.MaxLevel
	}
	m.CurrentLevel = level
	m.Status = deriveStatus(level, m.Threshold)
}

// ApplyStatusAlerts applies hardware-reported alert overrides. An alert
// forces critical regardless of level (a fault is not depletion); an
// all-clear restores normal. Modules whose status does not change are
// not re-notified.
func (r *Registry) ApplyStatusAlerts(updates []cookwire.StatusUpdate) []catalog.Module {
	r.mu.Lock()
	var updated []catalog.Module
	for _, u := range updates {
		m, ok := r.mods[u.ModuleID]
		if !ok {
			continue
		}
		status := catalog.StatusNormal
		if u.Alert {
			status = catalog.StatusCritical
		}
		if m.Status == status {
			continue
		}
		m.Status = status
		updated = append(updated, *m)
	}
	r.mu.Unlock()

	r.notify(updated)
	return updated
}

// Refill restores a module to capacity.
func (r *Registry) Refill(id string) (catalog.Module, error) {
	r.mu.Lock()
	m, ok := r.mods[id]
	if !ok {
		r.mu.Unlock()
		return catalog.Module{}, fmt.Errorf("%w: %s", ErrModuleNotFound, id)
	}
	m.CurrentLevel = m.MaxLevel
	m.Status = deriveStatus(m.CurrentLevel, m.Threshold)
	updated := *m
	r.mu.Unlock()

	r.notify([]catalog.Module{updated})
	return updated, nil
}

// RefillAll restores every module to capacity. The mutation happens
// under one lock acquisition and observers get a single batched
// notification, so no observer sees a partially refilled set.
func (r *Registry) RefillAll() []catalog.Module {
	r.mu.Lock()
	updated := make([]catalog.Module, 0, len(r.order))
	for _, id := range r.order {
		m := r.mods[id]
		m.CurrentLevel = m.MaxLevel
		m.Status = deriveStatus(m.CurrentLevel, m.Threshold)
		updated = append(updated, *m)
	}
	r.mu.Unlock()

	r.notify(updated)
	return updated
}

// CheckAvailability returns the subset of the given module ids that are
// critical or unknown, i.e. the ones that block a cooking start.
func (r *Registry) CheckAvailability(ids []string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var unavailable []string
	for _, id := range ids {
		m, ok := r.mods[id]
		if !ok || m.Status == catalog.StatusCritical {
			unavailable = append(unavailable, id)
		}
	}
	return unavailable
}

// AlertModules returns copies of modules in warning or critical state.
func (r *Registry) AlertModules() []catalog.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []catalog.Module
	for _, id := range r.order {
		m := r.mods[id]
		if m.Status != catalog.StatusNormal {
			out = append(out, *m)
		}
	}
	return out
}

// SubscribeModules registers a listener for module updates. The
// returned func unsubscribes and is safe to call during notification.
func (r *Registry) SubscribeModules(fn func([]catalog.Module)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.moduleSubs[id] = fn
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.moduleSubs, id)
		r.mu.Unlock()
	}
}

// SubscribeAlerts registers a listener invoked whenever mutated modules
// are in warning or critical state.
func (r *Registry) SubscribeAlerts(fn func([]Alert)) func() {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.alertSubs[id] = fn
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		delete(r.alertSubs, id)
		r.mu.Unlock()
	}
}

// notify delivers updated module copies to subscribers. The listener
// set is snapshotted before iterating so callbacks may unsubscribe.
func (r *Registry) notify(updated []catalog.Module) {
	if len(updated) == 0 {
		return
	}

	r.mu.RLock()
	moduleSubs := make([]func([]catalog.Module), 0, len(r.moduleSubs))
	for _, fn := range r.moduleSubs {
		moduleSubs = append(moduleSubs, fn)
	}
	alertSubs := make([]func([]Alert), 0, len(r.alertSubs))
	for _, fn := range r.alertSubs {
		alertSubs = append(alertSubs, fn)
	}
	hook := r.onChange
	r.mu.RUnlock()

	for _, fn := range moduleSubs {
		fn(updated)
	}
	if hook != nil {
		hook(updated)
	}

	if len(alertSubs) > 0 {
		now := time.Now()
		var alerts []Alert
		for _, m := range updated {
			if m.Status == catalog.StatusNormal {
				continue
			}
			alerts = append(alerts, Alert{
				ModuleID:     m.ID,
				ModuleName:   m.Name,
				Status:       m.Status,
				CurrentLevel: m.CurrentLevel,
				Threshold:    m.Threshold,
				MaxLevel:     m.MaxLevel,
				Unit:         m.Unit,
				Timestamp:    now,
			})
		}
		if len(alerts) > 0 {
			for _, fn := range alertSubs {
				fn(alerts)
			}
		}
	}
}
