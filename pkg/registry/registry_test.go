// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emberworks/cocotte/pkg/catalog"
	"github.com/emberworks/cocotte/pkg/cookwire"
)

func waterOnly() *Registry {
	return New([]catalog.Module{{
		ID: "water-dispenser", Name: "Water Dispenser",
		CurrentLevel: 2000, MaxLevel: 2000, Threshold: 500, Unit: "ml",
		ModuleType: catalog.TypeDispenser, OperationMode: catalog.ModeContinuous,
	}})
}

// The level/status walk from the protocol example: full → warning →
// critical → refilled.
func TestWaterDispenserLifecycle(t *testing.T) {
	r := waterOnly()

	m, err := r.ApplyDelta("water-dispenser", -1600)
	require.NoError(t, err)
	assert.Equal(t, 400, m.CurrentLevel)
	assert.Equal(t, catalog.StatusWarning, m.Status)

	m, err = r.ApplyDelta("water-dispenser", -400)
	require.NoError(t, err)
	assert.Equal(t, 0, m.CurrentLevel)
	assert.Equal(t, catalog.StatusCritical, m.Status)

	m, err = r.Refill("water-dispenser")
	require.NoError(t, err)
	assert.Equal(t, 2000, m.CurrentLevel)
	assert.Equal(t, catalog.StatusNormal, m.Status)
}

// Level stays in [0, max] and status stays a pure function of the level
// for any delta sequence.
func TestApplyDelta_ClampInvariant(t *testing.T) {
	r := waterOnly()
	deltas := []int{-3000, 500, 10000, -1999, -1, 499, 2, -5000, 2000}

	for _, d := range deltas {
		m, err := r.ApplyDelta("water-dispenser", d)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, m.CurrentLevel, 0)
		assert.LessOrEqual(t, m.CurrentLevel, m.MaxLevel)

		want := catalog.StatusNormal
		if m.CurrentLevel == 0 {
			want = catalog.StatusCritical
		} else if m.CurrentLevel <= m.Threshold {
			want = catalog.StatusWarning
		}
		assert.Equal(t, want, m.Status, "level=%d after delta %d", m.CurrentLevel, d)
	}
}

func TestApplyDelta_UnknownModule(t *testing.T) {
	r := waterOnly()
	_, err := r.ApplyDelta("ghost", -10)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestApplyDeltas_SkipsUnknownInBatch(t *testing.T) {
	r := waterOnly()
	updated := r.ApplyDeltas([]cookwire.LevelDelta{
		{ModuleID: "ghost", Change: -10},
		{ModuleID: "water-dispenser", Change: -300},
	})
	require.Len(t, updated, 1)
	assert.Equal(t, 1700, updated[0].CurrentLevel)
}

func TestRefill_Idempotent(t *testing.T) {
	r := waterOnly()
	_, err := r.ApplyDelta("water-dispenser", -2000)
	require.NoError(t, err)

	first, err := r.Refill("water-dispenser")
	require.NoError(t, err)
	second, err := r.Refill("water-dispenser")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2000, second.CurrentLevel)
	assert.Equal(t, catalog.StatusNormal, second.Status)
}

// Observers must never see a partially refilled set: RefillAll emits
// exactly one notification carrying every module.
func TestRefillAll_SingleBatchedNotification(t *testing.T) {
	r := New(catalog.SeedModules())
	r.ApplyDeltas([]cookwire.LevelDelta{
		{ModuleID: "water-dispenser", Change: -2000},
		{ModuleID: "oil-dispenser", Change: -290},
	})

	var batches [][]catalog.Module
	r.SubscribeModules(func(ms []catalog.Module) { batches = append(batches, ms) })

	r.RefillAll()

	require.Len(t, batches, 1)
	assert.Len(t, batches[0], len(catalog.SeedModules()))
	for _, m := range batches[0] {
		assert.Equal(t, m.MaxLevel, m.CurrentLevel, "module %s", m.ID)
		assert.Equal(t, catalog.StatusNormal, m.Status, "module %s", m.ID)
	}
}

// A hardware alert forces critical even when the level is fine; the
// all-clear restores normal.
func TestApplyStatusAlerts_Override(t *testing.T) {
	r := waterOnly()

	updated := r.ApplyStatusAlerts([]cookwire.StatusUpdate{{ModuleID: "water-dispenser", Alert: true}})
	require.Len(t, updated, 1)
	assert.Equal(t, catalog.StatusCritical, updated[0].Status)
	assert.Equal(t, 2000, updated[0].CurrentLevel)

	// Unchanged status is not re-notified.
	again := r.ApplyStatusAlerts([]cookwire.StatusUpdate{{ModuleID: "water-dispenser", Alert: true}})
	assert.Empty(t, again)

	cleared := r.ApplyStatusAlerts([]cookwire.StatusUpdate{{ModuleID: "water-dispenser", Alert: false}})
	require.Len(t, cleared, 1)
	assert.Equal(t, catalog.StatusNormal, cleared[0].Status)
}

func TestCheckAvailability(t *testing.T) {
	r := New(catalog.SeedModules())
	_, err := r.ApplyDelta("water-dispenser", -2000)
	require.NoError(t, err)

	unavailable := r.CheckAvailability([]string{"water-dispenser", "oil-dispenser", "no-such-module"})
	assert.Equal(t, []string{"water-dispenser", "no-such-module"}, unavailable)

	assert.Empty(t, r.CheckAvailability([]string{"oil-dispenser"}))
}

func TestAlerts_DeliveredForWarningAndCritical(t *testing.T) {
	r := waterOnly()

	var got []Alert
	unsub := r.SubscribeAlerts(func(as []Alert) { got = append(got, as...) })

	_, err := r.ApplyDelta("water-dispenser", -1600) // warning
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, catalog.StatusWarning, got[0].Status)
	assert.Equal(t, 400, got[0].CurrentLevel)

	unsub()
	_, err = r.ApplyDelta("water-dispenser", -400)
	require.NoError(t, err)
	assert.Len(t, got, 1, "unsubscribed listener must not fire")
}

func TestSubscriber_GetsCopies(t *testing.T) {
	r := waterOnly()
	r.SubscribeModules(func(ms []catalog.Module) {
		ms[0].CurrentLevel = -999 // must not corrupt registry state
	})
	_, err := r.ApplyDelta("water-dispenser", -100)
	require.NoError(t, err)

	m, err := r.Module("water-dispenser")
	require.NoError(t, err)
	assert.Equal(t, 1900, m.CurrentLevel)
}
