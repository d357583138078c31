// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

// Package queue sequences cooking jobs. The orchestrator owns the queue
// and the active progress timer; items are processed strictly in FIFO
// order with a single active item at a time. Observers receive state
// snapshots, never live references.
package queue

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emberworks/cocotte/pkg/catalog"
	"github.com/emberworks/cocotte/pkg/telemetry"
)

var (
	// ErrRecipeNotFound rejects an enqueue for an unknown recipe id.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// Status is the orchestrator run state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPreparing Status = "preparing"
	StatusCooking   Status = "cooking"
	StatusComplete  Status = "complete"
)

// ItemStatus is the lifecycle of one queued job.
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCooking   ItemStatus = "cooking"
	ItemCompleted ItemStatus = "completed"
	ItemFailed    ItemStatus = "failed"
)

// Item is one queued cooking job. Owned exclusively by the
// orchestrator; callers only ever see copies.
type Item struct {
	ID                 string                `json:"id"`
	Recipe             catalog.Recipe        `json:"recipe"`
	Quantity           int                   `json:"quantity"`
	Customization      catalog.Customization `json:"customization"`
	Status             ItemStatus            `json:"status"`
	RequiredModules    []string              `json:"requiredModules"`
	UnavailableModules []string              `json:"unavailableModules,omitempty"`
	EnqueuedAt         time.Time             `json:"enqueuedAt"`
	StartedAt          *time.Time            `json:"startedAt,omitempty"`
	FinishedAt         *time.Time            `json:"finishedAt,omitempty"`
	Error              string                `json:"error,omitempty"`
}

// State is a snapshot of the whole queue.
type State struct {
	Status      Status `json:"status"`
	Index       int    `json:"index"`
	Progress    int    `json:"progress"`    // 0-100 for the active item
	CurrentStep int    `json:"currentStep"` // instruction index for the active item
	Items       []Item `json:"items"`
}

// Sender dispatches a start-cooking command to the device.
type Sender interface {
	SendRecipe(catalog.Recipe, catalog.Customization) error
}

// Availability is the pre-flight gate: given module ids, return the
// subset that cannot serve (critical or unknown).
type Availability interface {
	CheckAvailability(ids []string) []string
}

// Config tunes the orchestrator.
type Config struct {
	// TimeScale divides recipe cooking time so a 15-minute recipe does
	// not take 15 wall-clock minutes on a demo bench. Default 60
	// (one recipe minute per real second).
	TimeScale int

	// CompletionHold is how long a finished item stays visible before
	// the queue advances. Purely cosmetic; default 2s, negative
	// disables the hold.
	CompletionHold time.Duration

	// Tick is the progress timer resolution. Default 100ms.
	Tick time.Duration

	Metrics *telemetry.Metrics
}

func (c *Config) defaults() {
	if c.TimeScale <= 0 {
		c.TimeScale = 60
	}
	if c.CompletionHold < 0 {
		c.CompletionHold = 0
	} else if c.CompletionHold == 0 {
		c.CompletionHold = 2 * time.Second
	}
	if c.Tick <= 0 {
		c.Tick = 100 * time.Millisecond
	}
}

// timerGroup tracks the timers of one active item so the stop path can
// cancel them unconditionally. A stale group left behind by a cancelled
// item can never mutate state: every timer callback re-checks that its
// group is still the active one.
type timerGroup struct {
	stop chan struct{}
	once sync.Once
}

func newTimerGroup() *timerGroup {
	return &timerGroup{stop: make(chan struct{})}
}

func (g *timerGroup) cancel() {
	g.once.Do(func() { close(g.stop) })
}

// Orchestrator is the cooking queue state machine.
type Orchestrator struct {
	cfg     Config
	sender  Sender
	avail   Availability
	recipes *catalog.RecipeStore

	mu       sync.Mutex
	status   Status
	items    []*Item
	index    int
	progress int
	step     int
	active   *timerGroup

	stateSubs map[int]func(State)
	doneSubs  map[int]func(Item, bool)
	nextSub   int
}

// New creates an idle orchestrator.
func New(sender Sender, avail Availability, recipes *catalog.RecipeStore, cfg Config) *Orchestrator {
	cfg.defaults()
	return &Orchestrator{
		cfg:       cfg,
		sender:    sender,
		avail:     avail,
		recipes:   recipes,
		status:    StatusIdle,
		stateSubs: make(map[int]func(State)),
		doneSubs:  make(map[int]func(Item, bool)),
	}
}

// Enqueue validates and appends a job. The availability snapshot taken
// here is informational; it is re-checked when the item's turn comes.
func (o *Orchestrator) Enqueue(recipeID string, quantity int, cust catalog.Customization) (Item, error) {
	recipe, err := o.recipes.Recipe(recipeID)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %s", ErrRecipeNotFound, recipeID)
	}
	if err := cust.Validate(); err != nil {
		return Item{}, err
	}
	if quantity < 1 {
		quantity = 1
	}

	required := recipe.RequiredModules()
	item := &Item{
		ID:                 uuid.NewString(),
		Recipe:             recipe,
		Quantity:           quantity,
		Customization:      cust,
		Status:             ItemPending,
		RequiredModules:    required,
		UnavailableModules: o.avail.CheckAvailability(required),
		EnqueuedAt:         time.Now(),
	}

	o.mu.Lock()
	o.items = append(o.items, item)
	snap := o.snapshotLocked()
	subs := o.stateSubsLocked()
	queued := *item
	o.mu.Unlock()

	fanout(subs, snap)
	return queued, nil
}

// Dequeue removes an item. Removing the actively cooking item triggers
// stop semantics first.
func (o *Orchestrator) Dequeue(itemID string) bool {
	o.mu.Lock()
	pos := -1
	for i, it := range o.items {
		if it.ID == itemID {
			pos = i
			break
		}
	}
	if pos < 0 {
		o.mu.Unlock()
		return false
	}

	var done []func()
	if pos == o.index && o.items[pos].Status == ItemCooking {
		done = o.stopLocked("removed by user")
	}
	o.items = append(o.items[:pos], o.items[pos+1:]...)
	if pos < o.index {
		o.index--
	}
	snap := o.snapshotLocked()
	subs := o.stateSubsLocked()
	o.mu.Unlock()

	for _, fn := range done {
		fn()
	}
	fanout(subs, snap)
	return true
}

// Clear stops any active cooking and empties the queue.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	done := o.stopLocked("stopped")
	o.items = nil
	o.index = 0
	o.status = StatusIdle
	snap := o.snapshotLocked()
	subs := o.stateSubsLocked()
	o.mu.Unlock()

	for _, fn := range done {
		fn()
	}
	fanout(subs, snap)
}

// Start begins a queue run. Returns false if the queue is empty or a
// run is already in flight, so concurrent starts can never arm a second
// timer.
func (o *Orchestrator) Start() bool {
	o.mu.Lock()
	if len(o.items) == 0 || o.status == StatusPreparing || o.status == StatusCooking {
		o.mu.Unlock()
		return false
	}
	o.status = StatusPreparing
	o.index = 0
	o.progress = 0
	o.step = 0
	fired := o.advanceLocked()
	snap := o.snapshotLocked()
	subs := o.stateSubsLocked()
	o.mu.Unlock()

	for _, fn := range fired {
		fn()
	}
	fanout(subs, snap)
	return true
}

// Stop cancels the run: the active item fails with reason "stopped" and
// the queue does NOT advance. Natural failure advances; a user stop
// ends the whole run.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	done := o.stopLocked("stopped")
	snap := o.snapshotLocked()
	subs := o.stateSubsLocked()
	o.mu.Unlock()

	for _, fn := range done {
		fn()
	}
	fanout(subs, snap)
}

// stopLocked cancels the active timers before any other mutation, then
// fails the active item. Returns deferred completion notifications.
func (o *Orchestrator) stopLocked(reason string) []func() {
	if o.active != nil {
		o.active.cancel()
		o.active = nil
	}

	var fired []func()
	if o.index < len(o.items) {
		it := o.items[o.index]
		if it.Status == ItemCooking {
			now := time.Now()
			it.Status = ItemFailed
			it.Error = reason
			it.FinishedAt = &now
			o.countItem("stopped")
			fired = o.itemDoneLocked(*it, false)
		}
	}
	o.status = StatusIdle
	o.progress = 0
	o.step = 0
	return fired
}

// State returns a snapshot of the queue.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

// Subscribe registers a queue state listener. Returns an unsubscribe.
func (o *Orchestrator) Subscribe(fn func(State)) func() {
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.stateSubs[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.stateSubs, id)
		o.mu.Unlock()
	}
}

// OnItemDone registers a listener fired once per finished item with a
// copy of the item and whether it completed successfully.
func (o *Orchestrator) OnItemDone(fn func(Item, bool)) func() {
	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.doneSubs[id] = fn
	o.mu.Unlock()
	return func() {
		o.mu.Lock()
		delete(o.doneSubs, id)
		o.mu.Unlock()
	}
}

// advanceLocked walks the queue from the current index until an item
// starts cooking or the queue is exhausted. Iterative so a row of
// failing items cannot blow the stack. Returns deferred notifications.
func (o *Orchestrator) advanceLocked() []func() {
	var fired []func()
	for {
		if o.index >= len(o.items) {
			o.status = StatusComplete
			o.progress = 0
			o.step = 0
			return fired
		}

		it := o.items[o.index]
		if it.Status != ItemPending {
			// Already settled in an earlier run; never re-cook.
			o.index++
			continue
		}

		// Availability may have degraded since enqueue.
		unavailable := o.avail.CheckAvailability(it.RequiredModules)
		if len(unavailable) > 0 {
			now := time.Now()
			it.Status = ItemFailed
			it.UnavailableModules = unavailable
			it.Error = fmt.Sprintf("modules unavailable: %v", unavailable)
			it.FinishedAt = &now
			o.countItem("failed")
			fired = append(fired, o.itemDoneLocked(*it, false)...)
			o.index++
			continue
		}

		now := time.Now()
		it.Status = ItemCooking
		it.StartedAt = &now
		if err := o.sender.SendRecipe(it.Recipe, it.Customization); err != nil {
			finished := time.Now()
			it.Status = ItemFailed
			it.Error = err.Error()
			it.FinishedAt = &finished
			o.countItem("failed")
			fired = append(fired, o.itemDoneLocked(*it, false)...)
			o.index++
			continue
		}

		o.status = StatusCooking
		o.progress = 0
		o.step = 0
		group := newTimerGroup()
		o.active = group
		go o.runProgress(it.ID, it.Recipe, group)
		return fired
	}
}

// runProgress drives the 0-100 progress of one cooking item using
// wall-clock elapsed time, so progress stays accurate under tick
// jitter. Exits silently if its group was cancelled.
func (o *Orchestrator) runProgress(itemID string, recipe catalog.Recipe, group *timerGroup) {
	total := time.Duration(recipe.CookingTime) * time.Minute / time.Duration(o.cfg.TimeScale)
	if total <= 0 {
		total = o.cfg.Tick
	}
	stepCount := len(recipe.Steps)

	start := time.Now()
	ticker := time.NewTicker(o.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-group.stop:
			return
		case <-ticker.C:
		}

		elapsed := time.Since(start)
		if elapsed >= total {
			o.finishItem(itemID, group)
			return
		}

		pct := int(elapsed * 100 / total)
		step := 0
		if stepCount > 0 {
			step = int(elapsed * time.Duration(stepCount) / total)
			if step >= stepCount {
				step = stepCount - 1
			}
		}
		o.updateProgress(group, pct, step)
	}
}

// updateProgress publishes a progress tick. Progress never decreases;
// a stale group (cancelled item) is ignored.
func (o *Orchestrator) updateProgress(group *timerGroup, pct, step int) {
	o.mu.Lock()
	if o.active != group {
		o.mu.Unlock()
		return
	}
	if pct <= o.progress && step <= o.step {
		o.mu.Unlock()
		return
	}
	if pct > o.progress {
		o.progress = pct
	}
	if step > o.step {
		o.step = step
	}
	snap := o.snapshotLocked()
	subs := o.stateSubsLocked()
	o.mu.Unlock()

	fanout(subs, snap)
}

// finishItem completes the active item, credits the recipe, holds
// briefly for the UI, then advances.
func (o *Orchestrator) finishItem(itemID string, group *timerGroup) {
	o.mu.Lock()
	if o.active != group {
		o.mu.Unlock()
		return
	}
	it := o.items[o.index]
	if it.ID != itemID || it.Status != ItemCooking {
		o.mu.Unlock()
		return
	}
	now := time.Now()
	it.Status = ItemCompleted
	it.FinishedAt = &now
	o.progress = 100
	if n := len(it.Recipe.Steps); n > 0 {
		o.step = n - 1
	}
	o.countItem("completed")
	fired := o.itemDoneLocked(*it, true)
	snap := o.snapshotLocked()
	subs := o.stateSubsLocked()
	recipeID := it.Recipe.ID
	o.mu.Unlock()

	// Exactly once per completed item.
	if err := o.recipes.IncrementTimesCooked(recipeID); err != nil {
		// The recipe existed at enqueue; losing the counter is not fatal.
		_ = err
	}
	for _, fn := range fired {
		fn()
	}
	fanout(subs, snap)

	// Hold the completed state briefly so the UI can show it. A stop
	// during the hold cancels the advance.
	select {
	case <-group.stop:
		return
	case <-time.After(o.cfg.CompletionHold):
	}

	o.mu.Lock()
	if o.active != group {
		o.mu.Unlock()
		return
	}
	o.active = nil
	// The completed item may have been dequeued during the hold, in
	// which case the index already points at the next item.
	if o.index < len(o.items) && o.items[o.index].ID == itemID {
		o.index++
	}
	fired = o.advanceLocked()
	snap = o.snapshotLocked()
	subs = o.stateSubsLocked()
	o.mu.Unlock()

	for _, fn := range fired {
		fn()
	}
	fanout(subs, snap)
}

func (o *Orchestrator) countItem(result string) {
	if o.cfg.Metrics != nil {
		o.cfg.Metrics.QueueItems.WithLabelValues(result).Inc()
	}
}

// itemDoneLocked snapshots the done listeners for a finished item.
func (o *Orchestrator) itemDoneLocked(item Item, ok bool) []func() {
	out := make([]func(), 0, len(o.doneSubs))
	for _, fn := range o.doneSubs {
		fn := fn
		out = append(out, func() { fn(item, ok) })
	}
	return out
}

func (o *Orchestrator) snapshotLocked() State {
	items := make([]Item, len(o.items))
	for i, it := range o.items {
		items[i] = *it
	}
	return State{
		Status:      o.status,
		Index:       o.index,
		Progress:    o.progress,
		CurrentStep: o.step,
		Items:       items,
	}
}

func (o *Orchestrator) stateSubsLocked() []func(State) {
	out := make([]func(State), 0, len(o.stateSubs))
	for _, fn := range o.stateSubs {
		out = append(out, fn)
	}
	return out
}

func fanout(subs []func(State), snap State) {
	for _, fn := range subs {
		fn(snap)
	}
}
