// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package gateway

import (
	"context"
	"time"

	"github.com/emberworks/cocotte/pkg/cookwire"
	"github.com/emberworks/cocotte/pkg/registry"
)

// Dispatcher drains the gateway's command buffer into the module
// registry: STATUS messages become alert overrides, MODULE messages
// become level deltas. Consumed commands are acknowledged by id so a
// command arriving mid-drain survives to the next cycle.
type Dispatcher struct {
	gw  *Gateway
	reg *registry.Registry

	// Poll cadence: fast while the link is up, slow while it is down.
	intervalUp   time.Duration
	intervalDown time.Duration
}

// NewDispatcher wires a gateway to a registry. Zero intervals default
// to 2s up / 10s down.
func NewDispatcher(gw *Gateway, reg *registry.Registry, up, down time.Duration) *Dispatcher {
	if up <= 0 {
		up = 2 * time.Second
	}
	if down <= 0 {
		down = 10 * time.Second
	}
	return &Dispatcher{gw: gw, reg: reg, intervalUp: up, intervalDown: down}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	timer := time.NewTimer(d.interval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		d.Drain()
		timer.Reset(d.interval())
	}
}

func (d *Dispatcher) interval() time.Duration {
	if d.gw.Connected() {
		return d.intervalUp
	}
	return d.intervalDown
}

// Drain consumes one batch of buffered commands. Returns how many were
// dispatched.
func (d *Dispatcher) Drain() int {
	cmds := d.gw.PollCommands()
	if len(cmds) == 0 {
		return 0
	}

	ids := make([]string, 0, len(cmds))
	for _, c := range cmds {
		switch c.Kind {
		case cookwire.KindStatus:
			d.reg.ApplyStatusAlerts(cookwire.ParseStatusPairs(c.Message))
		case cookwire.KindModule:
			d.reg.ApplyDeltas(cookwire.ParseModulePairs(c.Message))
		}
		ids = append(ids, c.ID)
	}
	d.gw.Acknowledge(ids)
	return len(cmds)
}
