// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package cookwire

import "testing"

func TestBuildRecipeMessage(t *testing.T) {
	if got := BuildRecipeMessage("tomato-soup"); got != "RECIPE:tomato-soup;" {
		t.Errorf("BuildRecipeMessage = %q", got)
	}
}

func TestBuildModuleDeltas(t *testing.T) {
	deltas := []LevelDelta{
		{ModuleID: "water-dispenser", Change: -300},
		{ModuleID: "spice-dispenser", Change: 10},
	}
	want := "MODULE:water-dispenser=-300,spice-dispenser=10;"
	if got := BuildModuleDeltas(deltas); got != want {
		t.Errorf("BuildModuleDeltas = %q, want %q", got, want)
	}
}

func TestBuildEmergencyStop(t *testing.T) {
	if got := BuildEmergencyStop(); got != "EMERGENCY:stop;" {
		t.Errorf("BuildEmergencyStop = %q", got)
	}
}

// Outbound messages echoed back by the cooker must classify cleanly so
// the gateway can discard them.
func TestBuilders_RoundTripClassify(t *testing.T) {
	f := NewFramer()
	msgs := f.Push([]byte(BuildRecipeMessage("dal-curry") + BuildEmergencyStop()))
	if len(msgs) != 2 {
		t.Fatalf("got %d messages", len(msgs))
	}
	if Classify(msgs[0]) != KindRecipe {
		t.Errorf("echoed recipe classified as %v", Classify(msgs[0]))
	}
	if Classify(msgs[1]) != KindEmergency {
		t.Errorf("echoed emergency classified as %v", Classify(msgs[1]))
	}
}
