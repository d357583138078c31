// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package cookwire

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		msg  string
		want Kind
	}{
		{"STATUS:water=1", KindStatus},
		{"MODULE:water=-300", KindModule},
		{"RECIPE:tomato-soup", KindRecipe},
		{"EMERGENCY:stop", KindEmergency},
		{"BOOT:ok", KindUnknown},
		{"", KindUnknown},
		{"status:water=1", KindUnknown}, // prefixes are case-sensitive
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := Classify(tt.msg); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.msg, got, tt.want)
			}
		})
	}
}

func TestParseStatusPairs(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want []StatusUpdate
	}{
		{
			name: "alert and normal",
			msg:  "STATUS:spice-dispenser=1,water-dispenser=0",
			want: []StatusUpdate{
				{ModuleID: "spice-dispenser", Alert: false},
				{ModuleID: "water-dispenser", Alert: true},
			},
		},
		{
			name: "trailing terminator tolerated",
			msg:  "STATUS:water-dispenser=0;",
			want: []StatusUpdate{{ModuleID: "water-dispenser", Alert: true}},
		},
		{
			name: "malformed pairs skipped not fatal",
			msg:  "STATUS:water=0,=1,spice=abc",
			want: []StatusUpdate{{ModuleID: "water", Alert: true}},
		},
		{
			name: "whitespace trimmed",
			msg:  "STATUS: water = 1 ",
			want: []StatusUpdate{{ModuleID: "water", Alert: false}},
		},
		{name: "pair without equals", msg: "STATUS:water", want: nil},
		{name: "empty body", msg: "STATUS:", want: nil},
		{name: "not a status message", msg: "MODULE:water=-1", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseStatusPairs(tt.msg)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("pair %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseModulePairs(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want []LevelDelta
	}{
		{
			name: "consumption and replenishment",
			msg:  "MODULE:spice-dispenser=-10,water-dispenser=-300,oil-dispenser=25",
			want: []LevelDelta{
				{ModuleID: "spice-dispenser", Change: -10},
				{ModuleID: "water-dispenser", Change: -300},
				{ModuleID: "oil-dispenser", Change: 25},
			},
		},
		{
			name: "non-numeric change skipped individually",
			msg:  "MODULE:water=-100,oil=lots,spice=-5",
			want: []LevelDelta{
				{ModuleID: "water", Change: -100},
				{ModuleID: "spice", Change: -5},
			},
		},
		{
			name: "explicit plus sign",
			msg:  "MODULE:water=+50",
			want: []LevelDelta{{ModuleID: "water", Change: 50}},
		},
		{name: "empty module id skipped", msg: "MODULE:=-10", want: nil},
		{name: "not a module message", msg: "STATUS:water=0", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseModulePairs(tt.msg)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("pair %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
