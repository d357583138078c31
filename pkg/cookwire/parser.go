// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package cookwire

import (
	"strconv"
	"strings"
)

// StatusUpdate is one decoded STATUS pair. Alert is true when the wire
// value was "0" (module needs attention).
type StatusUpdate struct {
	ModuleID string
	Alert    bool
}

// LevelDelta is one decoded MODULE pair. Change is negative for
// consumption and positive for replenishment.
type LevelDelta struct {
	ModuleID string
	Change   int
}

// Classify identifies a complete message by its prefix.
func Classify(msg string) Kind {
	switch {
	case strings.HasPrefix(msg, PrefixStatus):
		return KindStatus
	case strings.HasPrefix(msg, PrefixModule):
		return KindModule
	case strings.HasPrefix(msg, PrefixRecipe):
		return KindRecipe
	case strings.HasPrefix(msg, PrefixEmergency):
		return KindEmergency
	default:
		return KindUnknown
	}
}

// ParseStatusPairs decodes a STATUS message. Pairs missing '=' or an
// empty module id are skipped; a malformed pair never fails the message.
// Returns nil for messages that are not STATUS.
func ParseStatusPairs(msg string) []StatusUpdate {
	body, ok := messageBody(msg, PrefixStatus)
	if !ok {
		return nil
	}

	var updates []StatusUpdate
	for _, pair := range strings.Split(body, ",") {
		id, value, ok := splitPair(pair)
		if !ok {
			continue
		}
		if value != "0" && value != "1" {
			continue
		}
		updates = append(updates, StatusUpdate{
			ModuleID: id,
			Alert:    value == "0",
		})
	}
	return updates
}

// ParseModulePairs decodes a MODULE message. Non-numeric change values
// are skipped individually. Returns nil for messages that are not MODULE.
func ParseModulePairs(msg string) []LevelDelta {
	body, ok := messageBody(msg, PrefixModule)
	if !ok {
		return nil
	}

	var deltas []LevelDelta
	for _, pair := range strings.Split(body, ",") {
		id, value, ok := splitPair(pair)
		if !ok {
			continue
		}
		change, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		deltas = append(deltas, LevelDelta{ModuleID: id, Change: change})
	}
	return deltas
}

// messageBody strips the prefix and a trailing terminator, if present.
func messageBody(msg, prefix string) (string, bool) {
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}
	body := strings.TrimPrefix(msg, prefix)
	body = strings.TrimSuffix(body, string(Terminator))
	return body, true
}

func splitPair(pair string) (id, value string, ok bool) {
	id, value, found := strings.Cut(pair, "=")
	if !found {
		return "", "", false
	}
	id = strings.TrimSpace(id)
	value = strings.TrimSpace(value)
	if id == "" {
		return "", "", false
	}
	return id, value, true
}
