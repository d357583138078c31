// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

package cookwire

import (
	"fmt"
	"strings"
)

// BuildRecipeMessage formats the outbound start-cooking command.
func BuildRecipeMessage(recipeID string) string {
	return fmt.Sprintf("%s%s%c", PrefixRecipe, recipeID, Terminator)
}

// BuildModuleDeltas formats an outbound level-delta command. Pairs are
// comma-joined with a single trailing terminator.
func BuildModuleDeltas(deltas []LevelDelta) string {
	pairs := make([]string, len(deltas))
	for i, d := range deltas {
		pairs[i] = fmt.Sprintf("%s=%d", d.ModuleID, d.Change)
	}
	return fmt.Sprintf("%s%s%c", PrefixModule, strings.Join(pairs, ","), Terminator)
}

// BuildEmergencyStop formats the abort command.
func BuildEmergencyStop() string {
	return fmt.Sprintf("%s%s%c", PrefixEmergency, EmergencyStopArg, Terminator)
}
