// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks
//
// Cocotte - smart cooking appliance controller
//
// Relay between the cooker's microcontroller (serial/UART) and the
// front-end, plus a terminal monitor and wire diagnostics.

package main

import (
	"os"

	"github.com/emberworks/cocotte/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
