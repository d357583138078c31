// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Emberworks

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Config file override
	cfgFile string

	// Serial connection flags
	portName string
	baudRate int

	// Serial-bridge (WebSocket) connection flags
	bridgeURL         string
	bridgeUsername    string
	bridgeNoSSLVerify bool
)

var rootCmd = &cobra.Command{
	Use:   "cocotte",
	Short: "Smart cooker relay and control tools",
	Long: `Cocotte - relay server and diagnostics for the smart cooking appliance.

The relay owns the serial link to the cooker's microcontroller, tracks
module levels and the cooking queue, and serves the HTTP API the
front-end consumes. Additional commands provide a terminal dashboard
and a raw wire-traffic view for bench debugging.

Connection modes:
  Serial:  --port /dev/ttyUSB0 [--baud 115200]
  Bridge:  --bridge ws://host/path [--username user]

For bridge authentication, the password is read from the
COCOTTE_BRIDGE_PASSWORD environment variable, or prompted interactively
if not set. The --password flag is intentionally not provided to avoid
leaking credentials in shell history.`,
	Version: "1.0.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./cocotte.yaml)")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 115200, "Baud rate (serial only)")

	// Bridge connection flags
	rootCmd.PersistentFlags().StringVarP(&bridgeURL, "bridge", "u", "", "Serial-bridge WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&bridgeUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&bridgeNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
