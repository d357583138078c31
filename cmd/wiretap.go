// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Emberworks

package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberworks/cocotte/pkg/cookwire"
)

var wiretapStats bool

var wiretapCmd = &cobra.Command{
	Use:   "wiretap",
	Short: "Display raw cooker wire traffic in human-readable form",
	Long: `Continuously frame and display cooker protocol messages as they arrive.

Each line shows a timestamp, the classified message kind, and the raw
message. Useful for bench-debugging a microcontroller without running
the full relay.

Supports both serial and bridge connections.`,
	RunE: runWiretap,
}

func init() {
	wiretapCmd.Flags().BoolVar(&wiretapStats, "stats", false, "Print traffic statistics every 10s")
	rootCmd.AddCommand(wiretapCmd)
}

func runWiretap(cmd *cobra.Command, args []string) error {
	conn, connInfo, err := OpenConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Cocotte - Wire Tap\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	framer := cookwire.NewFramer()
	stats := cookwire.NewStatistics()
	buf := make([]byte, 128)

	var lastStats time.Time
	for {
		n, err := conn.Read(buf)
		if err != nil {
			// A bridge read error means the connection is permanently
			// closed - exit gracefully
			if err == ErrConnectionClosed {
				log.Printf("Connection closed")
				return nil
			}
			log.Printf("Read error: %v", err)
			continue
		}

		for _, msg := range framer.Push(buf[:n]) {
			kind := cookwire.Classify(msg)
			stats.Record(kind)
			fmt.Printf("[%s] %-9s %s\n", time.Now().Format("15:04:05.000"), kind, msg)
		}

		if wiretapStats && time.Since(lastStats) >= 10*time.Second {
			fmt.Printf("--- %s ---\n", stats.Summary())
			lastStats = time.Now()
		}
	}
}
