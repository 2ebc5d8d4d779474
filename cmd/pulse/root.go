// Package main implements the pulse CLI, the minimal operator-facing
// entry point SPEC_FULL.md §10.5/§11 carves out as ambient
// infrastructure (a runnable repository needs one), following the
// teacher's akita/cmd root-command-plus-subcommand tree
// (akita/cmd/root.go, akita/cmd/component.go).
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pulse",
	Short: "pulse runs and inspects the Pulse RV32I SoC model.",
	Long: `pulse is the command-line entry point for the Pulse cycle-accurate ` +
		`RV32I SoC model: it loads a guest program image into the shared ` +
		`memory controller, steps the system, and optionally exposes a ` +
		`monitoring server for live inspection.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
