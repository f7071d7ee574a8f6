// Package main is the entry point for the shuntcalc command.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shuntcalc",
		Short:         "Shunting-yard calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.Version = version + " (commit=" + commit + ", built=" + date + ")"
	root.SetVersionTemplate("shuntcalc version {{.Version}}\n")

	root.AddCommand(
		newServeCmd(),
		newEvalCmd(),
		newPostfixCmd(),
		newReplCmd(),
		newBatchCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
