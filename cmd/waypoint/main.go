package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "waypoint",
		Short: "Navigation coordinator demo and tooling",
		Long: `Waypoint is a navigation coordinator for tree-structured UI
applications: stacks, shells, guards, redirects, and deep links,
driven by a single cooperative state machine.

The CLI runs a demo coordinator behind an HTTP/WebSocket sync
bridge so clients can drive and observe navigation state.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}
