// Package main implements tilewm, a smart tiling engine for stacking
// window managers. It runs as a daemon next to the compositor, keeps
// windows arranged in a gap-separated grid and preserves manual resizes by
// arranging the other windows around the resized one.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode  bool
	logLevel   string
	configFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tilewm",
		Short: "Smart tiling for stacking window managers",
		Long: `tilewm - smart tiling for stacking window managers

Arranges the windows of the current workspace in a gap-separated grid.
In smart mode a window you resize keeps its new size and the remaining
windows are arranged in the space beside it. Grid mode snaps everything
back to the plain grid.`,
		Example: `  # Run the tiling daemon over a scene file
  tilewm serve --scene desktop.toml

  # Arrange a scene once and print the result
  tilewm arrange --scene desktop.toml

  # Control a running instance
  tilewm toggle
  tilewm grid-mode on
  tilewm workspace next

  # Edit configuration
  tilewm config edit`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to the configuration file")

	rootCmd.AddCommand(
		newServeCmd(),
		newArrangeCmd(),
		newConfigCmd(),
		newRulesCmd(),
		newWorkspaceCmd(),
	)
	rootCmd.AddCommand(newTilingCmds()...)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
