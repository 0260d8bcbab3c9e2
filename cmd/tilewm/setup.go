package main

import (
	"fmt"
	"os"

	"github.com/Gaurav-Gosain/tilewm/internal/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// tilingFlags are the per-command overrides of the [tiling] section.
type tilingFlags struct {
	mode string
	gap  int
}

func (f *tilingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "Tiling mode (stacking, smart, grid)")
	cmd.Flags().IntVar(&f.gap, "gap", -1, "Gap between windows in pixels")
}

func (f *tilingFlags) overrides() config.Overrides {
	o := config.Overrides{Mode: f.mode, LogLevel: logLevel}
	if f.gap >= 0 {
		gap := f.gap
		o.Gap = &gap
	}
	if debugMode {
		o.LogLevel = "debug"
	}
	return o
}

// loadConfig reads the configuration, falling back to the defaults when
// the file is unreadable, and layers the command-line overrides on top.
func loadConfig(o config.Overrides) (*config.UserConfig, error) {
	var (
		cfg *config.UserConfig
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.LoadUserConfig()
	}
	if err != nil {
		log.Warn("Failed to load config, using defaults", "err", err)
		cfg = config.DefaultConfig()
	}
	if err := config.ApplyOverrides(o, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the process logger for the configured level.
func newLogger(level string, prefix string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           lvl,
	}), nil
}
