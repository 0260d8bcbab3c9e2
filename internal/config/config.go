// Package config loads and validates the tilewm user configuration.
//
// The configuration lives in a TOML file under the XDG config directory
// and is created with defaults the first time it is loaded.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Gaurav-Gosain/tilewm/internal/tiling"
	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
)

// Validation errors.
var (
	ErrInvalidGap  = errors.New("gap must not be negative")
	ErrInvalidMode = errors.New("unknown tiling mode")
)

// UserConfig is the on-disk configuration.
type UserConfig struct {
	Tiling      TilingConfig     `toml:"tiling"`
	Decoration  DecorationConfig `toml:"decoration"`
	Logging     LoggingConfig    `toml:"logging"`
	Workspaces  WorkspaceConfig  `toml:"workspaces"`
	WindowRules []WindowRule     `toml:"window_rules"`
}

// WorkspaceConfig lists the workspaces in switching order.
type WorkspaceConfig struct {
	Names []string `toml:"names"`
}

// TilingConfig holds the engine settings.
type TilingConfig struct {
	Mode           string `toml:"mode"`
	Gap            int    `toml:"gap"`
	EdgeTolerance  int    `toml:"edge_tolerance"`
	FillIterations int    `toml:"fill_iterations"`
}

// DecorationConfig describes server-side decorations. The titlebar sits
// above the content box, the border surrounds it on every side.
type DecorationConfig struct {
	Border   int `toml:"border"`
	Titlebar int `toml:"titlebar"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// WindowRule matches windows by app id and optional title glob and sets
// tiling properties on them.
type WindowRule struct {
	Identifier    string `toml:"identifier"`
	Title         string `toml:"title,omitempty"`
	FixedPosition bool   `toml:"fixed_position,omitempty"`
	Tile          string `toml:"tile,omitempty"`
	TileDirection string `toml:"tile_direction,omitempty"`
}

// TileProperty parses the tile field.
func (r WindowRule) TileProperty() (tiling.Property, error) {
	switch strings.ToLower(r.Tile) {
	case "", "unset":
		return tiling.PropUnset, nil
	case "true", "yes":
		return tiling.PropTrue, nil
	case "false", "no":
		return tiling.PropFalse, nil
	}
	return tiling.PropUnset, fmt.Errorf("invalid tile value %q", r.Tile)
}

// DirectionProperty parses tile_direction. Vertical maps to true.
func (r WindowRule) DirectionProperty() (tiling.Property, error) {
	switch strings.ToLower(r.TileDirection) {
	case "", "unset":
		return tiling.PropUnset, nil
	case "vertical":
		return tiling.PropTrue, nil
	case "horizontal":
		return tiling.PropFalse, nil
	}
	return tiling.PropUnset, fmt.Errorf("invalid tile_direction value %q", r.TileDirection)
}

const (
	// DefaultGap is the spacing between windows and around the output edge.
	DefaultGap = 10
	// DefaultEdgeTolerance is added to the gap when matching window edges.
	DefaultEdgeTolerance = 5
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *UserConfig {
	return &UserConfig{
		Tiling: TilingConfig{
			Mode:           tiling.ModeSmart.String(),
			Gap:            DefaultGap,
			EdgeTolerance:  DefaultEdgeTolerance,
			FillIterations: tiling.MaxFillIterations,
		},
		Decoration: DecorationConfig{
			Border:   1,
			Titlebar: 24,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Workspaces: WorkspaceConfig{
			Names: []string{"1", "2", "3", "4"},
		},
		WindowRules: []WindowRule{},
	}
}

// GetConfigPath returns the config file path, creating parent directories.
func GetConfigPath() (string, error) {
	return xdg.ConfigFile("tilewm/config.toml")
}

// LoadUserConfig reads the config file, writing the defaults first if it
// does not exist yet.
func LoadUserConfig() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("could not determine config path: %w", err)
	}
	return LoadFile(path)
}

// LoadFile reads the config at path, creating it with defaults when
// missing. Fields absent from the file keep their default values.
func LoadFile(path string) (*UserConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := SaveConfig(cfg, path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Marshal renders cfg as TOML with a comment header.
func Marshal(cfg *UserConfig, path string) ([]byte, error) {
	var sb strings.Builder
	sb.WriteString("# tilewm configuration file\n")
	sb.WriteString("#\n")
	sb.WriteString("# [tiling] mode is one of: stacking, smart, grid\n")
	sb.WriteString("# [[window_rules]] tile is unset|true|false, tile_direction is unset|vertical|horizontal\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + path + "\n\n")

	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	sb.Write(data)
	return []byte(sb.String()), nil
}

// SaveConfig writes cfg to path.
func SaveConfig(cfg *UserConfig, path string) error {
	data, err := Marshal(cfg, path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks the values the engine cannot clamp on its own.
func (c *UserConfig) Validate() error {
	if c.Tiling.Gap < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidGap, c.Tiling.Gap)
	}
	if _, ok := tiling.ParseMode(c.Tiling.Mode); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.Tiling.Mode)
	}
	if c.Tiling.EdgeTolerance < 0 {
		return fmt.Errorf("edge_tolerance must not be negative: %d", c.Tiling.EdgeTolerance)
	}
	if n := c.Tiling.FillIterations; n < 1 || n > tiling.MaxFillIterations {
		return fmt.Errorf("fill_iterations must be between 1 and %d: %d", tiling.MaxFillIterations, n)
	}
	if c.Decoration.Border < 0 || c.Decoration.Titlebar < 0 {
		return errors.New("decoration sizes must not be negative")
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging level: %w", err)
	}
	if len(c.Workspaces.Names) == 0 {
		return errors.New("at least one workspace is required")
	}
	seen := make(map[string]bool, len(c.Workspaces.Names))
	for _, name := range c.Workspaces.Names {
		if name == "" || seen[name] {
			return fmt.Errorf("invalid or duplicate workspace name %q", name)
		}
		seen[name] = true
	}
	for i, r := range c.WindowRules {
		if r.Identifier == "" {
			return fmt.Errorf("window rule %d: identifier is required", i)
		}
		if _, err := r.TileProperty(); err != nil {
			return fmt.Errorf("window rule %d: %w", i, err)
		}
		if _, err := r.DirectionProperty(); err != nil {
			return fmt.Errorf("window rule %d: %w", i, err)
		}
	}
	return nil
}

// Mode returns the configured tiling mode.
func (c *UserConfig) Mode() tiling.Mode {
	m, _ := tiling.ParseMode(c.Tiling.Mode)
	return m
}

// EngineOptions converts the tiling section into engine options.
func (c *UserConfig) EngineOptions(logger *log.Logger) tiling.Options {
	return tiling.Options{
		Gap:            c.Tiling.Gap,
		EdgeSlack:      c.Tiling.EdgeTolerance,
		FillIterations: c.Tiling.FillIterations,
		Logger:         logger,
	}
}

// Overrides carries command-line flags that take precedence over the file.
// Zero values leave the file setting untouched.
type Overrides struct {
	Mode     string
	Gap      *int
	LogLevel string
}

// ApplyOverrides layers o over cfg and revalidates the result.
func ApplyOverrides(o Overrides, cfg *UserConfig) error {
	if cfg == nil {
		return nil
	}
	if o.Mode != "" {
		cfg.Tiling.Mode = o.Mode
	}
	if o.Gap != nil {
		cfg.Tiling.Gap = *o.Gap
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	return cfg.Validate()
}
