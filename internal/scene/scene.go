// Package scene describes a desktop as data: outputs with reserved panel
// space, views with their state flags and an optional live resize. Scenes
// are read from TOML files and loaded into a Registry the tiling engine
// can drive.
package scene

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Gaurav-Gosain/tilewm/internal/layout"
	"github.com/Gaurav-Gosain/tilewm/internal/tiling"
	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// Lookup errors.
var (
	ErrUnknownOutput = errors.New("unknown output")
	ErrUnknownView   = errors.New("unknown view")
)

// File is the on-disk scene format.
type File struct {
	Workspace string       `toml:"workspace"`
	Outputs   []OutputSpec `toml:"outputs"`
	Views     []ViewSpec   `toml:"views"`
	Resize    *ResizeSpec  `toml:"resize,omitempty"`
}

// OutputSpec is a display. Reserved is the space taken by panels and docks
// along each edge.
type OutputSpec struct {
	Name     string        `toml:"name"`
	X        int           `toml:"x"`
	Y        int           `toml:"y"`
	Width    int           `toml:"width"`
	Height   int           `toml:"height"`
	Reserved layout.Border `toml:"reserved"`
}

// Rect is the full output rectangle.
func (o OutputSpec) Rect() layout.Box {
	return layout.Box{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// Usable is the rectangle left for windows once panels are subtracted.
func (o OutputSpec) Usable() layout.Box {
	return o.Rect().Inset(o.Reserved)
}

// ViewSpec is a window. The geometry is the content box.
type ViewSpec struct {
	ID             string `toml:"id"`
	AppID          string `toml:"app_id"`
	Title          string `toml:"title"`
	Output         string `toml:"output"`
	Workspace      string `toml:"workspace"`
	X              int    `toml:"x"`
	Y              int    `toml:"y"`
	Width          int    `toml:"width"`
	Height         int    `toml:"height"`
	Decorated      *bool  `toml:"decorated,omitempty"`
	Minimized      bool   `toml:"minimized,omitempty"`
	Fullscreen     bool   `toml:"fullscreen,omitempty"`
	AlwaysOnTop    bool   `toml:"always_on_top,omitempty"`
	AlwaysOnBottom bool   `toml:"always_on_bottom,omitempty"`
	Maximized      string `toml:"maximized,omitempty"`
	Tiled          bool   `toml:"tiled,omitempty"`
}

// Box returns the content box.
func (v ViewSpec) Box() layout.Box {
	return layout.Box{X: v.X, Y: v.Y, Width: v.Width, Height: v.Height}
}

func (v *ViewSpec) setBox(b layout.Box) {
	v.X, v.Y, v.Width, v.Height = b.X, b.Y, b.Width, b.Height
}

// HasDecorations reports whether the view gets server-side decorations.
// Views are decorated unless the scene says otherwise.
func (v ViewSpec) HasDecorations() bool {
	return v.Decorated == nil || *v.Decorated
}

// ResizeSpec is a live resize: the view and the content box it was
// dragged to.
type ResizeSpec struct {
	View   string `toml:"view"`
	X      int    `toml:"x"`
	Y      int    `toml:"y"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// Target converts r to the engine's resize target.
func (r ResizeSpec) Target() *tiling.ResizeTarget {
	return &tiling.ResizeTarget{
		ViewID:   r.View,
		Geometry: layout.Box{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
	}
}

// ParseAxis converts a maximized value to an axis.
func ParseAxis(s string) (tiling.Axis, error) {
	switch strings.ToLower(s) {
	case "", "none", "false":
		return tiling.AxisNone, nil
	case "horizontal":
		return tiling.AxisHorizontal, nil
	case "vertical":
		return tiling.AxisVertical, nil
	case "both", "true":
		return tiling.AxisBoth, nil
	}
	return tiling.AxisNone, fmt.Errorf("invalid maximized value %q", s)
}

// Load reads and normalizes a scene file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a scene and fills in defaults: views without an id get a
// fresh one, views without an output or workspace land on the first
// output and the scene's workspace.
func Parse(data []byte) (*File, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if err := f.normalize(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *File) normalize() error {
	if f.Workspace == "" {
		f.Workspace = "1"
	}

	outputs := make(map[string]bool, len(f.Outputs))
	for _, o := range f.Outputs {
		if o.Name == "" {
			return errors.New("output without a name")
		}
		if outputs[o.Name] {
			return fmt.Errorf("duplicate output %q", o.Name)
		}
		outputs[o.Name] = true
	}

	views := make(map[string]bool, len(f.Views))
	for i := range f.Views {
		v := &f.Views[i]
		if v.ID == "" {
			v.ID = uuid.New().String()
		}
		if views[v.ID] {
			return fmt.Errorf("duplicate view %q", v.ID)
		}
		views[v.ID] = true

		if v.Output == "" && len(f.Outputs) > 0 {
			v.Output = f.Outputs[0].Name
		}
		if !outputs[v.Output] {
			return fmt.Errorf("view %q: %w %q", v.ID, ErrUnknownOutput, v.Output)
		}
		if v.Workspace == "" {
			v.Workspace = f.Workspace
		}
		if _, err := ParseAxis(v.Maximized); err != nil {
			return fmt.Errorf("view %q: %w", v.ID, err)
		}
	}

	if f.Resize != nil && !views[f.Resize.View] {
		return fmt.Errorf("resize: %w %q", ErrUnknownView, f.Resize.View)
	}
	return nil
}

// Marshal renders the scene as TOML.
func (f *File) Marshal() ([]byte, error) {
	data, err := toml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scene: %w", err)
	}
	return data, nil
}

// Save writes the scene to path.
func (f *File) Save(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write scene: %w", err)
	}
	return nil
}
