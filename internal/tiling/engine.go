// Package tiling implements the automatic tiling pass: it decides which
// views take part, sizes a grid per output, keeps a manually resized view
// in place while arranging its neighbours, and finally grows boundary
// views until each output is filled.
//
// The engine owns no state between passes. Collaborators are reached
// through small interfaces and the live resize, if any, is passed in
// explicitly with each Request.
package tiling

import (
	"io"

	"github.com/Gaurav-Gosain/tilewm/internal/layout"
	"github.com/charmbracelet/log"
)

// Mode selects how the engine treats the layout.
type Mode int

const (
	// ModeOff disables automatic tiling; windows stack freely.
	ModeOff Mode = iota
	// ModeSmart tiles while preserving a manually resized window.
	ModeSmart
	// ModeGrid always snaps every window to the computed grid.
	ModeGrid
)

var modeNames = map[Mode]string{
	ModeOff:   "stacking",
	ModeSmart: "smart",
	ModeGrid:  "grid",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode maps a status name back to a Mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "stacking", "off":
		return ModeOff, true
	case "smart", "":
		return ModeSmart, true
	case "grid":
		return ModeGrid, true
	}
	return ModeOff, false
}

// Axis describes on which axes a view is maximized.
type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
	AxisBoth
)

// Property is a tri-state window rule value.
type Property int

const (
	PropUnset Property = iota
	PropTrue
	PropFalse
)

// Rule keys queried by the engine.
const (
	KeyFixedPosition = "fixedPosition"
	KeyTile          = "tile"
	KeyTileDirection = "tileDirection"
)

// Flags is the view state the eligibility filter looks at.
type Flags struct {
	Minimized      bool
	Fullscreen     bool
	AlwaysOnTop    bool
	AlwaysOnBottom bool
	Maximized      Axis
	Tiled          bool
}

// View is a snapshot of one managed window. Box is the content box, which
// excludes decorations.
type View struct {
	ID        string
	Box       layout.Box
	Output    string
	Workspace string
	Flags     Flags
}

// Output is a display with its usable (panel-free) area.
type Output struct {
	Name   string
	Usable layout.Box
}

// ViewRegistry enumerates views in their natural stacking/creation order
// and applies geometry changes.
type ViewRegistry interface {
	Views() []View
	MoveResize(id string, box layout.Box)
	Unmaximize(id string)
	Untile(id string)
}

// OutputRegistry enumerates the usable outputs.
type OutputRegistry interface {
	Outputs() []Output
}

// RuleResolver looks up per-window rule properties.
type RuleResolver interface {
	Property(id, key string) Property
}

// Decorations reports the decoration thickness around a view.
type Decorations interface {
	Margins(id string) layout.Border
}

// ResizeTarget names the view under (or last under) interactive resize and
// the content geometry it should keep.
type ResizeTarget struct {
	ViewID   string
	Geometry layout.Box
}

// Request describes one pass.
type Request struct {
	Mode      Mode
	Workspace string
	Resize    *ResizeTarget
}

// Result reports what a pass did. Resize carries the possibly adjusted
// resize geometry, or the request's target unchanged; callers store it
// back so later passes reconcile against the updated box.
type Result struct {
	Placed         int
	Resize         *ResizeTarget
	ResizeAdjusted bool
	FillIterations int
}

// Options tunes the engine.
type Options struct {
	Gap int
	// EdgeSlack is added to Gap when matching edges.
	EdgeSlack int
	// FillIterations caps the space-filling post-pass.
	FillIterations int
	Logger         *log.Logger
}

// MaxFillIterations is the hard upper bound for the space-filler.
const MaxFillIterations = 10

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		Gap:            10,
		EdgeSlack:      layout.DefaultEdgeSlack,
		FillIterations: MaxFillIterations,
	}
}

// Engine runs tiling passes against its collaborators.
type Engine struct {
	views   ViewRegistry
	outputs OutputRegistry
	rules   RuleResolver
	deco    Decorations
	opts    Options
	logger  *log.Logger
}

// New creates an engine. A nil rules or decorations collaborator behaves as
// "no rules" and "no decorations".
func New(views ViewRegistry, outputs OutputRegistry, rules RuleResolver, deco Decorations, opts Options) *Engine {
	if rules == nil {
		rules = noRules{}
	}
	if deco == nil {
		deco = noDecorations{}
	}
	opts.Gap = max(opts.Gap, 0)
	opts.EdgeSlack = max(opts.EdgeSlack, 0)
	if opts.FillIterations <= 0 || opts.FillIterations > MaxFillIterations {
		opts.FillIterations = MaxFillIterations
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		views:   views,
		outputs: outputs,
		rules:   rules,
		deco:    deco,
		opts:    opts,
		logger:  logger,
	}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

func (e *Engine) tolerance() int {
	return layout.Tolerance(e.opts.Gap, e.opts.EdgeSlack)
}

// Arrange runs one full pass: every output is laid out, then the
// space-filler runs unless grid mode is active.
func (e *Engine) Arrange(req Request) Result {
	res := Result{Resize: req.Resize}
	if req.Mode == ModeOff {
		return res
	}

	resize := req.Resize
	if req.Mode == ModeGrid {
		resize = nil
	}

	views := e.views.Views()
	for _, out := range e.outputs.Outputs() {
		tiles := e.eligible(views, out.Name, req.Workspace)
		if len(tiles) == 0 {
			continue
		}
		pass := e.arrangeOutput(out, tiles, resize)
		res.Placed += pass.placed
		if pass.resize != nil {
			res.Resize = pass.resize
			res.ResizeAdjusted = res.ResizeAdjusted || pass.adjusted
		}
	}

	if req.Mode != ModeGrid {
		resizedID := ""
		if resize != nil {
			resizedID = resize.ViewID
		}
		res.FillIterations = e.fill(req.Workspace, resizedID)
	}

	e.logger.Debug("tiling pass complete",
		"mode", req.Mode,
		"workspace", req.Workspace,
		"placed", res.Placed,
		"fill_iterations", res.FillIterations,
	)
	return res
}

type noRules struct{}

func (noRules) Property(string, string) Property { return PropUnset }

type noDecorations struct{}

func (noDecorations) Margins(string) layout.Border { return layout.Border{} }
