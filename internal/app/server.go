// Package app holds the window manager session: the tiling mode, the
// current workspace and the remembered resize, plus the event handlers
// that trigger a tiling pass.
//
// Every handler runs under one lock, so a pass never interleaves with
// another mutation of the desktop.
package app

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/Gaurav-Gosain/tilewm/internal/config"
	"github.com/Gaurav-Gosain/tilewm/internal/layout"
	"github.com/Gaurav-Gosain/tilewm/internal/scene"
	"github.com/Gaurav-Gosain/tilewm/internal/tiling"
	"github.com/charmbracelet/log"
)

// ErrUnknownWorkspace is returned when switching to a workspace that is
// not configured.
var ErrUnknownWorkspace = errors.New("unknown workspace")

// State is a snapshot of the session.
type State struct {
	Enabled   bool
	Grid      bool
	Workspace string
	Resize    *tiling.ResizeTarget
}

// Mode derives the tiling mode from the enabled and grid flags.
func (s State) Mode() tiling.Mode {
	switch {
	case !s.Enabled:
		return tiling.ModeOff
	case s.Grid:
		return tiling.ModeGrid
	default:
		return tiling.ModeSmart
	}
}

// Options configures a Server.
type Options struct {
	Config *config.UserConfig
	Logger *log.Logger
	// OnChange is called after every handler with the new state, outside
	// the lock.
	OnChange func(State)
}

// Server is the session.
type Server struct {
	mu sync.Mutex

	desktop *scene.Registry
	engine  *tiling.Engine
	logger  *log.Logger

	enabled    bool
	grid       bool
	workspace  string
	workspaces []string
	resize     *tiling.ResizeTarget
	resizing   string
	last       tiling.Result

	onChange func(State)
}

// New creates a session over desktop. Rules may be nil.
func New(desktop *scene.Registry, rules tiling.RuleResolver, opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	mode := cfg.Mode()
	s := &Server{
		desktop:    desktop,
		engine:     tiling.New(desktop, desktop, rules, desktop, cfg.EngineOptions(logger.WithPrefix("tiling"))),
		logger:     logger,
		enabled:    mode != tiling.ModeOff,
		grid:       mode == tiling.ModeGrid,
		workspaces: slices.Clone(cfg.Workspaces.Names),
		onChange:   opts.OnChange,
	}
	if len(s.workspaces) == 0 {
		s.workspaces = []string{"1"}
	}
	s.workspace = s.workspaces[0]
	return s
}

func (s *Server) stateLocked() State {
	st := State{
		Enabled:   s.enabled,
		Grid:      s.grid,
		Workspace: s.workspace,
	}
	if s.resize != nil {
		r := *s.resize
		st.Resize = &r
	}
	return st
}

// State returns the current session state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Mode returns the current tiling mode.
func (s *Server) Mode() tiling.Mode {
	return s.State().Mode()
}

// LastResult returns the result of the most recent pass.
func (s *Server) LastResult() tiling.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Workspaces returns the configured workspace names.
func (s *Server) Workspaces() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.workspaces)
}

// update runs fn under the lock, retiles when fn asks for it and reports
// the new state.
func (s *Server) update(reason string, fn func() (retile bool, err error)) error {
	s.mu.Lock()
	retile, err := fn()
	if err == nil && retile {
		s.tileLocked(reason)
	}
	st := s.stateLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if s.onChange != nil {
		s.onChange(st)
	}
	return nil
}

// tileLocked runs one pass with the current state. In smart mode an
// adjusted resize geometry is stored for the next pass.
func (s *Server) tileLocked(reason string) {
	st := s.stateLocked()
	if st.Mode() == tiling.ModeOff {
		return
	}
	// A window under interactive resize keeps whatever box the drag left
	// it in.
	if s.resize != nil && s.resize.ViewID == s.resizing {
		if v, ok := s.desktop.View(s.resizing); ok {
			s.resize = &tiling.ResizeTarget{ViewID: v.ID, Geometry: v.Box()}
		}
	}
	res := s.engine.Arrange(tiling.Request{
		Mode:      st.Mode(),
		Workspace: s.workspace,
		Resize:    s.resize,
	})
	if st.Mode() == tiling.ModeSmart && s.resize != nil && res.Resize != nil {
		s.resize = res.Resize
	}
	s.last = res
	s.logger.Debug("retiled",
		"reason", reason,
		"mode", st.Mode(),
		"workspace", s.workspace,
		"placed", res.Placed,
		"resize_adjusted", res.ResizeAdjusted,
	)
}

// LoadScene replaces the desktop with f and tiles it. A resize in the
// scene becomes the remembered resize when smart mode is active.
func (s *Server) LoadScene(f *scene.File) error {
	return s.update("scene", func() (bool, error) {
		s.desktop.Reset(f)
		if f.Workspace != "" {
			if !slices.Contains(s.workspaces, f.Workspace) {
				s.workspaces = append(s.workspaces, f.Workspace)
			}
			s.workspace = f.Workspace
		}
		s.resize = nil
		if f.Resize != nil && s.enabled && !s.grid {
			s.resize = f.Resize.Target()
		}
		return true, nil
	})
}

// TileAllWindows recalculates the layout of the current workspace.
func (s *Server) TileAllWindows() error {
	return s.update("recalculate", func() (bool, error) { return true, nil })
}

// SetAutoTiling turns automatic tiling on or off. Both directions forget
// the remembered resize.
func (s *Server) SetAutoTiling(on bool) error {
	return s.update("auto-tiling", func() (bool, error) {
		s.enabled = on
		s.resize = nil
		return on, nil
	})
}

// ToggleAutoTiling flips automatic tiling.
func (s *Server) ToggleAutoTiling() error {
	return s.update("auto-tiling", func() (bool, error) {
		s.enabled = !s.enabled
		s.resize = nil
		return s.enabled, nil
	})
}

// SetGridMode switches between grid snapping and smart resize
// preservation. Entering grid mode forgets the remembered resize.
func (s *Server) SetGridMode(on bool) error {
	return s.update("grid-mode", func() (bool, error) {
		s.grid = on
		if on {
			s.resize = nil
		}
		return true, nil
	})
}

// ToggleGridMode flips grid mode.
func (s *Server) ToggleGridMode() error {
	return s.update("grid-mode", func() (bool, error) {
		s.grid = !s.grid
		if s.grid {
			s.resize = nil
		}
		return true, nil
	})
}

// MapView adds a new window and retiles. A view without a workspace lands
// on the current one.
func (s *Server) MapView(v scene.ViewSpec) (string, error) {
	var id string
	err := s.update("map", func() (bool, error) {
		if v.Workspace == "" {
			v.Workspace = s.workspace
		}
		var err error
		id, err = s.desktop.AddView(v)
		return true, err
	})
	return id, err
}

// UnmapView removes a window and retiles the rest. Removing the resized
// window forgets the resize.
func (s *Server) UnmapView(id string) error {
	return s.update("unmap", func() (bool, error) {
		if err := s.desktop.RemoveView(id); err != nil {
			return false, err
		}
		if s.resize != nil && s.resize.ViewID == id {
			s.resize = nil
		}
		if s.resizing == id {
			s.resizing = ""
		}
		return true, nil
	})
}

// Minimize hides a window; the others take its space.
func (s *Server) Minimize(id string) error {
	return s.setFlag("minimize", id, func(v *scene.ViewSpec) { v.Minimized = true })
}

// Restore brings a minimized window back into the layout.
func (s *Server) Restore(id string) error {
	return s.setFlag("restore", id, func(v *scene.ViewSpec) { v.Minimized = false })
}

// SetFullscreen takes a window out of, or back into, the layout.
func (s *Server) SetFullscreen(id string, on bool) error {
	return s.setFlag("fullscreen", id, func(v *scene.ViewSpec) { v.Fullscreen = on })
}

// MoveToWorkspace sends a window to another workspace.
func (s *Server) MoveToWorkspace(id, workspace string) error {
	return s.update("move-to-workspace", func() (bool, error) {
		if !slices.Contains(s.workspaces, workspace) {
			return false, fmt.Errorf("%w %q", ErrUnknownWorkspace, workspace)
		}
		return true, s.desktop.Update(id, func(v *scene.ViewSpec) { v.Workspace = workspace })
	})
}

func (s *Server) setFlag(reason, id string, fn func(*scene.ViewSpec)) error {
	return s.update(reason, func() (bool, error) {
		if err := s.desktop.Update(id, fn); err != nil {
			return false, err
		}
		return true, nil
	})
}

// SwitchWorkspace makes workspace current and tiles it.
func (s *Server) SwitchWorkspace(workspace string) error {
	return s.update("workspace", func() (bool, error) {
		if !slices.Contains(s.workspaces, workspace) {
			return false, fmt.Errorf("%w %q", ErrUnknownWorkspace, workspace)
		}
		s.workspace = workspace
		return true, nil
	})
}

// NextWorkspace switches to the following workspace, wrapping around.
func (s *Server) NextWorkspace() error {
	return s.cycleWorkspace(1)
}

// PrevWorkspace switches to the preceding workspace, wrapping around.
func (s *Server) PrevWorkspace() error {
	return s.cycleWorkspace(-1)
}

func (s *Server) cycleWorkspace(step int) error {
	return s.update("workspace", func() (bool, error) {
		n := len(s.workspaces)
		i := slices.Index(s.workspaces, s.workspace)
		s.workspace = s.workspaces[((i+step)%n+n)%n]
		return true, nil
	})
}

// AddOutput plugs in or reconfigures an output.
func (s *Server) AddOutput(o scene.OutputSpec) error {
	return s.update("output-add", func() (bool, error) {
		s.desktop.AddOutput(o)
		return true, nil
	})
}

// RemoveOutput unplugs an output; its windows move to the first
// remaining one.
func (s *Server) RemoveOutput(name string) error {
	return s.update("output-remove", func() (bool, error) {
		return true, s.desktop.RemoveOutput(name)
	})
}

// BeginResize marks the start of an interactive resize. In smart mode the
// window is held at its current box by every pass until the resize ends,
// so mapping or unmapping other windows never snaps it back to the grid.
func (s *Server) BeginResize(id string) error {
	return s.update("resize-begin", func() (bool, error) {
		v, ok := s.desktop.View(id)
		if !ok {
			return false, fmt.Errorf("%w %q", scene.ErrUnknownView, id)
		}
		s.resizing = id
		if s.enabled && !s.grid {
			s.resize = &tiling.ResizeTarget{ViewID: id, Geometry: v.Box()}
		}
		return false, nil
	})
}

// EndResize commits an interactive resize. In smart mode the window keeps
// its new content box and the others are arranged around it; in grid mode
// the layout snaps back; without tiling the window just takes the box.
func (s *Server) EndResize(id string, box layout.Box) error {
	return s.update("resize-end", func() (bool, error) {
		if _, ok := s.desktop.View(id); !ok {
			return false, fmt.Errorf("%w %q", scene.ErrUnknownView, id)
		}
		s.resizing = ""
		s.desktop.MoveResize(id, box)
		if !s.enabled {
			return false, nil
		}
		if !s.grid {
			s.resize = &tiling.ResizeTarget{ViewID: id, Geometry: box}
		}
		return true, nil
	})
}

// CancelResize abandons an interactive resize. The remembered resize is
// forgotten and the window returns to the grid.
func (s *Server) CancelResize(id string) error {
	return s.update("resize-cancel", func() (bool, error) {
		if s.resizing != id {
			return false, nil
		}
		s.resizing = ""
		if s.resize != nil && s.resize.ViewID == id {
			s.resize = nil
		}
		return true, nil
	})
}

// Resizing returns the id of the window under interactive resize.
func (s *Server) Resizing() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizing
}
