package app

import (
	"errors"
	"testing"

	"github.com/Gaurav-Gosain/tilewm/internal/config"
	"github.com/Gaurav-Gosain/tilewm/internal/control"
	"github.com/Gaurav-Gosain/tilewm/internal/layout"
	"github.com/Gaurav-Gosain/tilewm/internal/scene"
	"github.com/Gaurav-Gosain/tilewm/internal/tiling"
)

const twoViews = `
workspace = "1"

[[outputs]]
name = "eDP-1"
width = 1000
height = 600

[[views]]
id = "a"
app_id = "foot"
decorated = false
width = 300
height = 200

[[views]]
id = "b"
app_id = "firefox"
decorated = false
x = 400
width = 300
height = 200
`

var (
	leftHalf  = layout.Box{X: 10, Y: 10, Width: 485, Height: 580}
	rightHalf = layout.Box{X: 505, Y: 10, Width: 485, Height: 580}
	fullArea  = layout.Box{X: 10, Y: 10, Width: 980, Height: 580}
)

func newServer(t *testing.T, mode string) (*Server, *scene.Registry, *[]State) {
	t.Helper()
	f, err := scene.Parse([]byte(twoViews))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Tiling.Mode = mode

	reg := scene.NewRegistry(f, cfg.Decoration)
	var changes []State
	s := New(reg, nil, Options{
		Config:   cfg,
		OnChange: func(st State) { changes = append(changes, st) },
	})
	if err := s.TileAllWindows(); err != nil {
		t.Fatalf("TileAllWindows failed: %v", err)
	}
	return s, reg, &changes
}

func boxOf(t *testing.T, reg *scene.Registry, id string) layout.Box {
	t.Helper()
	v, ok := reg.View(id)
	if !ok {
		t.Fatalf("view %q missing", id)
	}
	return v.Box()
}

func TestNewState(t *testing.T) {
	s, reg, changes := newServer(t, "smart")

	st := s.State()
	if !st.Enabled || st.Grid || st.Workspace != "1" || st.Resize != nil {
		t.Errorf("unexpected initial state %+v", st)
	}
	if s.Mode() != tiling.ModeSmart {
		t.Errorf("Mode() = %v", s.Mode())
	}
	if got := boxOf(t, reg, "a"); got != leftHalf {
		t.Errorf("a = %v, want %v", got, leftHalf)
	}
	if got := boxOf(t, reg, "b"); got != rightHalf {
		t.Errorf("b = %v, want %v", got, rightHalf)
	}
	if len(*changes) != 1 {
		t.Errorf("expected one change notification, got %d", len(*changes))
	}
	if s.LastResult().Placed != 2 {
		t.Errorf("LastResult().Placed = %d", s.LastResult().Placed)
	}
}

func TestStateMode(t *testing.T) {
	tests := []struct {
		st   State
		want tiling.Mode
	}{
		{State{}, tiling.ModeOff},
		{State{Grid: true}, tiling.ModeOff},
		{State{Enabled: true}, tiling.ModeSmart},
		{State{Enabled: true, Grid: true}, tiling.ModeGrid},
	}
	for _, tt := range tests {
		if got := tt.st.Mode(); got != tt.want {
			t.Errorf("%+v.Mode() = %v, want %v", tt.st, got, tt.want)
		}
	}
}

func TestEndResizeSmart(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	if err := s.BeginResize("a"); err != nil {
		t.Fatal(err)
	}
	if s.Resizing() != "a" {
		t.Errorf("Resizing() = %q", s.Resizing())
	}

	dragged := layout.Box{X: 10, Y: 10, Width: 300, Height: 580}
	if err := s.EndResize("a", dragged); err != nil {
		t.Fatalf("EndResize failed: %v", err)
	}

	st := s.State()
	if st.Resize == nil || st.Resize.ViewID != "a" {
		t.Fatalf("resize not remembered: %+v", st.Resize)
	}
	if got := boxOf(t, reg, "a"); got != dragged {
		t.Errorf("a = %v, want %v", got, dragged)
	}
	b := boxOf(t, reg, "b")
	if b.X <= dragged.Right() || b.Right() > 990 {
		t.Errorf("b = %v should sit right of a inside the output", b)
	}
	if b.Intersects(dragged) {
		t.Errorf("b %v overlaps a %v", b, dragged)
	}
	if s.Resizing() != "" {
		t.Error("EndResize should clear the interactive resize")
	}

	// A later pass keeps the resized geometry.
	if err := s.TileAllWindows(); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "a"); got != dragged {
		t.Errorf("after recalculate a = %v, want %v", got, dragged)
	}
}

func TestEndResizeGrid(t *testing.T) {
	s, reg, _ := newServer(t, "grid")

	if err := s.EndResize("a", layout.Box{X: 10, Y: 10, Width: 300, Height: 580}); err != nil {
		t.Fatal(err)
	}
	if s.State().Resize != nil {
		t.Error("grid mode should not remember the resize")
	}
	if got := boxOf(t, reg, "a"); got != leftHalf {
		t.Errorf("a = %v, want snapped %v", got, leftHalf)
	}
}

func TestEndResizeDisabled(t *testing.T) {
	s, reg, _ := newServer(t, "off")

	box := layout.Box{X: 50, Y: 60, Width: 200, Height: 100}
	if err := s.EndResize("b", box); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "b"); got != box {
		t.Errorf("b = %v, want %v", got, box)
	}
	if s.State().Resize != nil {
		t.Error("resize should not be remembered while tiling is off")
	}
}

func TestEndResizeUnknownView(t *testing.T) {
	s, _, _ := newServer(t, "smart")
	if err := s.EndResize("nope", layout.Box{}); !errors.Is(err, scene.ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got %v", err)
	}
	if err := s.BeginResize("nope"); !errors.Is(err, scene.ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got %v", err)
	}
}

func TestCancelResize(t *testing.T) {
	s, _, changes := newServer(t, "smart")
	if err := s.EndResize("b", layout.Box{X: 400, Y: 10, Width: 590, Height: 580}); err != nil {
		t.Fatal(err)
	}
	before := len(*changes)

	if err := s.BeginResize("b"); err != nil {
		t.Fatal(err)
	}
	if r := s.State().Resize; r == nil || r.ViewID != "b" {
		t.Fatalf("resize during the drag = %+v, want one for b", r)
	}
	if err := s.CancelResize("a"); err != nil {
		t.Fatal(err)
	}
	if s.Resizing() != "b" || s.State().Resize == nil {
		t.Error("cancelling another view should not end the resize")
	}
	if err := s.CancelResize("b"); err != nil {
		t.Fatal(err)
	}
	if s.Resizing() != "" || s.State().Resize != nil {
		t.Errorf("cancel left state behind: %+v", s.State())
	}
	if len(*changes) != before+3 {
		t.Errorf("expected 3 notifications, got %d", len(*changes)-before)
	}
}

func TestResizeHeldDuringDrag(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	if err := s.BeginResize("a"); err != nil {
		t.Fatal(err)
	}
	dragged := layout.Box{X: 10, Y: 10, Width: 700, Height: 580}
	reg.MoveResize("a", dragged)

	id, err := s.MapView(scene.ViewSpec{AppID: "mpv", Width: 100, Height: 100, Decorated: new(bool)})
	if err != nil {
		t.Fatalf("MapView failed: %v", err)
	}

	if got := boxOf(t, reg, "a"); got != dragged {
		t.Errorf("a = %v, want %v", got, dragged)
	}
	if r := s.State().Resize; r == nil || r.ViewID != "a" || r.Geometry != dragged {
		t.Errorf("resize = %+v, want a at %v", r, dragged)
	}
	for _, other := range []string{"b", id} {
		if box := boxOf(t, reg, other); box.Intersects(dragged) {
			t.Errorf("%s = %v overlaps the dragged window", other, box)
		}
	}

	if err := s.CancelResize("a"); err != nil {
		t.Fatal(err)
	}
	if s.State().Resize != nil {
		t.Error("cancel should forget the resize")
	}
	if got := boxOf(t, reg, "a"); got == dragged {
		t.Errorf("a stayed at %v after cancel", got)
	}
}

func TestGridModeClearsResize(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	if err := s.EndResize("a", layout.Box{X: 10, Y: 10, Width: 300, Height: 580}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetGridMode(true); err != nil {
		t.Fatal(err)
	}
	if st := s.State(); !st.Grid || st.Resize != nil {
		t.Errorf("grid-mode on should drop the resize: %+v", st)
	}
	if got := boxOf(t, reg, "a"); got != leftHalf {
		t.Errorf("a = %v, want %v", got, leftHalf)
	}

	if err := s.ToggleGridMode(); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != tiling.ModeSmart {
		t.Errorf("Mode() = %v after toggle", s.Mode())
	}
}

func TestAutoTiling(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	if err := s.EndResize("a", layout.Box{X: 10, Y: 10, Width: 300, Height: 580}); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleAutoTiling(); err != nil {
		t.Fatal(err)
	}
	if st := s.State(); st.Enabled || st.Resize != nil {
		t.Errorf("disable should clear the resize: %+v", st)
	}

	// Windows stay where they are while tiling is off.
	if err := s.Minimize("b"); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "a"); got.Width != 300 {
		t.Errorf("a moved while tiling was off: %v", got)
	}

	if err := s.SetAutoTiling(true); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "a"); got != fullArea {
		t.Errorf("a = %v, want %v", got, fullArea)
	}
}

func TestMinimizeRestore(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	if err := s.Minimize("b"); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "a"); got != fullArea {
		t.Errorf("a = %v, want %v", got, fullArea)
	}
	if err := s.Restore("b"); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "b"); got != rightHalf {
		t.Errorf("b = %v, want %v", got, rightHalf)
	}
	if err := s.Minimize("ghost"); !errors.Is(err, scene.ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got %v", err)
	}
}

func TestFullscreenLeavesLayout(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	if err := s.SetFullscreen("a", true); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "b"); got != fullArea {
		t.Errorf("b = %v, want %v", got, fullArea)
	}
}

func TestMapUnmap(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	id, err := s.MapView(scene.ViewSpec{AppID: "mpv", Width: 100, Height: 100, Decorated: new(bool)})
	if err != nil {
		t.Fatalf("MapView failed: %v", err)
	}
	v, ok := reg.View(id)
	if !ok || v.Workspace != "1" {
		t.Fatalf("mapped view = %+v, %v", v, ok)
	}
	if s.LastResult().Placed != 3 {
		t.Errorf("Placed = %d, want 3", s.LastResult().Placed)
	}

	if err := s.EndResize(id, v.Box()); err != nil {
		t.Fatal(err)
	}
	if err := s.UnmapView(id); err != nil {
		t.Fatal(err)
	}
	if s.State().Resize != nil {
		t.Error("unmapping the resized view should forget the resize")
	}
	if got := boxOf(t, reg, "a"); got != leftHalf {
		t.Errorf("a = %v, want %v", got, leftHalf)
	}
	if err := s.UnmapView(id); !errors.Is(err, scene.ErrUnknownView) {
		t.Errorf("expected ErrUnknownView, got %v", err)
	}
}

func TestWorkspaces(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	if err := s.PrevWorkspace(); err != nil {
		t.Fatal(err)
	}
	if ws := s.State().Workspace; ws != "4" {
		t.Errorf("prev from 1 = %q, want 4", ws)
	}
	if err := s.NextWorkspace(); err != nil {
		t.Fatal(err)
	}
	if err := s.NextWorkspace(); err != nil {
		t.Fatal(err)
	}
	if ws := s.State().Workspace; ws != "2" {
		t.Errorf("workspace = %q, want 2", ws)
	}

	if err := s.SwitchWorkspace("9"); !errors.Is(err, ErrUnknownWorkspace) {
		t.Errorf("expected ErrUnknownWorkspace, got %v", err)
	}

	if err := s.MoveToWorkspace("b", "2"); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "b"); got != fullArea {
		t.Errorf("b alone on workspace 2 = %v, want %v", got, fullArea)
	}
	if err := s.SwitchWorkspace("1"); err != nil {
		t.Fatal(err)
	}
	if got := boxOf(t, reg, "a"); got != fullArea {
		t.Errorf("a alone on workspace 1 = %v, want %v", got, fullArea)
	}
}

func TestOutputs(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	err := s.AddOutput(scene.OutputSpec{Name: "HDMI-A-1", X: 1000, Width: 800, Height: 600})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RemoveOutput("eDP-1"); err != nil {
		t.Fatal(err)
	}
	a := boxOf(t, reg, "a")
	if a.X < 1000 {
		t.Errorf("a = %v should have moved to the remaining output", a)
	}
	if err := s.RemoveOutput("eDP-1"); !errors.Is(err, scene.ErrUnknownOutput) {
		t.Errorf("expected ErrUnknownOutput, got %v", err)
	}
}

func TestLoadScene(t *testing.T) {
	s, reg, _ := newServer(t, "smart")

	f, err := scene.Parse([]byte(twoViews + `
[resize]
view = "b"
x = 300
y = 10
width = 690
height = 580
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := s.LoadScene(f); err != nil {
		t.Fatal(err)
	}
	st := s.State()
	if st.Resize == nil || st.Resize.ViewID != "b" {
		t.Fatalf("scene resize not adopted: %+v", st.Resize)
	}
	if got := boxOf(t, reg, "b"); got.X != 300 {
		t.Errorf("b = %v should keep its dragged left edge", got)
	}
	if a := boxOf(t, reg, "a"); a.Intersects(boxOf(t, reg, "b")) {
		t.Errorf("a %v overlaps b", a)
	}
}

func TestApply(t *testing.T) {
	s, _, _ := newServer(t, "smart")

	steps := []struct {
		cmd  control.Command
		want State
	}{
		{control.Tiling(control.CmdGridMode, control.ArgOn), State{Enabled: true, Grid: true, Workspace: "1"}},
		{control.Tiling(control.CmdGridMode, control.ArgToggle), State{Enabled: true, Workspace: "1"}},
		{control.Tiling(control.CmdDisable, ""), State{Workspace: "1"}},
		{control.Tiling(control.CmdToggle, ""), State{Enabled: true, Workspace: "1"}},
		{control.Workspace(control.CmdSwitch, "3"), State{Enabled: true, Workspace: "3"}},
		{control.Workspace(control.CmdNext, ""), State{Enabled: true, Workspace: "4"}},
		{control.Workspace(control.CmdNext, ""), State{Enabled: true, Workspace: "1"}},
		{control.Workspace(control.CmdPrev, ""), State{Enabled: true, Workspace: "4"}},
		{control.Tiling(control.CmdRecalculate, ""), State{Enabled: true, Workspace: "4"}},
		{control.Tiling(control.CmdGridMode, control.ArgOff), State{Enabled: true, Workspace: "4"}},
		{control.Tiling(control.CmdEnable, ""), State{Enabled: true, Workspace: "4"}},
	}
	for _, step := range steps {
		if err := s.Apply(step.cmd); err != nil {
			t.Fatalf("Apply(%s) failed: %v", step.cmd, err)
		}
		if got := s.State(); got != step.want {
			t.Errorf("after %s state = %+v, want %+v", step.cmd, got, step.want)
		}
	}

	err := s.Apply(control.Command{Channel: control.ChannelTiling, Name: "explode"})
	if !errors.Is(err, control.ErrUnknownCommand) {
		t.Errorf("expected ErrUnknownCommand, got %v", err)
	}
}
