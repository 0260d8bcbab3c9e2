package scene

import (
	"fmt"
	"slices"
	"sync"

	"github.com/Gaurav-Gosain/tilewm/internal/config"
	"github.com/Gaurav-Gosain/tilewm/internal/layout"
	"github.com/Gaurav-Gosain/tilewm/internal/tiling"
	"github.com/google/uuid"
)

// Registry is an in-memory desktop. It implements tiling.ViewRegistry,
// tiling.OutputRegistry and tiling.Decorations, and rules.Identity.
type Registry struct {
	mu      sync.RWMutex
	outputs []OutputSpec
	views   []*ViewSpec
	deco    config.DecorationConfig
}

// NewRegistry loads the outputs and views of f.
func NewRegistry(f *File, deco config.DecorationConfig) *Registry {
	r := &Registry{deco: deco}
	r.Reset(f)
	return r
}

// Reset replaces the registry contents with f.
func (r *Registry) Reset(f *File) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.outputs = slices.Clone(f.Outputs)
	r.views = make([]*ViewSpec, 0, len(f.Views))
	for _, v := range f.Views {
		r.views = append(r.views, &v)
	}
}

// Snapshot returns the current state as a scene file.
func (r *Registry) Snapshot(workspace string) *File {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f := &File{Workspace: workspace, Outputs: slices.Clone(r.outputs)}
	for _, v := range r.views {
		f.Views = append(f.Views, *v)
	}
	return f
}

func (r *Registry) find(id string) *ViewSpec {
	for _, v := range r.views {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// View returns a copy of the view with the given id.
func (r *Registry) View(id string) (ViewSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v := r.find(id); v != nil {
		return *v, true
	}
	return ViewSpec{}, false
}

// Views implements tiling.ViewRegistry.
func (r *Registry) Views() []tiling.View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tiling.View, 0, len(r.views))
	for _, v := range r.views {
		axis, _ := ParseAxis(v.Maximized)
		out = append(out, tiling.View{
			ID:        v.ID,
			Box:       v.Box(),
			Output:    v.Output,
			Workspace: v.Workspace,
			Flags: tiling.Flags{
				Minimized:      v.Minimized,
				Fullscreen:     v.Fullscreen,
				AlwaysOnTop:    v.AlwaysOnTop,
				AlwaysOnBottom: v.AlwaysOnBottom,
				Maximized:      axis,
				Tiled:          v.Tiled,
			},
		})
	}
	return out
}

// MoveResize implements tiling.ViewRegistry.
func (r *Registry) MoveResize(id string, box layout.Box) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.find(id); v != nil {
		v.setBox(box)
	}
}

// Unmaximize implements tiling.ViewRegistry.
func (r *Registry) Unmaximize(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.find(id); v != nil {
		v.Maximized = ""
	}
}

// Untile implements tiling.ViewRegistry.
func (r *Registry) Untile(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v := r.find(id); v != nil {
		v.Tiled = false
	}
}

// Outputs implements tiling.OutputRegistry.
func (r *Registry) Outputs() []tiling.Output {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]tiling.Output, 0, len(r.outputs))
	for _, o := range r.outputs {
		out = append(out, tiling.Output{Name: o.Name, Usable: o.Usable()})
	}
	return out
}

// Margins implements tiling.Decorations.
func (r *Registry) Margins(id string) layout.Border {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v := r.find(id)
	if v == nil || !v.HasDecorations() {
		return layout.Border{}
	}
	b := r.deco.Border
	return layout.Border{Left: b, Top: b + r.deco.Titlebar, Right: b, Bottom: b}
}

// Identify implements rules.Identity.
func (r *Registry) Identify(id string) (string, string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v := r.find(id); v != nil {
		return v.AppID, v.Title, true
	}
	return "", "", false
}

// AddView maps a new view and returns its id.
func (r *Registry) AddView(v ViewSpec) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if r.find(v.ID) != nil {
		return "", fmt.Errorf("duplicate view %q", v.ID)
	}
	if v.Output == "" && len(r.outputs) > 0 {
		v.Output = r.outputs[0].Name
	}
	if !slices.ContainsFunc(r.outputs, func(o OutputSpec) bool { return o.Name == v.Output }) {
		return "", fmt.Errorf("%w %q", ErrUnknownOutput, v.Output)
	}
	if _, err := ParseAxis(v.Maximized); err != nil {
		return "", err
	}
	r.views = append(r.views, &v)
	return v.ID, nil
}

// RemoveView unmaps a view.
func (r *Registry) RemoveView(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.views, func(v *ViewSpec) bool { return v.ID == id })
	if i < 0 {
		return fmt.Errorf("%w %q", ErrUnknownView, id)
	}
	r.views = slices.Delete(r.views, i, i+1)
	return nil
}

// Update applies fn to the view with the given id.
func (r *Registry) Update(id string, fn func(*ViewSpec)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v := r.find(id)
	if v == nil {
		return fmt.Errorf("%w %q", ErrUnknownView, id)
	}
	fn(v)
	return nil
}

// AddOutput adds or replaces an output.
func (r *Registry) AddOutput(o OutputSpec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := slices.IndexFunc(r.outputs, func(x OutputSpec) bool { return x.Name == o.Name }); i >= 0 {
		r.outputs[i] = o
		return
	}
	r.outputs = append(r.outputs, o)
}

// RemoveOutput removes an output. Its views move to the first remaining
// output; without one they stay orphaned and are never tiled.
func (r *Registry) RemoveOutput(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.IndexFunc(r.outputs, func(o OutputSpec) bool { return o.Name == name })
	if i < 0 {
		return fmt.Errorf("%w %q", ErrUnknownOutput, name)
	}
	r.outputs = slices.Delete(r.outputs, i, i+1)
	if len(r.outputs) == 0 {
		return nil
	}
	for _, v := range r.views {
		if v.Output == name {
			v.Output = r.outputs[0].Name
		}
	}
	return nil
}
