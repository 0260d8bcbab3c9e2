package tiling

import (
	"slices"

	"github.com/Gaurav-Gosain/tilewm/internal/layout"
)

// fakeDesktop is an in-memory registry for engine tests.
type fakeDesktop struct {
	views   []View
	outputs []Output
	margins map[string]layout.Border
	props   map[string]map[string]Property

	moves       int
	unmaximized []string
	untiled     []string
}

func newFakeDesktop(usable layout.Box) *fakeDesktop {
	return &fakeDesktop{
		outputs: []Output{{Name: "eDP-1", Usable: usable}},
		margins: make(map[string]layout.Border),
		props:   make(map[string]map[string]Property),
	}
}

func (f *fakeDesktop) add(id string, box layout.Box) *View {
	f.views = append(f.views, View{ID: id, Box: box, Output: "eDP-1", Workspace: "1"})
	return &f.views[len(f.views)-1]
}

func (f *fakeDesktop) set(id, key string, p Property) {
	if f.props[id] == nil {
		f.props[id] = make(map[string]Property)
	}
	f.props[id][key] = p
}

func (f *fakeDesktop) box(id string) layout.Box {
	for _, v := range f.views {
		if v.ID == id {
			return v.Box
		}
	}
	return layout.Box{}
}

func (f *fakeDesktop) Views() []View { return slices.Clone(f.views) }

func (f *fakeDesktop) MoveResize(id string, box layout.Box) {
	f.moves++
	for i := range f.views {
		if f.views[i].ID == id {
			f.views[i].Box = box
		}
	}
}

func (f *fakeDesktop) Unmaximize(id string) {
	f.unmaximized = append(f.unmaximized, id)
	for i := range f.views {
		if f.views[i].ID == id {
			f.views[i].Flags.Maximized = AxisNone
		}
	}
}

func (f *fakeDesktop) Untile(id string) {
	f.untiled = append(f.untiled, id)
	for i := range f.views {
		if f.views[i].ID == id {
			f.views[i].Flags.Tiled = false
		}
	}
}

func (f *fakeDesktop) Outputs() []Output { return slices.Clone(f.outputs) }

func (f *fakeDesktop) Property(id, key string) Property {
	return f.props[id][key]
}

func (f *fakeDesktop) Margins(id string) layout.Border {
	return f.margins[id]
}

func (f *fakeDesktop) engine() *Engine {
	return New(f, f, f, f, DefaultOptions())
}
