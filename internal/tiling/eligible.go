package tiling

import "github.com/Gaurav-Gosain/tilewm/internal/layout"

// tile is the engine's working copy of an eligible view.
type tile struct {
	id     string
	box    layout.Box
	margin layout.Border
	flags  Flags
	dir    Property
}

func (t *tile) full() layout.Box {
	return t.box.Outset(t.margin)
}

// eligible returns the views on output and workspace that take part in
// tiling, in registry order.
func (e *Engine) eligible(views []View, output, workspace string) []*tile {
	var tiles []*tile
	for _, v := range views {
		if v.Output != output || v.Workspace != workspace {
			continue
		}
		if !e.tileable(v) {
			continue
		}
		tiles = append(tiles, &tile{
			id:     v.ID,
			box:    v.Box,
			margin: e.deco.Margins(v.ID),
			flags:  v.Flags,
			dir:    e.rules.Property(v.ID, KeyTileDirection),
		})
	}
	return tiles
}

// tileable applies the per-view exclusions: state flags first, then rules.
func (e *Engine) tileable(v View) bool {
	f := v.Flags
	if f.Minimized || f.Fullscreen || f.AlwaysOnTop || f.AlwaysOnBottom {
		return false
	}
	if e.rules.Property(v.ID, KeyFixedPosition) == PropTrue {
		return false
	}
	return e.rules.Property(v.ID, KeyTile) != PropFalse
}

// preference scans tileDirection across the eligible views.
func preference(tiles []*tile) layout.Preference {
	var p layout.Preference
	for _, t := range tiles {
		switch t.dir {
		case PropTrue:
			p.Vertical = true
		case PropFalse:
			p.Horizontal = true
		}
	}
	return p
}
