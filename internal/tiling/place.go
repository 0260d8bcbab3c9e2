package tiling

import "github.com/Gaurav-Gosain/tilewm/internal/layout"

// cellSize divides area into equal cells with a gap around each. When the
// gaps leave no room it falls back to plain division.
func cellSize(area layout.Box, g layout.Grid, gap int) (int, int) {
	if g.Cols <= 0 || g.Rows <= 0 {
		return 0, 0
	}
	innerW := area.Width - (g.Cols+1)*gap
	innerH := area.Height - (g.Rows+1)*gap
	if innerW > 0 && innerH > 0 {
		return innerW / g.Cols, innerH / g.Rows
	}
	return max(area.Width/g.Cols, 0), max(area.Height/g.Rows, 0)
}

// place assigns each tile to its grid cell inside area, in order.
func (e *Engine) place(tiles []*tile, area, usable layout.Box, g layout.Grid, allowSplit bool) int {
	gap := e.opts.Gap
	cw, ch := cellSize(area, g, gap)
	split := allowSplit && g.VerticalSplit && len(tiles) == 3

	for idx, t := range tiles {
		var cell layout.Box
		if split {
			cell = splitCell(area, idx, gap)
		} else {
			cell = gridCell(area, g, idx, cw, ch, gap)
		}
		e.apply(t, cell, usable, true)
	}
	return len(tiles)
}

// gridCell computes the outer box of cell idx. An incomplete last row gets
// wider cells, the last cell of each row absorbs the rounding remainder up
// to the right edge and the last row reaches the bottom edge.
func gridCell(area layout.Box, g layout.Grid, idx, cw, ch, gap int) layout.Box {
	col := idx % g.Cols
	row := idx / g.Cols
	lastRow := row == g.Rows-1

	rowCols := g.Cols
	w := cw
	if lastRow && g.LastRowCount < g.Cols && g.LastRowCount > 0 {
		rowCols = g.LastRowCount
		w = (area.Width - (rowCols+1)*gap) / rowCols
		if w <= 0 {
			w = max(area.Width/rowCols, 0)
		}
	}

	x := area.X + (col+1)*gap + col*w
	y := area.Y + (row+1)*gap + row*ch
	h := ch

	if col == rowCols-1 {
		if right := area.Right() - gap; x+w < right {
			w = right - x
		}
	}
	if lastRow {
		if bottom := area.Bottom() - gap; y+h < bottom {
			h = bottom - y
		}
	}
	return layout.Box{X: x, Y: y, Width: w, Height: h}
}

// splitCell is the three-window vertical split: one full-height cell on
// the left and two stacked cells on the right.
func splitCell(area layout.Box, idx, gap int) layout.Box {
	half := (area.Width - 3*gap) / 2
	if idx == 0 {
		return layout.Box{
			X:      area.X + gap,
			Y:      area.Y + gap,
			Width:  half,
			Height: area.Height - 2*gap,
		}
	}

	r := idx - 1
	rh := (area.Height - 3*gap) / 2
	x := area.X + 2*gap + half
	y := area.Y + (r+1)*gap + r*rh
	h := rh
	if r == 1 {
		h = area.Bottom() - gap - y
	}
	return layout.Box{X: x, Y: y, Width: area.Right() - gap - x, Height: h}
}

// apply clamps the full box into usable, derives the content box and hands
// it to the registry. Placed views are unmaximized and untiled first.
func (e *Engine) apply(t *tile, full, usable layout.Box, normalize bool) {
	full = full.ClampInto(usable)
	content := full.Inset(t.margin).ClampInto(usable)

	if normalize {
		if t.flags.Maximized != AxisNone {
			e.views.Unmaximize(t.id)
			t.flags.Maximized = AxisNone
		}
		if t.flags.Tiled {
			e.views.Untile(t.id)
			t.flags.Tiled = false
		}
	}

	e.views.MoveResize(t.id, content)
	t.box = content
}
