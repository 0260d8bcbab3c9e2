package tiling

import "github.com/Gaurav-Gosain/tilewm/internal/layout"

type outputPass struct {
	placed   int
	resize   *ResizeTarget
	adjusted bool
}

// arrangeOutput lays out the eligible views of one output.
func (e *Engine) arrangeOutput(out Output, tiles []*tile, resize *ResizeTarget) outputPass {
	usable := out.Usable
	pref := preference(tiles)

	var resized *tile
	others := tiles
	if resize != nil {
		for i, t := range tiles {
			if t.id == resize.ViewID {
				resized = t
				others = make([]*tile, 0, len(tiles)-1)
				others = append(others, tiles[:i]...)
				others = append(others, tiles[i+1:]...)
				break
			}
		}
	}

	if resized == nil {
		grid, ok := layout.SizeGrid(len(tiles), pref, usable.Aspect())
		if !ok {
			return outputPass{}
		}
		e.logger.Debug("grid",
			"output", out.Name,
			"windows", len(tiles),
			"template", grid.Template,
			"cols", grid.Cols,
			"rows", grid.Rows,
		)
		return outputPass{placed: e.place(tiles, usable, usable, grid, true)}
	}

	if len(others) == 0 {
		full := resize.Geometry.Outset(resized.margin).ClampInto(usable)
		e.apply(resized, full, usable, false)
		return outputPass{
			placed:   1,
			resize:   &ResizeTarget{ViewID: resized.id, Geometry: resized.box},
			adjusted: resized.box != resize.Geometry,
		}
	}

	rFull := resize.Geometry.Outset(resized.margin).ClampInto(usable)
	plan := e.reconcile(rFull, others, usable, pref)
	e.logger.Debug("reconcile",
		"output", out.Name,
		"resized", resized.id,
		"adjacent", len(plan.adjacent),
		"side", plan.side,
		"area", plan.area,
		"cols", plan.grid.Cols,
		"rows", plan.grid.Rows,
	)

	placed := e.place(plan.group, plan.area, usable, plan.grid, false)
	target, adjusted := e.resolve(resized, resize.Geometry, others, plan.adjacent, usable)
	return outputPass{placed: placed + 1, resize: target, adjusted: adjusted}
}

// reconcilePlan says where the neighbours of a resized view go.
type reconcilePlan struct {
	group    []*tile
	adjacent map[*tile]layout.Side
	side     layout.Side
	area     layout.Box
	grid     layout.Grid
}

// reconcile finds the views adjacent to the resized full box and picks the
// remaining-space rectangle they are laid out in. Without adjacent views
// every other view is re-laid out.
func (e *Engine) reconcile(rFull layout.Box, others []*tile, usable layout.Box, pref layout.Preference) reconcilePlan {
	tol := e.tolerance()
	plan := reconcilePlan{adjacent: make(map[*tile]layout.Side)}

	var seen layout.Side
	for _, t := range others {
		s := layout.Classify(rFull, t.full(), tol)
		if !s.Adjacent() {
			continue
		}
		plan.adjacent[t] = s
		plan.group = append(plan.group, t)
		seen |= s
	}

	space := rFull.Margins(usable)
	if len(plan.group) > 0 {
		plan.side = exclusiveSide(seen)
		if plan.side == layout.SideNone {
			plan.side = e.largestSide(space, usable)
		}
		plan.area = remainingArea(plan.side, rFull, usable)
		// Views that stay put must not sit inside the strip the group is
		// laid out in.
		for _, t := range others {
			if _, ok := plan.adjacent[t]; !ok && t.full().Intersects(plan.area) {
				plan.group = append(plan.group, t)
			}
		}
		plan.grid = subGrid(len(plan.group), pref, plan.area)
		return plan
	}

	plan.group = others
	if len(others) == 2 {
		if side, grid, ok := e.pairLayout(rFull, others, space); ok {
			plan.side = side
			plan.area = remainingArea(side, rFull, usable)
			plan.grid = grid
			return plan
		}
	}
	plan.side = e.largestSide(space, usable)
	plan.area = remainingArea(plan.side, rFull, usable)
	plan.grid = subGrid(len(others), pref, plan.area)
	return plan
}

// exclusiveSide returns the single side the neighbours occupy, checked in
// horizontal-first order, or SideNone when they are spread out.
func exclusiveSide(seen layout.Side) layout.Side {
	switch {
	case seen.Has(layout.SideRight) && !seen.Has(layout.SideLeft):
		return layout.SideRight
	case seen.Has(layout.SideLeft) && !seen.Has(layout.SideRight):
		return layout.SideLeft
	case seen.Has(layout.SideBottom) && !seen.Has(layout.SideTop):
		return layout.SideBottom
	case seen.Has(layout.SideTop) && !seen.Has(layout.SideBottom):
		return layout.SideTop
	}
	return layout.SideNone
}

// sideOrder is the tie-break order for remaining-space selection.
var sideOrder = []layout.Side{layout.SideRight, layout.SideLeft, layout.SideBottom, layout.SideTop}

func sideSpace(side layout.Side, space layout.Border) int {
	switch side {
	case layout.SideLeft:
		return space.Left
	case layout.SideRight:
		return space.Right
	case layout.SideTop:
		return space.Top
	case layout.SideBottom:
		return space.Bottom
	}
	return 0
}

// largestSide picks the free side with the most area. Sides whose free
// space does not exceed the gap only count when no side does.
func (e *Engine) largestSide(space layout.Border, usable layout.Box) layout.Side {
	area := func(s layout.Side) int {
		if s == layout.SideLeft || s == layout.SideRight {
			return sideSpace(s, space) * usable.Height
		}
		return sideSpace(s, space) * usable.Width
	}

	pick := func(requireRoom bool) layout.Side {
		best, bestArea := layout.SideNone, 0
		for _, s := range sideOrder {
			if requireRoom && sideSpace(s, space) <= e.opts.Gap {
				continue
			}
			if a := area(s); best == layout.SideNone || a > bestArea {
				best, bestArea = s, a
			}
		}
		return best
	}

	if s := pick(true); s != layout.SideNone {
		return s
	}
	return pick(false)
}

// pairLayout handles two remaining windows with no adjacency: when both sit
// beside the resized view they are stacked in a side column, when both
// sit above or below they share a row. Neither window touches the resized
// box, so each is assigned to the axis along which it is farther away.
func (e *Engine) pairLayout(rFull layout.Box, pair []*tile, space layout.Border) (layout.Side, layout.Grid, bool) {
	var beside, stacked int
	for _, t := range pair {
		dx, dy := separation(rFull, t.full())
		if dx >= dy {
			beside++
		} else {
			stacked++
		}
	}

	switch {
	case beside == 2:
		side := layout.SideRight
		if space.Left > space.Right {
			side = layout.SideLeft
		}
		return side, layout.Fixed(2, 1, 2), true
	case stacked == 2:
		side := layout.SideBottom
		if space.Top > space.Bottom {
			side = layout.SideTop
		}
		return side, layout.Fixed(2, 2, 1), true
	}
	return layout.SideNone, layout.Grid{}, false
}

// separation returns the horizontal and vertical distance between two
// boxes. It is zero along an axis where their spans overlap.
func separation(a, b layout.Box) (dx, dy int) {
	dx = max(b.X-a.Right(), a.X-b.Right(), 0)
	dy = max(b.Y-a.Bottom(), a.Y-b.Bottom(), 0)
	return dx, dy
}

// remainingArea is the strip of usable space on one side of the resized
// full box. It starts right at the resized edge; the placer adds the gap.
func remainingArea(side layout.Side, rFull, usable layout.Box) layout.Box {
	var area layout.Box
	switch side {
	case layout.SideRight:
		area = layout.Box{X: rFull.Right(), Y: usable.Y, Width: usable.Right() - rFull.Right(), Height: usable.Height}
	case layout.SideLeft:
		area = layout.Box{X: usable.X, Y: usable.Y, Width: rFull.X - usable.X, Height: usable.Height}
	case layout.SideBottom:
		area = layout.Box{X: usable.X, Y: rFull.Bottom(), Width: usable.Width, Height: usable.Bottom() - rFull.Bottom()}
	case layout.SideTop:
		area = layout.Box{X: usable.X, Y: usable.Y, Width: usable.Width, Height: rFull.Y - usable.Y}
	default:
		return usable
	}
	area.Width = max(area.Width, 0)
	area.Height = max(area.Height, 0)
	return area
}

// subGrid sizes the grid for a remaining-space rectangle. The vertical
// split template is never used here. In a tall strip a grid with more
// columns than rows is transposed; aspect-driven templates already fit.
func subGrid(n int, pref layout.Preference, area layout.Box) layout.Grid {
	g, ok := layout.SizeGrid(n, pref, area.Aspect())
	if !ok {
		return layout.Grid{}
	}
	g.VerticalSplit = false
	if area.Height > area.Width && g.Cols > g.Rows {
		g = g.Transpose()
	}
	return g
}
