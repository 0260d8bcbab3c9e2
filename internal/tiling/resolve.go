package tiling

import (
	"slices"

	"github.com/Gaurav-Gosain/tilewm/internal/layout"
)

// resolve fixes up the resized view after its neighbours were placed. It
// clamps the view into usable space, pulls it back from any view it now
// overlaps, and otherwise grows it into free space no neighbour claims.
// The returned target holds the final content box.
func (e *Engine) resolve(r *tile, geo layout.Box, others []*tile, adjacent map[*tile]layout.Side, usable layout.Box) (*ResizeTarget, bool) {
	gap := e.opts.Gap

	requested := geo.Outset(r.margin)
	full := requested.ClampInto(usable)
	adjusted := full != requested

	overlapped := false
	for _, o := range others {
		if _, ok := adjacent[o]; ok {
			continue
		}
		of := o.full()
		if !full.Intersects(of) {
			continue
		}
		full = shrinkAway(full, of, gap)
		overlapped = true
	}

	if overlapped {
		adjusted = true
	} else if grown, ok := e.expand(full, others, adjacent, usable); ok {
		full = grown
		adjusted = true
	}

	e.apply(r, full, usable, false)
	if adjusted {
		e.logger.Debug("resized window adjusted", "id", r.id, "from", geo, "to", r.box)
	}
	return &ResizeTarget{ViewID: r.id, Geometry: r.box}, adjusted
}

// shrinkAway moves the edge of full facing other so the two boxes are one
// gap apart, along the axis where they overlap the least.
func shrinkAway(full, other layout.Box, gap int) layout.Box {
	overlapX := min(full.Right(), other.Right()) - max(full.X, other.X)
	overlapY := min(full.Bottom(), other.Bottom()) - max(full.Y, other.Y)

	if overlapX <= overlapY {
		if full.X < other.X {
			full.Width = other.X - gap - full.X
		} else {
			x := other.Right() + gap
			full.Width = full.Right() - x
			full.X = x
		}
	} else {
		if full.Y < other.Y {
			full.Height = other.Y - gap - full.Y
		} else {
			y := other.Bottom() + gap
			full.Height = full.Bottom() - y
			full.Y = y
		}
	}
	full.Width = max(full.Width, 0)
	full.Height = max(full.Height, 0)
	return full
}

type expansion struct {
	side  layout.Side
	space int
}

// expand grows full toward the side with the most free space, as long as
// no adjacent view sits on that side and the grown box stays clear of
// every other view.
func (e *Engine) expand(full layout.Box, others []*tile, adjacent map[*tile]layout.Side, usable layout.Box) (layout.Box, bool) {
	gap := e.opts.Gap
	tol := e.tolerance()
	m := full.Margins(usable)

	candidates := []expansion{
		{layout.SideLeft, m.Left},
		{layout.SideRight, m.Right},
		{layout.SideTop, m.Top},
		{layout.SideBottom, m.Bottom},
	}
	slices.SortStableFunc(candidates, func(a, b expansion) int {
		return b.space - a.space
	})

	var blocked layout.Side
	for t := range adjacent {
		blocked |= layout.Sides(full, t.full(), tol)
	}

	for _, c := range candidates {
		if c.space <= gap || blocked.Has(c.side) {
			continue
		}
		grown := growToward(full, usable, c.side, gap)
		if collides(grown, others, gap) {
			continue
		}
		return grown, true
	}
	return full, false
}

// growToward extends one edge of b to sit a gap away from the usable edge.
func growToward(b, usable layout.Box, side layout.Side, gap int) layout.Box {
	switch side {
	case layout.SideLeft:
		x := usable.X + gap
		b.Width += b.X - x
		b.X = x
	case layout.SideRight:
		b.Width = usable.Right() - gap - b.X
	case layout.SideTop:
		y := usable.Y + gap
		b.Height += b.Y - y
		b.Y = y
	case layout.SideBottom:
		b.Height = usable.Bottom() - gap - b.Y
	}
	return b
}

// collides reports whether b comes closer than gap to any of the tiles.
func collides(b layout.Box, tiles []*tile, gap int) bool {
	pad := layout.Border{Left: gap, Top: gap, Right: gap, Bottom: gap}
	for _, t := range tiles {
		if b.Intersects(t.full().Outset(pad)) {
			return true
		}
	}
	return false
}
