package tiling

import "github.com/Gaurav-Gosain/tilewm/internal/layout"

// fill grows boundary views into unused space on every output until an
// iteration changes nothing or the iteration cap is reached. The resized
// view is never grown. It returns the number of iterations run.
func (e *Engine) fill(workspace, resizedID string) int {
	outputs := e.outputs.Outputs()
	settled := make([]bool, len(outputs))

	iterations := 0
	for iterations < e.opts.FillIterations {
		iterations++
		views := e.views.Views()

		done := true
		for i, out := range outputs {
			if settled[i] {
				continue
			}
			tiles := e.eligible(views, out.Name, workspace)
			if len(tiles) == 0 || e.fillOutput(out.Usable, tiles, resizedID) == 0 {
				settled[i] = true
				continue
			}
			done = false
		}
		if done {
			break
		}
	}

	if iterations == e.opts.FillIterations {
		e.logger.Debug("fill stopped at iteration cap", "iterations", iterations)
	}
	return iterations
}

// fillOutput runs one fill iteration on an output and returns how many
// views it grew. The occupied region and its margins are updated after
// every growth, so later views match against the grown region.
func (e *Engine) fillOutput(usable layout.Box, tiles []*tile, resizedID string) int {
	gap := e.opts.Gap
	tol := e.tolerance()

	occupied := tiles[0].full()
	for _, t := range tiles[1:] {
		occupied = occupied.Union(t.full())
	}
	m := occupied.Margins(usable)
	if m.Left <= gap && m.Right <= gap && m.Top <= gap && m.Bottom <= gap {
		return 0
	}

	expanded := 0
	for _, t := range tiles {
		if t.id == resizedID {
			continue
		}
		full := t.full()
		grown := full

		try := func(g layout.Box) {
			if !collides(g, without(tiles, t), gap) {
				grown = g
			}
		}
		if m.Left > gap && abs(full.X-occupied.X) <= tol {
			g := grown
			g.X -= m.Left - gap
			g.Width += m.Left - gap
			try(g)
		}
		if m.Right > gap && abs(full.Right()-occupied.Right()) <= tol {
			g := grown
			g.Width += m.Right - gap
			try(g)
		}
		if m.Top > gap && abs(full.Y-occupied.Y) <= tol {
			g := grown
			g.Y -= m.Top - gap
			g.Height += m.Top - gap
			try(g)
		}
		if m.Bottom > gap && abs(full.Bottom()-occupied.Bottom()) <= tol {
			g := grown
			g.Height += m.Bottom - gap
			try(g)
		}
		if grown == full {
			continue
		}

		before := t.box
		e.apply(t, grown, usable, false)
		if t.box == before {
			continue
		}
		expanded++

		occupied = occupied.Union(t.full())
		m = occupied.Margins(usable)
	}
	return expanded
}

func without(tiles []*tile, skip *tile) []*tile {
	out := make([]*tile, 0, len(tiles))
	for _, t := range tiles {
		if t != skip {
			out = append(out, t)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
