package tiling

import (
	"testing"

	"github.com/Gaurav-Gosain/tilewm/internal/layout"
)

func TestSubGrid(t *testing.T) {
	wide := layout.Box{Width: 1000, Height: 300}
	tall := layout.Box{Width: 300, Height: 900}

	tests := []struct {
		name       string
		n          int
		area       layout.Box
		cols, rows int
	}{
		{"pair in a wide strip", 2, wide, 2, 1},
		{"pair in a tall strip", 2, tall, 1, 2},
		{"three never split", 3, tall, 2, 2},
		{"four", 4, wide, 2, 2},
		{"five in a wide strip", 5, wide, 3, 2},
		{"five in a tall strip", 5, tall, 2, 3},
		{"six in a tall strip", 6, tall, 2, 3},
		{"seven", 7, wide, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := subGrid(tt.n, layout.Preference{}, tt.area)
			if g.Cols != tt.cols || g.Rows != tt.rows {
				t.Errorf("subGrid = %dx%d, want %dx%d", g.Cols, g.Rows, tt.cols, tt.rows)
			}
			if g.VerticalSplit {
				t.Error("sub-grids never use the vertical split")
			}
		})
	}
}

func TestSeparation(t *testing.T) {
	ref := layout.Box{X: 100, Y: 100, Width: 100, Height: 100}
	tests := []struct {
		name   string
		other  layout.Box
		dx, dy int
	}{
		{"right and below", layout.Box{X: 250, Y: 220, Width: 10, Height: 10}, 50, 20},
		{"left and above", layout.Box{X: 10, Y: 10, Width: 20, Height: 20}, 70, 70},
		{"overlapping columns", layout.Box{X: 150, Y: 300, Width: 10, Height: 10}, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dx, dy := separation(ref, tt.other)
			if dx != tt.dx || dy != tt.dy {
				t.Errorf("separation = (%d, %d), want (%d, %d)", dx, dy, tt.dx, tt.dy)
			}
		})
	}
}
