package layout_test

import (
	"testing"

	"github.com/Gaurav-Gosain/tilewm/internal/layout"
)

func TestClassify(t *testing.T) {
	const gap = 10
	tol := layout.Tolerance(gap, layout.DefaultEdgeSlack)
	ref := layout.Box{X: 100, Y: 100, Width: 300, Height: 200} // right 400, bottom 300

	tests := []struct {
		name  string
		other layout.Box
		want  layout.Side
	}{
		{
			name:  "right neighbour separated by gap",
			other: layout.Box{X: 410, Y: 100, Width: 200, Height: 200},
			want:  layout.SideRight,
		},
		{
			name:  "left neighbour within slack",
			other: layout.Box{X: 0, Y: 120, Width: 86, Height: 100},
			want:  layout.SideLeft,
		},
		{
			name:  "below",
			other: layout.Box{X: 100, Y: 310, Width: 300, Height: 100},
			want:  layout.SideBottom,
		},
		{
			name:  "above",
			other: layout.Box{X: 150, Y: 0, Width: 100, Height: 90},
			want:  layout.SideTop,
		},
		{
			name:  "diagonal bottom right",
			other: layout.Box{X: 410, Y: 310, Width: 100, Height: 100},
			want:  layout.SideRight | layout.SideBottom,
		},
		{
			name:  "overlapping",
			other: layout.Box{X: 200, Y: 150, Width: 300, Height: 100},
			want:  layout.SideOverlap,
		},
		{
			name:  "far away",
			other: layout.Box{X: 700, Y: 600, Width: 100, Height: 100},
			want:  layout.SideNone,
		},
		{
			name:  "same row band but far right",
			other: layout.Box{X: 900, Y: 250, Width: 100, Height: 100},
			want:  layout.SideRight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := layout.Classify(ref, tt.other, tol)
			if got != tt.want {
				t.Errorf("Classify = %v, want %v", got, tt.want)
			}
			if got.Adjacent() != (tt.want != layout.SideNone) {
				t.Errorf("Adjacent() = %v", got.Adjacent())
			}
		})
	}
}

func TestSideString(t *testing.T) {
	tests := []struct {
		side layout.Side
		want string
	}{
		{layout.SideNone, "none"},
		{layout.SideLeft, "left"},
		{layout.SideRight | layout.SideBottom, "right|bottom"},
		{layout.SideOverlap, "overlap"},
	}
	for _, tt := range tests {
		if got := tt.side.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
