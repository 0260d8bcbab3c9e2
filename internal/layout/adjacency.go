package layout

import "strings"

// Side is a set of directions in which one box lies relative to another.
type Side uint8

const (
	// SideNone means the boxes are not adjacent.
	SideNone Side = 0
	// SideLeft means the other box lies to the left.
	SideLeft Side = 1 << iota
	// SideRight means the other box lies to the right.
	SideRight
	// SideTop means the other box lies above.
	SideTop
	// SideBottom means the other box lies below.
	SideBottom
	// SideOverlap marks an adjacent box that is not clearly on any side,
	// usually because the two boxes overlap.
	SideOverlap
)

// DefaultEdgeSlack is added to the gap when matching edges, to absorb
// rounding noise from margin arithmetic.
const DefaultEdgeSlack = 5

// Has reports whether s contains every bit of o.
func (s Side) Has(o Side) bool { return o != SideNone && s&o == o }

// Adjacent reports whether any classification bit is set.
func (s Side) Adjacent() bool { return s != SideNone }

func (s Side) String() string {
	if s == SideNone {
		return "none"
	}
	var parts []string
	for _, e := range []struct {
		side Side
		name string
	}{
		{SideLeft, "left"},
		{SideRight, "right"},
		{SideTop, "top"},
		{SideBottom, "bottom"},
		{SideOverlap, "overlap"},
	} {
		if s.Has(e.side) {
			parts = append(parts, e.name)
		}
	}
	return strings.Join(parts, "|")
}

// Tolerance returns the edge matching distance for a gap.
func Tolerance(gap, slack int) int {
	return gap + slack
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Classify decides whether other is adjacent to ref and on which sides.
//
// Two boxes are adjacent when a horizontal or vertical edge of one lies
// within tol of the facing edge of the other, or when their spans overlap
// along either axis. An adjacent box that sits on no particular side is
// reported as SideOverlap.
func Classify(ref, other Box, tol int) Side {
	sharesHorizontal := abs(other.Y-ref.Bottom()) <= tol ||
		abs(other.Bottom()-ref.Y) <= tol ||
		(other.Y < ref.Bottom() && other.Bottom() > ref.Y)
	sharesVertical := abs(other.X-ref.Right()) <= tol ||
		abs(other.Right()-ref.X) <= tol ||
		(other.X < ref.Right() && other.Right() > ref.X)
	if !sharesHorizontal && !sharesVertical {
		return SideNone
	}

	s := Sides(ref, other, tol)
	if s == SideNone {
		s = SideOverlap
	}
	return s
}

// Sides reports on which sides of ref the box other lies, without
// checking adjacency first.
func Sides(ref, other Box, tol int) Side {
	var s Side
	if other.X >= ref.Right()-tol {
		s |= SideRight
	}
	if other.Right() <= ref.X+tol {
		s |= SideLeft
	}
	if other.Y >= ref.Bottom()-tol {
		s |= SideBottom
	}
	if other.Bottom() <= ref.Y+tol {
		s |= SideTop
	}
	return s
}
