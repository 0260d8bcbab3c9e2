// Package layout provides the geometry primitives and pure layout policies
// used by the tiling engine: boxes, decoration borders, the grid sizer and
// the adjacency classifier.
package layout

import "fmt"

// Box is an axis-aligned rectangle in layout coordinates.
type Box struct {
	X      int `toml:"x"`
	Y      int `toml:"y"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Border holds the thickness added around a content box by decorations.
type Border struct {
	Left   int `toml:"left"`
	Top    int `toml:"top"`
	Right  int `toml:"right"`
	Bottom int `toml:"bottom"`
}

// Right returns the x coordinate one past the right edge.
func (b Box) Right() int { return b.X + b.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (b Box) Bottom() int { return b.Y + b.Height }

// Empty reports whether the box has no area.
func (b Box) Empty() bool { return b.Width <= 0 || b.Height <= 0 }

// Aspect returns width/height, or 1 for a box without height.
func (b Box) Aspect() float64 {
	if b.Height <= 0 {
		return 1
	}
	return float64(b.Width) / float64(b.Height)
}

func (b Box) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", b.Width, b.Height, b.X, b.Y)
}

// Outset grows the content box by the border, producing the full box.
func (b Box) Outset(m Border) Box {
	return Box{
		X:      b.X - m.Left,
		Y:      b.Y - m.Top,
		Width:  b.Width + m.Left + m.Right,
		Height: b.Height + m.Top + m.Bottom,
	}
}

// Inset shrinks the full box by the border, producing the content box.
// Width and height never go negative.
func (b Box) Inset(m Border) Box {
	return Box{
		X:      b.X + m.Left,
		Y:      b.Y + m.Top,
		Width:  max(b.Width-m.Left-m.Right, 0),
		Height: max(b.Height-m.Top-m.Bottom, 0),
	}
}

// ClampInto fits b inside area by moving overflowing edges inward. The edge
// that is already inside stays where it is, so an overflowing box shrinks
// instead of being translated.
func (b Box) ClampInto(area Box) Box {
	if b.X < area.X {
		b.Width -= area.X - b.X
		b.X = area.X
	}
	if b.Y < area.Y {
		b.Height -= area.Y - b.Y
		b.Y = area.Y
	}
	if b.X > area.Right() {
		b.X = area.Right()
	}
	if b.Y > area.Bottom() {
		b.Y = area.Bottom()
	}
	if b.Right() > area.Right() {
		b.Width = area.Right() - b.X
	}
	if b.Bottom() > area.Bottom() {
		b.Height = area.Bottom() - b.Y
	}
	b.Width = max(b.Width, 0)
	b.Height = max(b.Height, 0)
	return b
}

// Contains reports whether o lies entirely inside b.
func (b Box) Contains(o Box) bool {
	return o.X >= b.X && o.Y >= b.Y && o.Right() <= b.Right() && o.Bottom() <= b.Bottom()
}

// Intersects reports whether the interiors of b and o overlap. Boxes that
// only touch along an edge do not intersect.
func (b Box) Intersects(o Box) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	return b.X < o.Right() && o.X < b.Right() && b.Y < o.Bottom() && o.Y < b.Bottom()
}

// Union returns the bounding box of b and o.
func (b Box) Union(o Box) Box {
	x, y := min(b.X, o.X), min(b.Y, o.Y)
	return Box{
		X:      x,
		Y:      y,
		Width:  max(b.Right(), o.Right()) - x,
		Height: max(b.Bottom(), o.Bottom()) - y,
	}
}

// Margins returns the free space between b and each edge of area.
func (b Box) Margins(area Box) Border {
	return Border{
		Left:   b.X - area.X,
		Top:    b.Y - area.Y,
		Right:  area.Right() - b.Right(),
		Bottom: area.Bottom() - b.Bottom(),
	}
}
