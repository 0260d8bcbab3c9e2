package layout

// Template names one of the fixed grid shapes the sizer can choose.
type Template int

const (
	// Single is one window filling the area.
	Single Template = iota
	// SideBySide is two columns in one row.
	SideBySide
	// Quad is a 2x2 grid. With three windows the last row holds one
	// window that spans the full width.
	Quad
	// QuadLeftSpan is a 2x2 grid whose left column is one full-height
	// cell, leaving two half-height cells on the right.
	QuadLeftSpan
	// Wide is three columns by two rows.
	Wide
	// Tall is two columns by three rows.
	Tall
	// Columns is three columns with as many rows as needed.
	Columns
)

var templateNames = map[Template]string{
	Single:       "single",
	SideBySide:   "side-by-side",
	Quad:         "quad",
	QuadLeftSpan: "quad-left-span",
	Wide:         "wide",
	Tall:         "tall",
	Columns:      "columns",
}

func (t Template) String() string {
	if name, ok := templateNames[t]; ok {
		return name
	}
	return "unknown"
}

// Orientation is the split direction used to break ties between templates.
type Orientation int

const (
	// Horizontal favours rows stacked top to bottom (wide outputs).
	Horizontal Orientation = iota
	// Vertical favours columns laid out left to right (tall outputs).
	Vertical
)

// Preference carries the tileDirection rule results seen on an output.
type Preference struct {
	Vertical   bool
	Horizontal bool
}

// Grid is the result of sizing: a column/row count plus the template that
// produced it.
type Grid struct {
	Template      Template
	Cols          int
	Rows          int
	VerticalSplit bool
	// LastRowCount is the number of cells in the final row; when it is
	// smaller than Cols the final row is stretched to the full width.
	LastRowCount int
	Count        int
}

// Aspect ratio thresholds above which an output counts as wide.
const (
	threeWindowAspect = 1.5
	fiveWindowAspect  = 1.3
)

// orient resolves the split direction. An explicit preference only counts
// when it is unambiguous; otherwise the aspect ratio decides.
func orient(pref Preference, aspect, threshold float64) Orientation {
	switch {
	case pref.Vertical && !pref.Horizontal:
		return Vertical
	case pref.Horizontal && !pref.Vertical:
		return Horizontal
	case aspect > threshold:
		return Horizontal
	default:
		return Vertical
	}
}

var templatesByCount = map[int]func(Preference, float64) Template{
	1: func(Preference, float64) Template { return Single },
	2: func(Preference, float64) Template { return SideBySide },
	3: func(pref Preference, aspect float64) Template {
		if orient(pref, aspect, threeWindowAspect) == Vertical {
			return QuadLeftSpan
		}
		return Quad
	},
	4: func(Preference, float64) Template { return Quad },
	5: func(pref Preference, aspect float64) Template {
		if orient(pref, aspect, fiveWindowAspect) == Vertical {
			return Tall
		}
		return Wide
	},
	6: func(Preference, float64) Template { return Wide },
}

// SizeGrid picks the grid for n windows. It returns false when there is
// nothing to lay out.
func SizeGrid(n int, pref Preference, aspect float64) (Grid, bool) {
	if n <= 0 {
		return Grid{}, false
	}

	tmpl := Columns
	if pick, ok := templatesByCount[n]; ok {
		tmpl = pick(pref, aspect)
	}

	g := Grid{Template: tmpl, Count: n}
	switch tmpl {
	case Single:
		g.Cols, g.Rows = 1, 1
	case SideBySide:
		g.Cols, g.Rows = 2, 1
	case Quad:
		g.Cols, g.Rows = 2, 2
	case QuadLeftSpan:
		g.Cols, g.Rows = 2, 2
		g.VerticalSplit = true
	case Wide:
		g.Cols, g.Rows = 3, 2
	case Tall:
		g.Cols, g.Rows = 2, 3
	default:
		g.Cols = 3
		g.Rows = (n + 2) / 3
	}
	g.LastRowCount = lastRowCount(n, g.Cols)
	return g, true
}

// Transpose swaps columns and rows, for laying a grid into an area that is
// taller than it is wide. The vertical split has no transposed form and is
// dropped.
func (g Grid) Transpose() Grid {
	if g.Cols == g.Rows {
		return g
	}
	g.Cols, g.Rows = g.Rows, g.Cols
	g.VerticalSplit = false
	// Keep enough rows for every window once the column count shrinks.
	if need := (g.Count + g.Cols - 1) / g.Cols; need > g.Rows {
		g.Rows = need
	}
	g.LastRowCount = lastRowCount(g.Count, g.Cols)
	return g
}

// Fixed builds a grid with explicit dimensions.
func Fixed(n, cols, rows int) Grid {
	return Grid{
		Template:     Columns,
		Cols:         cols,
		Rows:         rows,
		Count:        n,
		LastRowCount: lastRowCount(n, cols),
	}
}

func lastRowCount(n, cols int) int {
	if cols <= 0 {
		return 0
	}
	if r := n % cols; r != 0 {
		return r
	}
	return cols
}
