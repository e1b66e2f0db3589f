package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"objradar.klederson.com/internal/radar"
)

type cell struct {
	ch rune
	st radar.Style
}

// Canvas is a character grid that implements radar.Surface. Drawing happens
// in a logical coordinate space of width x height units which is scaled onto
// cols x rows cells, so the same scene renders at any terminal size.
type Canvas struct {
	cols, rows    int
	width, height float64
	cells         [][]cell
}

// NewCanvas creates a canvas of cols x rows cells covering a logical area of
// width x height.
func NewCanvas(cols, rows int, width, height float64) *Canvas {
	c := &Canvas{}
	c.Resize(cols, rows, width, height)
	return c
}

// Resize changes the grid size and clears it.
func (c *Canvas) Resize(cols, rows int, width, height float64) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c.cols, c.rows = cols, rows
	c.width, c.height = width, height
	c.cells = make([][]cell, rows)
	for i := range c.cells {
		c.cells[i] = make([]cell, cols)
	}
}

// Size returns the grid size in cells.
func (c *Canvas) Size() (cols, rows int) {
	return c.cols, c.rows
}

// cellW and cellH are the logical size of one cell.
func (c *Canvas) cellW() float64 { return c.width / float64(c.cols) }
func (c *Canvas) cellH() float64 { return c.height / float64(c.rows) }

// toCell maps a logical point to the cell containing it.
func (c *Canvas) toCell(x, y float64) (col, row int) {
	return int(math.Floor(x / c.cellW())), int(math.Floor(y / c.cellH()))
}

// center returns the logical center of a cell.
func (c *Canvas) center(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * c.cellW(), (float64(row) + 0.5) * c.cellH()
}

func (c *Canvas) set(col, row int, ch rune, st radar.Style) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row][col] = cell{ch: ch, st: st}
}

// At returns the character at a cell, or 0 outside the grid or when empty.
func (c *Canvas) At(col, row int) rune {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return 0
	}
	return c.cells[row][col].ch
}

// Clear empties every cell.
func (c *Canvas) Clear() {
	for _, row := range c.cells {
		for i := range row {
			row[i] = cell{}
		}
	}
}

// StrokeCircle marks the cells the circle passes through.
func (c *Canvas) StrokeCircle(cx, cy, r float64, st radar.Style) {
	half := math.Max(c.cellW(), c.cellH()) / 2
	c.eachCell(cx, cy, r+half, func(col, row int, dx, dy, d float64) {
		if math.Abs(d-r) > half {
			return
		}
		ch := st.Glyph
		if ch == 0 {
			ch = radar.RingChar(math.Atan2(dy, dx))
		}
		c.set(col, row, ch, st)
	})
}

// FillCircle fills the disc. The cell holding the center is always painted
// so discs smaller than a cell stay visible.
func (c *Canvas) FillCircle(cx, cy, r float64, st radar.Style) {
	ch := glyphOr(st, '*')
	c.eachCell(cx, cy, r, func(col, row int, dx, dy, d float64) {
		if d <= r {
			c.set(col, row, ch, st)
		}
	})
	col, row := c.toCell(cx, cy)
	c.set(col, row, ch, st)
}

// FillWedge fills the sector swept clockwise from angle from to angle to.
func (c *Canvas) FillWedge(cx, cy, r, from, to float64, st radar.Style) {
	ch := glyphOr(st, '#')
	span := radar.NormalizeAngle(to - from)
	c.eachCell(cx, cy, r, func(col, row int, dx, dy, d float64) {
		if d > r || d == 0 {
			return
		}
		if radar.NormalizeAngle(math.Atan2(dy, dx)-from) <= span {
			c.set(col, row, ch, st)
		}
	})
}

// Line draws a straight segment.
func (c *Canvas) Line(x0, y0, x1, y1 float64, st radar.Style) {
	ch := st.Glyph
	if ch == 0 {
		ch = lineChar(x1-x0, y1-y0)
	}
	c0, r0 := c.toCell(x0, y0)
	c1, r1 := c.toCell(x1, y1)
	steps := intAbs(c1 - c0)
	if n := intAbs(r1 - r0); n > steps {
		steps = n
	}
	if steps == 0 {
		c.set(c0, r0, ch, st)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col := c0 + int(math.Round(t*float64(c1-c0)))
		row := r0 + int(math.Round(t*float64(r1-r0)))
		c.set(col, row, ch, st)
	}
}

// StrokeRect outlines a rectangle. Edges that land exactly on the far side
// of the canvas are pulled in so frame borders stay visible.
func (c *Canvas) StrokeRect(x, y, w, h float64, st radar.Style) {
	left, top := c.toCell(x, y)
	right, bottom := c.toCell(x+w, y+h)
	if right >= c.cols {
		right = c.cols - 1
	}
	if bottom >= c.rows {
		bottom = c.rows - 1
	}
	horiz, vert, corner := '-', '|', '+'
	if st.Glyph != 0 {
		horiz, vert, corner = st.Glyph, st.Glyph, st.Glyph
	}
	for col := left; col <= right; col++ {
		c.set(col, top, horiz, st)
		c.set(col, bottom, horiz, st)
	}
	for row := top; row <= bottom; row++ {
		c.set(left, row, vert, st)
		c.set(right, row, vert, st)
	}
	c.set(left, top, corner, st)
	c.set(right, top, corner, st)
	c.set(left, bottom, corner, st)
	c.set(right, bottom, corner, st)
}

// Text writes s starting at the cell containing (x, y), clipped to the grid.
func (c *Canvas) Text(x, y float64, s string, st radar.Style) {
	col, row := c.toCell(x, y)
	for i, ch := range []rune(s) {
		c.set(col+i, row, ch, st)
	}
}

// eachCell visits every cell whose center lies within reach of (cx, cy),
// passing the offset and distance from the center in logical units.
func (c *Canvas) eachCell(cx, cy, reach float64, fn func(col, row int, dx, dy, d float64)) {
	minC, minR := c.toCell(cx-reach, cy-reach)
	maxC, maxR := c.toCell(cx+reach, cy+reach)
	if minC < 0 {
		minC = 0
	}
	if minR < 0 {
		minR = 0
	}
	if maxC >= c.cols {
		maxC = c.cols - 1
	}
	if maxR >= c.rows {
		maxR = c.rows - 1
	}
	for row := minR; row <= maxR; row++ {
		for col := minC; col <= maxC; col++ {
			x, y := c.center(col, row)
			dx, dy := x-cx, y-cy
			fn(col, row, dx, dy, math.Hypot(dx, dy))
		}
	}
}

// String renders the grid, one line per row, grouping runs of equal style
// into a single lipgloss render.
func (c *Canvas) String() string {
	var sb strings.Builder
	for i, row := range c.cells {
		if i > 0 {
			sb.WriteByte('\n')
		}
		var run []rune
		var runSt radar.Style
		flush := func() {
			if len(run) == 0 {
				return
			}
			sb.WriteString(renderStyle(runSt).Render(string(run)))
			run = run[:0]
		}
		for _, cl := range row {
			ch := cl.ch
			if ch == 0 {
				ch = ' '
			}
			if cl.st != runSt {
				flush()
				runSt = cl.st
			}
			run = append(run, ch)
		}
		flush()
	}
	return sb.String()
}

// Plain returns the grid without styling.
func (c *Canvas) Plain() string {
	lines := make([]string, len(c.cells))
	for i, row := range c.cells {
		rs := make([]rune, len(row))
		for j, cl := range row {
			rs[j] = cl.ch
			if rs[j] == 0 {
				rs[j] = ' '
			}
		}
		lines[i] = string(rs)
	}
	return strings.Join(lines, "\n")
}

func renderStyle(st radar.Style) lipgloss.Style {
	s := lipgloss.NewStyle()
	if st.Color != "" {
		s = s.Foreground(st.Color)
	}
	if st.Bold {
		s = s.Bold(true)
	}
	return s
}

func glyphOr(st radar.Style, def rune) rune {
	if st.Glyph != 0 {
		return st.Glyph
	}
	return def
}

// lineChar picks a character following a segment's direction (y down).
func lineChar(dx, dy float64) rune {
	switch {
	case math.Abs(dy) < math.Abs(dx)/2:
		return '-'
	case math.Abs(dx) < math.Abs(dy)/2:
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func intAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
