package render

import (
	"math"
	"strings"

	"github.com/chalktalk/chalktalk/pkg/scene"
)

// Braille cells pack 2x4 dots per character. Dot-to-bit layout:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800.
var brailleBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a Surface that rasterizes shapes onto a braille character grid
// for terminal display. Logical canvas coordinates (700x450) are scaled to
// the dot grid; text is overlaid on whole cells.
type Canvas struct {
	cols, rows int
	grid       [][]rune
	overlay    map[[2]int]rune
}

// NewCanvas creates a terminal canvas of cols x rows characters.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{cols: cols, rows: rows, overlay: make(map[[2]int]rune)}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	c.grid = make([][]rune, c.rows)
	for i := range c.grid {
		c.grid[i] = make([]rune, c.cols)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	c.overlay = make(map[[2]int]rune)
}

// dot maps logical coordinates to dot-grid coordinates and sets the dot.
func (c *Canvas) dot(x, y float64) {
	dx := int(math.Round(x / scene.CanvasWidth * float64(c.cols*2)))
	dy := int(math.Round(y / scene.CanvasHeight * float64(c.rows*4)))
	if dx < 0 || dy < 0 {
		return
	}
	col, row := dx/2, dy/4
	if col >= c.cols || row >= c.rows {
		return
	}
	c.grid[row][col] |= brailleBits[dy%4][dx%2]
}

func (c *Canvas) strokeLine(x1, y1, x2, y2 float64) {
	steps := int(math.Hypot(x2-x1, y2-y1)/2) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.dot(x1+(x2-x1)*t, y1+(y2-y1)*t)
	}
}

func (c *Canvas) Circle(ci Circle) {
	if ci.Opacity <= 0 {
		return
	}
	steps := int(ci.R) + 16
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		c.dot(ci.X+math.Cos(a)*ci.R, ci.Y+math.Sin(a)*ci.R)
	}
}

func (c *Canvas) Rect(r Rect) {
	if r.Opacity <= 0 {
		return
	}
	c.strokeLine(r.X, r.Y, r.X+r.Width, r.Y)
	c.strokeLine(r.X+r.Width, r.Y, r.X+r.Width, r.Y+r.Height)
	c.strokeLine(r.X+r.Width, r.Y+r.Height, r.X, r.Y+r.Height)
	c.strokeLine(r.X, r.Y+r.Height, r.X, r.Y)
}

func (c *Canvas) Arrow(a Arrow) {
	if a.Opacity <= 0 {
		return
	}
	tipX, tipY := a.X+a.DX, a.Y+a.DY
	c.strokeLine(a.X, a.Y, tipX, tipY)
	lx, ly, rx, ry := a.HeadPoints()
	c.strokeLine(tipX, tipY, lx, ly)
	c.strokeLine(tipX, tipY, rx, ry)
}

func (c *Canvas) Text(t Text) {
	if t.Opacity <= 0 || t.Content == "" {
		return
	}
	col := int(t.X / scene.CanvasWidth * float64(c.cols))
	row := int(t.Y / scene.CanvasHeight * float64(c.rows))
	runes := []rune(t.Content)
	switch t.Align {
	case "left":
	case "right":
		col -= len(runes)
	default:
		col -= len(runes) / 2
	}
	for i, r := range runes {
		cc := col + i
		if cc < 0 || cc >= c.cols || row < 0 || row >= c.rows {
			continue
		}
		c.overlay[[2]int{row, cc}] = r
	}
}

func (c *Canvas) Line(l Line) {
	if l.Opacity <= 0 {
		return
	}
	c.strokeLine(l.X1, l.Y1, l.X2, l.Y2)
}

// String renders the grid with text overlaid on top of the dot raster.
func (c *Canvas) String() string {
	var sb strings.Builder
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			if r, ok := c.overlay[[2]int{row, col}]; ok {
				sb.WriteRune(r)
				continue
			}
			sb.WriteRune(c.grid[row][col])
		}
		if row < c.rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
