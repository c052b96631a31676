package tui

import (
	"math"
	"strings"

	"github.com/san-kum/carsim/internal/dynamo"
)

const brailleBlank = 0x2800

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille plot of the ground plane. Dots are addressed in
// world metres relative to Center; Scale is metres per dot.
type Canvas struct {
	Width, Height int // cells
	Center        dynamo.Vec2
	Scale         float64
	grid          [][]rune
}

func NewCanvas(w, h int, scale float64) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Scale:  scale,
		grid:   make([][]rune, h),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.grid {
		for j := range c.grid[i] {
			c.grid[i][j] = brailleBlank
		}
	}
}

// dot maps a world point to dot coordinates; y grows downwards on screen.
func (c *Canvas) dot(p dynamo.Vec2) (int, int) {
	rel := p.Sub(c.Center).Scale(1 / c.Scale)
	x := int(math.Round(float64(c.Width) + rel.X))
	y := int(math.Round(float64(c.Height*2) - rel.Y))
	return x, y
}

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.grid[row][col] |= pixelMap[y%4][x%2]
}

// Plot sets the dot under world point p.
func (c *Canvas) Plot(p dynamo.Vec2) {
	c.set(c.dot(p))
}

// Line draws between two world points with Bresenham.
func (c *Canvas) Line(a, b dynamo.Vec2) {
	x0, y0 := c.dot(a)
	x1, y1 := c.dot(b)

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Body draws the chassis outline: a rectangle of the given half width
// reaching front and rear metres from p along heading.
func (c *Canvas) Body(p dynamo.Vec2, heading, front, rear, halfWidth float64) {
	sn, cs := math.Sincos(heading)
	corner := func(x, y float64) dynamo.Vec2 {
		return p.Add(dynamo.Vec2{X: x, Y: y}.ToWorld(sn, cs))
	}
	fl := corner(front, halfWidth)
	fr := corner(front, -halfWidth)
	rl := corner(-rear, halfWidth)
	rr := corner(-rear, -halfWidth)

	c.Line(fl, fr)
	c.Line(fr, rr)
	c.Line(rr, rl)
	c.Line(rl, fl)
	c.Line(p, corner(front, 0))
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.grid {
		b.WriteString(string(row))
		if i < len(c.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
