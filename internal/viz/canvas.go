// Package viz renders orbits and energy traces in the terminal: a
// braille pixel canvas for trajectories, ascii charts for series, and
// a bubbletea model for the live view.
package viz

import "strings"

// Braille cells pack 2x4 dots, so a WxH character canvas gives a
// (W*2)x(H*4) pixel surface. Dot bits within a cell, from the Unicode
// base 0x2800:
//
//	0x01 0x08
//	0x02 0x10
//	0x04 0x20
//	0x40 0x80
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a braille pixel buffer. Coordinates are in pixels with the
// origin at the top left; out-of-range pixels are ignored.
type Canvas struct {
	Width  int
	Height int
	cells  []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

// PixelWidth returns the drawable width in pixels.
func (c *Canvas) PixelWidth() int { return c.Width * 2 }

// PixelHeight returns the drawable height in pixels.
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotBits[y%4][x%2]
}

// Blot sets a filled square of pixels centered on (x, y), used for
// body markers that should read bigger than a single dot.
func (c *Canvas) Blot(x, y, radius int) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// Line draws between two pixels with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBase
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow((c.Width*3 + 1) * c.Height)
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
