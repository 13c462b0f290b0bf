package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// SetPixel sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Point is a position in world coordinates.
type Point struct {
	X, Y float64
}

// Projection maps world coordinates onto the sub-pixel grid of a canvas,
// keeping the aspect ratio and flipping y so that up is north.
type Projection struct {
	minX, minY float64
	scale      float64
	pxH        int
}

// Fit returns a projection that places every point inside a canvas of
// w x h characters with a small margin.
func Fit(points []Point, w, h int) Projection {
	pxW, pxH := w*2, h*4
	if len(points) == 0 {
		return Projection{scale: 1, pxH: pxH}
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	pad := 0.05 * math.Max(rangeX, rangeY)
	minX -= pad
	minY -= pad
	rangeX += 2 * pad
	rangeY += 2 * pad

	scale := math.Min(float64(pxW-1)/rangeX, float64(pxH-1)/rangeY)
	return Projection{minX: minX, minY: minY, scale: scale, pxH: pxH}
}

// Project returns sub-pixel coordinates for p.
func (pr Projection) Project(p Point) (int, int) {
	x := (p.X - pr.minX) * pr.scale
	y := float64(pr.pxH-1) - (p.Y-pr.minY)*pr.scale
	return int(math.Round(x)), int(math.Round(y))
}

// DrawPath draws the polyline through points.
func (c *Canvas) DrawPath(points []Point, pr Projection) {
	if len(points) == 1 {
		c.Set(pr.Project(points[0]))
		return
	}
	for i := 1; i < len(points); i++ {
		x0, y0 := pr.Project(points[i-1])
		x1, y1 := pr.Project(points[i])
		c.DrawLine(x0, y0, x1, y1)
	}
}

// PathCanvas renders a whole path into a new canvas.
func PathCanvas(points []Point, w, h int) *Canvas {
	c := NewCanvas(w, h)
	c.DrawPath(points, Fit(points, w, h))
	return c
}
