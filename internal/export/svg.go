package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/diffdrive/internal/sim"
)

// maxSVGPoints bounds the number of vertices written to a path element.
const maxSVGPoints = 5000

// PathToSVG draws the planar path of states as an SVG polyline with start
// and end markers. Axes keep the same scale and y points up.
func PathToSVG(states []sim.State, width, height int, strokeColor string) string {
	if len(states) < 2 {
		return ""
	}

	stride := 1
	if len(states) > maxSVGPoints {
		stride = (len(states) + maxSVGPoints - 1) / maxSVGPoints
	}

	// Find bounds
	minX, maxX := states[0].X, states[0].X
	minY, maxY := states[0].Y, states[0].Y
	for _, p := range states {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	pad := math.Max(rangeX, rangeY) * 0.1
	minX -= pad
	minY -= pad
	rangeX += 2 * pad
	rangeY += 2 * pad
	scale := math.Min(float64(width)/rangeX, float64(height)/rangeY)

	project := func(p sim.State) (float64, float64) {
		return (p.X - minX) * scale, float64(height) - (p.Y-minY)*scale
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	last := len(states) - 1
	for i := 0; i <= last; i += stride {
		x, y := project(states[i])
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	if last%stride != 0 {
		x, y := project(states[last])
		fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
	}
	sb.WriteString(`"/>
`)

	sx, sy := project(states[0])
	ex, ey := project(states[last])
	fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="4" fill="#00ff88"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="#ff4444"/>
`, sx, sy, ex, ey)

	// heading arrow at the end pose
	sin, cos := math.Sincos(states[last].Theta)
	fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ff4444" stroke-width="2"/>
`, ex, ey, ex+12*cos, ey-12*sin)

	sb.WriteString("</svg>")
	return sb.String()
}
