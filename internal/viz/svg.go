package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/decsim/decsim/internal/gravity"
)

var svgPalette = []string{"#00ff00", "#00bfff", "#ff6347", "#ffd700", "#ee82ee", "#7fffd4"}

// TrajectorySVG renders each body's XY track from a stored run as one
// SVG document: a path per body plus a dot at its final position. All
// tracks share one coordinate frame with a 10% margin.
func TrajectorySVG(history []gravity.Snapshot, bodies []string, width, height int) string {
	if len(history) < 2 || len(bodies) == 0 {
		return ""
	}

	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, snap := range history {
		for _, name := range bodies {
			p := snap.Objects[name].Position
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	toScreen := func(p gravity.Vec3F) (float64, float64) {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for bi, name := range bodies {
		color := svgPalette[bi%len(svgPalette)]

		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for i, snap := range history {
			x, y := toScreen(snap.Objects[name].Position)
			if i == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")

		x, y := toScreen(history[len(history)-1].Objects[name].Position)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`+"\n", x, y, color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
