package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// TrajectoryToSVG renders a(t) as a polyline with a dashed line marking
// the present (t = 0).
func TrajectoryToSVG(samples []dynamo.Sample, width, height int, strokeColor string) string {
	if len(samples) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := samples[0].T, samples[0].T
	minY, maxY := samples[0].A, samples[0].A
	for _, p := range samples {
		minX = min(minX, p.T)
		maxX = max(maxX, p.T)
		minY = min(minY, p.A)
		maxY = max(maxY, p.A)
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
	minX -= rangeX * 0.05
	maxX += rangeX * 0.05
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	project := func(t, a float64) (float64, float64) {
		return (t - minX) / rangeX * float64(width), float64(height) - (a-minY)/rangeY*float64(height)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	if minX < 0 && maxX > 0 {
		x, _ := project(0, 0)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="#444466" stroke-dasharray="4 4"/>
`, x, x, height)
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, p := range samples {
		x, y := project(p.T, p.A)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
