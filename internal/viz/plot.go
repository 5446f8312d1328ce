package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// PlotScaleFactor draws a(t) as an ASCII chart. The x axis is sample index,
// so the caption carries the time range.
func PlotScaleFactor(samples []dynamo.Sample, width, height int) string {
	if len(samples) == 0 {
		return ""
	}

	as := make([]float64, len(samples))
	for i, s := range samples {
		as[i] = s.A
	}

	caption := fmt.Sprintf("scale factor, t = %.3g .. %.3g yr", samples[0].T, samples[len(samples)-1].T)
	return asciigraph.Plot(as,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Header renders a bold title line.
func Header(title string) string {
	return headerStyle.Render(strings.ToUpper(title))
}
