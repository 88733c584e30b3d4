package generator

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
)

var seriesColors = []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Cyan, asciigraph.Green}

// RenderASCII plots every series of c in the terminal.
func RenderASCII(c dashboard.Chart, width, height int) (string, error) {
	if len(c.Series) == 0 || len(c.Labels) < 2 {
		return "", fmt.Errorf("%s: %w", c.ID, ErrTooFewPoints)
	}

	data := make([][]float64, 0, len(c.Series))
	names := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		data = append(data, s.Values)
		names = append(names, s.Label)
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("%s  %s .. %s  [%s]", c.YLabel, c.Labels[0], c.Labels[len(c.Labels)-1], strings.Join(names, " / "))),
		asciigraph.SeriesColors(seriesColors[:min(len(data), len(seriesColors))]...),
	}
	if c.BeginAtZero {
		opts = append(opts, asciigraph.LowerBound(0))
	}
	if c.YMax > 0 {
		opts = append(opts, asciigraph.UpperBound(c.YMax))
	}
	return asciigraph.PlotMany(data, opts...), nil
}
