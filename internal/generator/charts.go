package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
)

var ErrTooFewPoints = errors.New("chart needs at least two points")

const maxTicks = 12

func seriesStyle(s dashboard.Series) chart.Style {
	st := chart.Style{
		StrokeColor: drawing.ColorFromHex(strings.TrimPrefix(s.Color, "#")),
		StrokeWidth: 2,
	}
	if s.Dashed {
		st.StrokeDashArray = []float64{5, 5}
	}
	if s.Fill {
		st.FillColor = st.StrokeColor.WithAlpha(40)
	}
	return st
}

// RenderChartPNG draws c as a PNG line chart. Bar charts are drawn as lines
// too so every series of the chart fits on one image.
func RenderChartPNG(c dashboard.Chart, w io.Writer) error {
	if len(c.Labels) < 2 {
		return fmt.Errorf("%s: %w", c.ID, ErrTooFewPoints)
	}

	xs := make([]float64, len(c.Labels))
	for i := range xs {
		xs[i] = float64(i)
	}

	stride := (len(c.Labels) + maxTicks - 1) / maxTicks
	var ticks []chart.Tick
	for i, l := range c.Labels {
		if i%stride == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(i), Label: l})
		}
	}

	graph := chart.Chart{
		Title:      c.Title,
		Width:      900,
		Height:     360,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 12}},
		XAxis:      chart.XAxis{Ticks: ticks},
		YAxis:      chart.YAxis{Name: c.YLabel},
	}
	if c.BeginAtZero && c.YMax > 0 {
		graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: c.YMax}
	}

	for _, s := range c.Series {
		if len(s.Values) != len(xs) {
			return fmt.Errorf("%s: series %q has %d values for %d labels", c.ID, s.Label, len(s.Values), len(xs))
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: s.Values,
			Style:   seriesStyle(s),
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("%s: render: %w", c.ID, err)
	}
	return nil
}

// WriteChartImages renders every chart to dir/<id>.png and returns the paths.
func WriteChartImages(dir string, charts []dashboard.Chart) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	var paths []string
	for _, c := range charts {
		var buf bytes.Buffer
		if err := RenderChartPNG(c, &buf); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, c.ID+".png")
		if err := writeAtomic(path, buf.Bytes()); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
