package dashboard

import (
	"math/rand/v2"
	"time"

	"github.com/Zachdehooge/painel-ambiental/internal/dataset"
)

const (
	TemperatureChartID   = "temperatureChart"
	NDVIChartID          = "ndviChart"
	PrecipitationChartID = "precipitationChart"
)

// Series is one dataset of a chart, parallel to the chart labels.
type Series struct {
	Label  string    `json:"label"`
	Values []float64 `json:"data"`
	Color  string    `json:"color"`
	Fill   bool      `json:"fill"`
	Dashed bool      `json:"dashed"`
}

// Chart is everything the page needs to draw one chart. Revision grows on
// every Replace so views know to redraw.
type Chart struct {
	ID          string   `json:"id"`
	Kind        string   `json:"kind"`
	Title       string   `json:"title"`
	YLabel      string   `json:"yLabel"`
	Labels      []string `json:"labels"`
	Series      []Series `json:"series"`
	BeginAtZero bool     `json:"beginAtZero"`
	YMax        float64  `json:"yMax,omitempty"`
	Revision    int      `json:"revision"`
}

// Replace swaps the data of the first len(values) series. A nil labels
// slice keeps the current labels.
func (c *Chart) Replace(labels []string, values ...[]float64) {
	if labels != nil {
		c.Labels = append([]string(nil), labels...)
	}
	for i, v := range values {
		if i >= len(c.Series) {
			break
		}
		c.Series[i].Values = append([]float64(nil), v...)
	}
	c.Revision++
}

// Clone returns a deep copy safe to hand to another goroutine.
func (c *Chart) Clone() Chart {
	out := *c
	out.Labels = append([]string(nil), c.Labels...)
	out.Series = make([]Series, len(c.Series))
	for i, s := range c.Series {
		s.Values = append([]float64(nil), s.Values...)
		out.Series[i] = s
	}
	return out
}

// Charts holds the three charts of one dashboard view.
type Charts struct {
	Temperature   *Chart
	NDVI          *Chart
	Precipitation *Chart
}

func (c *Charts) all() []*Chart {
	return []*Chart{c.Temperature, c.NDVI, c.Precipitation}
}

func newCharts(days int, region string, now time.Time, rng *rand.Rand) *Charts {
	temp := dataset.SimulateTemperature(days, now, rng, dataset.InitialShape)
	sat, drone := dataset.NDVI(region)

	return &Charts{
		Temperature: &Chart{
			ID:     TemperatureChartID,
			Kind:   "line",
			Title:  "Temperatura",
			YLabel: "Temperatura (°C)",
			Labels: temp.Labels,
			Series: []Series{
				{Label: "Temperatura Satélite", Values: temp.Satellite, Color: "#4f46e5", Fill: true},
				{Label: "Temperatura Drone", Values: temp.Drone, Color: "#06b6d4", Dashed: true},
			},
		},
		NDVI: &Chart{
			ID:          NDVIChartID,
			Kind:        "bar",
			Title:       "NDVI",
			YLabel:      "Índice NDVI",
			Labels:      append([]string(nil), dataset.Months...),
			BeginAtZero: true,
			YMax:        1,
			Series: []Series{
				{Label: "NDVI Satélite", Values: sat, Color: "#22c55e"},
				{Label: "NDVI Drone (Alta Resolução)", Values: drone, Color: "#06b6d4"},
			},
		},
		Precipitation: &Chart{
			ID:          PrecipitationChartID,
			Kind:        "line",
			Title:       "Precipitação",
			YLabel:      "Precipitação (mm)",
			Labels:      append([]string(nil), dataset.Months...),
			BeginAtZero: true,
			Series: []Series{
				{Label: "Precipitação (mm)", Values: dataset.Precipitation(), Color: "#06b6d4", Fill: true},
			},
		},
	}
}
