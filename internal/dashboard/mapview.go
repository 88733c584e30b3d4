package dashboard

import (
	"fmt"
	"html"

	"github.com/Zachdehooge/painel-ambiental/internal/dataset"
)

type Polygon struct {
	Name        string           `json:"name"`
	Coords      []dataset.LatLng `json:"coords"`
	Color       string           `json:"color"`
	FillOpacity float64          `json:"fillOpacity"`
	Dashed      bool             `json:"dashed"`
	Popup       string           `json:"popup"`
}

type Marker struct {
	Name   string         `json:"name"`
	Coords dataset.LatLng `json:"coords"`
	Color  string         `json:"color"`
	Popup  string         `json:"popup"`
}

// MapView is the map of one dashboard view: overlays plus the active layer.
type MapView struct {
	Center   dataset.LatLng `json:"center"`
	Zoom     int            `json:"zoom"`
	Layer    string         `json:"layer"`
	Polygons []Polygon      `json:"polygons"`
	Markers  []Marker       `json:"markers"`
	Coverage Polygon        `json:"coverage"`
}

func (m *MapView) Clone() MapView {
	out := *m
	out.Polygons = append([]Polygon(nil), m.Polygons...)
	out.Markers = append([]Marker(nil), m.Markers...)
	return out
}

func newMapView(layer string) *MapView {
	m := &MapView{
		Center: dataset.MapCenter,
		Zoom:   dataset.MapZoom,
		Layer:  layer,
	}

	for _, a := range dataset.SurveyAreas() {
		m.Polygons = append(m.Polygons, Polygon{
			Name:        a.Name,
			Coords:      a.Coords,
			Color:       "#06b6d4",
			FillOpacity: 0.3,
			Popup: popup(a.Name,
				"<strong>Área:</strong> "+html.EscapeString(a.Area),
				"<strong>Resolução:</strong> "+html.EscapeString(a.Resolution),
				"<strong>Último voo:</strong> "+html.EscapeString(a.Date)),
		})
	}

	for _, s := range dataset.Stations() {
		color := dataset.StatusColor(s.Status)
		m.Markers = append(m.Markers, Marker{
			Name:   s.Name,
			Coords: s.Coords,
			Color:  color,
			Popup: popup(s.Name, fmt.Sprintf(`Status: <span style="color: %s; font-weight: 600;">%s</span>`,
				color, html.EscapeString(dataset.StatusLabel(s.Status)))),
		})
	}

	cov := dataset.SatelliteCoverage()
	m.Coverage = Polygon{
		Name:        "Cobertura Satelital",
		Coords:      []dataset.LatLng{cov.Bounds[0], {cov.Bounds[0][0], cov.Bounds[1][1]}, cov.Bounds[1], {cov.Bounds[1][0], cov.Bounds[0][1]}},
		Color:       "#4f46e5",
		FillOpacity: 0.1,
		Dashed:      true,
		Popup: popup("Cobertura Satelital",
			html.EscapeString(cov.Sources),
			"Resolução: "+html.EscapeString(cov.Resolution),
			"Frequência: "+html.EscapeString(cov.Revisit)),
	}
	return m
}

// popup renders the small card Leaflet shows when an overlay is clicked.
// Lines are trusted HTML; the title is escaped.
func popup(title string, lines ...string) string {
	s := `<div style="font-family: Inter, sans-serif;"><h4 style="margin: 0 0 8px 0; color: #1e293b;">` +
		html.EscapeString(title) + `</h4>`
	for _, l := range lines {
		s += `<p style="margin: 4px 0; font-size: 0.9rem;">` + l + `</p>`
	}
	return s + `</div>`
}
