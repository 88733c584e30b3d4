package dataset

import "strings"

// LatLng is a point on the map as [lat, lng], the order Leaflet expects.
type LatLng [2]float64

// SurveyArea is a polygon flown by the drone team
type SurveyArea struct {
	Name       string   `json:"name"`
	Coords     []LatLng `json:"coords"`
	Area       string   `json:"area"`
	Resolution string   `json:"resolution"`
	Date       string   `json:"date"`
}

// Station is a ground weather station shown as a circle marker
type Station struct {
	Name   string `json:"name"`
	Coords LatLng `json:"coords"`
	Status string `json:"status"`
}

// Coverage is the satellite footprint, drawn as a dashed rectangle
type Coverage struct {
	Bounds     [2]LatLng `json:"bounds"`
	Sources    string    `json:"sources"`
	Resolution string    `json:"resolution"`
	Revisit    string    `json:"revisit"`
}

// Survey is one drone flight with its headline results
type Survey struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	AreaHa     float64 `json:"area"`
	Resolution float64 `json:"resolution"`
	Date       string  `json:"date"`
	NDVI       float64 `json:"ndvi"`
	Coverage   string  `json:"coverage"`
}

const (
	StatusOnline      = "online"
	StatusMaintenance = "maintenance"
)

// MapCenter is Belo Horizonte.
var MapCenter = LatLng{-19.9167, -43.9345}

const MapZoom = 10

// SurveyAreas returns the drone survey polygons
func SurveyAreas() []SurveyArea {
	return []SurveyArea{
		{
			Name:       "Área de Reflorestamento - Norte",
			Coords:     []LatLng{{-19.85, -43.95}, {-19.85, -43.90}, {-19.80, -43.90}, {-19.80, -43.95}},
			Area:       "245 ha",
			Resolution: "5 cm/pixel",
			Date:       "15/09/2025",
		},
		{
			Name:       "Monitoramento Erosão - Sul",
			Coords:     []LatLng{{-19.98, -43.88}, {-19.98, -43.83}, {-19.93, -43.83}, {-19.93, -43.88}},
			Area:       "180 ha",
			Resolution: "3 cm/pixel",
			Date:       "22/09/2025",
		},
		{
			Name:       "Área Urbana - Centro",
			Coords:     []LatLng{{-19.92, -43.94}, {-19.92, -43.89}, {-19.87, -43.89}, {-19.87, -43.94}},
			Area:       "320 ha",
			Resolution: "8 cm/pixel",
			Date:       "28/09/2025",
		},
	}
}

// Stations returns the ground stations
func Stations() []Station {
	return []Station{
		{Name: "Estação Norte", Coords: LatLng{-19.85, -43.92}, Status: StatusOnline},
		{Name: "Estação Sul", Coords: LatLng{-19.95, -43.85}, Status: StatusOnline},
		{Name: "Estação Centro", Coords: LatLng{-19.90, -43.91}, Status: StatusOnline},
		{Name: "Estação Oeste", Coords: LatLng{-19.88, -43.98}, Status: StatusMaintenance},
	}
}

// SatelliteCoverage returns the Landsat/Sentinel footprint
func SatelliteCoverage() Coverage {
	return Coverage{
		Bounds:     [2]LatLng{{-20.1, -44.1}, {-19.7, -43.7}},
		Sources:    "Landsat 8/9 e Sentinel-2",
		Resolution: "10-30m",
		Revisit:    "5-16 dias",
	}
}

// Surveys returns the drone flight records
func Surveys() []Survey {
	return []Survey{
		{ID: 1, Name: "Levantamento Reflorestamento", AreaHa: 245, Resolution: 5, Date: "2025-09-15", NDVI: 0.78, Coverage: "Completa"},
		{ID: 2, Name: "Monitoramento Erosão", AreaHa: 180, Resolution: 3, Date: "2025-09-22", NDVI: 0.45, Coverage: "Parcial"},
		{ID: 3, Name: "Área Urbana", AreaHa: 320, Resolution: 8, Date: "2025-09-28", NDVI: 0.35, Coverage: "Completa"},
	}
}

// StatusColor maps a station status to its marker colour. Anything that is
// not online is drawn as under maintenance.
func StatusColor(status string) string {
	if IsOnline(status) {
		return "#22c55e"
	}
	return "#f59e0b"
}

// StatusLabel is the status as shown in the popup
func StatusLabel(status string) string {
	if IsOnline(status) {
		return "Online"
	}
	return "Manutenção"
}

func IsOnline(status string) bool {
	return strings.EqualFold(strings.TrimSpace(status), StatusOnline)
}

// OnlineStations counts the stations currently reporting
func OnlineStations(stations []Station) int {
	n := 0
	for _, s := range stations {
		if IsOnline(s.Status) {
			n++
		}
	}
	return n
}

// TotalSurveyedArea sums the flown area in hectares
func TotalSurveyedArea(surveys []Survey) float64 {
	total := 0.0
	for _, s := range surveys {
		total += s.AreaHa
	}
	return total
}

var layerNames = map[string]string{
	"satellite":   "Imagem de Satélite",
	"ndvi":        "Índice de Vegetação (NDVI)",
	"temperature": "Temperatura de Superfície",
	"drone":       "Levantamento com Drone",
}

// Layers lists the map layer keys in selector order
func Layers() []string {
	return []string{"satellite", "ndvi", "temperature", "drone"}
}

// LayerName returns the display name of a map layer, or the key itself
// when it is not a known layer.
func LayerName(layer string) string {
	if name, ok := layerNames[layer]; ok {
		return name
	}
	return layer
}
