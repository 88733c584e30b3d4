package dataset

import (
	"math"
	"math/rand/v2"
	"time"
)

// Months are the chart labels for the monthly series.
var Months = []string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}

// NDVIRegions lists the region selector values.
var NDVIRegions = []string{"all", "north", "south", "center"}

type ndviTable struct {
	satellite []float64
	drone     []float64
}

var ndviByRegion = map[string]ndviTable{
	"all": {
		satellite: []float64{0.65, 0.68, 0.72, 0.75, 0.71, 0.68, 0.66, 0.69, 0.73, 0.76, 0.74, 0.70},
		drone:     []float64{0.67, 0.70, 0.74, 0.77, 0.73, 0.70, 0.68, 0.71, 0.75, 0.78, 0.76, 0.72},
	},
	"north": {
		satellite: []float64{0.70, 0.73, 0.77, 0.80, 0.76, 0.73, 0.71, 0.74, 0.78, 0.81, 0.79, 0.75},
		drone:     []float64{0.72, 0.75, 0.79, 0.82, 0.78, 0.75, 0.73, 0.76, 0.80, 0.83, 0.81, 0.77},
	},
	"south": {
		satellite: []float64{0.60, 0.63, 0.67, 0.70, 0.66, 0.63, 0.61, 0.64, 0.68, 0.71, 0.69, 0.65},
		drone:     []float64{0.62, 0.65, 0.69, 0.72, 0.68, 0.65, 0.63, 0.66, 0.70, 0.73, 0.71, 0.67},
	},
	"center": {
		satellite: []float64{0.55, 0.58, 0.62, 0.65, 0.61, 0.58, 0.56, 0.59, 0.63, 0.66, 0.64, 0.60},
		drone:     []float64{0.57, 0.60, 0.64, 0.67, 0.63, 0.60, 0.58, 0.61, 0.65, 0.68, 0.66, 0.62},
	},
}

// NDVI returns copies of the monthly satellite and drone NDVI for region.
// Unknown regions get the whole-area table.
func NDVI(region string) (satellite, drone []float64) {
	t, ok := ndviByRegion[region]
	if !ok {
		t = ndviByRegion["all"]
	}
	return append([]float64(nil), t.satellite...), append([]float64(nil), t.drone...)
}

// Precipitation returns the monthly rainfall in mm.
func Precipitation() []float64 {
	return []float64{180, 145, 120, 85, 45, 25, 15, 30, 65, 110, 155, 190}
}

// TemperatureShape controls the simulated temperature curve:
// base + sin(i*Frequency)*Amplitude + noise in ±Noise/2, drone ±DroneNoise/2.
type TemperatureShape struct {
	Base       float64
	Frequency  float64
	Amplitude  float64
	Noise      float64
	DroneNoise float64
}

var (
	// InitialShape is used for the series drawn on first render.
	InitialShape = TemperatureShape{Base: 24, Frequency: 0.2, Amplitude: 3, Noise: 2, DroneNoise: 1}
	// PeriodShape is used when the user picks another period.
	PeriodShape = TemperatureShape{Base: 24, Frequency: 0.1, Amplitude: 4, Noise: 3, DroneNoise: 1.5}
)

// MaxDays is the longest temperature period the charts offer.
const MaxDays = 365

// TemperatureSeries is the simulated daily temperature over a period.
type TemperatureSeries struct {
	Labels    []string
	Satellite []float64
	Drone     []float64
}

// labelStride is how many days one label covers for a period.
func labelStride(days int) int {
	switch {
	case days <= 30:
		return 1
	case days <= 90:
		return 3
	default:
		return 10
	}
}

// SimulateTemperature builds the last days of temperature ending at now.
// Longer periods are thinned to every 3rd or 10th day; values are one
// decimal, as the charts show them.
func SimulateTemperature(days int, now time.Time, rng *rand.Rand, shape TemperatureShape) TemperatureSeries {
	stride := labelStride(days)
	var s TemperatureSeries
	for i := days - 1; i >= 0; i-- {
		if i%stride != 0 {
			continue
		}
		date := now.AddDate(0, 0, -i)
		base := shape.Base + math.Sin(float64(i)*shape.Frequency)*shape.Amplitude + (rng.Float64()-0.5)*shape.Noise
		drone := base + (rng.Float64()-0.5)*shape.DroneNoise

		s.Labels = append(s.Labels, date.Format("02/01"))
		s.Satellite = append(s.Satellite, round1(base))
		s.Drone = append(s.Drone, round1(drone))
	}
	return s
}

// Mean returns the average of xs, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
