package synth

import (
	"math"
	"math/rand"
)

// Daylight window (hours of day, inclusive). Outside it the baseline is zero.
const (
	sunriseHour = 6
	sunsetHour  = 20
)

// Baseline noise factor range.
const (
	noiseMin = 0.8
	noiseMax = 1.2
)

// Baseline computes the expected non-anomalous output in Wh for one interval.
// The diurnal shape is a half sine over the daylight window, scaled by the
// unit's rated capacity and the interval length, with a uniform noise factor
// in [0.8, 1.2]. The result is rounded to whole Wh.
func Baseline(rng *rand.Rand, hour int, capacityW, intervalHours float64) float64 {
	if hour < sunriseHour || hour > sunsetHour {
		return 0
	}
	pos := float64(hour-sunriseHour) / float64(sunsetHour-sunriseHour)
	curve := math.Sin(math.Pi * pos)
	noise := noiseMin + rng.Float64()*(noiseMax-noiseMin)
	return math.Round(capacityW * curve * noise * intervalHours)
}
