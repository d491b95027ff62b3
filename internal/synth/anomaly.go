package synth

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"solartrack/internal/model"
)

// anomalyInput carries everything a category generator may need for the
// current interval. baseline is lazily evaluated so categories that ignore
// it never consume randomness for it.
type anomalyInput struct {
	hour       int
	capacityW  float64
	timestamp  time.Time
	previousWh float64
	baseline   func() float64
}

// anomalyFunc produces the anomalous value and a human-readable description.
// ok is false when the category's applicability guard fails for this hour;
// the caller then falls back to the baseline without recording anything.
type anomalyFunc func(rng *rand.Rand, in anomalyInput) (wh float64, desc string, ok bool)

var anomalyFuncs = map[model.AnomalyCategory]anomalyFunc{
	model.AnomalyNightGeneration: nightGeneration,
	model.AnomalySuddenDrop:      suddenDrop,
	model.AnomalyOverproduction:  overproduction,
	model.AnomalyPeakHourZero:    peakHourZero,
	model.AnomalyIrregularSpike:  irregularSpike,
}

// nightGeneration only fires when the baseline would be zero.
func nightGeneration(rng *rand.Rand, in anomalyInput) (float64, string, bool) {
	if in.hour >= sunriseHour && in.hour <= sunsetHour {
		return 0, "", false
	}
	wh := math.Round(in.capacityW * rng.Float64() * 0.1)
	return wh, fmt.Sprintf("generated %.0f Wh at hour %d, outside daylight window", wh, in.hour), true
}

// suddenDrop produces a 90% drop relative to the previous interval.
func suddenDrop(rng *rand.Rand, in anomalyInput) (float64, string, bool) {
	if in.previousWh <= 0 || in.hour < 8 || in.hour > 18 {
		return 0, "", false
	}
	wh := math.Round(in.previousWh * 0.1)
	return wh, fmt.Sprintf("output dropped to %.0f Wh from %.0f Wh in the previous interval", wh, in.previousWh), true
}

// overproduction yields 120%–400% of rated capacity during peak hours.
func overproduction(rng *rand.Rand, in anomalyInput) (float64, string, bool) {
	if in.hour < 10 || in.hour > 14 {
		return 0, "", false
	}
	factor := 1.2 + rng.Float64()*2.8
	wh := math.Round(in.capacityW * factor)
	return wh, fmt.Sprintf("produced %.0f Wh, %.0f%% of rated capacity %.0f W", wh, factor*100, in.capacityW), true
}

// peakHourZero simulates a total outage during peak hours.
func peakHourZero(_ *rand.Rand, in anomalyInput) (float64, string, bool) {
	if in.hour < 10 || in.hour > 14 {
		return 0, "", false
	}
	return 0, fmt.Sprintf("zero output at peak hour %d", in.hour), true
}

// irregularSpike yields 300%–500% of this interval's baseline. A zero
// baseline falls back to normal behavior instead of spiking from nothing.
func irregularSpike(rng *rand.Rand, in anomalyInput) (float64, string, bool) {
	if in.hour < 7 || in.hour > 17 {
		return 0, "", false
	}
	normal := in.baseline()
	if normal <= 0 {
		return 0, "", false
	}
	factor := 3 + rng.Float64()*2
	wh := math.Round(normal * factor)
	return wh, fmt.Sprintf("spiked to %.0f Wh, %.0fx the expected %.0f Wh", wh, factor, normal), true
}
