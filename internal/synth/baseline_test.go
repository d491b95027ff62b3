package synth

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestBaseline_NightIsZero(t *testing.T) {
	rng := testRand(1)
	for _, hour := range []int{0, 1, 2, 3, 4, 5, 21, 22, 23} {
		assert.Zero(t, Baseline(rng, hour, 5000, 2), "hour %d should produce nothing", hour)
	}
}

func TestBaseline_DaylightBounds(t *testing.T) {
	rng := testRand(2)
	capacity := 5000.0
	upper := capacity * 2 * noiseMax

	for hour := sunriseHour; hour <= sunsetHour; hour++ {
		for i := 0; i < 200; i++ {
			wh := Baseline(rng, hour, capacity, 2)
			assert.GreaterOrEqual(t, wh, 0.0)
			assert.LessOrEqual(t, wh, upper, "hour %d exceeded curve ceiling", hour)
		}
	}
}

func TestBaseline_WindowEdgesAreZero(t *testing.T) {
	rng := testRand(3)
	// sin(0) and sin(π) — both edges of the window sit on the curve's zeros.
	assert.Zero(t, Baseline(rng, sunriseHour, 5000, 2))
	assert.Zero(t, Baseline(rng, sunsetHour, 5000, 2))
}

func TestBaseline_MiddayRange(t *testing.T) {
	rng := testRand(4)
	capacity := 5000.0
	pos := float64(12-sunriseHour) / float64(sunsetHour-sunriseHour)
	curve := math.Sin(math.Pi * pos)

	for i := 0; i < 500; i++ {
		wh := Baseline(rng, 12, capacity, 2)
		assert.GreaterOrEqual(t, wh, math.Floor(capacity*2*curve*noiseMin))
		assert.LessOrEqual(t, wh, math.Ceil(capacity*2*curve*noiseMax))
	}
}

func TestBaseline_WholeWattHours(t *testing.T) {
	rng := testRand(5)
	for i := 0; i < 100; i++ {
		wh := Baseline(rng, 12, 5000, 2)
		assert.Equal(t, math.Trunc(wh), wh, "values are rounded to whole Wh")
	}
}
