package synth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anomalyIn(hour int, capacity, previous, baseline float64) anomalyInput {
	return anomalyInput{
		hour:       hour,
		capacityW:  capacity,
		timestamp:  time.Date(2025, 6, 1, hour, 0, 0, 0, time.UTC),
		previousWh: previous,
		baseline:   func() float64 { return baseline },
	}
}

func TestSuddenDrop_TenPercentOfPrevious(t *testing.T) {
	wh, desc, ok := suddenDrop(testRand(1), anomalyIn(12, 5000, 4000, 9000))
	require.True(t, ok)
	assert.Equal(t, 400.0, wh)
	assert.Contains(t, desc, "4000")
}

func TestSuddenDrop_Guards(t *testing.T) {
	// No previous positive reading.
	_, _, ok := suddenDrop(testRand(1), anomalyIn(12, 5000, 0, 9000))
	assert.False(t, ok)

	// Outside the 8–18 window.
	_, _, ok = suddenDrop(testRand(1), anomalyIn(7, 5000, 4000, 9000))
	assert.False(t, ok)
	_, _, ok = suddenDrop(testRand(1), anomalyIn(19, 5000, 4000, 9000))
	assert.False(t, ok)
}

func TestOverproduction_Bounds(t *testing.T) {
	rng := testRand(2)
	capacity := 5000.0
	for i := 0; i < 500; i++ {
		wh, _, ok := overproduction(rng, anomalyIn(12, capacity, 0, 9000))
		require.True(t, ok)
		assert.GreaterOrEqual(t, wh, 1.2*capacity-1)
		assert.LessOrEqual(t, wh, 4.0*capacity+1)
	}
}

func TestOverproduction_PeakOnly(t *testing.T) {
	_, _, ok := overproduction(testRand(2), anomalyIn(9, 5000, 0, 9000))
	assert.False(t, ok)
	_, _, ok = overproduction(testRand(2), anomalyIn(15, 5000, 0, 9000))
	assert.False(t, ok)
}

func TestNightGeneration_OnlyAtNight(t *testing.T) {
	rng := testRand(3)

	wh, desc, ok := nightGeneration(rng, anomalyIn(2, 5000, 0, 0))
	require.True(t, ok)
	assert.GreaterOrEqual(t, wh, 0.0)
	assert.LessOrEqual(t, wh, 500.0)
	assert.NotEmpty(t, desc)

	_, _, ok = nightGeneration(rng, anomalyIn(12, 5000, 0, 9000))
	assert.False(t, ok, "daylight hours must not fire night generation")
}

func TestPeakHourZero(t *testing.T) {
	wh, _, ok := peakHourZero(testRand(4), anomalyIn(12, 5000, 0, 9000))
	require.True(t, ok)
	assert.Zero(t, wh)

	_, _, ok = peakHourZero(testRand(4), anomalyIn(9, 5000, 0, 9000))
	assert.False(t, ok)
}

func TestIrregularSpike_Bounds(t *testing.T) {
	rng := testRand(5)
	for i := 0; i < 500; i++ {
		wh, _, ok := irregularSpike(rng, anomalyIn(12, 5000, 0, 1000))
		require.True(t, ok)
		assert.GreaterOrEqual(t, wh, 3000.0-1)
		assert.LessOrEqual(t, wh, 5000.0+1)
	}
}

func TestIrregularSpike_ZeroBaselineFallsBack(t *testing.T) {
	_, _, ok := irregularSpike(testRand(5), anomalyIn(12, 5000, 0, 0))
	assert.False(t, ok, "nothing to spike when the curve expects zero")
}

func TestIrregularSpike_WindowGuard(t *testing.T) {
	_, _, ok := irregularSpike(testRand(5), anomalyIn(6, 5000, 0, 1000))
	assert.False(t, ok)
	_, _, ok = irregularSpike(testRand(5), anomalyIn(18, 5000, 0, 1000))
	assert.False(t, ok)
}
