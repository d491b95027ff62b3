package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solartrack/internal/model"
)

func triggerRate(t *testing.T, quota *QuotaTracker, index, total, samples int) float64 {
	t.Helper()
	rng := testRand(42)
	hits := 0
	for i := 0; i < samples; i++ {
		if shouldTrigger(rng, quota, index, total) {
			hits++
		}
	}
	return float64(hits) / float64(samples)
}

func TestShouldTrigger_BaseRate(t *testing.T) {
	rate := triggerRate(t, NewQuotaTracker(), 10, 100, 20000)
	assert.InDelta(t, baseTriggerProb, rate, 0.01)
}

func TestShouldTrigger_LateRateWhenQuotaUnmet(t *testing.T) {
	rate := triggerRate(t, NewQuotaTracker(), 80, 100, 20000)
	assert.InDelta(t, lateTriggerProb, rate, 0.02)
}

func TestShouldTrigger_LateRateDropsOnceQuotaMet(t *testing.T) {
	q := NewQuotaTracker()
	for _, c := range model.AnomalyCategories {
		for i := 0; i < MinPerCategory; i++ {
			q.Record(c)
		}
	}
	rate := triggerRate(t, q, 80, 100, 20000)
	assert.InDelta(t, baseTriggerProb, rate, 0.01)
}

func TestPickCategory_PrefersNeedy(t *testing.T) {
	q := NewQuotaTracker()
	for _, c := range model.AnomalyCategories {
		if c == model.AnomalyPeakHourZero {
			continue
		}
		for i := 0; i < MinPerCategory; i++ {
			q.Record(c)
		}
	}

	rng := testRand(7)
	for i := 0; i < 100; i++ {
		c, ok := pickCategory(rng, q)
		require.True(t, ok)
		assert.Equal(t, model.AnomalyPeakHourZero, c, "the only needy category must win")
	}
}

func TestPickCategory_UniformWhenAllSatisfied(t *testing.T) {
	q := NewQuotaTracker()
	for _, c := range model.AnomalyCategories {
		for i := 0; i < MinPerCategory; i++ {
			q.Record(c)
		}
	}

	rng := testRand(8)
	seen := make(map[model.AnomalyCategory]int)
	for i := 0; i < 1000; i++ {
		c, ok := pickCategory(rng, q)
		require.True(t, ok)
		seen[c]++
	}
	for _, c := range model.AnomalyCategories {
		assert.Greater(t, seen[c], 0, "category %s never picked", c)
	}
}

func TestPickCategory_AllFull(t *testing.T) {
	q := NewQuotaTracker()
	for _, c := range model.AnomalyCategories {
		for i := 0; i < MaxPerCategory; i++ {
			q.Record(c)
		}
	}

	_, ok := pickCategory(testRand(9), q)
	assert.False(t, ok)
}
