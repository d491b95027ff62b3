package synth

import (
	"math/rand"

	"solartrack/internal/model"
)

// Trigger probabilities. Late in the run the rate rises so categories still
// below their minimum get backfilled.
const (
	baseTriggerProb = 0.08
	lateTriggerProb = 0.30
	lateProgress    = 0.7
)

// shouldTrigger decides whether the reading at index (out of total) gets an
// anomaly instead of the baseline value.
func shouldTrigger(rng *rand.Rand, quota *QuotaTracker, index, total int) bool {
	var progress float64
	if total > 0 {
		progress = float64(index) / float64(total)
	}
	p := baseTriggerProb
	if progress > lateProgress && quota.AnyNeedsMore() {
		p = lateTriggerProb
	}
	return rng.Float64() < p
}

// pickCategory selects an anomaly category. Categories below their minimum
// are preferred; among the preferred (or, failing that, among all categories
// with room) the pick is uniform. Returns false when every category is full.
func pickCategory(rng *rand.Rand, quota *QuotaTracker) (model.AnomalyCategory, bool) {
	var candidates, preferred []model.AnomalyCategory
	for _, c := range model.AnomalyCategories {
		if !quota.HasRoom(c) {
			continue
		}
		candidates = append(candidates, c)
		if quota.NeedsMore(c) {
			preferred = append(preferred, c)
		}
	}
	if len(candidates) == 0 {
		return "", false
	}
	pool := candidates
	if len(preferred) > 0 {
		pool = preferred
	}
	return pool[rng.Intn(len(pool))], true
}
