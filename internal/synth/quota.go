package synth

import "solartrack/internal/model"

// Per-category occurrence bounds for one generation run. The maximum is a
// hard cap; the minimum is a soft target the trigger policy steers toward.
const (
	MinPerCategory = 5
	MaxPerCategory = 20
)

// QuotaTracker counts injected anomalies per category for a single run.
// Each run owns its own tracker; nothing survives between runs.
type QuotaTracker struct {
	counts map[model.AnomalyCategory]int
}

func NewQuotaTracker() *QuotaTracker {
	return &QuotaTracker{
		counts: make(map[model.AnomalyCategory]int, len(model.AnomalyCategories)),
	}
}

// NeedsMore reports whether the category is still below its soft minimum.
func (q *QuotaTracker) NeedsMore(c model.AnomalyCategory) bool {
	return q.counts[c] < MinPerCategory
}

// HasRoom reports whether the category is below its hard maximum.
func (q *QuotaTracker) HasRoom(c model.AnomalyCategory) bool {
	return q.counts[c] < MaxPerCategory
}

// Record increments the category count. It returns false without counting
// when the category is already full; callers must check HasRoom first.
func (q *QuotaTracker) Record(c model.AnomalyCategory) bool {
	if !q.HasRoom(c) {
		return false
	}
	q.counts[c]++
	return true
}

// Count returns the current occurrence count for a category.
func (q *QuotaTracker) Count(c model.AnomalyCategory) int {
	return q.counts[c]
}

// AnyNeedsMore reports whether any category is still below its minimum.
func (q *QuotaTracker) AnyNeedsMore() bool {
	for _, c := range model.AnomalyCategories {
		if q.NeedsMore(c) {
			return true
		}
	}
	return false
}
