// Package synth produces synthetic energy-output series for solar units:
// a diurnal baseline curve with a small, quota-bounded set of injected
// anomalies representing real-world fault conditions.
package synth

import (
	"math/rand"
	"time"

	"solartrack/internal/model"
)

// Input describes one interval for the generator. The caller drives
// generation one interval at a time, in chronological order, and threads
// the previous positive reading through PreviousWh.
type Input struct {
	Hour         int       // hour of day [0,23] at interval start
	CapacityW    float64   // rated capacity, always > 0
	Timestamp    time.Time // interval start
	PreviousWh   float64   // most recent positive reading, 0 if none yet
	Index        int       // current record index, 0-based
	TotalRecords int       // expected records in the whole run
}

// Generator produces one run's worth of readings. It is not safe for
// concurrent use; concurrent runs must each own their own Generator.
type Generator struct {
	rng           *rand.Rand
	quota         *QuotaTracker
	events        []model.AnomalyEvent
	intervalHours float64
}

// NewGenerator creates a generator with a fresh quota tracker. Pass a seeded
// rand.Rand for reproducible runs; nil falls back to a time-seeded source.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		rng:           rng,
		quota:         NewQuotaTracker(),
		intervalHours: model.DefaultIntervalHours,
	}
}

// Next produces the energy value in Wh for one interval. When an anomaly
// fires, an AnomalyEvent is appended to the run's log and the category's
// quota count is incremented; otherwise the baseline model applies. A
// selected category whose guard fails for this hour falls back to the
// baseline without retrying another category.
func (g *Generator) Next(in Input) float64 {
	baseline := func() float64 {
		return Baseline(g.rng, in.Hour, in.CapacityW, g.intervalHours)
	}

	if !shouldTrigger(g.rng, g.quota, in.Index, in.TotalRecords) {
		return baseline()
	}

	category, ok := pickCategory(g.rng, g.quota)
	if !ok {
		return baseline()
	}

	wh, desc, ok := anomalyFuncs[category](g.rng, anomalyInput{
		hour:       in.Hour,
		capacityW:  in.CapacityW,
		timestamp:  in.Timestamp,
		previousWh: in.PreviousWh,
		baseline:   baseline,
	})
	if !ok {
		return baseline()
	}

	g.quota.Record(category)
	g.events = append(g.events, model.AnomalyEvent{
		Category:    category,
		Timestamp:   in.Timestamp,
		Description: desc,
	})
	return wh
}

// Events returns the run's anomaly log, in injection order.
func (g *Generator) Events() []model.AnomalyEvent {
	return g.events
}

// Quota exposes the run's quota tracker, mainly for reporting.
func (g *Generator) Quota() *QuotaTracker {
	return g.quota
}
