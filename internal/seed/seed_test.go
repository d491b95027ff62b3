package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solartrack/internal/model"
	"solartrack/internal/store"
	"solartrack/internal/synth"
)

var seedNow = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func runSeed(t *testing.T, opts Options) (*Summary, *store.Memory) {
	t.Helper()

	mem := store.NewMemory()
	runner := NewRunner(mem.Units, mem.Records, mem.Events, nil)
	summary, err := runner.Run(context.Background(), opts)
	require.NoError(t, err)
	return summary, mem
}

func TestRun_CreatesUnitsAndRecords(t *testing.T) {
	opts := Options{Units: 2, CapacityWatts: 5000, Days: 10, Seed: 42, Now: seedNow}
	summary, mem := runSeed(t, opts)

	assert.Equal(t, 2, summary.Units)

	units, err := mem.Units.List(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)

	// 10 days of 2h intervals, both boundary readings included.
	wantPerUnit := 10*12 + 1
	assert.Equal(t, 2*wantPerUnit, summary.Records)

	for _, u := range units {
		records, err := mem.Records.ListByUnit(context.Background(), u.ID, model.TimeRange{
			Start: seedNow.AddDate(0, 0, -11),
			End:   seedNow.Add(time.Hour),
		}, 0)
		require.NoError(t, err)
		assert.Len(t, records, wantPerUnit)
	}
}

func TestRun_RecordsAreChronologicalAndNonNegative(t *testing.T) {
	opts := Options{Units: 1, CapacityWatts: 5000, Days: 30, Seed: 7, Now: seedNow}
	_, mem := runSeed(t, opts)

	units, err := mem.Units.List(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 1)

	records, err := mem.Records.ListByUnit(context.Background(), units[0].ID, model.TimeRange{
		Start: seedNow.AddDate(0, 0, -31),
		End:   seedNow.Add(time.Hour),
	}, 0)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	for i, rec := range records {
		assert.GreaterOrEqual(t, rec.EnergyProducedWh, 0.0)
		assert.Equal(t, model.DefaultIntervalHours, rec.IntervalHours)
		if i > 0 {
			gap := rec.Timestamp.Sub(records[i-1].Timestamp)
			assert.Equal(t, 2*time.Hour, gap)
		}
	}
}

func TestRun_AnomalyEventsPersisted(t *testing.T) {
	opts := Options{Units: 1, CapacityWatts: 5000, Days: 90, Seed: 12, Now: seedNow}
	summary, mem := runSeed(t, opts)

	units, err := mem.Units.List(context.Background())
	require.NoError(t, err)

	events, err := mem.Events.ListByUnit(context.Background(), units[0].ID, 0)
	require.NoError(t, err)
	assert.Len(t, events, summary.Anomalies)
	assert.NotEmpty(t, events)

	seen := make(map[string]bool)
	for _, ev := range events {
		assert.NotEmpty(t, ev.ID)
		assert.Equal(t, units[0].ID, ev.UnitID)
		assert.NotEmpty(t, ev.Description)
		assert.False(t, seen[ev.ID], "event IDs must be unique")
		seen[ev.ID] = true
	}

	for cat, n := range summary.PerCategory {
		assert.LessOrEqual(t, n, synth.MaxPerCategory, "category %s over cap", cat)
	}
}

func TestRun_DeterministicWithSeed(t *testing.T) {
	opts := Options{Units: 1, CapacityWatts: 5000, Days: 14, Seed: 99, Now: seedNow}

	_, mem1 := runSeed(t, opts)
	_, mem2 := runSeed(t, opts)

	series1 := seriesValues(t, mem1)
	series2 := seriesValues(t, mem2)
	assert.Equal(t, series1, series2)
}

func TestRun_UnitsAreIndependent(t *testing.T) {
	opts := Options{Units: 2, CapacityWatts: 5000, Days: 14, Seed: 5, Now: seedNow}
	_, mem := runSeed(t, opts)

	units, err := mem.Units.List(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 2)

	tr := model.TimeRange{Start: seedNow.AddDate(0, 0, -15), End: seedNow.Add(time.Hour)}
	recs1, err := mem.Records.ListByUnit(context.Background(), units[0].ID, tr, 0)
	require.NoError(t, err)
	recs2, err := mem.Records.ListByUnit(context.Background(), units[1].ID, tr, 0)
	require.NoError(t, err)
	require.Equal(t, len(recs1), len(recs2))

	same := true
	for i := range recs1 {
		if recs1[i].EnergyProducedWh != recs2[i].EnergyProducedWh {
			same = false
			break
		}
	}
	assert.False(t, same, "units seeded from different streams should diverge")
}

func TestRun_InvalidOptions(t *testing.T) {
	mem := store.NewMemory()
	runner := NewRunner(mem.Units, mem.Records, mem.Events, nil)

	cases := []Options{
		{Units: 0, CapacityWatts: 5000, Days: 10},
		{Units: 1, CapacityWatts: 0, Days: 10},
		{Units: 1, CapacityWatts: 5000, Days: 0},
	}
	for _, opts := range cases {
		_, err := runner.Run(context.Background(), opts)
		assert.Error(t, err)
	}
}

func TestAlignToInterval(t *testing.T) {
	in := time.Date(2025, 6, 1, 13, 45, 30, 0, time.UTC)
	got := alignToInterval(in)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), got)

	aligned := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, aligned, alignToInterval(aligned))
}

func TestCountIntervals(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, countIntervals(start, start))
	assert.Equal(t, 13, countIntervals(start, start.Add(24*time.Hour)))
	assert.Equal(t, 0, countIntervals(start, start.Add(-time.Hour)))
}

func seriesValues(t *testing.T, mem *store.Memory) []float64 {
	t.Helper()

	units, err := mem.Units.List(context.Background())
	require.NoError(t, err)
	require.Len(t, units, 1)

	records, err := mem.Records.ListByUnit(context.Background(), units[0].ID, model.TimeRange{
		Start: seedNow.AddDate(0, 0, -15),
		End:   seedNow.Add(time.Hour),
	}, 0)
	require.NoError(t, err)

	values := make([]float64, len(records))
	for i, rec := range records {
		values[i] = rec.EnergyProducedWh
	}
	return values
}
