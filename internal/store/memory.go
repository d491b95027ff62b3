package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"solartrack/internal/model"
)

// Memory is a mutex-guarded in-memory store for tests and local runs.
// Records are kept sorted by timestamp per unit, with binary search for
// range queries. Units, Records, and Events expose the repo interfaces,
// mirroring the Postgres bundle.
type Memory struct {
	mu         sync.RWMutex
	units      map[string]model.SolarUnit
	records    map[string][]model.EnergyRecord // keyed by unit ID, sorted by timestamp
	events     map[string][]model.AnomalyEvent // keyed by unit ID, append order
	recordUnit map[string]string               // record ID -> unit ID

	Units   UnitRepo
	Records RecordRepo
	Events  AnomalyRepo
}

func NewMemory() *Memory {
	m := &Memory{
		units:      make(map[string]model.SolarUnit),
		records:    make(map[string][]model.EnergyRecord),
		events:     make(map[string][]model.AnomalyEvent),
		recordUnit: make(map[string]string),
	}
	m.Units = &memUnits{m}
	m.Records = &memRecords{m}
	m.Events = &memEvents{m}
	return m
}

type memUnits struct{ m *Memory }

func (r *memUnits) Create(_ context.Context, u *model.SolarUnit) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.units[u.ID]; ok {
		return fmt.Errorf("unit %s: %w", u.ID, ErrConflict)
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	m.units[u.ID] = *u
	return nil
}

func (r *memUnits) Get(_ context.Context, id string) (*model.SolarUnit, error) {
	m := r.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.units[id]
	if !ok {
		return nil, fmt.Errorf("unit %s: %w", id, ErrNotFound)
	}
	return &u, nil
}

func (r *memUnits) List(_ context.Context) ([]model.SolarUnit, error) {
	m := r.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	units := make([]model.SolarUnit, 0, len(m.units))
	for _, u := range m.units {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })
	return units, nil
}

func (r *memUnits) Update(_ context.Context, u *model.SolarUnit) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.units[u.ID]
	if !ok {
		return fmt.Errorf("unit %s: %w", u.ID, ErrNotFound)
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	m.units[u.ID] = *u
	return nil
}

// Delete removes the unit and cascades to its records and events.
func (r *memUnits) Delete(_ context.Context, id string) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.units[id]; !ok {
		return fmt.Errorf("unit %s: %w", id, ErrNotFound)
	}
	delete(m.units, id)
	for _, rec := range m.records[id] {
		delete(m.recordUnit, rec.ID)
	}
	delete(m.records, id)
	delete(m.events, id)
	return nil
}

type memRecords struct{ m *Memory }

func (r *memRecords) Insert(_ context.Context, rec *model.EnergyRecord) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insertLocked(*rec)
}

// InsertBatch mirrors the transactional batch: everything is validated
// before any state changes, so a bad record leaves the store untouched.
func (r *memRecords) InsertBatch(_ context.Context, records []model.EnergyRecord) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]map[time.Time]bool)
	for _, rec := range records {
		if _, ok := m.units[rec.UnitID]; !ok {
			return fmt.Errorf("unit %s: %w", rec.UnitID, ErrNotFound)
		}
		if m.hasRecordAtLocked(rec.UnitID, rec.Timestamp) || seen[rec.UnitID][rec.Timestamp] {
			return fmt.Errorf("record for unit %s at %s: %w", rec.UnitID, rec.Timestamp, ErrConflict)
		}
		if seen[rec.UnitID] == nil {
			seen[rec.UnitID] = make(map[time.Time]bool)
		}
		seen[rec.UnitID][rec.Timestamp] = true
	}

	for _, rec := range records {
		if err := m.insertLocked(rec); err != nil {
			return err
		}
	}
	return nil
}

func (r *memRecords) ListByUnit(_ context.Context, unitID string, tr model.TimeRange, limit int) ([]model.EnergyRecord, error) {
	m := r.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.records[unitID]
	startIdx := sort.Search(len(all), func(i int) bool {
		return !all[i].Timestamp.Before(tr.Start)
	})
	endIdx := sort.Search(len(all), func(i int) bool {
		return !all[i].Timestamp.Before(tr.End)
	})
	if startIdx >= endIdx {
		return nil, nil
	}

	result := make([]model.EnergyRecord, endIdx-startIdx)
	copy(result, all[startIdx:endIdx])
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *memRecords) Delete(_ context.Context, id string) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	unitID, ok := m.recordUnit[id]
	if !ok {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	list := m.records[unitID]
	for i, rec := range list {
		if rec.ID == id {
			m.records[unitID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	delete(m.recordUnit, id)
	return nil
}

func (r *memRecords) Totals(_ context.Context, unitID string) ([]UnitTotal, error) {
	m := r.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	if unitID != "" {
		ids = []string{unitID}
	} else {
		for id := range m.records {
			ids = append(ids, id)
		}
		sort.Strings(ids)
	}

	var totals []UnitTotal
	for _, id := range ids {
		list := m.records[id]
		if len(list) == 0 {
			continue
		}
		t := UnitTotal{UnitID: id, Records: len(list)}
		for _, rec := range list {
			t.TotalWh += rec.EnergyProducedWh
		}
		totals = append(totals, t)
	}
	return totals, nil
}

func (r *memRecords) PeriodTotals(_ context.Context, unitID string, bucket Bucket, tr model.TimeRange) ([]PeriodTotal, error) {
	m := r.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc := make(map[time.Time]*PeriodTotal)
	for id, list := range m.records {
		if unitID != "" && id != unitID {
			continue
		}
		for _, rec := range list {
			if rec.Timestamp.Before(tr.Start) || !rec.Timestamp.Before(tr.End) {
				continue
			}
			period := truncateToBucket(rec.Timestamp, bucket)
			pt, ok := acc[period]
			if !ok {
				pt = &PeriodTotal{PeriodStart: period}
				acc[period] = pt
			}
			pt.TotalWh += rec.EnergyProducedWh
			pt.Records++
		}
	}

	totals := make([]PeriodTotal, 0, len(acc))
	for _, pt := range acc {
		totals = append(totals, *pt)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].PeriodStart.Before(totals[j].PeriodStart)
	})
	return totals, nil
}

type memEvents struct{ m *Memory }

func (r *memEvents) InsertBatch(_ context.Context, events []model.AnomalyEvent) error {
	m := r.m
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, ev := range events {
		m.events[ev.UnitID] = append(m.events[ev.UnitID], ev)
	}
	return nil
}

// ListByUnit returns events newest first, matching the Postgres repo.
func (r *memEvents) ListByUnit(_ context.Context, unitID string, limit int) ([]model.AnomalyEvent, error) {
	m := r.m
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.events[unitID]
	result := make([]model.AnomalyEvent, len(all))
	for i, ev := range all {
		result[len(all)-1-i] = ev
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *Memory) insertLocked(rec model.EnergyRecord) error {
	if _, ok := m.units[rec.UnitID]; !ok {
		return fmt.Errorf("unit %s: %w", rec.UnitID, ErrNotFound)
	}
	if m.hasRecordAtLocked(rec.UnitID, rec.Timestamp) {
		return fmt.Errorf("record for unit %s at %s: %w", rec.UnitID, rec.Timestamp, ErrConflict)
	}

	list := m.records[rec.UnitID]
	idx := sort.Search(len(list), func(i int) bool {
		return !list[i].Timestamp.Before(rec.Timestamp)
	})
	list = append(list, model.EnergyRecord{})
	copy(list[idx+1:], list[idx:])
	list[idx] = rec
	m.records[rec.UnitID] = list
	m.recordUnit[rec.ID] = rec.UnitID
	return nil
}

func (m *Memory) hasRecordAtLocked(unitID string, ts time.Time) bool {
	list := m.records[unitID]
	idx := sort.Search(len(list), func(i int) bool {
		return !list[i].Timestamp.Before(ts)
	})
	return idx < len(list) && list[idx].Timestamp.Equal(ts)
}

// truncateToBucket mirrors Postgres date_trunc for day, week (Monday start),
// and month.
func truncateToBucket(t time.Time, bucket Bucket) time.Time {
	t = t.UTC()
	switch bucket {
	case BucketWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}
