// Package store persists solar units, energy records, and anomaly events.
// Two implementations exist: Postgres for production and an in-memory store
// for tests and local runs.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"solartrack/internal/model"
)

// ErrNotFound is returned when a unit or record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned on duplicate inserts (same unit and interval).
var ErrConflict = errors.New("already exists")

// Bucket is a calendar grouping for period analytics.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// ParseBucket validates a bucket name from a query parameter.
func ParseBucket(s string) (Bucket, error) {
	switch Bucket(s) {
	case BucketDay, BucketWeek, BucketMonth:
		return Bucket(s), nil
	}
	return "", fmt.Errorf("unknown bucket %q", s)
}

// UnitTotal is a lifetime production aggregate for one unit.
type UnitTotal struct {
	UnitID  string  `json:"unit_id" db:"unit_id"`
	TotalWh float64 `json:"total_wh" db:"total_wh"`
	Records int     `json:"records" db:"records"`
}

// PeriodTotal is a production aggregate for one calendar bucket.
type PeriodTotal struct {
	PeriodStart time.Time `json:"period_start" db:"period_start"`
	TotalWh     float64   `json:"total_wh" db:"total_wh"`
	Records     int       `json:"records" db:"records"`
}

// UnitRepo manages solar units.
type UnitRepo interface {
	Create(ctx context.Context, u *model.SolarUnit) error
	Get(ctx context.Context, id string) (*model.SolarUnit, error)
	List(ctx context.Context) ([]model.SolarUnit, error)
	Update(ctx context.Context, u *model.SolarUnit) error
	Delete(ctx context.Context, id string) error
}

// RecordRepo manages energy records and their aggregates.
type RecordRepo interface {
	Insert(ctx context.Context, r *model.EnergyRecord) error
	InsertBatch(ctx context.Context, records []model.EnergyRecord) error
	ListByUnit(ctx context.Context, unitID string, tr model.TimeRange, limit int) ([]model.EnergyRecord, error)
	Delete(ctx context.Context, id string) error
	Totals(ctx context.Context, unitID string) ([]UnitTotal, error)
	PeriodTotals(ctx context.Context, unitID string, bucket Bucket, tr model.TimeRange) ([]PeriodTotal, error)
}

// AnomalyRepo manages the append-only anomaly event log.
type AnomalyRepo interface {
	InsertBatch(ctx context.Context, events []model.AnomalyEvent) error
	ListByUnit(ctx context.Context, unitID string, limit int) ([]model.AnomalyEvent, error)
}
