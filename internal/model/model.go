package model

import "time"

// UnitStatus describes the operational state of a solar unit.
type UnitStatus string

const (
	StatusActive      UnitStatus = "active"
	StatusMaintenance UnitStatus = "maintenance"
	StatusRetired     UnitStatus = "retired"
)

// Valid reports whether s is one of the known unit statuses.
func (s UnitStatus) Valid() bool {
	switch s {
	case StatusActive, StatusMaintenance, StatusRetired:
		return true
	}
	return false
}

// SolarUnit is a tracked piece of energy-generation hardware.
type SolarUnit struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	CapacityWatts float64    `json:"capacity_watts" db:"capacity_watts"`
	Location      string     `json:"location" db:"location"`
	Status        UnitStatus `json:"status" db:"status"`
	InstalledAt   time.Time  `json:"installed_at" db:"installed_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// DefaultIntervalHours is the length of one reading interval.
const DefaultIntervalHours = 2.0

// EnergyRecord is one energy-output reading for a unit. Exactly one record
// exists per (unit, interval start).
type EnergyRecord struct {
	ID               string    `json:"id" db:"id"`
	UnitID           string    `json:"unit_id" db:"unit_id"`
	Timestamp        time.Time `json:"timestamp" db:"ts"`
	EnergyProducedWh float64   `json:"energy_produced_wh" db:"energy_produced_wh"`
	IntervalHours    float64   `json:"interval_hours" db:"interval_hours"`
}

// AnomalyCategory is one of the fault patterns injected by the synthetic
// series generator (and surfaced by the anomaly log).
type AnomalyCategory string

const (
	AnomalyNightGeneration AnomalyCategory = "night_generation"
	AnomalySuddenDrop      AnomalyCategory = "sudden_drop"
	AnomalyOverproduction  AnomalyCategory = "overproduction"
	AnomalyPeakHourZero    AnomalyCategory = "peak_hour_zero"
	AnomalyIrregularSpike  AnomalyCategory = "irregular_spike"
)

// AnomalyCategories lists every category in a stable order.
var AnomalyCategories = []AnomalyCategory{
	AnomalyNightGeneration,
	AnomalySuddenDrop,
	AnomalyOverproduction,
	AnomalyPeakHourZero,
	AnomalyIrregularSpike,
}

// AnomalyEvent explains why a reading deviates from the normal curve.
// Events are append-only; the association with a record is by matching
// (unit, timestamp), not a stored foreign key.
type AnomalyEvent struct {
	ID          string          `json:"id" db:"id"`
	UnitID      string          `json:"unit_id" db:"unit_id"`
	Category    AnomalyCategory `json:"category" db:"category"`
	Timestamp   time.Time       `json:"timestamp" db:"ts"`
	Description string          `json:"description" db:"description"`
}

type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
