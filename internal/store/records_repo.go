package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"solartrack/internal/model"
)

type recordRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func (r *recordRepo) Insert(ctx context.Context, rec *model.EnergyRecord) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO energy_records (id, unit_id, ts, energy_produced_wh, interval_hours)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UnitID, rec.Timestamp, rec.EnergyProducedWh, rec.IntervalHours)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return fmt.Errorf("record for unit %s at %s: %w", rec.UnitID, rec.Timestamp, ErrConflict)
			case "23503":
				return fmt.Errorf("unit %s: %w", rec.UnitID, ErrNotFound)
			}
		}
		return fmt.Errorf("inserting record: %w", err)
	}
	return nil
}

// InsertBatch writes all records in one transaction. Either the whole batch
// lands or none of it does.
func (r *recordRepo) InsertBatch(ctx context.Context, records []model.EnergyRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(records)/500+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO energy_records (id, unit_id, ts, energy_produced_wh, interval_hours)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("preparing batch insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.UnitID, rec.Timestamp, rec.EnergyProducedWh, rec.IntervalHours); err != nil {
			return fmt.Errorf("inserting record at %s: %w", rec.Timestamp, err)
		}
	}

	return tx.Commit()
}

func (r *recordRepo) ListByUnit(ctx context.Context, unitID string, tr model.TimeRange, limit int) ([]model.EnergyRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, unit_id, ts, energy_produced_wh, interval_hours
		FROM energy_records
		WHERE unit_id = $1 AND ts >= $2 AND ts < $3
		ORDER BY ts
		LIMIT $4`

	var records []model.EnergyRecord
	if err := r.db.SelectContext(ctx, &records, query, unitID, tr.Start, tr.End, limit); err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

func (r *recordRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM energy_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting record: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", id, ErrNotFound)
	}
	return nil
}

// Totals returns lifetime production per unit. An empty unitID covers the
// whole fleet.
func (r *recordRepo) Totals(ctx context.Context, unitID string) ([]UnitTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT unit_id, COALESCE(SUM(energy_produced_wh), 0) AS total_wh, COUNT(*) AS records
		FROM energy_records
		WHERE ($1 = '' OR unit_id = $1)
		GROUP BY unit_id
		ORDER BY unit_id`

	var totals []UnitTotal
	if err := r.db.SelectContext(ctx, &totals, query, unitID); err != nil {
		return nil, fmt.Errorf("aggregating totals: %w", err)
	}
	return totals, nil
}

// PeriodTotals buckets production by calendar period via date_trunc.
func (r *recordRepo) PeriodTotals(ctx context.Context, unitID string, bucket Bucket, tr model.TimeRange) ([]PeriodTotal, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// bucket is validated by ParseBucket; date_trunc takes it as a constant.
	query := fmt.Sprintf(`
		SELECT date_trunc('%s', ts) AS period_start,
		       COALESCE(SUM(energy_produced_wh), 0) AS total_wh,
		       COUNT(*) AS records
		FROM energy_records
		WHERE ($1 = '' OR unit_id = $1) AND ts >= $2 AND ts < $3
		GROUP BY period_start
		ORDER BY period_start`, bucket)

	var totals []PeriodTotal
	if err := r.db.SelectContext(ctx, &totals, query, unitID, tr.Start, tr.End); err != nil {
		return nil, fmt.Errorf("aggregating %s totals: %w", bucket, err)
	}
	return totals, nil
}

type anomalyRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func (r *anomalyRepo) InsertBatch(ctx context.Context, events []model.AnomalyEvent) error {
	if len(events) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning event transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO anomaly_events (id, unit_id, category, ts, description)
		VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("preparing event insert: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, ev.ID, ev.UnitID, ev.Category, ev.Timestamp, ev.Description); err != nil {
			return fmt.Errorf("inserting event at %s: %w", ev.Timestamp, err)
		}
	}

	return tx.Commit()
}

func (r *anomalyRepo) ListByUnit(ctx context.Context, unitID string, limit int) ([]model.AnomalyEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		SELECT id, unit_id, category, ts, description
		FROM anomaly_events
		WHERE unit_id = $1
		ORDER BY ts DESC
		LIMIT $2`

	var events []model.AnomalyEvent
	if err := r.db.SelectContext(ctx, &events, query, unitID, limit); err != nil {
		return nil, fmt.Errorf("listing anomaly events: %w", err)
	}
	return events, nil
}
