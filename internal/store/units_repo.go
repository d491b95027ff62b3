package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"solartrack/internal/model"
)

type unitRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

func (r *unitRepo) Create(ctx context.Context, u *model.SolarUnit) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		INSERT INTO solar_units (id, name, capacity_watts, location, status, installed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		u.ID, u.Name, u.CapacityWatts, u.Location, u.Status, u.InstalledAt).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("unit %s: %w", u.ID, ErrConflict)
		}
		return fmt.Errorf("inserting unit: %w", err)
	}
	return nil
}

func (r *unitRepo) Get(ctx context.Context, id string) (*model.SolarUnit, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u model.SolarUnit
	query := `
		SELECT id, name, capacity_watts, location, status, installed_at, created_at, updated_at
		FROM solar_units
		WHERE id = $1`

	if err := r.db.GetContext(ctx, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("unit %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("querying unit: %w", err)
	}
	return &u, nil
}

func (r *unitRepo) List(ctx context.Context) ([]model.SolarUnit, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var units []model.SolarUnit
	query := `
		SELECT id, name, capacity_watts, location, status, installed_at, created_at, updated_at
		FROM solar_units
		ORDER BY created_at, id`

	if err := r.db.SelectContext(ctx, &units, query); err != nil {
		return nil, fmt.Errorf("listing units: %w", err)
	}
	return units, nil
}

func (r *unitRepo) Update(ctx context.Context, u *model.SolarUnit) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE solar_units
		SET name = $2, capacity_watts = $3, location = $4, status = $5, installed_at = $6,
		    updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		u.ID, u.Name, u.CapacityWatts, u.Location, u.Status, u.InstalledAt).
		Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("unit %s: %w", u.ID, ErrNotFound)
		}
		return fmt.Errorf("updating unit: %w", err)
	}
	return nil
}

func (r *unitRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM solar_units WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting unit: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting unit: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("unit %s: %w", id, ErrNotFound)
	}
	return nil
}
