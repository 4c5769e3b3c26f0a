package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ZoneRepository interface {
	Insert(ctx context.Context, zone *domain.NoFlyZone) error
	List(ctx context.Context) ([]domain.NoFlyZone, error)
	// ListValidAt returns the zones in force at t: validity unbounded on both
	// ends, or t within [validity_start, validity_end].
	ListValidAt(ctx context.Context, t time.Time) ([]domain.NoFlyZone, error)
	// UpdateValidity adjusts only the validity window; (nil, nil) when the id
	// does not exist.
	UpdateValidity(ctx context.Context, id int64, start, end *time.Time) (*domain.NoFlyZone, error)
	// Delete removes the zone only when it belongs to the given operator.
	Delete(ctx context.Context, id int64, operatorEmail string) (bool, error)
	// DeleteExpiredBefore purges zones whose validity ended before the cutoff.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PGZoneRepository struct {
	db *pgxpool.Pool
}

func NewZoneRepository(db *pgxpool.Pool) ZoneRepository {
	return &PGZoneRepository{db: db}
}

const zoneColumns = `id, operator_email, min_lon, min_lat, max_lon, max_lat, validity_start, validity_end, created_at, updated_at`

func (r *PGZoneRepository) Insert(ctx context.Context, zone *domain.NoFlyZone) error {
	return r.db.QueryRow(ctx, `INSERT INTO no_fly_zones (operator_email, min_lon, min_lat, max_lon, max_lat, validity_start, validity_end)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		zone.OperatorEmail, zone.Region.MinLon, zone.Region.MinLat, zone.Region.MaxLon, zone.Region.MaxLat, zone.ValidityStart, zone.ValidityEnd).
		Scan(&zone.ID, &zone.CreatedAt, &zone.UpdatedAt)
}

func (r *PGZoneRepository) List(ctx context.Context) ([]domain.NoFlyZone, error) {
	rows, err := r.db.Query(ctx, `SELECT `+zoneColumns+` FROM no_fly_zones ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectZones(rows)
}

func (r *PGZoneRepository) ListValidAt(ctx context.Context, t time.Time) ([]domain.NoFlyZone, error) {
	rows, err := r.db.Query(ctx, `SELECT `+zoneColumns+` FROM no_fly_zones
		WHERE (validity_start IS NULL AND validity_end IS NULL)
		   OR ($1 >= validity_start AND $1 <= validity_end)
		ORDER BY id`, t)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectZones(rows)
}

func (r *PGZoneRepository) UpdateValidity(ctx context.Context, id int64, start, end *time.Time) (*domain.NoFlyZone, error) {
	row := r.db.QueryRow(ctx, `UPDATE no_fly_zones SET validity_start=$2, validity_end=$3, updated_at=now()
		WHERE id=$1 RETURNING `+zoneColumns, id, start, end)
	zone, err := scanZone(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return zone, nil
}

func (r *PGZoneRepository) Delete(ctx context.Context, id int64, operatorEmail string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM no_fly_zones WHERE id=$1 AND operator_email=$2`, id, operatorEmail)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *PGZoneRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM no_fly_zones WHERE validity_end IS NOT NULL AND validity_end < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func collectZones(rows pgx.Rows) ([]domain.NoFlyZone, error) {
	zones := make([]domain.NoFlyZone, 0)
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, *zone)
	}
	return zones, rows.Err()
}

func scanZone(row pgx.Row) (*domain.NoFlyZone, error) {
	var z domain.NoFlyZone
	if err := row.Scan(&z.ID, &z.OperatorEmail, &z.Region.MinLon, &z.Region.MinLat, &z.Region.MaxLon, &z.Region.MaxLat, &z.ValidityStart, &z.ValidityEnd, &z.CreatedAt, &z.UpdatedAt); err != nil {
		return nil, err
	}
	return &z, nil
}

var _ ZoneRepository = (*PGZoneRepository)(nil)
