package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanFilter selects plans. Zero values mean "no constraint". OverlapStart
// and OverlapEnd select plans whose [window_start, window_end] interval
// overlaps the given one, bounds inclusive.
type PlanFilter struct {
	OwnerEmail    string
	StatusIn      []domain.PlanStatus
	OverlapStart  *time.Time
	OverlapEnd    *time.Time
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
}

type PlanRepository interface {
	Insert(ctx context.Context, plan *domain.PlanRequest) error
	GetByID(ctx context.Context, id int64) (*domain.PlanRequest, error)
	Find(ctx context.Context, filter PlanFilter) ([]domain.PlanRequest, error)
	// UpdateStatus moves a still-pending plan to the given status; it returns
	// (nil, nil) when the plan is missing or no longer pending.
	UpdateStatus(ctx context.Context, id int64, status domain.PlanStatus, motivation string) (*domain.PlanRequest, error)
}

type PGPlanRepository struct {
	db *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) PlanRepository {
	return &PGPlanRepository{db: db}
}

const planColumns = `id, owner_email, status, submitted_at, window_start, window_end, vehicle_id, route, motivation, created_at, updated_at`

func (r *PGPlanRepository) Insert(ctx context.Context, plan *domain.PlanRequest) error {
	route, err := json.Marshal(plan.Route)
	if err != nil {
		return err
	}
	plan.Status = domain.PlanStatusPending
	return r.db.QueryRow(ctx, `INSERT INTO plan_requests (owner_email, status, submitted_at, window_start, window_end, vehicle_id, route)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		plan.OwnerEmail, plan.Status, plan.SubmittedAt, plan.WindowStart, plan.WindowEnd, plan.VehicleID, route).
		Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
}

func (r *PGPlanRepository) GetByID(ctx context.Context, id int64) (*domain.PlanRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+planColumns+` FROM plan_requests WHERE id=$1`, id)
	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

func (r *PGPlanRepository) Find(ctx context.Context, filter PlanFilter) ([]domain.PlanRequest, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OwnerEmail != "" {
		where = append(where, "owner_email = "+arg(filter.OwnerEmail))
	}
	if len(filter.StatusIn) > 0 {
		statuses := make([]string, len(filter.StatusIn))
		for i, s := range filter.StatusIn {
			statuses[i] = string(s)
		}
		where = append(where, "status = ANY("+arg(statuses)+")")
	}
	if filter.OverlapStart != nil && filter.OverlapEnd != nil {
		where = append(where, "window_end >= "+arg(*filter.OverlapStart))
		where = append(where, "window_start <= "+arg(*filter.OverlapEnd))
	}
	if filter.SubmittedFrom != nil {
		where = append(where, "submitted_at >= "+arg(*filter.SubmittedFrom))
	}
	if filter.SubmittedTo != nil {
		where = append(where, "submitted_at <= "+arg(*filter.SubmittedTo))
	}

	query := `SELECT ` + planColumns + ` FROM plan_requests`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY submitted_at"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]domain.PlanRequest, 0)
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

func (r *PGPlanRepository) UpdateStatus(ctx context.Context, id int64, status domain.PlanStatus, motivation string) (*domain.PlanRequest, error) {
	row := r.db.QueryRow(ctx, `UPDATE plan_requests SET status=$2, motivation=NULLIF($3,''), updated_at=now()
		WHERE id=$1 AND status=$4 RETURNING `+planColumns,
		id, status, motivation, domain.PlanStatusPending)
	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return plan, nil
}

func scanPlan(row pgx.Row) (*domain.PlanRequest, error) {
	var (
		p          domain.PlanRequest
		route      []byte
		motivation *string
	)
	if err := row.Scan(&p.ID, &p.OwnerEmail, &p.Status, &p.SubmittedAt, &p.WindowStart, &p.WindowEnd, &p.VehicleID, &route, &motivation, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(route, &p.Route); err != nil {
		return nil, err
	}
	if motivation != nil {
		p.Motivation = *motivation
	}
	return &p, nil
}

var _ PlanRepository = (*PGPlanRepository)(nil)
