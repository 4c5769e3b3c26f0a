package repository

import (
	"context"
	"errors"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AccountRepository persists requester accounts. Debit is the only balance
// decrement and is a single conditional update: the balance can never go
// negative, and two concurrent debits cannot both succeed on one amount's
// worth of credit. Methods return (nil, nil) when no row matched.
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Debit(ctx context.Context, email string, amount int) (*domain.Account, error)
	Credit(ctx context.Context, email string, amount int) (*domain.Account, error)
}

type PGAccountRepository struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) AccountRepository {
	return &PGAccountRepository{db: db}
}

func (r *PGAccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT email, credit, updated_at FROM accounts WHERE email=$1`, email)
	var a domain.Account
	if err := row.Scan(&a.Email, &a.Credit, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGAccountRepository) Debit(ctx context.Context, email string, amount int) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `UPDATE accounts SET credit = credit - $2, updated_at = now() WHERE email=$1 AND credit >= $2 RETURNING email, credit, updated_at`, email, amount)
	var a domain.Account
	if err := row.Scan(&a.Email, &a.Credit, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *PGAccountRepository) Credit(ctx context.Context, email string, amount int) (*domain.Account, error) {
	row := r.db.QueryRow(ctx, `UPDATE accounts SET credit = credit + $2, updated_at = now() WHERE email=$1 RETURNING email, credit, updated_at`, email, amount)
	var a domain.Account
	if err := row.Scan(&a.Email, &a.Credit, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

var _ AccountRepository = (*PGAccountRepository)(nil)
