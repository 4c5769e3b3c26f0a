package ledger

import (
	"context"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/Giggibubbu/airpermit/internal/repository"
	"github.com/Giggibubbu/airpermit/pkg/logger"
	"github.com/Giggibubbu/airpermit/pkg/metrics"
)

// LedgerUseCase is the balance ledger: the only component that moves credit.
type LedgerUseCase interface {
	Debit(ctx context.Context, email string, amount int) (*domain.Account, error)
	Credit(ctx context.Context, email string, amount int) (*domain.Account, error)
	GetAccount(ctx context.Context, email string) (*domain.Account, error)
}

type Service struct {
	accounts repository.AccountRepository
	log      logger.Logger
	metrics  *metrics.Metrics
}

type ServiceOption func(*Service)

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(accounts repository.AccountRepository, log logger.Logger, opts ...ServiceOption) *Service {
	service := &Service{accounts: accounts, log: log}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Debit charges amount against the account's prepaid credit. The repository
// runs it as one conditional update, so a concurrent debit racing on the same
// balance cannot make it go negative.
func (s *Service) Debit(ctx context.Context, email string, amount int) (*domain.Account, error) {
	account, err := s.accounts.Debit(ctx, email, amount)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}

	// No row matched: either the account is unknown or the balance is short.
	existing, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrInternalInconsistency
	}
	return nil, domain.ErrInsufficientCredit
}

// Credit adds amount to the balance; used for admin top-ups and for the
// compensating refund after a rejected admission attempt.
func (s *Service) Credit(ctx context.Context, email string, amount int) (*domain.Account, error) {
	account, err := s.accounts.Credit(ctx, email, amount)
	if err != nil {
		return nil, err
	}
	if account == nil {
		s.log.Error("credit against unknown account", "email", email, "amount", amount)
		return nil, domain.ErrInternalInconsistency
	}
	if s.metrics != nil {
		s.metrics.CreditsIssued.Add(float64(amount))
	}
	return account, nil
}

func (s *Service) GetAccount(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrInternalInconsistency
	}
	return account, nil
}

var _ LedgerUseCase = (*Service)(nil)
