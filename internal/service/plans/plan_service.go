package plans

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/Giggibubbu/airpermit/internal/kafka"
	"github.com/Giggibubbu/airpermit/internal/repository"
	"github.com/Giggibubbu/airpermit/pkg/logger"
	"github.com/Giggibubbu/airpermit/pkg/metrics"
	"github.com/google/uuid"
)

// PlanUseCase is the admission controller and plan lifecycle surface.
type PlanUseCase interface {
	Create(ctx context.Context, input CreatePlanInput) (*domain.PlanRequest, *domain.Account, error)
	Cancel(ctx context.Context, owner string, id int64) (*domain.PlanRequest, error)
	Review(ctx context.Context, input ReviewInput) (*domain.PlanRequest, error)
	List(ctx context.Context, input ListInput) ([]domain.PlanRequest, error)
}

// Ledger moves credit; it is the only collaborator allowed to touch balances.
type Ledger interface {
	Debit(ctx context.Context, email string, amount int) (*domain.Account, error)
	Credit(ctx context.Context, email string, amount int) (*domain.Account, error)
}

// ZoneSource yields the zones in force at a given instant.
type ZoneSource interface {
	ActiveZones(ctx context.Context, at time.Time) ([]domain.NoFlyZone, error)
}

type Cache interface {
	AcquireAdmissionLock(ctx context.Context, email string, ttl time.Duration) (bool, error)
	ReleaseAdmissionLock(ctx context.Context, email string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Rules carries the admission constants: full cost charged up front, the
// partial amount credited back on rejection (the difference is the retained
// processing fee), and the minimum lead time between submission and window
// start.
type Rules struct {
	TotalCost     int
	PartialRefund int
	MinLeadTime   time.Duration
	LockTTL       time.Duration
}

type CreatePlanInput struct {
	OwnerEmail  string
	WindowStart time.Time
	WindowEnd   time.Time
	VehicleID   string
	Route       domain.Route
}

type ReviewInput struct {
	Reviewer   string
	PlanID     int64
	Decision   domain.ReviewDecision
	Motivation string
}

type ListInput struct {
	OwnerEmail    string // empty = unscoped (reviewer view)
	StatusIn      []domain.PlanStatus
	SubmittedFrom *time.Time
	SubmittedTo   *time.Time
}

type Service struct {
	plans              repository.PlanRepository
	ledger             Ledger
	zones              ZoneSource
	cache              Cache
	producer           Producer
	planTopic          string
	notificationsTopic string
	rules              Rules
	log                logger.Logger
	metrics            *metrics.Metrics
	now                func() time.Time
}

type ServiceOption func(*Service)

func WithNotificationsTopic(topic string) ServiceOption {
	return func(s *Service) {
		s.notificationsTopic = topic
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the admission time source; used in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	plans repository.PlanRepository,
	ledger Ledger,
	zones ZoneSource,
	cache Cache,
	producer Producer,
	planTopic string,
	rules Rules,
	log logger.Logger,
	opts ...ServiceOption,
) *Service {
	service := &Service{
		plans:     plans,
		ledger:    ledger,
		zones:     zones,
		cache:     cache,
		producer:  producer,
		planTopic: planTopic,
		rules:     rules,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create runs the admission pipeline: debit the full cost, then lead time,
// spatial and owner-conflict checks in that order. Every failure after the
// debit credits back the partial refund exactly once before the typed failure
// is returned; on success the plan is persisted as pending and the post-debit
// account state is returned alongside it.
func (s *Service) Create(ctx context.Context, input CreatePlanInput) (*domain.PlanRequest, *domain.Account, error) {
	submittedAt := s.now()

	account, err := s.ledger.Debit(ctx, input.OwnerEmail, s.rules.TotalCost)
	if err != nil {
		// Nothing was charged, so there is nothing to compensate.
		s.countRejection(err)
		return nil, nil, err
	}

	if input.WindowStart.Sub(submittedAt) <= s.rules.MinLeadTime {
		return s.reject(ctx, input.OwnerEmail, domain.ErrInvalidLeadTime)
	}

	activeZones, err := s.zones.ActiveZones(ctx, submittedAt)
	if err != nil {
		return s.reject(ctx, input.OwnerEmail, err)
	}
	if domain.RouteIntersectsAny(input.Route, activeZones, submittedAt) {
		return s.reject(ctx, input.OwnerEmail, domain.ErrForbiddenArea)
	}

	// Serialize conflict-check + insert per account so two interleaved
	// admissions cannot both pass against a state neither has persisted yet.
	if s.cache != nil {
		locked, err := s.cache.AcquireAdmissionLock(ctx, input.OwnerEmail, s.rules.LockTTL)
		if err != nil {
			return s.reject(ctx, input.OwnerEmail, err)
		}
		if !locked {
			return s.reject(ctx, input.OwnerEmail, domain.ErrTemporalConflict)
		}
		defer func() {
			_ = s.cache.ReleaseAdmissionLock(ctx, input.OwnerEmail)
		}()
	}

	overlapping, err := s.plans.Find(ctx, repository.PlanFilter{
		OwnerEmail:   input.OwnerEmail,
		StatusIn:     []domain.PlanStatus{domain.PlanStatusPending, domain.PlanStatusApproved},
		OverlapStart: &input.WindowStart,
		OverlapEnd:   &input.WindowEnd,
	})
	if err != nil {
		return s.reject(ctx, input.OwnerEmail, err)
	}
	if len(overlapping) > 0 {
		return s.reject(ctx, input.OwnerEmail, domain.ErrTemporalConflict)
	}

	plan := &domain.PlanRequest{
		OwnerEmail:  input.OwnerEmail,
		Status:      domain.PlanStatusPending,
		SubmittedAt: submittedAt,
		WindowStart: input.WindowStart,
		WindowEnd:   input.WindowEnd,
		VehicleID:   input.VehicleID,
		Route:       input.Route,
	}
	if err := s.plans.Insert(ctx, plan); err != nil {
		return s.reject(ctx, input.OwnerEmail, err)
	}

	if s.metrics != nil {
		s.metrics.AdmissionsTotal.Inc()
	}
	s.publish(ctx, "plan_created", plan)
	return plan, account, nil
}

// reject issues the compensating refund and only then surfaces the cause.
// The refund must land before the caller sees the failure; if it cannot, the
// account state is no longer what the contract promises and the failure
// degrades to an internal inconsistency.
func (s *Service) reject(ctx context.Context, owner string, cause error) (*domain.PlanRequest, *domain.Account, error) {
	if _, err := s.ledger.Credit(ctx, owner, s.rules.PartialRefund); err != nil {
		s.log.Error("compensating refund failed", "owner", owner, "cause", cause, "error", err)
		return nil, nil, domain.ErrInternalInconsistency
	}
	s.countRejection(cause)
	return nil, nil, cause
}

// Cancel is the owner delete path: a pending plan is logically cancelled,
// never removed.
func (s *Service) Cancel(ctx context.Context, owner string, id int64) (*domain.PlanRequest, error) {
	plan, err := s.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}
	if err := plan.CancelBy(owner); err != nil {
		return nil, err
	}

	updated, err := s.plans.UpdateStatus(ctx, id, domain.PlanStatusCancelled, "")
	if err != nil {
		return nil, err
	}
	if updated == nil {
		// Lost a race: the plan left pending between the read and the update.
		return nil, domain.ErrForbiddenTransition
	}

	s.publish(ctx, "plan_cancelled", updated)
	return updated, nil
}

// Review applies an approve/reject decision from a reviewer distinct from
// the owner. The motivation pairing rule is enforced by the state machine.
func (s *Service) Review(ctx context.Context, input ReviewInput) (*domain.PlanRequest, error) {
	plan, err := s.plans.GetByID(ctx, input.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, domain.ErrPlanNotFound
	}

	target, err := plan.ReviewOutcome(input.Reviewer, input.Decision, input.Motivation)
	if err != nil {
		return nil, err
	}

	motivation := ""
	if target == domain.PlanStatusRejected {
		motivation = input.Motivation
	}
	updated, err := s.plans.UpdateStatus(ctx, input.PlanID, target, motivation)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrForbiddenTransition
	}

	eventType := "plan_approved"
	if target == domain.PlanStatusRejected {
		eventType = "plan_rejected"
	}
	s.publish(ctx, eventType, updated)
	return updated, nil
}

func (s *Service) List(ctx context.Context, input ListInput) ([]domain.PlanRequest, error) {
	return s.plans.Find(ctx, repository.PlanFilter{
		OwnerEmail:    input.OwnerEmail,
		StatusIn:      input.StatusIn,
		SubmittedFrom: input.SubmittedFrom,
		SubmittedTo:   input.SubmittedTo,
	})
}

func (s *Service) publish(ctx context.Context, eventType string, plan *domain.PlanRequest) {
	if s.producer == nil || s.planTopic == "" {
		return
	}
	event := kafka.PlanEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		PlanID:      plan.ID,
		Owner:       plan.OwnerEmail,
		VehicleID:   plan.VehicleID,
		Status:      string(plan.Status),
		Motivation:  plan.Motivation,
		WindowStart: plan.WindowStart,
		WindowEnd:   plan.WindowEnd,
	}
	key := strconv.FormatInt(plan.ID, 10)
	if err := s.producer.Publish(ctx, s.planTopic, key, event); err != nil {
		s.log.Warn("failed to publish plan event", "type", eventType, "plan_id", plan.ID, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, key, event); err != nil {
			s.log.Warn("failed to publish notification", "type", eventType, "plan_id", plan.ID, "error", err)
		}
	}
}

func (s *Service) countRejection(cause error) {
	if s.metrics == nil {
		return
	}
	s.metrics.AdmissionRejections.WithLabelValues(rejectionCause(cause)).Inc()
}

func rejectionCause(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientCredit):
		return "insufficient_credit"
	case errors.Is(err, domain.ErrInvalidLeadTime):
		return "invalid_lead_time"
	case errors.Is(err, domain.ErrForbiddenArea):
		return "forbidden_area"
	case errors.Is(err, domain.ErrTemporalConflict):
		return "temporal_conflict"
	default:
		return "internal"
	}
}

var _ PlanUseCase = (*Service)(nil)
