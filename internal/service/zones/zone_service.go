package zones

import (
	"context"
	"strconv"
	"time"

	"github.com/Giggibubbu/airpermit/internal/domain"
	"github.com/Giggibubbu/airpermit/internal/kafka"
	"github.com/Giggibubbu/airpermit/internal/repository"
	"github.com/Giggibubbu/airpermit/pkg/logger"
	"github.com/Giggibubbu/airpermit/pkg/metrics"
	"github.com/google/uuid"
)

// ZoneUseCase is the zone registrar: creation, validity updates and deletion
// of no-fly zones, with the overlap conflict rule applied on creation.
type ZoneUseCase interface {
	Create(ctx context.Context, input CreateZoneInput) (*domain.NoFlyZone, error)
	UpdateValidity(ctx context.Context, id int64, start, end *time.Time) (*domain.NoFlyZone, error)
	Delete(ctx context.Context, id int64, operator string) error
	List(ctx context.Context) ([]domain.NoFlyZone, error)
	ActiveZones(ctx context.Context, at time.Time) ([]domain.NoFlyZone, error)
	PurgeExpired(ctx context.Context, retention time.Duration) (int64, error)
}

type Cache interface {
	GetActiveZones(ctx context.Context) ([]domain.NoFlyZone, error)
	SetActiveZones(ctx context.Context, zones []domain.NoFlyZone) error
	InvalidateZones(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateZoneInput struct {
	Operator      string
	CornerA       domain.Point
	CornerB       domain.Point
	ValidityStart *time.Time
	ValidityEnd   *time.Time
}

type Service struct {
	zones          repository.ZoneRepository
	cache          Cache
	producer       Producer
	zoneTopic      string
	minValidityGap time.Duration
	log            logger.Logger
	metrics        *metrics.Metrics
	now            func() time.Time
}

type ServiceOption func(*Service)

// WithClock overrides the time source; used in tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func WithMetrics(m *metrics.Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(
	zones repository.ZoneRepository,
	cache Cache,
	producer Producer,
	zoneTopic string,
	minValidityGap time.Duration,
	log logger.Logger,
	opts ...ServiceOption,
) *Service {
	service := &Service{
		zones:          zones,
		cache:          cache,
		producer:       producer,
		zoneTopic:      zoneTopic,
		minValidityGap: minValidityGap,
		log:            log,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Create registers a new zone. The validity pairing rule is checked first,
// then the normalized rectangle is tested for geometric overlap against every
// existing zone; on conflict nothing is created.
func (s *Service) Create(ctx context.Context, input CreateZoneInput) (*domain.NoFlyZone, error) {
	if err := domain.ValidateValidity(input.ValidityStart, input.ValidityEnd, s.minValidityGap); err != nil {
		return nil, err
	}

	region := domain.NewRect(input.CornerA, input.CornerB)

	existing, err := s.zones.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, z := range existing {
		if z.Region.Intersects(region) {
			if s.metrics != nil {
				s.metrics.ZoneConflicts.Inc()
			}
			return nil, domain.ErrZoneConflict
		}
	}

	zone := &domain.NoFlyZone{
		OperatorEmail: input.Operator,
		Region:        region,
		ValidityStart: input.ValidityStart,
		ValidityEnd:   input.ValidityEnd,
	}
	if err := s.zones.Insert(ctx, zone); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "zone_created", zone)
	return zone, nil
}

// UpdateValidity adjusts only the validity window of an existing zone; any
// operator may do so. The pairing rule applies unchanged.
func (s *Service) UpdateValidity(ctx context.Context, id int64, start, end *time.Time) (*domain.NoFlyZone, error) {
	if err := domain.ValidateValidity(start, end, s.minValidityGap); err != nil {
		return nil, err
	}

	zone, err := s.zones.UpdateValidity(ctx, id, start, end)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, domain.ErrZoneNotFound
	}

	s.afterWrite(ctx, "zone_updated", zone)
	return zone, nil
}

// Delete removes a zone permanently; only the owning operator may do so.
func (s *Service) Delete(ctx context.Context, id int64, operator string) error {
	deleted, err := s.zones.Delete(ctx, id, operator)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrZoneNotFound
	}

	s.afterWrite(ctx, "zone_deleted", &domain.NoFlyZone{ID: id, OperatorEmail: operator})
	return nil
}

func (s *Service) List(ctx context.Context) ([]domain.NoFlyZone, error) {
	return s.zones.List(ctx)
}

// ActiveZones returns the zones in force at the given time, cache-aside when
// the instant is the current one.
func (s *Service) ActiveZones(ctx context.Context, at time.Time) ([]domain.NoFlyZone, error) {
	cacheable := s.cache != nil && isNow(at, s.now())
	if cacheable {
		if cached, err := s.cache.GetActiveZones(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	zones, err := s.zones.ListValidAt(ctx, at)
	if err != nil {
		return nil, err
	}
	if cacheable {
		_ = s.cache.SetActiveZones(ctx, zones)
	}
	return zones, nil
}

// PurgeExpired deletes zones whose validity ended more than retention ago.
func (s *Service) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	purged, err := s.zones.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		if s.cache != nil {
			_ = s.cache.InvalidateZones(ctx)
		}
		s.log.Info("purged expired zones", "count", purged, "cutoff", cutoff)
	}
	return purged, nil
}

func (s *Service) afterWrite(ctx context.Context, eventType string, zone *domain.NoFlyZone) {
	if s.cache != nil {
		_ = s.cache.InvalidateZones(ctx)
	}
	if s.producer == nil || s.zoneTopic == "" {
		return
	}
	event := kafka.ZoneEvent{
		EventID:  uuid.NewString(),
		Type:     eventType,
		ZoneID:   zone.ID,
		Operator: zone.OperatorEmail,
	}
	if err := s.producer.Publish(ctx, s.zoneTopic, strconv.FormatInt(zone.ID, 10), event); err != nil {
		s.log.Warn("failed to publish zone event", "type", eventType, "zone_id", zone.ID, "error", err)
	}
}

func isNow(at, now time.Time) bool {
	d := now.Sub(at)
	if d < 0 {
		d = -d
	}
	return d < time.Second
}

var _ ZoneUseCase = (*Service)(nil)
