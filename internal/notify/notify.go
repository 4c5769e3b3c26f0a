package notify

import (
	"context"

	"github.com/Giggibubbu/airpermit/internal/kafka"
	"github.com/Giggibubbu/airpermit/pkg/logger"
)

// Sender delivers plan lifecycle notifications to requesters. The delivery
// channel is a log line for now; the worker owns the kafka plumbing.
type Sender struct {
	log logger.Logger
}

func NewSender(log logger.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.PlanEvent) error {
	s.log.Info("notify requester",
		"owner", event.Owner,
		"event", event.Type,
		"plan_id", event.PlanID,
		"status", event.Status,
	)
	return nil
}
