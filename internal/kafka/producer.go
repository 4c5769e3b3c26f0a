package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// PlanEvent is published on every admission-control outcome that changes a
// plan's lifecycle state.
type PlanEvent struct {
	EventID     string    `json:"event_id"`
	Type        string    `json:"type"`
	PlanID      int64     `json:"plan_id"`
	Owner       string    `json:"owner"`
	VehicleID   string    `json:"vehicle_id"`
	Status      string    `json:"status"`
	Motivation  string    `json:"motivation,omitempty"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
}

type ZoneEvent struct {
	EventID  string `json:"event_id"`
	Type     string `json:"type"`
	ZoneID   int64  `json:"zone_id"`
	Operator string `json:"operator"`
}

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
