package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Giggibubbu/airpermit/config"
	"github.com/Giggibubbu/airpermit/internal/cache"
	"github.com/Giggibubbu/airpermit/internal/kafka"
	"github.com/Giggibubbu/airpermit/internal/notify"
	"github.com/Giggibubbu/airpermit/internal/repository"
	"github.com/Giggibubbu/airpermit/internal/service/zones"
	"github.com/Giggibubbu/airpermit/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLog := logger.New(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		appLog.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Admission.ZonesCacheTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	zoneRepo := repository.NewZoneRepository(pool)
	zoneService := zones.NewService(
		zoneRepo,
		redisCache,
		producer,
		cfg.Kafka.ZoneEventsTopic,
		cfg.Admission.MinZoneValidityGap(),
		appLog,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic)
	defer consumer.Close()

	sender := notify.NewSender(appLog)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.PlanEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				appLog.Warn("decode event", "error", err)
				return nil
			}
			return sender.Send(ctx, event)
		}); err != nil {
			appLog.Warn("consumer stopped", "error", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.SweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	retention := time.Duration(cfg.Worker.ZoneRetentionDays) * 24 * time.Hour

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			purged, err := zoneService.PurgeExpired(ctx, retention)
			if err != nil {
				appLog.Error("purge expired zones", "error", err)
				continue
			}
			if purged > 0 {
				appLog.Info("purged expired zones", "count", purged)
			}
		case s := <-sig:
			appLog.Info("received signal, shutting down", "signal", s.String())
			return
		}
	}
}
