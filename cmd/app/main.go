package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Giggibubbu/airpermit/api"
	"github.com/Giggibubbu/airpermit/config"
	"github.com/Giggibubbu/airpermit/internal/bootstrap"
	"github.com/Giggibubbu/airpermit/internal/cache"
	"github.com/Giggibubbu/airpermit/internal/kafka"
	"github.com/Giggibubbu/airpermit/internal/repository"
	"github.com/Giggibubbu/airpermit/internal/service/ledger"
	"github.com/Giggibubbu/airpermit/internal/service/plans"
	"github.com/Giggibubbu/airpermit/internal/service/zones"
	"github.com/Giggibubbu/airpermit/pkg/logger"
	"github.com/Giggibubbu/airpermit/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		appLog.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Admission.ZonesCacheTTL())
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	appMetrics := metrics.New("airpermit")

	accountRepo := repository.NewAccountRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	zoneRepo := repository.NewZoneRepository(pool)

	ledgerService := ledger.NewService(accountRepo, appLog, ledger.WithMetrics(appMetrics))
	zoneService := zones.NewService(
		zoneRepo,
		redisCache,
		producer,
		cfg.Kafka.ZoneEventsTopic,
		cfg.Admission.MinZoneValidityGap(),
		appLog,
		zones.WithMetrics(appMetrics),
	)
	planService := plans.NewService(
		planRepo,
		ledgerService,
		zoneService,
		redisCache,
		producer,
		cfg.Kafka.PlanEventsTopic,
		plans.Rules{
			TotalCost:     cfg.Admission.TotalCost,
			PartialRefund: cfg.Admission.PartialRefund,
			MinLeadTime:   cfg.Admission.MinLeadTime(),
			LockTTL:       cfg.Admission.LockTTL(),
		},
		appLog,
		plans.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		plans.WithMetrics(appMetrics),
	)

	handlers := bootstrap.Handlers{
		Plans:    api.NewPlanHandler(planService),
		Zones:    api.NewZoneHandler(zoneService),
		Accounts: api.NewAccountHandler(ledgerService),
	}

	if err := bootstrap.Run(ctx, cfg, handlers); err != nil {
		appLog.Fatal("server error", "error", err)
	}
}
