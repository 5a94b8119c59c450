package main

import (
	"log"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-booking/internal/config"
	"github.com/BruksfildServices01/barbershop-booking/internal/infra/notify"
	"github.com/BruksfildServices01/barbershop-booking/internal/logger"
)

// The worker delivers queued SMS confirmations and reminders.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.QueueDB,
		},
		asynq.Config{
			Concurrency: 10,
			Queues:      map[string]int{"default": 1},
		},
	)

	zl.Info("worker starting", zap.String("redis", cfg.Redis.Addr), zap.Int("db", cfg.Redis.QueueDB))
	if err := srv.Run(notify.NewServeMux(notify.NewLogSender(zl), zl)); err != nil {
		zl.Fatal("worker stopped", zap.Error(err))
	}
}
