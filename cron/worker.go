package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"cargoassist/config"
	auditRepo "cargoassist/database/repository/audit"
	bookingRepo "cargoassist/database/repository/booking"
	"cargoassist/models"
	"cargoassist/services/tasks"
)

// InitAuditWorker runs the async worker that drains the audit queue into
// Mongo. Startup retries with backoff so a slow Redis does not kill the
// process.
func InitAuditWorker(repo auditRepo.Repository, logger *zap.Logger) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeAuditRecord, handleAuditTask(repo, logger))

	go func() {
		log.Println("[AuditWorker] starting async worker...")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[AuditWorker] attempt %d/%d failed: %v", attempts, maxAttempts, err)
				if attempts == maxAttempts {
					log.Fatal("[AuditWorker] max retry attempts reached, exiting")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

func handleAuditTask(repo auditRepo.Repository, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var rec models.AuditRecord
		if err := json.Unmarshal(t.Payload(), &rec); err != nil {
			logger.Warn("bad audit payload, dropping", zap.Error(err))
			return nil
		}
		return repo.Insert(ctx, &rec)
	}
}

// StartArchivalSweep periodically moves stale cancelled bookings to
// archived. Soft delete only; records are never removed.
func StartArchivalSweep(repo bookingRepo.Repository, interval time.Duration, afterDays int, logger *zap.Logger) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			cutoff := time.Now().UTC().AddDate(0, 0, -afterDays)
			n, err := repo.ArchiveCancelledBefore(ctx, cutoff)
			cancel()
			if err != nil {
				logger.Warn("archival sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("archived stale cancelled bookings", zap.Int64("count", n))
			}
		}
	}()
}
