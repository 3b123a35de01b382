// Package tasks defines the asynq task types and the enqueue client.
package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"cargoassist/config"
	"cargoassist/models"
)

const TypeAuditRecord = "audit:record"

// NewAuditTask wraps an audit record in an asynq task.
func NewAuditTask(rec models.AuditRecord) (*asynq.Task, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal audit record: %w", err)
	}
	return asynq.NewTask(TypeAuditRecord, payload), nil
}

// Enqueuer pushes tasks onto the Redis-backed queue.
type Enqueuer struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewEnqueuer(logger *zap.Logger) *Enqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	return &Enqueuer{client: client, logger: logger}
}

// EnqueueAudit hands off an audit record without blocking the request path.
// Queue failures are logged and dropped; auditing must never take down a
// response.
func (e *Enqueuer) EnqueueAudit(rec models.AuditRecord) {
	task, err := NewAuditTask(rec)
	if err != nil {
		e.logger.Warn("audit task marshal failed", zap.Error(err))
		return
	}
	if _, err := e.client.Enqueue(task, asynq.MaxRetry(3)); err != nil {
		e.logger.Warn("audit task enqueue failed", zap.Error(err))
	}
}

func (e *Enqueuer) Close() error {
	return e.client.Close()
}
