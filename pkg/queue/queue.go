// Package queue decouples batch submission from batch processing: the
// HTTP layer enqueues, the worker consumes. It also keeps the transient
// per-batch status counters in Redis so the status endpoint has
// something to answer with.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/voyagehq/tripdocs/internal/models"
)

// TaskTypeBatchProcess is the asynq task type for one submitted batch.
const TaskTypeBatchProcess = "batch:process"

// statusTTL bounds how long the transient batch counters live. Nothing
// outlives it: the pipeline keeps no durable state.
const statusTTL = 24 * time.Hour

// Queue enqueues batches for background processing.
type Queue interface {
	EnqueueBatch(ctx context.Context, batch models.Batch) error
}

// Config holds the Redis connection settings shared by the asynq
// client and the status store.
type Config struct {
	RedisAddr      string
	RedisDB        int
	MaxRetries     int
	ProcessTimeout time.Duration
}

// AsynqQueue is the production Queue backed by asynq over Redis.
type AsynqQueue struct {
	client *asynq.Client
	cfg    *Config
}

func NewAsynqQueue(cfg *Config) *AsynqQueue {
	redisOpt := asynq.RedisClientOpt{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	}
	return &AsynqQueue{
		client: asynq.NewClient(redisOpt),
		cfg:    cfg,
	}
}

// EnqueueBatch serializes the batch and hands it to the worker pool.
// Batch processing is idempotent-by-id: a duplicate submission with
// the same batch id is rejected by asynq's task id uniqueness.
func (q *AsynqQueue) EnqueueBatch(ctx context.Context, batch models.Batch) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch: %w", err)
	}

	opts := []asynq.Option{
		asynq.MaxRetry(q.cfg.MaxRetries),
		asynq.Timeout(q.cfg.ProcessTimeout),
		asynq.TaskID(batch.ID),
	}

	task := asynq.NewTask(TaskTypeBatchProcess, payload, opts...)
	if _, err := q.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("failed to enqueue batch: %w", err)
	}
	return nil
}

func (q *AsynqQueue) Close() error {
	return q.client.Close()
}

// StatusStore tracks per-batch unit counters. Implementations must be
// best effort: callers log and continue on error.
type StatusStore interface {
	InitBatch(ctx context.Context, batchID string, totalUnits int) error
	UnitFinished(ctx context.Context, batchID string, failed bool) error
	GetBatchStatus(ctx context.Context, batchID string) (*models.BatchStatus, error)
}

// RedisStatusStore keeps the counters in a TTL-bounded Redis hash.
// Increments are HINCRBY so concurrent units never lose updates.
type RedisStatusStore struct {
	client *redis.Client
}

func NewRedisStatusStore(client *redis.Client) *RedisStatusStore {
	return &RedisStatusStore{client: client}
}

func statusKey(batchID string) string {
	return fmt.Sprintf("batch_status:%s", batchID)
}

func (s *RedisStatusStore) InitBatch(ctx context.Context, batchID string, totalUnits int) error {
	key := statusKey(batchID)
	now := time.Now().UTC().Format(time.RFC3339)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"total_units", totalUnits,
		"mapped", 0,
		"failed", 0,
		"started_at", now,
		"updated_at", now,
	)
	pipe.Expire(ctx, key, statusTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to init batch status: %w", err)
	}
	return nil
}

func (s *RedisStatusStore) UnitFinished(ctx context.Context, batchID string, failed bool) error {
	field := "mapped"
	if failed {
		field = "failed"
	}
	key := statusKey(batchID)
	pipe := s.client.TxPipeline()
	pipe.HIncrBy(ctx, key, field, 1)
	pipe.HSet(ctx, key, "updated_at", time.Now().UTC().Format(time.RFC3339))
	pipe.Expire(ctx, key, statusTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update batch status: %w", err)
	}
	return nil
}

// GetBatchStatus returns nil without error when the key is unknown or
// already expired.
func (s *RedisStatusStore) GetBatchStatus(ctx context.Context, batchID string) (*models.BatchStatus, error) {
	fields, err := s.client.HGetAll(ctx, statusKey(batchID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get batch status: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	status := &models.BatchStatus{BatchID: batchID}
	status.TotalUnits, _ = strconv.Atoi(fields["total_units"])
	status.Mapped, _ = strconv.Atoi(fields["mapped"])
	status.Failed, _ = strconv.Atoi(fields["failed"])
	status.StartedAt, _ = time.Parse(time.RFC3339, fields["started_at"])
	status.UpdatedAt, _ = time.Parse(time.RFC3339, fields["updated_at"])
	return status, nil
}
