package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/internal/service/batch"
	"github.com/voyagehq/tripdocs/pkg/logger"
	"github.com/voyagehq/tripdocs/pkg/queue"
)

// BatchWorker consumes submitted batches and runs them through the
// processing pipeline.
type BatchWorker struct {
	BaseWorker
	batchService batch.Service
}

func NewBatchWorker(cfg *Config, batchService batch.Service, log logger.Logger) (*BatchWorker, error) {
	server := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, DB: cfg.RedisDB},
		asynq.Config{
			Concurrency: cfg.Concurrency,
			Queues:      cfg.Queues,
			RetryDelayFunc: func(n int, err error, task *asynq.Task) time.Duration {
				return time.Duration(n) * time.Minute
			},
		},
	)

	w := &BatchWorker{
		BaseWorker: BaseWorker{
			server:   server,
			mux:      asynq.NewServeMux(),
			logger:   log,
			stopChan: make(chan struct{}),
		},
		batchService: batchService,
	}

	w.registerHandlers()
	return w, nil
}

func (w *BatchWorker) registerHandlers() {
	w.mux.HandleFunc(queue.TaskTypeBatchProcess, w.handleBatchProcess)
}

func (w *BatchWorker) handleBatchProcess(ctx context.Context, t *asynq.Task) error {
	var b models.Batch
	if err := json.Unmarshal(t.Payload(), &b); err != nil {
		w.logger.Error("Failed to unmarshal batch",
			logger.Error(err),
			logger.String("payload", string(t.Payload())),
		)
		// A payload that can't be decoded will never decode; retrying
		// is pointless.
		return fmt.Errorf("failed to unmarshal batch: %w", asynq.SkipRetry)
	}

	w.logger.Info("Processing batch task",
		logger.String("batchId", b.ID),
		logger.Int("documentCount", len(b.Documents)),
	)

	if err := w.batchService.Process(ctx, b); err != nil {
		w.logger.Error("Batch processing failed",
			logger.String("batchId", b.ID),
			logger.Error(err),
		)
		return err
	}
	return nil
}

func (w *BatchWorker) Start(ctx context.Context) error {
	go func() {
		if err := w.server.Run(w.mux); err != nil {
			w.logger.Error("Worker server stopped", logger.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		w.Stop()
	}()

	return nil
}
