// Package batch is the service layer tying the HTTP surface to the
// background pipeline: it validates submissions, hands them to the
// queue, and gives the worker its processing entry point.
package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	cfg "github.com/voyagehq/tripdocs/config"
	"github.com/voyagehq/tripdocs/internal/extract"
	"github.com/voyagehq/tripdocs/internal/grouper"
	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/internal/orchestrator"
	"github.com/voyagehq/tripdocs/pkg/engine"
	"github.com/voyagehq/tripdocs/pkg/fetch"
	"github.com/voyagehq/tripdocs/pkg/logger"
	"github.com/voyagehq/tripdocs/pkg/progress"
	"github.com/voyagehq/tripdocs/pkg/queue"
	"github.com/voyagehq/tripdocs/pkg/report"

	"github.com/redis/go-redis/v9"
)

// Service is the batch-processing service contract.
type Service interface {
	// Submit validates the batch, assigns an id when absent, and
	// enqueues it for background processing. The returned batch is the
	// caller's acknowledgement: processing has not run yet.
	Submit(ctx context.Context, batch models.Batch) (models.Batch, error)
	// Process runs the batch to completion. Worker entry point.
	Process(ctx context.Context, batch models.Batch) error
	// GetStatus returns the transient counters for a batch, or nil when
	// unknown or expired.
	GetStatus(ctx context.Context, batchID string) (*models.BatchStatus, error)
}

type batchService struct {
	queue        queue.Queue
	orchestrator *orchestrator.Orchestrator
	status       queue.StatusStore
	logger       logger.Logger
}

// NewService assembles a Service from injected collaborators.
func NewService(
	q queue.Queue,
	orch *orchestrator.Orchestrator,
	status queue.StatusStore,
	log logger.Logger,
) Service {
	return &batchService{
		queue:        q,
		orchestrator: orch,
		status:       status,
		logger:       log,
	}
}

// GetService wires the production service from configuration.
func GetService(ctx context.Context, log logger.Logger) (Service, error) {
	redisCfg := cfg.GetRedisConfig()
	pipelineCfg := cfg.GetPipelineConfig()

	redisClient := redis.NewClient(&redis.Options{
		Addr: redisCfg.Addr,
		DB:   redisCfg.DB,
	})

	recognizer, err := engine.NewRecognizer(ctx, engine.EngineType(pipelineCfg.OCREngine), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize recognizer: %w", err)
	}
	verifier := engine.NewHTTPVerifier(log)

	fetcher := fetch.NewRouter(log)
	if s3Fetcher, err := fetch.NewS3Fetcher(ctx, log); err != nil {
		log.Warn("s3 fetcher unavailable", logger.Error(err))
	} else {
		fetcher.Register("s3", s3Fetcher)
	}
	if minioFetcher, err := fetch.NewMinioFetcher(log); err != nil {
		log.Warn("minio fetcher unavailable", logger.Error(err))
	} else {
		fetcher.Register("minio", minioFetcher)
	}

	publisher := progress.NewRedisPublisher(redisClient, redisCfg.ChannelPrefix, log)

	webhookCfg := cfg.GetWebhookConfig()
	reporter := report.NewWebhookReporter(webhookCfg.BaseURL, webhookCfg.Timeout, log)

	status := queue.NewRedisStatusStore(redisClient)

	orch := orchestrator.New(
		fetcher,
		extract.NewPassportExtractor(verifier, log),
		extract.NewFlightExtractor(recognizer, log),
		extract.NewHotelExtractor(recognizer, log),
		publisher,
		reporter,
		status,
		log,
		orchestrator.Config{
			MaxConcurrent:  pipelineCfg.MaxConcurrent,
			UnpairedPolicy: grouper.UnpairedPolicy(pipelineCfg.UnpairedPassportPolicy),
		},
	)

	q := queue.NewAsynqQueue(&queue.Config{
		RedisAddr:      redisCfg.Addr,
		RedisDB:        redisCfg.DB,
		MaxRetries:     pipelineCfg.MaxRetries,
		ProcessTimeout: pipelineCfg.ProcessTimeout,
	})

	return NewService(q, orch, status, log), nil
}

func (s *batchService) Submit(ctx context.Context, batch models.Batch) (models.Batch, error) {
	if err := validateBatch(batch); err != nil {
		return models.Batch{}, err
	}

	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}

	if err := s.queue.EnqueueBatch(ctx, batch); err != nil {
		s.logger.Error("failed to enqueue batch",
			logger.String("batchId", batch.ID),
			logger.Error(err),
		)
		return models.Batch{}, fmt.Errorf("failed to enqueue batch: %w", err)
	}

	s.logger.Info("batch accepted",
		logger.String("batchId", batch.ID),
		logger.Int("documentCount", len(batch.Documents)),
	)
	return batch, nil
}

func (s *batchService) Process(ctx context.Context, batch models.Batch) error {
	if err := validateBatch(batch); err != nil {
		return err
	}
	s.orchestrator.Run(ctx, batch)
	return nil
}

func (s *batchService) GetStatus(ctx context.Context, batchID string) (*models.BatchStatus, error) {
	if s.status == nil {
		return nil, nil
	}
	return s.status.GetBatchStatus(ctx, batchID)
}

// validateBatch rejects malformed submissions before orchestration
// ever starts. This is the only batch-level failure mode.
func validateBatch(batch models.Batch) error {
	if len(batch.Documents) == 0 {
		return fmt.Errorf("batch carries no documents")
	}
	for i, doc := range batch.Documents {
		if doc.DocumentID == "" {
			return fmt.Errorf("document %d: missing document_id", i)
		}
		if doc.TravelerID == "" {
			return fmt.Errorf("document %s: missing traveler_id", doc.DocumentID)
		}
		if doc.SourceURL == "" {
			return fmt.Errorf("document %s: missing source_url", doc.DocumentID)
		}
		if !models.ValidKind(doc.Kind) {
			return fmt.Errorf("document %s: unsupported document_kind %q", doc.DocumentID, doc.Kind)
		}
	}
	return nil
}
