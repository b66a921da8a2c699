// Package progress publishes per-document status events to the pub/sub
// channel consumed by the downstream real-time notification layer.
// Delivery is at-most-effort: publish failures are logged and
// swallowed, never retried, and never alter a unit's outcome.
package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// Publisher emits progress events keyed by batch id.
type Publisher interface {
	Publish(ctx context.Context, event models.ProgressEvent) error
}

// RedisPublisher publishes events on "<prefix>:<batch_id>".
type RedisPublisher struct {
	client *redis.Client
	prefix string
	logger logger.Logger
}

func NewRedisPublisher(client *redis.Client, prefix string, log logger.Logger) *RedisPublisher {
	return &RedisPublisher{
		client: client,
		prefix: prefix,
		logger: log,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event models.ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event: %w", err)
	}

	channel := fmt.Sprintf("%s:%s", p.prefix, event.BatchID)
	if err := p.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish progress event: %w", err)
	}

	p.logger.Debug("progress event published",
		logger.String("channel", channel),
		logger.String("documentId", event.DocumentID),
		logger.String("status", string(event.Status)),
	)
	return nil
}
