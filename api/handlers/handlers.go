package handlers

import (
	"github.com/voyagehq/tripdocs/internal/service/batch"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

type Handlers struct {
	Batch *BatchHandler
}

func NewHandlers(
	batchService batch.Service,
	logger logger.Logger,
) *Handlers {
	return &Handlers{
		Batch: NewBatchHandler(batchService, logger),
	}
}
