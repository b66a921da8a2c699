package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/internal/service/batch"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

type BatchHandler struct {
	service batch.Service
	logger  logger.Logger
}

// documentRequest is one document reference in a submission.
type documentRequest struct {
	DocumentID   string `json:"document_id" binding:"required"`
	TravelerID   string `json:"traveler_id" binding:"required"`
	TravelerName string `json:"traveler_name"`
	SourceURL    string `json:"source_url" binding:"required"`
	DocumentKind string `json:"document_kind" binding:"required"`
}

// batchRequest is the submission payload. BatchID is optional; one is
// assigned when absent.
type batchRequest struct {
	BatchID   string            `json:"batch_id"`
	Documents []documentRequest `json:"documents" binding:"required,min=1"`
}

// AcceptedResponse acknowledges a queued batch.
type AcceptedResponse struct {
	BatchID       string `json:"batch_id"`
	Status        string `json:"status"`
	DocumentCount int    `json:"document_count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func NewBatchHandler(service batch.Service, logger logger.Logger) *BatchHandler {
	return &BatchHandler{
		service: service,
		logger:  logger,
	}
}

// ProcessBatch accepts a batch of document references and queues it.
// The 202 response is an acknowledgement only: results arrive through
// the progress channel and the result webhook.
func (h *BatchHandler) ProcessBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, http.StatusBadRequest, "Invalid batch payload", err)
		return
	}

	b := models.Batch{ID: req.BatchID}
	for _, doc := range req.Documents {
		b.Documents = append(b.Documents, models.DocumentRef{
			DocumentID:   doc.DocumentID,
			TravelerID:   doc.TravelerID,
			TravelerName: doc.TravelerName,
			SourceURL:    doc.SourceURL,
			Kind:         models.DocumentKind(doc.DocumentKind),
		})
	}

	accepted, err := h.service.Submit(c.Request.Context(), b)
	if err != nil {
		h.handleError(c, http.StatusBadRequest, "Failed to accept batch", err)
		return
	}

	c.JSON(http.StatusAccepted, AcceptedResponse{
		BatchID:       accepted.ID,
		Status:        "accepted",
		DocumentCount: len(accepted.Documents),
	})
}

// GetStatus returns the transient unit counters for a batch.
func (h *BatchHandler) GetStatus(c *gin.Context) {
	batchID := c.Param("batchId")
	if batchID == "" {
		h.handleError(c, http.StatusBadRequest, "Batch ID is required", nil)
		return
	}

	status, err := h.service.GetStatus(c.Request.Context(), batchID)
	if err != nil {
		h.handleError(c, http.StatusInternalServerError, "Failed to get status", err)
		return
	}
	if status == nil {
		h.handleError(c, http.StatusNotFound, "Unknown batch", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batch_id":    status.BatchID,
		"total_units": status.TotalUnits,
		"mapped":      status.Mapped,
		"failed":      status.Failed,
		"done":        status.Done(),
		"started_at":  status.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		"updated_at":  status.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *BatchHandler) handleError(c *gin.Context, status int, message string, err error) {
	h.logger.Error(message,
		logger.String("path", c.Request.URL.Path),
		logger.Error(err),
	)

	response := ErrorResponse{
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	c.JSON(status, response)
}
