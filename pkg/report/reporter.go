// Package report posts the terminal outcome of each processing unit to
// the system-of-record webhook. Non-2xx responses are logged, never
// retried, and never alter the unit's already-committed terminal state.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/voyagehq/tripdocs/internal/models"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// Reporter delivers one UnitResult to the external system of record.
type Reporter interface {
	Report(ctx context.Context, result models.UnitResult) error
}

// resultPayload is the webhook body shape.
type resultPayload struct {
	TravelerID         string                   `json:"traveler_id"`
	DocumentType       models.UnitKind          `json:"document_type"`
	DocumentIDs        []string                 `json:"document_ids"`
	OCRStatus          string                   `json:"ocr_status"`
	OCRExtractedData   models.ExtractionOutcome `json:"ocr_extracted_data"`
	MappedToTravelerID string                   `json:"mapped_to_traveler_id,omitempty"`
}

// WebhookReporter posts to <base>/order/{batch_id}/ocr-results.
type WebhookReporter struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func NewWebhookReporter(baseURL string, timeout time.Duration, log logger.Logger) *WebhookReporter {
	return &WebhookReporter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

func (r *WebhookReporter) Report(ctx context.Context, result models.UnitResult) error {
	status := "COMPLETED"
	if !result.Completed {
		status = "FAILED"
	}

	body, err := json.Marshal(resultPayload{
		TravelerID:         result.TravelerID,
		DocumentType:       result.DocumentType,
		DocumentIDs:        result.DocumentIDs,
		OCRStatus:          status,
		OCRExtractedData:   result.Outcome,
		MappedToTravelerID: result.MappedToTravelerID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal result payload: %w", err)
	}

	url := fmt.Sprintf("%s/order/%s/ocr-results", r.baseURL, result.BatchID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build result request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("result webhook returned %d", resp.StatusCode)
	}

	r.logger.Debug("unit result reported",
		logger.String("batchId", result.BatchID),
		logger.String("documentType", string(result.DocumentType)),
		logger.String("ocrStatus", status),
	)
	return nil
}
