package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voyagehq/tripdocs/pkg/logger"
)

// maxDocumentSize caps a single download at 25MB; passport scans and
// booking PDFs are far below this.
const maxDocumentSize = 25 * 1024 * 1024

// HTTPFetcher downloads document bytes over http(s).
type HTTPFetcher struct {
	client *http.Client
	logger logger.Logger
}

func NewHTTPFetcher(log logger.Logger) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: 60 * time.Second},
		logger: log,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("document download returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document body: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds size limit of %d bytes", maxDocumentSize)
	}

	return data, nil
}
