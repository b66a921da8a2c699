// Package fetch retrieves document bytes from the source URLs carried
// by a batch. The scheme picks the backend: http(s) downloads, s3
// object reads, or minio object reads.
package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/voyagehq/tripdocs/pkg/logger"
)

// Fetcher resolves one source URL to raw document bytes.
type Fetcher interface {
	Fetch(ctx context.Context, sourceURL string) ([]byte, error)
}

// Router dispatches to a scheme-specific Fetcher.
type Router struct {
	backends map[string]Fetcher
	logger   logger.Logger
}

// NewRouter wires the standard backends. The s3 and minio clients are
// constructed lazily only when their schemes are registered by the
// caller; the http backend is always present.
func NewRouter(log logger.Logger) *Router {
	r := &Router{
		backends: make(map[string]Fetcher),
		logger:   log,
	}
	httpFetcher := NewHTTPFetcher(log)
	r.backends["http"] = httpFetcher
	r.backends["https"] = httpFetcher
	return r
}

// Register adds or replaces the backend for a scheme.
func (r *Router) Register(scheme string, f Fetcher) {
	r.backends[strings.ToLower(scheme)] = f
}

func (r *Router) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid source url: %w", err)
	}

	backend, ok := r.backends[strings.ToLower(parsed.Scheme)]
	if !ok {
		return nil, fmt.Errorf("unsupported source url scheme: %s", parsed.Scheme)
	}

	return backend.Fetch(ctx, sourceURL)
}
