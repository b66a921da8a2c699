package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	cfg "github.com/voyagehq/tripdocs/config"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// HTTPVerifier calls the third-party identity-document verification
// API with both passport sides and returns its flat field set.
type HTTPVerifier struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   logger.Logger
}

type verifyRequest struct {
	FrontImage string `json:"front_image"`
	BackImage  string `json:"back_image"`
}

type verifyResponse struct {
	Fields map[string]string `json:"fields"`
}

func NewHTTPVerifier(log logger.Logger) *HTTPVerifier {
	verifyCfg := cfg.GetVerificationConfig()
	return &HTTPVerifier{
		endpoint: verifyCfg.Endpoint,
		apiKey:   verifyCfg.APIKey,
		client:   &http.Client{Timeout: verifyCfg.Timeout},
		logger:   log,
	}
}

// VerifyPassport posts base64-encoded front/back images and decodes the
// structured response. Non-2xx or a malformed body is an error; the
// caller treats anything else as authoritative.
func (v *HTTPVerifier) VerifyPassport(ctx context.Context, front, back []byte) (map[string]string, error) {
	body, err := json.Marshal(verifyRequest{
		FrontImage: base64.StdEncoding.EncodeToString(front),
		BackImage:  base64.StdEncoding.EncodeToString(back),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal verification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if v.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.apiKey)
	}

	start := time.Now()
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("verification api returned %d: %s", resp.StatusCode, payload)
	}

	var decoded verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode verification response: %w", err)
	}
	if decoded.Fields == nil {
		return nil, fmt.Errorf("verification response carried no fields")
	}

	v.logger.Debug("passport verification completed",
		logger.Int("fieldCount", len(decoded.Fields)),
		logger.Duration("elapsed", time.Since(start)),
	)

	return decoded.Fields, nil
}
