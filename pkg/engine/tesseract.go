package engine

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/voyagehq/tripdocs/pkg/logger"
)

// TesseractRecognizer is the local OCR backend. A fresh client is
// created per call: gosseract clients are not safe for concurrent use.
type TesseractRecognizer struct {
	languages []string
	logger    logger.Logger
}

func NewTesseractRecognizer(log logger.Logger) *TesseractRecognizer {
	return &TesseractRecognizer{
		languages: []string{"eng"},
		logger:    log,
	}
}

func (r *TesseractRecognizer) RecognizeText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	for _, lang := range r.languages {
		if err := client.SetLanguage(lang); err != nil {
			return "", fmt.Errorf("failed to set language: %w", err)
		}
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to get text: %w", err)
	}

	return text, nil
}
