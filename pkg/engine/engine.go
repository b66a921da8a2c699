// Package engine holds the clients for the two external recognition
// services: a plain-text OCR engine and an identity-document
// verification API. Their internal accuracy is opaque to the pipeline;
// only the input/output contracts matter here.
package engine

import (
	"context"
	"fmt"

	"github.com/voyagehq/tripdocs/pkg/logger"
)

// EngineType selects the OCR backend.
type EngineType string

const (
	EngineTextract  EngineType = "textract"
	EngineTesseract EngineType = "tesseract"
)

// Recognizer turns raw document bytes into recognized plain text.
type Recognizer interface {
	RecognizeText(ctx context.Context, data []byte) (string, error)
}

// Verifier sends a passport front/back pair to the identity-document
// verification API and returns its structured field set. A non-2xx or
// malformed response is an error; the caller treats the response as
// authoritative otherwise.
type Verifier interface {
	VerifyPassport(ctx context.Context, front, back []byte) (map[string]string, error)
}

// NewRecognizer builds the configured OCR backend wrapped with the PDF
// fast path: PDF sources carry their own text layer and never need OCR.
func NewRecognizer(ctx context.Context, engineType EngineType, log logger.Logger) (Recognizer, error) {
	var ocr Recognizer
	var err error
	switch engineType {
	case EngineTextract:
		ocr, err = NewTextractRecognizer(ctx, log)
	case EngineTesseract:
		ocr = NewTesseractRecognizer(log)
	default:
		return nil, fmt.Errorf("unsupported ocr engine: %s", engineType)
	}
	if err != nil {
		return nil, err
	}
	return NewCompositeRecognizer(ocr, log), nil
}
