package engine

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/voyagehq/tripdocs/pkg/logger"
)

var pdfMagic = []byte("%PDF")

// CompositeRecognizer routes PDF documents (e-tickets, booking
// confirmations) through their embedded text layer and everything else
// through the wrapped OCR backend.
type CompositeRecognizer struct {
	ocr    Recognizer
	logger logger.Logger
}

func NewCompositeRecognizer(ocr Recognizer, log logger.Logger) *CompositeRecognizer {
	return &CompositeRecognizer{ocr: ocr, logger: log}
}

func (r *CompositeRecognizer) RecognizeText(ctx context.Context, data []byte) (string, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return r.ocr.RecognizeText(ctx, data)
	}

	text, err := extractPDFText(data)
	if err != nil {
		// A scanned PDF with no text layer still has a chance with OCR.
		r.logger.Warn("pdf text extraction failed, falling back to ocr",
			logger.Error(err),
		)
		return r.ocr.RecognizeText(ctx, data)
	}
	return text, nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var buf bytes.Buffer
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read pdf page %d: %w", pageNum, err)
		}
		buf.WriteString(content)
		buf.WriteString("\n")
	}

	if buf.Len() == 0 {
		return "", fmt.Errorf("pdf has no extractable text")
	}
	return buf.String(), nil
}
