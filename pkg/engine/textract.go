package engine

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	cfg "github.com/voyagehq/tripdocs/config"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// TextractRecognizer runs document bytes through AWS Textract line
// detection and joins the detected lines into plain text.
type TextractRecognizer struct {
	client *textract.Client
	logger logger.Logger
}

func NewTextractRecognizer(ctx context.Context, log logger.Logger) (*TextractRecognizer, error) {
	awsCfg := cfg.GetAWSConfig()
	creds := credentials.NewStaticCredentialsProvider(
		awsCfg.AccessKey,
		awsCfg.SecretKey,
		"",
	)

	loaded, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(awsCfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &TextractRecognizer{
		client: textract.NewFromConfig(loaded),
		logger: log,
	}, nil
}

func (r *TextractRecognizer) RecognizeText(ctx context.Context, data []byte) (string, error) {
	input := &textract.DetectDocumentTextInput{
		Document: &types.Document{
			Bytes: data,
		},
	}

	result, err := r.client.DetectDocumentText(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to detect document text: %w", err)
	}

	var lines []string
	for _, block := range result.Blocks {
		if block.BlockType == types.BlockTypeLine && block.Text != nil {
			lines = append(lines, *block.Text)
		}
	}

	r.logger.Debug("textract recognition completed",
		logger.Int("lineCount", len(lines)),
	)

	return strings.Join(lines, "\n"), nil
}
