package fetch

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	cfg "github.com/voyagehq/tripdocs/config"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// S3Fetcher reads documents referenced as s3://bucket/key.
type S3Fetcher struct {
	client *s3.Client
	logger logger.Logger
}

func NewS3Fetcher(ctx context.Context, log logger.Logger) (*S3Fetcher, error) {
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

	return &S3Fetcher{
		client: s3.NewFromConfig(loaded),
		logger: log,
	}, nil
}

func (f *S3Fetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	bucket, key, err := splitObjectURL(sourceURL)
	if err != nil {
		return nil, err
	}

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3 object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read s3 object: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds size limit of %d bytes", maxDocumentSize)
	}

	return data, nil
}

func splitObjectURL(sourceURL string) (bucket, key string, err error) {
	parsed, err := url.Parse(sourceURL)
	if err != nil {
		return "", "", fmt.Errorf("invalid object url: %w", err)
	}
	key = strings.TrimPrefix(parsed.Path, "/")
	if parsed.Host == "" || key == "" {
		return "", "", fmt.Errorf("object url must be scheme://bucket/key: %s", sourceURL)
	}
	return parsed.Host, key, nil
}
