package fetch

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	cfg "github.com/voyagehq/tripdocs/config"
	"github.com/voyagehq/tripdocs/pkg/logger"
)

// MinioFetcher reads documents referenced as minio://bucket/key from a
// self-hosted object store.
type MinioFetcher struct {
	client *minio.Client
	logger logger.Logger
}

func NewMinioFetcher(log logger.Logger) (*MinioFetcher, error) {
	minioCfg := cfg.GetMinioConfig()
	client, err := minio.New(minioCfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(minioCfg.AccessKey, minioCfg.SecretKey, ""),
		Secure: minioCfg.UseSSL,
		Region: minioCfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioFetcher{
		client: client,
		logger: log,
	}, nil
}

func (f *MinioFetcher) Fetch(ctx context.Context, sourceURL string) ([]byte, error) {
	bucket, key, err := splitObjectURL(sourceURL)
	if err != nil {
		return nil, err
	}

	obj, err := f.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get minio object: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read minio object: %w", err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds size limit of %d bytes", maxDocumentSize)
	}

	return data, nil
}
