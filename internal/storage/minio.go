package storage

import (
	"context"
	"fmt"
	"go-portfolio-app/internal/config"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIO keeps media in an S3-compatible bucket and hands out presigned
// download URLs.
type MinIO struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinIO connects to the endpoint in cfg. The bucket must already exist.
func NewMinIO(cfg config.MediaConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	return &MinIO{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

// URL returns a presigned GET URL for key.
func (m *MinIO) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}

// Upload stores r in the bucket under a generated key.
func (m *MinIO) Upload(ctx context.Context, prefix, fileName string, r io.Reader, size int64) (string, error) {
	now := time.Now().UTC()
	key := objectKey(prefix, fileName, now)
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType(key),
		UserMetadata: map[string]string{
			"original-filename": fileName,
			"uploaded-at":       now.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fileName, err)
	}
	return key, nil
}
