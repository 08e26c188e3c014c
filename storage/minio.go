package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/masjidops/fahs/pkg/apperr"
)

// MinioStore stores objects in a MinIO (or other S3-compatible) bucket.
// Used by self-hosted deployments.
type MinioStore struct {
	client *minio.Client
	bucket string
	useSSL bool
}

func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("MINIO_BUCKET is not set")
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioStore{client: client, bucket: bucket, useSSL: useSSL}, nil
}

func (s *MinioStore) Put(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, path, r, -1,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", apperr.Wrap(apperr.KindStorage, err, "writing object "+path)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, path), nil
}

func (s *MinioStore) Delete(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return apperr.Wrap(apperr.KindStorage, err, "deleting object "+path)
	}
	return nil
}
