package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"

	"github.com/masjidops/fahs/pkg/apperr"
)

// GCSStore stores objects in a Google Cloud Storage bucket with public
// read access.
type GCSStore struct {
	client *gcs.Client
	bucket string
}

func NewGCSStore(bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is not set")
	}
	client, err := gcs.NewClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", apperr.Wrap(apperr.KindStorage, err, "writing object "+path)
	}
	if err := w.Close(); err != nil {
		return "", apperr.Wrap(apperr.KindStorage, err, "finalizing object "+path)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, path), nil
}

func (s *GCSStore) Delete(ctx context.Context, path string) error {
	if err := s.client.Bucket(s.bucket).Object(path).Delete(ctx); err != nil {
		return apperr.Wrap(apperr.KindStorage, err, "deleting object "+path)
	}
	return nil
}
