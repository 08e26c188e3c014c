// Package storage abstracts the object store holding inspection photos and
// map snapshots. Backend selection follows deployment environment: GCS on
// Google infrastructure, MinIO when an endpoint is configured, local disk
// for development.
package storage

import (
	"context"
	"io"
	"os"
)

// Store is the contract handlers upload through. Put returns a publicly
// addressable URL for the stored object; existing objects at the same path
// are overwritten.
type Store interface {
	Put(ctx context.Context, path, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

// FromEnv picks the backend the same way the upload route used to:
// Google Cloud indicators first, then an explicit MinIO endpoint, then
// local disk.
func FromEnv() (Store, error) {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != "" // Cloud Run indicator
	if useGCS {
		return NewGCSStore(os.Getenv("GCS_BUCKET"))
	}

	if endpoint := os.Getenv("MINIO_ENDPOINT"); endpoint != "" {
		return NewMinioStore(
			endpoint,
			os.Getenv("MINIO_ACCESS_KEY"),
			os.Getenv("MINIO_SECRET_KEY"),
			os.Getenv("MINIO_BUCKET"),
			os.Getenv("MINIO_USE_SSL") == "true",
		)
	}

	return NewLocalStore("./uploads"), nil
}
