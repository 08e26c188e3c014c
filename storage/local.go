package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/masjidops/fahs/pkg/apperr"
)

// LocalStore writes objects under a directory served at /uploads/.
// Development only.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) Put(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", apperr.Wrap(apperr.KindStorage, err, "creating upload directory")
	}

	dst, err := os.Create(full)
	if err != nil {
		return "", apperr.Wrap(apperr.KindStorage, err, "creating file "+path)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", apperr.Wrap(apperr.KindStorage, err, "saving file "+path)
	}

	// In production you'd use your domain. For dev, a relative path works.
	return "/uploads/" + path, nil
}

func (s *LocalStore) Delete(ctx context.Context, path string) error {
	full := filepath.Join(s.root, filepath.FromSlash(path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return apperr.Wrap(apperr.KindStorage, err, "deleting file "+path)
	}
	return nil
}
