// Package local stores objects on the filesystem, for development and single-node deployments.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/angelmondragon/autocenter-backend/pkg/storage"
)

type Store struct {
	root    string
	baseURL string
}

// New creates the root directory when missing.
func New(root, baseURL string) (*Store, error) {
	if root == "" {
		return nil, errors.New("local storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root: %w", err)
	}
	return &Store{root: abs, baseURL: baseURL}, nil
}

// Root returns the absolute directory objects are written under.
func (s *Store) Root() string {
	return s.root
}

// Put writes through a temp file and renames so readers never see partial objects.
func (s *Store) Put(ctx context.Context, obj storage.Object) (string, error) {
	key, err := storage.CleanKey(obj.Key)
	if err != nil {
		return "", err
	}
	if obj.Body == nil {
		return "", errors.New("object body is required")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dest := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("creating object dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, obj.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("writing object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("closing object: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("committing object: %w", err)
	}
	return storage.PublicURL(s.baseURL, key), nil
}

// Delete is a no-op for missing objects.
func (s *Store) Delete(ctx context.Context, key string) error {
	cleaned, err := storage.CleanKey(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err = os.Remove(filepath.Join(s.root, filepath.FromSlash(cleaned)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}
