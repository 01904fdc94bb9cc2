package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage implements Storage on the local filesystem. It is the
// default backend for development and single-node deployments.
type LocalStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage creates a local storage rooted at the given directory
func NewLocalStorage(root, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	if baseURL == "" {
		baseURL = "/files"
	}
	return &LocalStorage{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (l *LocalStorage) path(key string) (string, error) {
	clean := filepath.Clean(filepath.Join(l.root, filepath.FromSlash(key)))
	if !strings.HasPrefix(clean, filepath.Clean(l.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage key escapes root: %s", key)
	}
	return clean, nil
}

// Upload writes the file under the storage root
func (l *LocalStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*UploadResult, error) {
	target, err := l.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		Key:        key,
		URL:        l.GetURL(key),
		Size:       written,
		MimeType:   contentType,
		UploadedAt: time.Now(),
	}, nil
}

// Download opens a stored file for reading
func (l *LocalStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	target, err := l.path(key)
	if err != nil {
		return nil, err
	}
	return os.Open(target)
}

// Delete removes a stored file
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	target, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GetURL returns the serving URL for a stored file
func (l *LocalStorage) GetURL(key string) string {
	return l.baseURL + "/" + key
}

// Exists checks whether a file is present
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	target, err := l.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
