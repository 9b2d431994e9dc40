package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalClient stores objects as files in a directory on the API host.
// The server mounts the same directory at /uploads/* so stored keys are
// directly servable.
type LocalClient struct {
	dir string
}

// NewLocalClient constructs a local-disk backend rooted at dir.
func NewLocalClient(dir string) (*LocalClient, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads directory is required")
	}
	return &LocalClient{dir: dir}, nil
}

// EnsureBucket creates the uploads directory if it does not exist.
func (l *LocalClient) EnsureBucket(ctx context.Context) error {
	return os.MkdirAll(l.dir, 0o755)
}

// Put writes an object to a file named by key. Keys never contain path
// separators; anything that resolves outside the directory is refused.
func (l *LocalClient) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// Get opens the file stored under key.
func (l *LocalClient) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes the file stored under key.
func (l *LocalClient) Delete(ctx context.Context, key string) error {
	path, err := l.resolve(key)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Bucket returns the uploads directory path.
func (l *LocalClient) Bucket() string {
	return l.dir
}

// Dir returns the uploads directory for static file serving.
func (l *LocalClient) Dir() string {
	return l.dir
}

func (l *LocalClient) resolve(key string) (string, error) {
	if key == "" || key != filepath.Base(key) {
		return "", errors.New("invalid object key")
	}
	return filepath.Join(l.dir, key), nil
}
