package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalBucket stores objects as files under Dir. The web server is expected
// to serve Dir at URLPrefix.
type LocalBucket struct {
	Dir       string
	URLPrefix string
}

// NewLocalBucket creates the directory if needed.
func NewLocalBucket(dir, urlPrefix string) (*LocalBucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create bucket dir: %w", err)
	}
	return &LocalBucket{Dir: dir, URLPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Upload writes body to a temp file and renames it into place, so readers
// never see a partial image.
func (b *LocalBucket) Upload(ctx context.Context, objectPath, contentType string, body io.Reader) error {
	p, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	dst := filepath.Join(b.Dir, filepath.FromSlash(p))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create object dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close object: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publish object: %w", err)
	}
	return nil
}

// PublicURL joins URLPrefix and objectPath.
func (b *LocalBucket) PublicURL(objectPath string) string {
	return b.URLPrefix + "/" + strings.TrimPrefix(objectPath, "/")
}

// Delete removes the file behind objectPath.
func (b *LocalBucket) Delete(ctx context.Context, objectPath string) error {
	p, err := cleanObjectPath(objectPath)
	if err != nil {
		return err
	}
	err = os.Remove(filepath.Join(b.Dir, filepath.FromSlash(p)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Backend returns "local".
func (b *LocalBucket) Backend() string { return "local" }
