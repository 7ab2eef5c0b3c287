// Package storage uploads post images to an object store and resolves their
// public URLs. Two backends exist: a local directory served by the web
// server, and an S3 bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidPath is returned for object paths that are empty or escape the bucket root.
var ErrInvalidPath = errors.New("storage: invalid object path")

// Bucket is an object store that hands out public URLs for stored objects.
type Bucket interface {
	// Upload stores body under objectPath.
	Upload(ctx context.Context, objectPath, contentType string, body io.Reader) error
	// PublicURL returns the URL under which objectPath is publicly readable.
	PublicURL(objectPath string) string
	// Delete removes objectPath. Missing objects are not an error.
	Delete(ctx context.Context, objectPath string) error
	// Backend names the implementation ("local", "s3").
	Backend() string
}

// RandomImagePath returns a fresh object path "<uuid>.<ext>". Every call
// yields a different path, so resubmitting the same file never overwrites.
func RandomImagePath(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		return uuid.NewString()
	}
	return uuid.NewString() + "." + ext
}

func cleanObjectPath(p string) (string, error) {
	if p == "" || strings.Contains(p, "\\") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean("/" + p)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
