// Package assetstore uploads media payloads to external object storage.
package assetstore

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by Delete when the object is already gone.
	ErrNotFound = errors.New("asset not found")
	// ErrDisabled is returned when no bucket is configured.
	ErrDisabled = errors.New("asset store is not configured")
)

// Store is the subset of object storage used by the media module.
type Store interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
	// Delete removes key. A missing object yields ErrNotFound.
	Delete(ctx context.Context, key string) error
	// KeyFromURL maps a URL returned by Put back to its object key.
	KeyFromURL(rawURL string) (string, bool)
}

// ObjectKey builds "<prefix>/<siteID>/<random>.<ext>" for an upload.
func ObjectKey(prefix, siteID, filename string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if ext == "" || len(ext) > 10 {
		ext = ".bin"
	}
	parts := make([]string, 0, 3)
	if p := strings.Trim(prefix, "/"); p != "" {
		parts = append(parts, p)
	}
	parts = append(parts, siteID, randomString(24)+ext)
	return path.Join(parts...)
}

type disabledStore struct{}

// Disabled returns a Store that rejects uploads. Deletes succeed so rows
// created under a previous configuration can still be cleaned up.
func Disabled() Store { return disabledStore{} }

func (disabledStore) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", ErrDisabled
}

func (disabledStore) Delete(context.Context, string) error { return ErrNotFound }

func (disabledStore) KeyFromURL(string) (string, bool) { return "", false }

func randomString(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz0123456789"
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		fallback := strings.ReplaceAll(uuid.NewString(), "-", "")
		for len(fallback) < n {
			fallback += strings.ReplaceAll(uuid.NewString(), "-", "")
		}
		return fallback[:n]
	}
	for i := range buf {
		buf[i] = letters[int(buf[i])%len(letters)]
	}
	return string(buf)
}
