package testutil

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/mx-space/sitecms/internal/pkg/assetstore"
)

// StoreBaseURL prefixes every URL handed out by Store.
const StoreBaseURL = "https://assets.test/"

// ErrStoreDown is returned by Store while a failure switch is on.
var ErrStoreDown = errors.New("asset store unavailable")

// Store is an in-memory assetstore.Store.
type Store struct {
	mu         sync.Mutex
	objects    map[string][]byte
	FailPut    bool
	FailDelete bool
	Deleted    []string
	broken     map[string]bool
}

var _ assetstore.Store = (*Store)(nil)

func NewStore() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPut {
		return "", ErrStoreDown
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	return StoreBaseURL + key, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailDelete || s.broken[key] {
		return ErrStoreDown
	}
	if _, ok := s.objects[key]; !ok {
		return assetstore.ErrNotFound
	}
	delete(s.objects, key)
	s.Deleted = append(s.Deleted, key)
	return nil
}

func (s *Store) KeyFromURL(rawURL string) (string, bool) {
	if !strings.HasPrefix(rawURL, StoreBaseURL) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, StoreBaseURL), true
}

// SetFailures toggles Put and Delete failures.
func (s *Store) SetFailures(put, del bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FailPut, s.FailDelete = put, del
}

// BreakKeys makes Delete fail for the given keys only.
func (s *Store) BreakKeys(keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken == nil {
		s.broken = make(map[string]bool, len(keys))
	}
	for _, k := range keys {
		s.broken[k] = true
	}
}

// Has reports whether key is stored.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

// Len returns the number of stored objects.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
