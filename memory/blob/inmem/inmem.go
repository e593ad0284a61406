// Package inmem provides an in-process memory.BlobStore for tests and
// examples. Nothing survives the process.
package inmem

import (
	"context"
	"fmt"
	"sync"
)

// Store is a map-backed blob store. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// Download returns the blob at path, or an error if none exists.
func (s *Store) Download(ctx context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[path]
	if !ok {
		return nil, fmt.Errorf("no blob at %s", path)
	}

	// Copy so callers can't mutate the stored blob.
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Upload overwrites the blob at path.
func (s *Store) Upload(ctx context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[path] = stored
	return nil
}

// Delete removes the blob at path; deleting a missing blob is a no-op.
func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.blobs, path)
	return nil
}

// Len reports how many blobs are stored. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blobs)
}
