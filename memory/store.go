package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/mnemoware/mnemo-go-sdk/memory/index"
)

// LongTermStore orchestrates embedding, persistence, caching and
// deduplication behind three operations: Add, Search and DeleteAll.
// One store serves all users; each user's collection is addressed by a
// path derived from their API credential.
//
// Concurrency: the store assumes at most one in-flight mutation per
// user at a time (a single chat session drives tool calls
// sequentially). Two concurrent writers to the same user's blob race
// with last-write-wins semantics and no merge; this is an accepted
// limitation, not handled here. The ID allocator and the default cache
// are safe across users.
type LongTermStore struct {
	embedder Embedder
	blob     BlobStore
	cache    Cache

	pathFn func(apiKey string) string
	nowFn  func() time.Time

	// lastID guards timestamp-derived IDs against same-second
	// collisions.
	lastID atomic.Int64
}

// Option configures a LongTermStore.
type Option func(*LongTermStore)

// WithCache replaces the default unbounded map cache.
func WithCache(c Cache) Option {
	return func(s *LongTermStore) {
		s.cache = c
	}
}

// WithPathFunc replaces the default credential-digest path derivation,
// for backends that supply a real per-user storage home.
func WithPathFunc(fn func(apiKey string) string) Option {
	return func(s *LongTermStore) {
		s.pathFn = fn
	}
}

// withNow overrides the clock. Test hook.
func withNow(fn func() time.Time) Option {
	return func(s *LongTermStore) {
		s.nowFn = fn
	}
}

// NewLongTermStore creates a store over the given embedder and blob
// backend.
func NewLongTermStore(embedder Embedder, blob BlobStore, opts ...Option) *LongTermStore {
	s := &LongTermStore{
		embedder: embedder,
		blob:     blob,
		cache:    NewMapCache(),
		pathFn:   defaultPath,
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// defaultPath derives the deterministic, user-scoped storage path from
// an API credential: a fixed subpath under a digest of the key.
func defaultPath(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	root := hex.EncodeToString(sum[:])[:16]
	return fmt.Sprintf("files/%s/__long-memories/data.json", root)
}

func (s *LongTermStore) now() time.Time {
	return s.nowFn()
}

// nextID issues a timestamp-derived ID that never repeats within a
// process, even for adds landing in the same second.
func (s *LongTermStore) nextID() int64 {
	now := s.now().Unix()
	for {
		last := s.lastID.Load()
		id := now
		if id <= last {
			id = last + 1
		}
		if s.lastID.CompareAndSwap(last, id) {
			return id
		}
	}
}

// load returns the user's collection, cache first, blob second. Any
// download or decode failure degrades to a fresh empty collection:
// absence of history is not an error. "Not found" and "malformed" are
// distinguished only in the log.
func (s *LongTermStore) load(ctx context.Context, path string) *Collection {
	if collection, ok := s.cache.Get(path); ok {
		return collection
	}

	data, err := s.blob.Download(ctx, path)
	if err != nil {
		log.Printf("[MEMORY] No persisted history at %s: %v", path, err)
		collection := NewCollection()
		s.cache.Put(path, collection)
		return collection
	}

	var collection Collection
	if err := json.Unmarshal(data, &collection); err != nil {
		log.Printf("[MEMORY] Malformed memory blob at %s, starting fresh: %v", path, err)
		fresh := NewCollection()
		s.cache.Put(path, fresh)
		return fresh
	}
	if collection.Memories == nil {
		collection.Memories = []Memory{}
	}

	s.cache.Put(path, &collection)
	return &collection
}

// save stamps updated_at, serializes the whole collection compactly,
// overwrites the blob and refreshes the cache. Write failures propagate;
// there are no retries.
func (s *LongTermStore) save(ctx context.Context, path string, collection *Collection) error {
	collection.UpdatedAt = s.now()

	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("marshal collection: %w", err)
	}

	if err := s.blob.Upload(ctx, path, data); err != nil {
		return fmt.Errorf("upload memories: %w", err)
	}

	s.cache.Put(path, collection)
	return nil
}

// Add embeds content, appends it to the user's collection and persists
// the result. It returns a confirmation text; a failed save propagates
// as an error and no confirmation is produced.
func (s *LongTermStore) Add(ctx context.Context, apiKey, content string, importance float64, category string, topics []string) (string, error) {
	path := s.pathFn(apiKey)
	collection := s.load(ctx, path)

	embedding, err := s.embedder.Embed(ctx, content)
	if err != nil {
		return "", fmt.Errorf("embed content: %w", err)
	}

	if topics == nil {
		topics = []string{}
	}
	memory := Memory{
		Data: MemoryData{
			ID:         s.nextID(),
			Content:    content,
			Importance: importance,
			Category:   category,
			Topics:     topics,
		},
		Embedding: embedding,
	}
	collection.Memories = append(collection.Memories, memory)

	if err := s.save(ctx, path, collection); err != nil {
		return "", err
	}

	log.Printf("[MEMORY] Stored memory %d (%d total)", memory.Data.ID, len(collection.Memories))
	return fmt.Sprintf("Memory successfully stored: '%s'", content), nil
}

// Search returns the topK stored facts most similar to query, best
// match first, with embeddings stripped. topK is clamped to the
// collection size; asking for fewer than one result yields an empty
// result, as does an empty collection — neither is an error. The
// deduplication trigger is evaluated first and may consolidate and
// persist the collection before the search runs.
func (s *LongTermStore) Search(ctx context.Context, apiKey, query string, topK int) ([]MemoryData, error) {
	path := s.pathFn(apiKey)
	collection := s.load(ctx, path)

	if len(collection.Memories) == 0 {
		return []MemoryData{}, nil
	}

	if s.needsDeduplication(collection) {
		log.Printf("[MEMORY] Running deduplication pass over %d memories", len(collection.Memories))
		collection.Memories = deduplicate(collection.Memories)
		now := s.now()
		collection.LastDeduplicatedAt = &now
		if err := s.save(ctx, path, collection); err != nil {
			return nil, fmt.Errorf("save deduplicated collection: %w", err)
		}
	}

	if topK < 1 {
		return []MemoryData{}, nil
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	vectors := make([][]float32, len(collection.Memories))
	for i, m := range collection.Memories {
		vectors[i] = normalize(m.Embedding)
	}

	flat, err := index.NewFlat(ctx, vectors)
	if err != nil {
		return nil, fmt.Errorf("build search index: %w", err)
	}

	k := topK
	if k > len(collection.Memories) {
		k = len(collection.Memories)
	}

	hits, err := flat.Search(ctx, normalize(queryEmbedding), k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]MemoryData, 0, len(hits))
	for _, hit := range hits {
		results = append(results, collection.Memories[hit.Index].Data)
	}

	log.Printf("[MEMORY] Search returned %d of %d memories", len(results), len(collection.Memories))
	return results, nil
}

// DeleteAll removes the user's memory blob and drops the cache entry.
// It always reports success: deleting when nothing is stored is a
// no-op, and a transient blob failure is only logged — the cache entry
// is dropped either way, so the next load re-reads the blob.
func (s *LongTermStore) DeleteAll(ctx context.Context, apiKey string) (string, error) {
	path := s.pathFn(apiKey)

	if err := s.blob.Delete(ctx, path); err != nil {
		log.Printf("[MEMORY] Failed to delete blob at %s: %v", path, err)
	}
	s.cache.Invalidate(path)

	log.Printf("[MEMORY] Deleted all memories at %s", path)
	return "All memories have been successfully deleted.", nil
}
