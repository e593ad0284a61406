package memory

import "context"

// Embedder converts text to a fixed-dimension dense vector.
// Implementations: embedder/mock (testing and local dev),
// embedder/onnx (all-MiniLM-L6-v2 offline).
//
// Embedders are deterministic for a fixed model version and safe to
// call concurrently after construction. A model that fails to load is a
// constructor error, treated as a startup precondition by callers, not
// a per-call recoverable condition.
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// BlobStore is the external object store a user's collection is
// persisted to, addressed by path strings.
// Implementations: blob/s3 (minio-backed), blob/inmem (tests and
// examples).
type BlobStore interface {
	// Download fetches the blob at path. A missing object is an error
	// at this layer; the store treats any download failure as "no
	// history yet".
	Download(ctx context.Context, path string) ([]byte, error)

	// Upload overwrites the blob at path. Last write wins.
	Upload(ctx context.Context, path string, data []byte) error

	// Delete removes the blob at path. Deleting a missing object is a
	// no-op, not an error.
	Delete(ctx context.Context, path string) error
}

// Cache maps a storage path to the most recently loaded collection,
// avoiding redundant blob fetches within a process lifetime. There is
// no cross-process invalidation: the blob is authoritative and a cache
// miss only costs a re-download.
// Implementations: MapCache (this package, unbounded) and
// cache/ristretto (bounded, for long-lived multi-tenant processes).
type Cache interface {
	// Get returns the cached collection for path, if present.
	Get(path string) (*Collection, bool)

	// Put records collection as the last known persisted state for path.
	Put(path string, collection *Collection)

	// Invalidate drops any entry for path.
	Invalidate(path string)
}
