package memory

import (
	"math"
	"time"
)

// MemoryData is the user-facing fact stored in long-term memory.
// Fields are immutable once created; the only mutation path is deleting
// the whole collection.
type MemoryData struct {
	// ID is derived from the creation timestamp (epoch seconds) with a
	// monotonic guard, so two memories created within the same second
	// still receive distinct IDs. Treat it as advisory, not a strong key.
	ID int64 `json:"id"`

	// Content is the fact itself. Never empty.
	Content string `json:"content"`

	// Importance is a score in [0,1]. Higher importance survives
	// deduplication against near-duplicate neighbors.
	Importance float64 `json:"importance"`

	// Category is a free-form label (e.g. "preferences", "goals").
	Category string `json:"category"`

	// Topics are optional tags, kept in the order they were given.
	Topics []string `json:"topics"`
}

// Memory is the storage record: a fact plus the dense vector produced
// by the Embedder at creation time. The embedding is never recomputed.
type Memory struct {
	Data      MemoryData `json:"data"`
	Embedding []float32  `json:"embedding"`
}

// Collection is one user's complete set of memories. It is persisted as
// a single blob and always written whole; there are no partial or
// incremental writes.
//
// Invariant: every embedding in a collection has the same dimensionality
// (they all come from the same embedding model).
type Collection struct {
	// Memories in insertion order.
	Memories []Memory `json:"memories"`

	// UpdatedAt is stamped on every save.
	UpdatedAt time.Time `json:"updated_at"`

	// LastDeduplicatedAt is nil until the first successful
	// deduplication pass.
	LastDeduplicatedAt *time.Time `json:"last_deduplicated_at,omitempty"`
}

// NewCollection returns a fresh empty collection, used whenever no
// persisted history exists for a user.
func NewCollection() *Collection {
	return &Collection{
		Memories:  []Memory{},
		UpdatedAt: time.Now().UTC(),
	}
}

// normalize returns a unit-length copy of vec, so inner product equals
// cosine similarity. The zero vector is returned unchanged.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}

	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}

	return normalized
}
