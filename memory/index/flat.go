package index

import (
	"context"
	"fmt"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
)

// Flat is the exact-mode index: an ephemeral chromem-go collection
// holding one document per vector. chromem-go is a pure Go, embedded
// vector database; with pre-normalized embeddings its query is an
// exact inner-product scan.
type Flat struct {
	collection *chromem.Collection
	size       int
}

// NewFlat builds an exact index over vectors, preserving their order.
// Vectors must be L2-normalized and share one dimensionality.
func NewFlat(ctx context.Context, vectors [][]float32) (*Flat, error) {
	db := chromem.NewDB()

	col, err := db.CreateCollection(
		"scratch",
		nil, // No collection metadata
		nil, // No embedding func (we provide embeddings)
	)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	for i, vec := range vectors {
		id := strconv.Itoa(i)
		doc := chromem.Document{
			ID:        id,
			Content:   id, // chromem requires content; the ID is enough
			Embedding: vec,
		}
		if err := col.AddDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("add document %d: %w", i, err)
		}
	}

	return &Flat{collection: col, size: len(vectors)}, nil
}

// Size returns the number of indexed vectors.
func (f *Flat) Size() int {
	return f.size
}

// Search returns the k most similar vectors to query, best first.
// k must be in [1, Size()].
func (f *Flat) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if k < 1 || k > f.size {
		return nil, fmt.Errorf("k must be in [1, %d], got %d", f.size, k)
	}

	results, err := f.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query embedding: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, result := range results {
		idx, err := strconv.Atoi(result.ID)
		if err != nil {
			return nil, fmt.Errorf("unexpected document ID %q: %w", result.ID, err)
		}
		hits = append(hits, Hit{Index: idx, Similarity: result.Similarity})
	}

	return hits, nil
}
