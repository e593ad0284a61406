// Package index provides ephemeral vector-similarity indexes over
// L2-normalized embeddings. Similarity is cosine similarity, computed
// as the inner product of normalized vectors.
//
// Two operating modes:
//   - Flat: exact brute-force inner-product search, used at query time.
//     Correct, O(n*D) per query, fine at the collection sizes the
//     dedup pass keeps bounded.
//   - HNSW: graph-based approximate nearest-neighbor search, used by
//     the deduplication pass where every memory is a query. It may
//     miss some true near-duplicates; that is an accepted tradeoff.
//
// Indexes are built fresh over a snapshot of embeddings and discarded
// after use; nothing here persists.
package index

// Hit is a single nearest-neighbor result: the position of the matched
// vector in build/insertion order and its cosine similarity to the
// query. Results are ordered by descending similarity; ties break by
// insertion order and carry no semantic weight.
type Hit struct {
	Index      int
	Similarity float32
}

// dot returns the inner product of two equal-length vectors.
func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
