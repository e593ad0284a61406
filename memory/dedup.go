package memory

import (
	"log"
	"sort"

	"github.com/mnemoware/mnemo-go-sdk/memory/index"
)

// Deduplication constants. The trigger bounds how often the expensive
// pass runs; the threshold decides what counts as a near-duplicate.
const (
	// DedupMinSize is the collection size above which deduplication
	// becomes eligible.
	DedupMinSize = 10

	// DedupIntervalHours is the minimum time between passes.
	DedupIntervalHours = 24

	// SimilarityThreshold is the cosine similarity above which two
	// memories are considered near-duplicates.
	SimilarityThreshold = 0.75

	// dedupNeighbors caps how many nearest neighbors are inspected per
	// memory.
	dedupNeighbors = 10
)

// needsDeduplication evaluates the trigger policy. It is checked at the
// start of every search operation, never on add: a pass runs iff the
// collection holds more than DedupMinSize memories and either no pass
// has ever run or the last one is more than DedupIntervalHours old.
func (s *LongTermStore) needsDeduplication(collection *Collection) bool {
	if len(collection.Memories) <= DedupMinSize {
		return false
	}

	if collection.LastDeduplicatedAt == nil {
		return true
	}

	hoursSince := s.now().Sub(*collection.LastDeduplicatedAt).Hours()
	return hoursSince > DedupIntervalHours
}

// deduplicate collapses near-duplicate memories, keeping the higher-
// importance member of each similar pair. It is a greedy, single-pass
// heuristic over approximate nearest neighborhoods, not a globally
// optimal clustering; the HNSW index may miss some true duplicates,
// which is accepted.
//
// Survivors keep their original relative order.
func deduplicate(memories []Memory) []Memory {
	if len(memories) <= 1 {
		return memories
	}

	n := len(memories)

	// Build the approximate index over normalized embeddings.
	graph := index.NewHNSW()
	vectors := make([][]float32, n)
	for i, m := range memories {
		vectors[i] = normalize(m.Embedding)
		graph.Add(vectors[i])
	}

	k := dedupNeighbors
	if k > n {
		k = n
	}

	// k-NN per memory. The memory's own vector ranks among its hits
	// and is skipped below.
	neighborhoods := make([][]index.Hit, n)
	for i := range memories {
		neighborhoods[i] = graph.Search(vectors[i], k)
	}

	// Walk memories in descending importance so the more important
	// member of a duplicate pair decides first. Ties keep index order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return memories[order[a]].Data.Importance > memories[order[b]].Data.Importance
	})

	removed := make(map[int]bool)

	for _, i := range order {
		if removed[i] {
			continue
		}

		for _, hit := range neighborhoods[i] {
			j := hit.Index
			if j == i {
				continue
			}
			if hit.Similarity <= SimilarityThreshold || removed[j] {
				continue
			}

			if memories[i].Data.Importance >= memories[j].Data.Importance {
				removed[j] = true
			} else {
				// Losing to a more important neighbor removes this
				// memory immediately; it takes no further action.
				removed[i] = true
				break
			}
		}
	}

	kept := make([]Memory, 0, n-len(removed))
	for i, m := range memories {
		if !removed[i] {
			kept = append(kept, m)
		}
	}

	if len(removed) > 0 {
		log.Printf("[MEMORY] Deduplication removed %d of %d memories", len(removed), n)
	}

	return kept
}
