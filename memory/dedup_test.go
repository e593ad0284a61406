package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/mnemoware/mnemo-go-sdk/memory/blob/inmem"
)

// oneHot returns a dims-long vector with a single 1 at position i.
func oneHot(dims, i int) []float32 {
	vec := make([]float32, dims)
	vec[i] = 1
	return vec
}

func makeMemories(n, dims int) []Memory {
	memories := make([]Memory, n)
	for i := range memories {
		memories[i] = Memory{
			Data: MemoryData{
				ID:         int64(i + 1),
				Content:    fmt.Sprintf("fact %d", i),
				Importance: 0.5,
				Category:   "context",
			},
			Embedding: oneHot(dims, i),
		}
	}
	return memories
}

func fixedClock(at time.Time) Option {
	return withNow(func() time.Time { return at })
}

func TestNeedsDeduplication_SizeGate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewLongTermStore(nil, nil, fixedClock(now))

	collection := &Collection{Memories: makeMemories(10, 16)}
	if store.needsDeduplication(collection) {
		t.Error("collection of exactly 10 must not trigger deduplication")
	}

	collection.Memories = makeMemories(11, 16)
	if !store.needsDeduplication(collection) {
		t.Error("collection of 11 with no prior pass must trigger deduplication")
	}
}

func TestNeedsDeduplication_IntervalGate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewLongTermStore(nil, nil, fixedClock(now))

	collection := &Collection{Memories: makeMemories(11, 16)}

	recent := now.Add(-23 * time.Hour)
	collection.LastDeduplicatedAt = &recent
	if store.needsDeduplication(collection) {
		t.Error("pass 23h ago must not trigger deduplication")
	}

	exact := now.Add(-24 * time.Hour)
	collection.LastDeduplicatedAt = &exact
	if store.needsDeduplication(collection) {
		t.Error("pass exactly 24h ago must not trigger deduplication")
	}

	stale := now.Add(-25 * time.Hour)
	collection.LastDeduplicatedAt = &stale
	if !store.needsDeduplication(collection) {
		t.Error("pass 25h ago must trigger deduplication")
	}
}

func TestDeduplicate_KeepsHigherImportance(t *testing.T) {
	const dims = 16

	memories := makeMemories(11, dims)

	// Memories 0 and 1 are near-duplicates; the later one is more
	// important and must survive.
	memories[0].Embedding = []float32{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	memories[0].Data.Importance = 0.6
	memories[1].Embedding = []float32{0.95, 0.05, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	memories[1].Data.Importance = 0.7

	kept := deduplicate(memories)

	if len(kept) != 10 {
		t.Fatalf("expected 10 survivors, got %d", len(kept))
	}
	for _, m := range kept {
		if m.Data.ID == memories[0].Data.ID && m.Data.Content == "fact 0" {
			t.Error("lower-importance duplicate survived")
		}
	}
	if kept[0].Data.Content != "fact 1" {
		t.Errorf("expected 'fact 1' to survive first, got %q", kept[0].Data.Content)
	}
}

func TestDeduplicate_DistinctMemoriesUntouched(t *testing.T) {
	memories := makeMemories(11, 16)

	kept := deduplicate(memories)
	if len(kept) != 11 {
		t.Fatalf("orthogonal memories must all survive, got %d of 11", len(kept))
	}
	for i, m := range kept {
		if m.Data.ID != memories[i].Data.ID {
			t.Fatalf("survivor order changed at %d", i)
		}
	}
}

func TestDeduplicate_TinyCollections(t *testing.T) {
	if got := deduplicate(nil); len(got) != 0 {
		t.Errorf("nil input: got %d memories", len(got))
	}

	one := makeMemories(1, 4)
	if got := deduplicate(one); len(got) != 1 {
		t.Errorf("single memory: got %d", len(got))
	}
}

// stubEmbedder hands out one-hot vectors per distinct text except for
// contents registered as near-duplicates.
type stubEmbedder struct {
	dims    int
	vectors map[string][]float32
	next    int
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := e.vectors[text]; ok {
		return vec, nil
	}
	vec := oneHot(e.dims, e.next%e.dims)
	e.next++
	e.vectors[text] = vec
	return vec, nil
}

func (e *stubEmbedder) Dimensions() int { return e.dims }

func TestSearch_RunsDeduplicationAndStampsTimestamp(t *testing.T) {
	ctx := context.Background()
	const dims = 16

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// The registered duplicates occupy dimensions 0 and 1; fallback
	// one-hots start at 2 so the distinct facts stay orthogonal to them.
	embedder := &stubEmbedder{dims: dims, next: 2, vectors: map[string][]float32{
		"likes espresso":        {1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		"enjoys espresso a lot": {0.95, 0.05, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}}
	blob := inmem.New()
	store := NewLongTermStore(embedder, blob,
		WithPathFunc(func(string) string { return "fixed" }),
		fixedClock(now))

	if _, err := store.Add(ctx, "key", "likes espresso", 0.6, "preferences", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, "key", "enjoys espresso a lot", 0.7, "preferences", nil); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	for i := 0; i < 9; i++ {
		if _, err := store.Add(ctx, "key", fmt.Sprintf("distinct fact %d", i), 0.5, "context", nil); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	results, err := store.Search(ctx, "key", "distinct fact 0", 20)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 10 {
		t.Fatalf("expected 10 results after deduplication, got %d", len(results))
	}
	for _, m := range results {
		if m.Content == "likes espresso" {
			t.Error("lower-importance duplicate survived deduplication")
		}
	}

	data, err := blob.Download(ctx, "fixed")
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	var persisted Collection
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if persisted.LastDeduplicatedAt == nil {
		t.Fatal("LastDeduplicatedAt not stamped after deduplication pass")
	}
	if !persisted.LastDeduplicatedAt.Equal(now) {
		t.Errorf("LastDeduplicatedAt = %v, want %v", persisted.LastDeduplicatedAt, now)
	}
	if len(persisted.Memories) != 10 {
		t.Errorf("deduplicated collection not persisted: %d memories", len(persisted.Memories))
	}
}

func TestNormalize(t *testing.T) {
	vec := normalize([]float32{3, 4})
	if math.Abs(float64(vec[0])-0.6) > 1e-6 || math.Abs(float64(vec[1])-0.8) > 1e-6 {
		t.Errorf("normalize([3 4]) = %v, want [0.6 0.8]", vec)
	}

	zero := normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector must pass through unchanged, got %v", zero)
	}
}
