package mock_test

import (
	"context"
	"math"
	"testing"

	"github.com/mnemoware/mnemo-go-sdk/memory/embedder/mock"
)

func TestEmbedder_Deterministic(t *testing.T) {
	ctx := context.Background()
	embedder := mock.New()

	first, err := embedder.Embed(ctx, "the user likes tea")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	second, err := embedder.Embed(ctx, "the user likes tea")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(first) != mock.DefaultDimensions {
		t.Fatalf("dimensions = %d, want %d", len(first), mock.DefaultDimensions)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same text produced different vectors at %d", i)
		}
	}
}

func TestEmbedder_UnitLength(t *testing.T) {
	embedder := mock.NewWithDimensions(64)
	if embedder.Dimensions() != 64 {
		t.Fatalf("Dimensions = %d, want 64", embedder.Dimensions())
	}

	vec, err := embedder.Embed(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(norm)-1) > 1e-5 {
		t.Errorf("vector norm = %v, want 1", math.Sqrt(norm))
	}
}

func TestEmbedder_DistinctTexts(t *testing.T) {
	ctx := context.Background()
	embedder := mock.New()

	a, _ := embedder.Embed(ctx, "likes coffee")
	b, _ := embedder.Embed(ctx, "dislikes mornings")

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	// Hash-seeded vectors of distinct texts are effectively random;
	// anything close to 1 means the seeding is broken.
	if dot > 0.5 {
		t.Errorf("distinct texts too similar: %v", dot)
	}
}
