package embedder

import (
	"context"
	"math"
	"testing"

	"github.com/hsgmemory/engine/internal/sector"
)

func TestSyntheticIsDeterministic(t *testing.T) {
	s := NewSynthetic(32)
	a, err := s.Embed(context.Background(), "hello world", sector.Semantic)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Embed(context.Background(), "hello world", sector.Semantic)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected deterministic embedding, differed at index %d", i)
		}
	}
}

func TestSyntheticIsUnitNormalized(t *testing.T) {
	s := NewSynthetic(64)
	v, _ := s.Embed(context.Background(), "some text", sector.Episodic)
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	norm := math.Sqrt(sumSq)
	if math.Abs(norm-1.0) > 1e-4 {
		t.Fatalf("expected unit norm, got %f", norm)
	}
}

func TestCosineIdenticalVectorsIsOne(t *testing.T) {
	v := []float32{1, 0, 0}
	if c := Cosine(v, v); math.Abs(c-1.0) > 1e-9 {
		t.Fatalf("expected cosine 1.0, got %f", c)
	}
}

func TestCosineOrthogonalIsZero(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	if c := Cosine(a, b); math.Abs(c) > 1e-9 {
		t.Fatalf("expected cosine 0.0, got %f", c)
	}
}

type failingEmbedder struct{ dim int }

func (f *failingEmbedder) Dim() int     { return f.dim }
func (f *failingEmbedder) Name() string { return "failing" }
func (f *failingEmbedder) Embed(context.Context, string, sector.Sector) ([]float32, error) {
	return nil, errFail
}

var errFail = &embedFailure{}

type embedFailure struct{}

func (e *embedFailure) Error() string { return "embed failed" }

func TestChainFallsBackToSynthetic(t *testing.T) {
	c := NewChain(&failingEmbedder{dim: 16}, 16, nil)
	v, usedFallback, err := c.Embed(context.Background(), "hi", sector.Semantic)
	if err != nil {
		t.Fatal(err)
	}
	if !usedFallback {
		t.Fatal("expected fallback to be used")
	}
	if len(v) != 16 {
		t.Fatalf("expected dim 16, got %d", len(v))
	}
	if c.FallbackCount() != 1 {
		t.Fatalf("expected fallback count 1, got %d", c.FallbackCount())
	}
}

func TestChainEmbedQueryPropagatesPrimaryError(t *testing.T) {
	c := NewChain(&failingEmbedder{dim: 16}, 16, nil)
	v, err := c.EmbedQuery(context.Background(), "hi", sector.Semantic)
	if err == nil {
		t.Fatal("expected error from EmbedQuery, got nil")
	}
	if err != errFail {
		t.Fatalf("expected errFail, got %v", err)
	}
	if v != nil {
		t.Fatalf("expected nil vector on failure, got %v", v)
	}
	if c.FallbackCount() != 0 {
		t.Fatalf("expected no fallback on the query path, got %d", c.FallbackCount())
	}
}
