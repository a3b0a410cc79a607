// Package embedder turns text into fixed-dimension unit vectors (spec
// §4.2). All stored and query vectors within a namespace share one
// process-wide dimension D.
package embedder

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"

	"github.com/hsgmemory/engine/internal/sector"
)

// Embedder maps text to a unit vector. Implementations return a plain
// error on provider fault; the engine wraps it in hsgerr.EmbedError where
// it surfaces, and Chain keeps the write path going on that failure.
type Embedder interface {
	Embed(ctx context.Context, text string, sec sector.Sector) ([]float32, error)
	Dim() int
	Name() string
}

// Normalize L2-normalizes v in place and returns it. Vectors are always
// normalized before storage or comparison (spec §3, §4.4).
func Normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := float32(math.Sqrt(sumSq))
	for i := range v {
		v[i] /= norm
	}
	return v
}

// Cosine computes the cosine similarity of two equal-length, ideally
// unit-normalized vectors.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Synthetic is a deterministic hash-based pseudo-random unit embedder. It
// is the mandated fallback so the write path never stalls when no real
// provider is configured or reachable (spec §4.2, scenario S5).
type Synthetic struct {
	dim int
}

func NewSynthetic(dim int) *Synthetic {
	return &Synthetic{dim: dim}
}

func (s *Synthetic) Dim() int     { return s.dim }
func (s *Synthetic) Name() string { return "synthetic" }

func (s *Synthetic) Embed(_ context.Context, text string, _ sector.Sector) ([]float32, error) {
	sum := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	rng := rand.New(rand.NewSource(seed))

	v := make([]float32, s.dim)
	for i := range v {
		v[i] = float32(rng.NormFloat64())
	}
	return Normalize(v), nil
}
