package hsg

import (
	"context"
	"testing"

	"github.com/hsgmemory/engine/internal/store/metadata"
	"github.com/stretchr/testify/require"
)

func TestFarthestPointSeedsPicksDistinctIndices(t *testing.T) {
	points := []reflectionPoint{
		{vec: []float32{1, 0, 0}},
		{vec: []float32{1, 0, 0.01}},
		{vec: []float32{0, 1, 0}},
		{vec: []float32{0, 0, 1}},
	}
	seeds := farthestPointSeeds(points, 3, func(i int) []float32 { return points[i].vec })
	require.Len(t, seeds, 3)
	seen := make(map[int]bool)
	for _, s := range seeds {
		require.False(t, seen[s])
		seen[s] = true
	}
}

func TestMeanPairwiseTokenOverlapIdenticalContentIsOne(t *testing.T) {
	overlap := meanPairwiseTokenOverlap([]string{"the quick brown fox", "the quick brown fox"})
	require.InDelta(t, 1.0, overlap, 1e-9)
}

func TestIsDuplicateReflectionDetectsHighOverlap(t *testing.T) {
	existing := []metadata.Memory{{ID: "m1", Content: "the quick brown fox jumps over the lazy dog"}}
	require.True(t, isDuplicateReflection("the quick brown fox jumps over the lazy dog", existing))
	require.False(t, isDuplicateReflection("completely unrelated content about something else", existing))
}

func TestReflectNamespaceEmitsReflectiveMemoryForCoherentCluster(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.cfg.ReflectMinMemories = 4

	contents := []string{
		"the quarterly revenue report shows steady growth",
		"the quarterly revenue report exceeded expectations",
		"the quarterly revenue numbers beat forecasts",
		"the quarterly revenue figures were strong this period",
	}
	for _, c := range contents {
		_, err := e.Store(ctx, StoreRequest{Content: c, Namespaces: []string{"biz"}})
		require.NoError(t, err)
	}

	sched := NewReflectionScheduler(e, e.logger)
	sched.minMemories = 4
	sched.coherenceFloor = -1 // synthetic embeddings carry no real semantic signal; force cluster acceptance
	sched.reflectNamespace(ctx, "biz")

	hits, err := e.Query(ctx, QueryRequest{Text: "quarterly revenue", K: 10, Filters: QueryFilters{Namespaces: []string{"biz"}}})
	require.NoError(t, err)

	var sawReflective bool
	for _, h := range hits {
		if h.PrimarySector == "reflective" {
			sawReflective = true
		}
	}
	require.True(t, sawReflective, "expected a reflective memory to be emitted for the coherent cluster")
}
