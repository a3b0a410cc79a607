package hsg

import (
	"context"
	"testing"
	"time"

	"github.com/hsgmemory/engine/internal/config"
	"github.com/hsgmemory/engine/internal/embedder"
	"github.com/hsgmemory/engine/internal/hsgerr"
	"github.com/hsgmemory/engine/internal/sector"
	"github.com/hsgmemory/engine/internal/store/metadata"
	"github.com/hsgmemory/engine/internal/store/vector"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	store, err := metadata.NewSQLite(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Tier: config.TierFast, CacheSegments: 2, MaxActive: 8,
		KeywordBoost: 0.5, KeywordMinLength: 3, DefaultReinforceBoost: 0.1,
		ReinforceOnQuery: false, EmbedMode: config.EmbedModeSimple,
	}
	embed := embedder.NewChain(embedder.NewSynthetic(16), 16, zap.NewNop())
	return New(store, vector.NewInProc(), embed, cfg, zap.NewNop())
}

func TestStoreDefaultsToGlobalNamespace(t *testing.T) {
	e := newTestEngine(t)
	res, err := e.Store(context.Background(), StoreRequest{Content: "the sky is blue"})
	require.NoError(t, err)
	require.Equal(t, []string{"global"}, res.Namespaces)
	require.Equal(t, sector.Semantic, res.PrimarySector)
}

func TestStoreRejectsEmptyContent(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Store(context.Background(), StoreRequest{Content: ""})
	require.Error(t, err)
}

func TestQueryFindsStoredMemoryByVectorSimilarity(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Store(ctx, StoreRequest{Content: "the user prefers dark mode in the editor", Namespaces: []string{"user-1"}})
	require.NoError(t, err)
	_, err = e.Store(ctx, StoreRequest{Content: "met alice at the conference last year", Namespaces: []string{"user-1"}})
	require.NoError(t, err)

	hits, err := e.Query(ctx, QueryRequest{Text: "the user prefers dark mode in the editor", K: 5, Filters: QueryFilters{Namespaces: []string{"user-1"}}})
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	require.Equal(t, "the user prefers dark mode in the editor", hits[0].Content)
}

func TestQueryRespectsNamespaceIsolation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Store(ctx, StoreRequest{Content: "a secret only user one knows", Namespaces: []string{"user-1"}})
	require.NoError(t, err)

	hits, err := e.Query(ctx, QueryRequest{Text: "a secret only user one knows", K: 5, Filters: QueryFilters{Namespaces: []string{"user-2"}}})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestQueryFiltersByMinSalience(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	res, err := e.Store(ctx, StoreRequest{Content: "a fact about go channels", Namespaces: []string{"user-1"}})
	require.NoError(t, err)

	mem, err := e.Get(ctx, res.ID)
	require.NoError(t, err)
	mem.Salience = 0.01
	require.NoError(t, e.metadata.UpdateMemory(ctx, *mem))

	min := 0.5
	hits, err := e.Query(ctx, QueryRequest{Text: "a fact about go channels", K: 5,
		Filters: QueryFilters{Namespaces: []string{"user-1"}, MinSalience: &min}})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestReinforceIncreasesSalienceAndLastSeen(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	res, err := e.Store(ctx, StoreRequest{Content: "a memory to reinforce"})
	require.NoError(t, err)

	before, err := e.Get(ctx, res.ID)
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	require.NoError(t, e.Reinforce(ctx, res.ID, 0.2))

	after, err := e.Get(ctx, res.ID)
	require.NoError(t, err)
	require.Greater(t, after.Salience, before.Salience)
	require.Greater(t, after.LastSeenAt, before.LastSeenAt)
}

func TestDeleteRemovesMemoryFromSubsequentQueries(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	res, err := e.Store(ctx, StoreRequest{Content: "a memory to delete", Namespaces: []string{"user-1"}})
	require.NoError(t, err)

	require.NoError(t, e.Delete(ctx, res.ID))

	_, err = e.Get(ctx, res.ID)
	require.Error(t, err)

	hits, err := e.Query(ctx, QueryRequest{Text: "a memory to delete", K: 5, Filters: QueryFilters{Namespaces: []string{"user-1"}}})
	require.NoError(t, err)
	require.Empty(t, hits)
}

type failingPrimary struct{ dim int }

func (f *failingPrimary) Dim() int     { return f.dim }
func (f *failingPrimary) Name() string { return "failing-primary" }
func (f *failingPrimary) Embed(context.Context, string, sector.Sector) ([]float32, error) {
	return nil, errQueryEmbedFailed
}

var errQueryEmbedFailed = &queryEmbedFailure{}

type queryEmbedFailure struct{}

func (e *queryEmbedFailure) Error() string { return "embed provider down" }

func TestQueryFailsWithEmbedErrorWhenProviderDown(t *testing.T) {
	store, err := metadata.NewSQLite(context.Background(), ":memory:", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Tier: config.TierFast, CacheSegments: 2, MaxActive: 8,
		KeywordBoost: 0.5, KeywordMinLength: 3, DefaultReinforceBoost: 0.1,
		ReinforceOnQuery: false, EmbedMode: config.EmbedModeSimple,
	}
	embed := embedder.NewChain(&failingPrimary{dim: 16}, 16, zap.NewNop())
	e := New(store, vector.NewInProc(), embed, cfg, zap.NewNop())

	_, err = e.Query(context.Background(), QueryRequest{Text: "anything", K: 5})
	require.Error(t, err)

	var embedErr *hsgerr.EmbedError
	require.ErrorAs(t, err, &embedErr)
}
