package metadata

import (
	"context"
	"testing"

	"github.com/hsgmemory/engine/internal/sector"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	store, err := NewSQLite(context.Background(), ":memory:", testLogger())
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRoundTripsMemoryWithNamespacesAndTags(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	mem := Memory{
		ID:            "mem-rt-1",
		Content:       "met alice at the conference",
		PrimarySector: sector.Episodic,
		Sectors:       []sector.Sector{sector.Episodic},
		Namespaces:    []string{"user-1"},
		Tags:          []string{"people", "travel"},
		Metadata:      []byte(`{"city":"berlin"}`),
		Salience:      0.7,
		DecayLambda:   0.02,
		CreatedAt:     1000,
		UpdatedAt:     1000,
		LastSeenAt:    1000,
	}
	err := store.InsertMemory(ctx, mem, []VectorRow{
		{MemoryID: mem.ID, Sector: sector.Episodic, Namespace: "user-1", Dim: 4, CreatedAt: 1000},
	})
	require.NoError(t, err)

	got, err := store.GetMemory(ctx, mem.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"user-1"}, got.Namespaces)
	require.ElementsMatch(t, []string{"people", "travel"}, got.Tags)
	require.Equal(t, sector.Episodic, got.PrimarySector)
}

func TestSQLiteListMemoriesFiltersByNamespaceAndSector(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	insert := func(id, ns string, sec sector.Sector) {
		require.NoError(t, store.InsertMemory(ctx, Memory{
			ID: id, Content: "x", PrimarySector: sec, Sectors: []sector.Sector{sec},
			Namespaces: []string{ns}, Metadata: []byte(`{}`),
			CreatedAt: 1, UpdatedAt: 1, LastSeenAt: 1,
		}, nil))
	}
	insert("a", "user-1", sector.Semantic)
	insert("b", "user-2", sector.Semantic)
	insert("c", "user-1", sector.Episodic)

	out, err := store.ListMemories(ctx, MemoryFilter{Namespaces: []string{"user-1"}, Sectors: []sector.Sector{sector.Semantic}}, 0, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "a", out[0].ID)
}

func TestSQLiteDeleteMemoryCascadesJoinRows(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.InsertMemory(ctx, Memory{
		ID: "del-1", Content: "x", PrimarySector: sector.Semantic,
		Namespaces: []string{"user-1"}, Tags: []string{"t"}, Metadata: []byte(`{}`),
		CreatedAt: 1, UpdatedAt: 1, LastSeenAt: 1,
	}, []VectorRow{{MemoryID: "del-1", Sector: sector.Semantic, Namespace: "user-1", Dim: 4, CreatedAt: 1}}))

	require.NoError(t, store.DeleteMemory(ctx, "del-1"))

	_, err := store.GetMemory(ctx, "del-1")
	require.Error(t, err)

	out, err := store.ListMemories(ctx, MemoryFilter{Namespaces: []string{"user-1"}}, 0, 10)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSQLiteTemporalFactSupersession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.InsertTemporalFact(ctx, TemporalFact{
		ID: "f1", Subject: "alice", Predicate: "works_at", Object: "acme",
		Namespace: "user-1", ValidFrom: 100, Confidence: 0.9,
	}))
	require.NoError(t, store.CloseTemporalFact(ctx, "f1", 200))
	require.NoError(t, store.InsertTemporalFact(ctx, TemporalFact{
		ID: "f2", Subject: "alice", Predicate: "works_at", Object: "globex",
		Namespace: "user-1", ValidFrom: 200, Confidence: 0.9,
	}))

	current, err := store.CurrentTemporalFact(ctx, "alice", "works_at", "user-1")
	require.NoError(t, err)
	require.Equal(t, "globex", current.Object)

	atT150, err := store.QueryTemporalFactsAt(ctx, strPtr("alice"), strPtr("works_at"), strPtr("user-1"), 150)
	require.NoError(t, err)
	require.Len(t, atT150, 1)
	require.Equal(t, "acme", atT150[0].Object)
}

func TestSQLiteNamespaceUpsertCreatedFlag(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	created, err := store.UpsertNamespace(ctx, Namespace{Namespace: "user-9", CreatedAt: 1, UpdatedAt: 1, Active: true})
	require.NoError(t, err)
	require.True(t, created)

	created, err = store.UpsertNamespace(ctx, Namespace{Namespace: "user-9", Description: "updated", CreatedAt: 1, UpdatedAt: 2, Active: true})
	require.NoError(t, err)
	require.False(t, created)

	ns, err := store.GetNamespace(ctx, "user-9")
	require.NoError(t, err)
	require.Equal(t, "updated", ns.Description)
}

func strPtr(s string) *string { return &s }
