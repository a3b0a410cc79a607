package hsg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertTemporalFactSupersedesPreviousValue(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.InsertTemporalFact(ctx, TemporalFactRequest{
		Subject: "alice", Predicate: "title", Object: "engineer", Namespace: "org", Confidence: 0.9,
	})
	require.NoError(t, err)

	second, err := e.InsertTemporalFact(ctx, TemporalFactRequest{
		Subject: "alice", Predicate: "title", Object: "staff engineer", Namespace: "org", Confidence: 0.95,
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	facts, err := e.Timeline(ctx, strPtrTemporal("alice"), strPtrTemporal("title"), strPtrTemporal("org"))
	require.NoError(t, err)
	require.Len(t, facts, 2)

	for _, f := range facts {
		if f.ID == first.ID {
			require.NotNil(t, f.ValidTo)
		}
		if f.ID == second.ID {
			require.Nil(t, f.ValidTo)
		}
	}
}

func TestQueryTemporalFactsAtReturnsValueValidAtTime(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	before := int64(1000)
	after := int64(2000)

	_, err := e.InsertTemporalFact(ctx, TemporalFactRequest{
		Subject: "bob", Predicate: "location", Object: "nyc", Namespace: "org",
		ValidFrom: &before, Confidence: 1,
	})
	require.NoError(t, err)
	_, err = e.InsertTemporalFact(ctx, TemporalFactRequest{
		Subject: "bob", Predicate: "location", Object: "sf", Namespace: "org",
		ValidFrom: &after, Confidence: 1,
	})
	require.NoError(t, err)

	mid := int64(1500)
	facts, err := e.QueryTemporalFactsAt(ctx, strPtrTemporal("bob"), strPtrTemporal("location"), strPtrTemporal("org"), mid)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	require.Equal(t, "nyc", facts[0].Object)

	late := int64(3000)
	facts, err = e.QueryTemporalFactsAt(ctx, strPtrTemporal("bob"), strPtrTemporal("location"), strPtrTemporal("org"), late)
	require.NoError(t, err)
	require.Len(t, facts, 1)
	require.Equal(t, "sf", facts[0].Object)
}

func TestInsertTemporalFactRejectsEmptySubject(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.InsertTemporalFact(context.Background(), TemporalFactRequest{Predicate: "title", Object: "x"})
	require.Error(t, err)
}

func strPtrTemporal(s string) *string { return &s }
