package hsg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWaypointUpsertGetDelete(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	a, err := e.Store(ctx, StoreRequest{Content: "source memory", Namespaces: []string{"ns1"}})
	require.NoError(t, err)
	b, err := e.Store(ctx, StoreRequest{Content: "target memory", Namespaces: []string{"ns1"}})
	require.NoError(t, err)

	require.NoError(t, e.UpsertWaypoint(ctx, a.ID, b.ID, "ns1", 0.8))

	wp, err := e.GetWaypoint(ctx, a.ID, "ns1")
	require.NoError(t, err)
	require.Equal(t, b.ID, wp.DstID)
	require.InDelta(t, 0.8, wp.Weight, 1e-9)

	require.NoError(t, e.DeleteWaypoint(ctx, a.ID, "ns1"))
	_, err = e.GetWaypoint(ctx, a.ID, "ns1")
	require.Error(t, err)
}

func TestExpandViaWaypointsInjectsTargetAboveThreshold(t *testing.T) {
	e := newTestEngine(t)
	e.cfg.ExpandThreshold = -1 // force expansion regardless of actual hybrid score
	ctx := context.Background()

	src, err := e.Store(ctx, StoreRequest{Content: "hub memory", Namespaces: []string{"ns1"}})
	require.NoError(t, err)
	dst, err := e.Store(ctx, StoreRequest{Content: "related memory", Namespaces: []string{"ns1"}})
	require.NoError(t, err)
	require.NoError(t, e.UpsertWaypoint(ctx, src.ID, dst.ID, "ns1", 0.5))

	hits := []QueryHit{{ID: src.ID, Score: 0.9}}
	expanded := e.expandViaWaypoints(ctx, hits, "ns1", time.Now().Unix())

	require.Len(t, expanded, 2)
	var sawTarget bool
	for _, h := range expanded {
		if h.ID == dst.ID {
			sawTarget = true
			require.InDelta(t, 0.45, h.Score, 1e-9)
			require.Equal(t, []string{src.ID}, h.Path)
		}
	}
	require.True(t, sawTarget)
}

func TestExpandViaWaypointsSkipsBelowThreshold(t *testing.T) {
	e := newTestEngine(t)
	e.cfg.ExpandThreshold = 2 // unreachable, nothing should expand
	ctx := context.Background()

	src, err := e.Store(ctx, StoreRequest{Content: "hub memory", Namespaces: []string{"ns1"}})
	require.NoError(t, err)
	dst, err := e.Store(ctx, StoreRequest{Content: "related memory", Namespaces: []string{"ns1"}})
	require.NoError(t, err)
	require.NoError(t, e.UpsertWaypoint(ctx, src.ID, dst.ID, "ns1", 0.5))

	hits := []QueryHit{{ID: src.ID, Score: 0.9}}
	expanded := e.expandViaWaypoints(ctx, hits, "ns1", time.Now().Unix())
	require.Len(t, expanded, 1)
}
