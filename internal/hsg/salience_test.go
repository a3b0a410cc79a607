package hsg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSweepFingerprintsColdMemories(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.cfg.ColdThreshold = 0.99 // everything is "cold" immediately

	res, err := e.Store(ctx, StoreRequest{Content: "a memory that will go cold fast"})
	require.NoError(t, err)

	sm := NewSalienceManager(e, e.logger)
	sm.coldThreshold = e.cfg.ColdThreshold
	sm.sweepOnce(ctx)

	mem, err := e.Get(ctx, res.ID)
	require.NoError(t, err)
	require.True(t, mem.Fingerprinted)
}

func TestSweepSummaryOnlyReplacesContent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.cfg.ColdThreshold = 0.99
	e.cfg.SummaryMaxLen = 8

	res, err := e.Store(ctx, StoreRequest{Content: "a much longer piece of content than the summary length allows"})
	require.NoError(t, err)

	sm := NewSalienceManager(e, e.logger)
	sm.coldThreshold = e.cfg.ColdThreshold
	sm.summaryOnly = true
	sm.sweepOnce(ctx)

	mem, err := e.Get(ctx, res.ID)
	require.NoError(t, err)
	require.True(t, mem.Fingerprinted)
	require.NotEqual(t, "a much longer piece of content than the summary length allows", mem.Content)
	require.LessOrEqual(t, len([]rune(mem.Content)), e.cfg.SummaryMaxLen)
}

func TestSweepSkipsAlreadyFingerprintedMemories(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.cfg.ColdThreshold = 0.99

	res, err := e.Store(ctx, StoreRequest{Content: "already fingerprinted memory"})
	require.NoError(t, err)

	mem, err := e.Get(ctx, res.ID)
	require.NoError(t, err)
	mem.Fingerprinted = true
	require.NoError(t, e.metadata.UpdateMemory(ctx, *mem))
	before := mem.UpdatedAt

	sm := NewSalienceManager(e, e.logger)
	sm.coldThreshold = e.cfg.ColdThreshold
	sm.sweepOnce(ctx)

	after, err := e.Get(ctx, res.ID)
	require.NoError(t, err)
	require.Equal(t, before, after.UpdatedAt)
}

func TestRegenerateSkipsWhenDisabled(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	res, err := e.Store(ctx, StoreRequest{Content: "a fingerprinted memory"})
	require.NoError(t, err)
	mem, err := e.Get(ctx, res.ID)
	require.NoError(t, err)
	mem.Fingerprinted = true

	sm := NewSalienceManager(e, e.logger)
	sm.regeneration = false
	sm.Regenerate(ctx, *mem) // should be a no-op; asserting no panic is the coverage here
}

func TestStartStopBackgroundMaintenanceJoinsWorkers(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	e.StartBackgroundMaintenance(ctx)
	time.Sleep(10 * time.Millisecond)
	e.StopBackgroundMaintenance()
}
