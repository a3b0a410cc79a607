// Package analytics reports store/query/reinforce events to PostHog for
// operational product analytics, the way ai/analytics.go's captureResponse
// reports AI generation events: fire-and-forget, never on the request path.
package analytics

import (
	"context"

	"github.com/hsgmemory/engine/internal/hsg"
	"github.com/posthog/posthog-go"
	"go.uber.org/zap"
)

const (
	memoryStoredEvent     = "hsg_memory_stored"
	memoryQueriedEvent    = "hsg_memory_queried"
	memoryReinforcedEvent = "hsg_memory_reinforced"
)

// Recorder wraps a PostHog client and attaches itself to an hsg.Engine's
// OnStored/OnQuery/OnReinforce hooks. A nil client makes every capture a
// no-op, so callers can construct a Recorder unconditionally and skip it
// only when no API key is configured.
type Recorder struct {
	client posthog.Client
	logger *zap.Logger
}

// New builds a Recorder. apiKey empty disables capture entirely (the
// Recorder's methods still work; with a nil client they return before
// enqueueing anything).
func New(apiKey, host string, logger *zap.Logger) (*Recorder, error) {
	if apiKey == "" {
		return &Recorder{logger: logger}, nil
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: host})
	if err != nil {
		return nil, err
	}
	return &Recorder{client: client, logger: logger}, nil
}

// Close flushes any buffered events. Call during graceful shutdown.
func (r *Recorder) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}

// Attach wires the recorder into the engine's hooks, composing with any
// hook already set rather than clobbering it.
func (r *Recorder) Attach(e *hsg.Engine) {
	prevStored := e.OnStored
	e.OnStored = func(ctx context.Context, res hsg.StoreResult) {
		if prevStored != nil {
			prevStored(ctx, res)
		}
		r.captureStore(res)
	}

	prevQuery := e.OnQuery
	e.OnQuery = func(ctx context.Context, req hsg.QueryRequest, hits []hsg.QueryHit) {
		if prevQuery != nil {
			prevQuery(ctx, req, hits)
		}
		r.captureQuery(req, hits)
	}

	prevReinforce := e.OnReinforce
	e.OnReinforce = func(ctx context.Context, memoryID string, boost float64) {
		if prevReinforce != nil {
			prevReinforce(ctx, memoryID, boost)
		}
		r.captureReinforce(memoryID, boost)
	}
}

func (r *Recorder) distinctID(namespaces []string) string {
	if len(namespaces) == 0 {
		return "global"
	}
	return namespaces[0]
}

func (r *Recorder) captureStore(res hsg.StoreResult) {
	if r.client == nil {
		return
	}
	r.client.Enqueue(posthog.Capture{
		DistinctId: r.distinctID(res.Namespaces),
		Event:      memoryStoredEvent,
		Properties: posthog.NewProperties().
			Set("memory_id", res.ID).
			Set("primary_sector", string(res.PrimarySector)).
			Set("sector_count", len(res.Sectors)).
			Set("namespace_count", len(res.Namespaces)),
	})
}

func (r *Recorder) captureQuery(req hsg.QueryRequest, hits []hsg.QueryHit) {
	if r.client == nil {
		return
	}
	r.client.Enqueue(posthog.Capture{
		DistinctId: r.distinctID(req.Filters.Namespaces),
		Event:      memoryQueriedEvent,
		Properties: posthog.NewProperties().
			Set("k", req.K).
			Set("hit_count", len(hits)).
			Set("sector_filter_count", len(req.Filters.Sectors)),
	})
}

// captureReinforce fires from the engine's OnReinforce hook, set up by Attach.
func (r *Recorder) captureReinforce(memoryID string, boost float64) {
	if r.client == nil {
		return
	}
	r.client.Enqueue(posthog.Capture{
		DistinctId: memoryID,
		Event:      memoryReinforcedEvent,
		Properties: posthog.NewProperties().
			Set("memory_id", memoryID).
			Set("boost", boost),
	})
}
