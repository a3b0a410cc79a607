package hsg

import (
	"context"
	"time"

	"github.com/hsgmemory/engine/internal/hsgerr"
	"github.com/hsgmemory/engine/internal/store/metadata"
)

// UpsertWaypoint creates or replaces the single outbound waypoint for
// (srcID, namespace), per spec §4.6's "related memory" edges and
// invariant 8 ("at most one outbound waypoint per (src_id, namespace)").
func (e *Engine) UpsertWaypoint(ctx context.Context, srcID, dstID, namespace string, weight float64) error {
	now := time.Now().Unix()
	wp := metadata.Waypoint{SrcID: srcID, DstID: dstID, Namespace: namespace, Weight: weight, CreatedAt: now, UpdatedAt: now}
	if err := e.metadata.UpsertWaypoint(ctx, wp); err != nil {
		return hsgerr.NewMetadataStoreError("upsert_waypoint", err)
	}
	return nil
}

func (e *Engine) GetWaypoint(ctx context.Context, srcID, namespace string) (*metadata.Waypoint, error) {
	wp, err := e.metadata.GetWaypoint(ctx, srcID, namespace)
	if err != nil {
		return nil, hsgerr.NewNotFoundError("waypoint", srcID)
	}
	return wp, nil
}

func (e *Engine) DeleteWaypoint(ctx context.Context, srcID, namespace string) error {
	if err := e.metadata.DeleteWaypoint(ctx, srcID, namespace); err != nil {
		return hsgerr.NewMetadataStoreError("delete_waypoint", err)
	}
	return nil
}

// expandViaWaypoints implements spec §4.6 step 7: for each hit whose score
// exceeds expand_threshold, follow its outbound waypoint one hop and
// inject the target (score := hit.score * edge_weight) into the pool,
// deduplicating by memory id. Returns the (possibly larger) hit slice;
// callers re-sort and re-truncate after calling this.
func (e *Engine) expandViaWaypoints(ctx context.Context, hits []QueryHit, namespace string, now int64) []QueryHit {
	if len(hits) == 0 {
		return hits
	}
	seen := make(map[string]struct{}, len(hits))
	for _, h := range hits {
		seen[h.ID] = struct{}{}
	}

	out := hits
	for _, h := range hits {
		if h.Score <= e.cfg.ExpandThreshold {
			continue
		}
		wp, err := e.metadata.GetWaypoint(ctx, h.ID, namespace)
		if err != nil || wp == nil {
			continue
		}
		if _, dup := seen[wp.DstID]; dup {
			continue
		}
		target, err := e.metadata.GetMemory(ctx, wp.DstID)
		if err != nil {
			continue
		}
		seen[wp.DstID] = struct{}{}
		out = append(out, QueryHit{
			ID:            target.ID,
			Score:         h.Score * wp.Weight,
			PrimarySector: target.PrimarySector,
			Sectors:       target.Sectors,
			Salience:      salienceNow(*target, now),
			LastSeenAt:    target.LastSeenAt,
			Content:       target.Content,
			Summary:       target.Summary,
			Path:          append(append([]string{}, h.Path...), h.ID),
		})
	}
	return out
}
