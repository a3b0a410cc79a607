package vector

import (
	"context"
	"sort"
	"sync"

	"github.com/hsgmemory/engine/internal/embedder"
	"github.com/hsgmemory/engine/internal/sector"
)

type inprocPoint struct {
	memoryID string
	vector   []float32
}

// InProc is a brute-force, metadata-filtered flat index held entirely in
// memory, for the single-binary / sqlite deployment tier that has no
// external vector database. Filtering by namespace and sector is a plain
// Go predicate rather than a query-language string, the native
// equivalent of upstash_service.go's buildMetadataFilter.
type InProc struct {
	mu     sync.RWMutex
	points map[string]map[sector.Sector][]inprocPoint // namespace -> sector -> points
}

func NewInProc() *InProc {
	return &InProc{points: make(map[string]map[sector.Sector][]inprocPoint)}
}

func (p *InProc) Upsert(_ context.Context, pt Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.upsertLocked(pt)
	return nil
}

func (p *InProc) upsertLocked(pt Point) {
	bySector, ok := p.points[pt.Namespace]
	if !ok {
		bySector = make(map[sector.Sector][]inprocPoint)
		p.points[pt.Namespace] = bySector
	}
	list := bySector[pt.Sector]
	for i, existing := range list {
		if existing.memoryID == pt.MemoryID {
			list[i].vector = pt.Vector
			return
		}
	}
	bySector[pt.Sector] = append(list, inprocPoint{memoryID: pt.MemoryID, vector: pt.Vector})
}

func (p *InProc) BatchUpsert(ctx context.Context, points []Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, pt := range points {
		p.upsertLocked(pt)
	}
	return nil
}

func (p *InProc) Search(_ context.Context, namespace string, sec sector.Sector, query []float32, topN int) ([]Match, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	bySector, ok := p.points[namespace]
	if !ok {
		return nil, nil
	}
	list := bySector[sec]
	matches := make([]Match, 0, len(list))
	for _, pt := range list {
		matches = append(matches, Match{
			MemoryID: pt.memoryID,
			Score:    embedder.Cosine(query, pt.vector),
			Vector:   pt.vector,
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}
	return matches, nil
}

func (p *InProc) Delete(_ context.Context, namespace, memoryID string, sec *sector.Sector) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	bySector, ok := p.points[namespace]
	if !ok {
		return nil
	}
	remove := func(sectors []sector.Sector) {
		for _, s := range sectors {
			list := bySector[s]
			for i, pt := range list {
				if pt.memoryID == memoryID {
					bySector[s] = append(list[:i], list[i+1:]...)
					break
				}
			}
		}
	}
	if sec != nil {
		remove([]sector.Sector{*sec})
	} else {
		remove(sector.All)
	}
	return nil
}

func (p *InProc) BatchDelete(ctx context.Context, namespace string, memoryIDs []string, sec *sector.Sector) error {
	for _, id := range memoryIDs {
		if err := p.Delete(ctx, namespace, id, sec); err != nil {
			return err
		}
	}
	return nil
}

func (p *InProc) Stats(_ context.Context, namespace string) (NamespaceStats, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := NamespaceStats{Namespace: namespace, BySector: make(map[sector.Sector]int)}
	bySector, ok := p.points[namespace]
	if !ok {
		return out, nil
	}
	for s, list := range bySector {
		out.BySector[s] = len(list)
	}
	return out, nil
}
