package vector

import (
	"context"
	"fmt"
	"sync"

	"github.com/hsgmemory/engine/internal/sector"
	"github.com/pinecone-io/go-pinecone/v4/pinecone"
	"github.com/upstash/vector-go"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
)

// Kind selects the external vector backend behind External.
type Kind string

const (
	KindUpstash  Kind = "upstash"
	KindPinecone Kind = "pinecone"
)

// collectionKey identifies one physical collection: a sanitized namespace
// plus a sector, since each sector gets its own index per spec §4.1-§4.4
// (sectors are not mixed in a single ANN structure).
type collectionKey struct {
	namespace string
	sector    sector.Sector
}

func (k collectionKey) name() string {
	return fmt.Sprintf("hsg_%s_%s", Sanitize(k.namespace), k.sector)
}

// External is a collection-per-namespace adapter over Upstash Vector or
// Pinecone. Collections are created lazily on first write and cached in a
// concurrent created-set (sync.Map), per spec §4.4's namespace isolation
// policy — this is new code relative to the teacher: upstash_service.go
// and pinecone_service.go key one index per *user*, not a sanitized
// collection per tenant namespace, so the lazy-create-and-cache step here
// has no direct teacher analogue and is built in the teacher's idiom
// instead (small guarded method on the client struct, one mutex in the
// spirit of ai/mcp/mcp.go's sync.RWMutex use).
type External struct {
	kind   Kind
	logger *zap.Logger

	upstashIndex  *vector.Index
	pineconeIndex *pinecone.Client
	pineconeHost  string

	created sync.Map // collectionKey -> struct{}
	mu      sync.Mutex
	pcConns sync.Map // collectionKey -> *pinecone.IndexConnection
}

func NewUpstash(restURL, restToken string, logger *zap.Logger) *External {
	return &External{
		kind:         KindUpstash,
		logger:       logger,
		upstashIndex: vector.NewIndex(restURL, restToken),
	}
}

func NewPinecone(apiKey, indexHost string, logger *zap.Logger) (*External, error) {
	pc, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("vector: create pinecone client: %w", err)
	}
	return &External{kind: KindPinecone, logger: logger, pineconeIndex: pc, pineconeHost: indexHost}, nil
}

func (e *External) ensureCollection(ctx context.Context, key collectionKey) error {
	if _, ok := e.created.Load(key); ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.created.Load(key); ok {
		return nil
	}
	switch e.kind {
	case KindPinecone:
		conn, err := e.pineconeIndex.Index(pinecone.NewIndexConnParams{
			Host:      e.pineconeHost,
			Namespace: key.name(),
		})
		if err != nil {
			return fmt.Errorf("vector: pinecone index connect: %w", err)
		}
		e.pcConns.Store(key, conn)
	case KindUpstash:
		// upstash namespaces are created implicitly on first write, so
		// nothing to do here beyond marking the set.
	}
	e.created.Store(key, struct{}{})
	return nil
}

func (e *External) Upsert(ctx context.Context, p Point) error {
	return e.BatchUpsert(ctx, []Point{p})
}

func (e *External) BatchUpsert(ctx context.Context, points []Point) error {
	grouped := make(map[collectionKey][]Point)
	for _, p := range points {
		key := collectionKey{namespace: p.Namespace, sector: p.Sector}
		grouped[key] = append(grouped[key], p)
	}
	for key, group := range grouped {
		if err := e.ensureCollection(ctx, key); err != nil {
			return err
		}
		switch e.kind {
		case KindUpstash:
			ns := e.upstashIndex.Namespace(key.name())
			ups := make([]vector.Upsert, 0, len(group))
			for _, p := range group {
				ups = append(ups, vector.Upsert{Id: p.MemoryID, Vector: p.Vector, Metadata: p.Metadata})
			}
			if err := ns.UpsertMany(ups); err != nil {
				return fmt.Errorf("vector: upstash upsert: %w", err)
			}
		case KindPinecone:
			connAny, _ := e.pcConns.Load(key)
			conn := connAny.(*pinecone.IndexConnection)
			vecs := make([]*pinecone.Vector, 0, len(group))
			for _, p := range group {
				meta, err := structpb.NewStruct(p.Metadata)
				if err != nil {
					e.logger.Warn("vector: pinecone metadata struct failed", zap.Error(err))
				}
				values := make([]float32, len(p.Vector))
				copy(values, p.Vector)
				vecs = append(vecs, &pinecone.Vector{Id: p.MemoryID, Values: &values, Metadata: meta})
			}
			if _, err := conn.UpsertVectors(ctx, vecs); err != nil {
				return fmt.Errorf("vector: pinecone upsert: %w", err)
			}
		}
	}
	return nil
}

func (e *External) Search(ctx context.Context, namespace string, sec sector.Sector, query []float32, topN int) ([]Match, error) {
	key := collectionKey{namespace: namespace, sector: sec}
	if _, ok := e.created.Load(key); !ok {
		// spec §4.4: search against a not-yet-created collection returns
		// an empty result, not an error.
		return nil, nil
	}
	switch e.kind {
	case KindUpstash:
		ns := e.upstashIndex.Namespace(key.name())
		scores, err := ns.Query(vector.Query{Vector: query, TopK: topN, IncludeVectors: true})
		if err != nil {
			return nil, fmt.Errorf("vector: upstash query: %w", err)
		}
		out := make([]Match, 0, len(scores))
		for _, s := range scores {
			out = append(out, Match{MemoryID: s.Id, Score: float64(s.Score), Vector: s.Vector})
		}
		return out, nil
	case KindPinecone:
		connAny, _ := e.pcConns.Load(key)
		conn := connAny.(*pinecone.IndexConnection)
		res, err := conn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
			Vector: query, TopK: uint32(topN), IncludeValues: true,
		})
		if err != nil {
			return nil, fmt.Errorf("vector: pinecone query: %w", err)
		}
		out := make([]Match, 0, len(res.Matches))
		for _, m := range res.Matches {
			var vec []float32
			if m.Vector.Values != nil {
				vec = *m.Vector.Values
			}
			out = append(out, Match{MemoryID: m.Vector.Id, Score: float64(m.Score), Vector: vec})
		}
		return out, nil
	}
	return nil, fmt.Errorf("vector: unknown backend kind %q", e.kind)
}

func (e *External) Delete(ctx context.Context, namespace, memoryID string, sec *sector.Sector) error {
	return e.BatchDelete(ctx, namespace, []string{memoryID}, sec)
}

func (e *External) BatchDelete(ctx context.Context, namespace string, memoryIDs []string, sec *sector.Sector) error {
	sectors := sector.All
	if sec != nil {
		sectors = []sector.Sector{*sec}
	}
	for _, s := range sectors {
		key := collectionKey{namespace: namespace, sector: s}
		if _, ok := e.created.Load(key); !ok {
			continue
		}
		switch e.kind {
		case KindUpstash:
			ns := e.upstashIndex.Namespace(key.name())
			if _, err := ns.DeleteMany(memoryIDs); err != nil {
				return fmt.Errorf("vector: upstash delete: %w", err)
			}
		case KindPinecone:
			connAny, _ := e.pcConns.Load(key)
			conn := connAny.(*pinecone.IndexConnection)
			if err := conn.DeleteVectorsById(ctx, memoryIDs); err != nil {
				return fmt.Errorf("vector: pinecone delete: %w", err)
			}
		}
	}
	return nil
}

func (e *External) Stats(ctx context.Context, namespace string) (NamespaceStats, error) {
	out := NamespaceStats{Namespace: namespace, BySector: make(map[sector.Sector]int)}
	for _, s := range sector.All {
		key := collectionKey{namespace: namespace, sector: s}
		if _, ok := e.created.Load(key); !ok {
			continue
		}
		switch e.kind {
		case KindUpstash:
			ns := e.upstashIndex.Namespace(key.name())
			info, err := ns.Info()
			if err != nil {
				return out, fmt.Errorf("vector: upstash info: %w", err)
			}
			out.BySector[s] = int(info.VectorCount)
		case KindPinecone:
			connAny, ok := e.pcConns.Load(key)
			if !ok {
				continue
			}
			conn := connAny.(*pinecone.IndexConnection)
			stats, err := conn.DescribeIndexStats(ctx)
			if err != nil {
				return out, fmt.Errorf("vector: pinecone stats: %w", err)
			}
			out.BySector[s] = int(stats.TotalVectorCount)
		}
	}
	return out, nil
}
