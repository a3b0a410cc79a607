package hsg

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/hsgmemory/engine/internal/concurrency"
	"github.com/hsgmemory/engine/internal/config"
	"github.com/hsgmemory/engine/internal/embedder"
	"github.com/hsgmemory/engine/internal/hsgerr"
	"github.com/hsgmemory/engine/internal/sector"
	"github.com/hsgmemory/engine/internal/store/metadata"
	"github.com/hsgmemory/engine/internal/store/vector"
	"github.com/hsgmemory/engine/internal/textutil"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const idAlphabet = "qwertyuiopasdfghjklzxcvbnm1234567890"

func newID() string {
	id, err := gonanoid.Generate(idAlphabet, 16)
	if err != nil {
		// gonanoid only errors on a malformed alphabet or non-positive
		// length, never on entropy exhaustion; both are impossible with
		// the constants above.
		panic(fmt.Sprintf("hsg: nanoid generation failed: %v", err))
	}
	return id
}

// Engine orchestrates the write and query paths across the Sector
// Router, Embedder, Metadata Store, and Vector Store, the same three-way
// split the teacher's memory package makes between its sector classifier
// prompt, vectorClient, and dbClient.
type Engine struct {
	metadata metadata.Store
	vectors  vector.Store
	embed    *embedder.Chain
	cfg      *config.Config
	logger   *zap.Logger

	locks *concurrency.ShardedLocks
	sem   *concurrency.ActiveQuerySemaphore
	nsMu  sync.Mutex
	nsSet map[string]struct{}

	corporaMu sync.Mutex
	corpora   map[string]*textutil.BM25Corpus // namespace -> corpus

	salience   *SalienceManager
	reflection *ReflectionScheduler

	OnStored    func(ctx context.Context, result StoreResult)
	OnQuery     func(ctx context.Context, req QueryRequest, hits []QueryHit)
	OnReinforce func(ctx context.Context, memoryID string, boost float64)
}

func New(meta metadata.Store, vectors vector.Store, embed *embedder.Chain, cfg *config.Config, logger *zap.Logger) *Engine {
	e := &Engine{
		metadata: meta,
		vectors:  vectors,
		embed:    embed,
		cfg:      cfg,
		logger:   logger,
		locks:    concurrency.NewShardedLocks(64),
		sem:      concurrency.NewActiveQuerySemaphore(cfg.MaxActive),
		nsSet:    make(map[string]struct{}),
		corpora:  make(map[string]*textutil.BM25Corpus),
	}
	e.salience = NewSalienceManager(e, logger)
	e.reflection = NewReflectionScheduler(e, logger)
	return e
}

// StartBackgroundMaintenance launches the salience decay pool and the
// reflection scheduler. The caller (cmd/hsgd) owns the context and should
// call StopBackgroundMaintenance during shutdown.
func (e *Engine) StartBackgroundMaintenance(ctx context.Context) {
	e.salience.Start(ctx)
	e.reflection.Start(ctx)
}

func (e *Engine) StopBackgroundMaintenance() {
	e.salience.Stop()
	e.reflection.Stop()
}

// SetArchiver wires an optional cold-memory archive tier into the
// salience decay pool. See Archiver for the contract.
func (e *Engine) SetArchiver(a Archiver) {
	e.salience.SetArchiver(a)
}

// ensureNamespace implements spec §5's "namespace collection init": the
// first write to a namespace acquires a sharded init lock, creates the
// namespace row if needed, and adds it to a concurrent initialized set
// so subsequent writes skip the check.
func (e *Engine) ensureNamespace(ctx context.Context, ns string) error {
	e.nsMu.Lock()
	_, seen := e.nsSet[ns]
	e.nsMu.Unlock()
	if seen {
		return nil
	}

	e.locks.Lock("ns:" + ns)
	defer e.locks.Unlock("ns:" + ns)

	e.nsMu.Lock()
	_, seen = e.nsSet[ns]
	e.nsMu.Unlock()
	if seen {
		return nil
	}

	if existing, err := e.metadata.GetNamespace(ctx, ns); err != nil || existing == nil {
		now := time.Now().Unix()
		if _, err := e.metadata.UpsertNamespace(ctx, metadata.Namespace{
			Namespace: ns, CreatedAt: now, UpdatedAt: now, Active: true,
		}); err != nil {
			return hsgerr.NewMetadataStoreError("upsert_namespace", err)
		}
	}

	e.nsMu.Lock()
	e.nsSet[ns] = struct{}{}
	e.nsMu.Unlock()
	return nil
}

func (e *Engine) corpusFor(ns string) *textutil.BM25Corpus {
	e.corporaMu.Lock()
	defer e.corporaMu.Unlock()
	c, ok := e.corpora[ns]
	if !ok {
		c = textutil.NewBM25Corpus()
		e.corpora[ns] = c
	}
	return c
}

// Store implements spec §4.5 steps 1-7.
func (e *Engine) Store(ctx context.Context, req StoreRequest) (*StoreResult, error) {
	if req.Content == "" {
		return nil, hsgerr.NewValidationError("content", "must not be empty")
	}

	namespaces := req.Namespaces
	if len(namespaces) == 0 {
		namespaces = []string{"global"}
	}
	for _, ns := range namespaces {
		if err := e.ensureNamespace(ctx, ns); err != nil {
			return nil, err
		}
	}

	primary, active := sector.Classify(req.Content, req.Tags, e.cfg.EmbedMode == config.EmbedModeAdvanced)

	vectors, usedFallback, err := e.embedActiveSectors(ctx, req.Content, active)
	if err != nil {
		return nil, hsgerr.NewEmbedError(e.embed.Name(), err)
	}

	id := newID()
	now := time.Now().Unix()
	meta := req.Metadata
	if meta == nil {
		meta = []byte(`{}`)
	}

	mem := metadata.Memory{
		ID:            id,
		Content:       req.Content,
		Namespaces:    namespaces,
		Tags:          req.Tags,
		Metadata:      meta,
		PrimarySector: primary,
		Sectors:       active,
		Salience:      sector.DefaultSalience[primary],
		DecayLambda:   sector.DefaultDecayLambda[primary],
		CreatedAt:     now,
		UpdatedAt:     now,
		LastSeenAt:    now,
		EmbedFallback: usedFallback,
	}

	var vectorRows []metadata.VectorRow
	for _, sec := range active {
		for _, ns := range namespaces {
			vectorRows = append(vectorRows, metadata.VectorRow{
				MemoryID: id, Sector: sec, Namespace: ns, Dim: e.embed.Dim(), CreatedAt: now,
			})
		}
	}

	e.locks.Lock(id)
	defer e.locks.Unlock(id)

	if err := e.metadata.InsertMemory(ctx, mem, vectorRows); err != nil {
		return nil, hsgerr.NewMetadataStoreError("insert_memory", err)
	}

	var points []vector.Point
	for _, sec := range active {
		v := vectors[sec]
		for _, ns := range namespaces {
			points = append(points, vector.Point{
				MemoryID: id, Namespace: ns, Sector: sec, Vector: v,
			})
		}
	}
	if err := e.vectors.BatchUpsert(ctx, points); err != nil {
		// spec §4.5 step 6 / §7: on persistent vector-store failure,
		// compensate by removing the metadata row so the two stores
		// converge rather than leaving an unsearchable memory behind.
		if delErr := e.metadata.DeleteMemory(ctx, id); delErr != nil {
			e.logger.Error("hsg: compensating delete failed after vector upsert error",
				zap.String("memory_id", id), zap.Error(delErr))
		}
		return nil, hsgerr.NewVectorStoreError("batch_upsert", err)
	}

	for _, ns := range namespaces {
		e.corpusFor(ns).Add(req.Content)
	}

	_ = e.metadata.AppendStat(ctx, "store", 1)
	if usedFallback {
		_ = e.metadata.AppendStat(ctx, "embed_fallback", 1)
	}

	result := StoreResult{ID: id, PrimarySector: primary, Sectors: active, Namespaces: namespaces}
	if e.OnStored != nil {
		e.OnStored(ctx, result)
	}
	return &result, nil
}

// embedActiveSectors embeds the content once per active sector. In
// simple mode there's exactly one active sector so this is a single
// call; in advanced mode, embed_parallel fans calls out on a bounded
// errgroup, otherwise they run sequentially paced by embed_delay_ms.
func (e *Engine) embedActiveSectors(ctx context.Context, content string, active []sector.Sector) (map[sector.Sector][]float32, bool, error) {
	out := make(map[sector.Sector][]float32, len(active))
	var usedFallback bool
	var mu sync.Mutex

	embedOne := func(sec sector.Sector) error {
		v, fb, err := e.embed.Embed(ctx, content, sec)
		if err != nil {
			return err
		}
		mu.Lock()
		out[sec] = v
		usedFallback = usedFallback || fb
		mu.Unlock()
		return nil
	}

	if len(active) == 1 || !e.cfg.EmbedParallel {
		for i, sec := range active {
			if err := embedOne(sec); err != nil {
				return nil, false, err
			}
			if i < len(active)-1 && e.cfg.EmbedDelayMs > 0 {
				select {
				case <-time.After(time.Duration(e.cfg.EmbedDelayMs) * time.Millisecond):
				case <-ctx.Done():
					return nil, false, ctx.Err()
				}
			}
		}
		return out, usedFallback, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sec := range active {
		sec := sec
		g.Go(func() error { return embedOne(sec) })
	}
	_ = gctx
	if err := g.Wait(); err != nil {
		return nil, false, err
	}
	return out, usedFallback, nil
}

// Query implements spec §4.6.
func (e *Engine) Query(ctx context.Context, req QueryRequest) ([]QueryHit, error) {
	if err := e.sem.Acquire(ctx); err != nil {
		return nil, hsgerr.NewTimeoutError("query_admission")
	}
	defer e.sem.Release()

	k := req.K
	if k <= 0 {
		k = 8
	}
	if k > 32 {
		k = 32
	}
	if k < 1 {
		k = 1
	}

	namespaces := req.Filters.Namespaces
	if len(namespaces) == 0 {
		namespaces = []string{"global"}
	}
	sectors := req.Filters.Sectors
	if len(sectors) == 0 {
		sectors = sector.All
	}

	queryVec, err := e.embed.EmbedQuery(ctx, req.Text, sector.Semantic)
	if err != nil {
		return nil, hsgerr.NewEmbedError(e.embed.Name(), err)
	}

	topN := maxInt(k*e.cfg.CacheSegments, 1000/len(sectors))

	type candidate struct {
		memoryID string
		cos      float64
		sector   sector.Sector
		vec      []float32
		exact    bool // came from an exact vector-id hit, not the keyword-scan fallback
	}
	var candidates []candidate
	weights := e.weightsForTier()

	for _, ns := range namespaces {
		for _, sec := range sectors {
			var matches []vector.Match
			if weights.Vector > 0 {
				matches, err = e.vectors.Search(ctx, ns, sec, queryVec, topN)
				if err != nil {
					return nil, hsgerr.NewVectorStoreError("search", err)
				}
			}
			for _, m := range matches {
				candidates = append(candidates, candidate{memoryID: m.MemoryID, cos: m.Score, sector: sec, vec: m.Vector, exact: true})
			}
		}
	}

	if len(candidates) == 0 && weights.Vector == 0 {
		// keyword-only tier: fall back to a metadata scan within the
		// requested namespaces, bounded by topN rows in total.
		rows, err := e.metadata.ListMemories(ctx, metadata.MemoryFilter{Namespaces: namespaces}, 0, topN)
		if err != nil {
			return nil, hsgerr.NewMetadataStoreError("list_memories", err)
		}
		for _, row := range rows {
			candidates = append(candidates, candidate{memoryID: row.ID, cos: 0, sector: row.PrimarySector})
		}
	}

	ids := make([]string, 0, len(candidates))
	seenID := make(map[string]struct{})
	for _, c := range candidates {
		if _, ok := seenID[c.memoryID]; ok {
			continue
		}
		seenID[c.memoryID] = struct{}{}
		ids = append(ids, c.memoryID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	memories, err := e.metadata.GetMemories(ctx, ids)
	if err != nil {
		return nil, hsgerr.NewMetadataStoreError("get_memories", err)
	}
	byID := make(map[string]metadata.Memory, len(memories))
	for _, m := range memories {
		byID[m.ID] = m
	}

	nsFilter := make(map[string]struct{}, len(namespaces))
	for _, ns := range namespaces {
		nsFilter[ns] = struct{}{}
	}

	best := make(map[string]*QueryHit)
	bestScore := make(map[string]float64)
	now := time.Now().Unix()
	toRegenerate := make(map[string]metadata.Memory)

	for _, c := range candidates {
		mem, ok := byID[c.memoryID]
		if !ok {
			continue
		}
		if !intersects(mem.Namespaces, nsFilter) {
			continue
		}
		if req.Filters.MinSalience != nil && salienceNow(mem, now) < *req.Filters.MinSalience {
			continue
		}
		if len(req.Filters.Tags) > 0 && !containsAny(mem.Tags, req.Filters.Tags) {
			continue
		}
		if c.exact && mem.Fingerprinted {
			toRegenerate[mem.ID] = mem
		}

		score := e.hybridScore(req.Text, mem, c.cos, now, weights, namespaces[0])
		if prev, ok := bestScore[c.memoryID]; !ok || score > prev {
			bestScore[c.memoryID] = score
			best[c.memoryID] = &QueryHit{
				ID:            mem.ID,
				Score:         score,
				PrimarySector: mem.PrimarySector,
				Sectors:       []sector.Sector{c.sector},
				Salience:      salienceNow(mem, now),
				LastSeenAt:    mem.LastSeenAt,
				Content:       mem.Content,
				Summary:       mem.Summary,
			}
		} else if hit, ok := best[c.memoryID]; ok {
			hit.Sectors = appendUnique(hit.Sectors, c.sector)
		}
	}

	hits := make([]QueryHit, 0, len(best))
	for _, h := range best {
		hits = append(hits, *h)
	}
	sortHits(hits, byID, now)
	if len(hits) > k {
		hits = hits[:k]
	}

	hits = e.expandViaWaypoints(ctx, hits, namespaces[0], now)
	sortHits(hits, byID, now)
	if len(hits) > k {
		hits = hits[:k]
	}

	if e.cfg.ReinforceOnQuery {
		go e.reinforceAsync(context.Background(), hits)
	}
	for _, mem := range toRegenerate {
		go e.salience.Regenerate(context.Background(), mem)
	}
	if e.OnQuery != nil {
		e.OnQuery(ctx, req, hits)
	}
	return hits, nil
}

func (e *Engine) weightsForTier() HybridWeights {
	if e.cfg.Tier == config.TierHybrid {
		return HybridWeightsKeywordOnly
	}
	return DefaultHybridWeights
}

func (e *Engine) hybridScore(query string, mem metadata.Memory, cos float64, now int64, w HybridWeights, ns string) float64 {
	queryTokens := len(textutil.Tokenize(query))
	var keywordBoost float64
	if queryTokens > 0 {
		overlap := textutil.KeywordOverlap(query, mem.Content, e.cfg.KeywordMinLength)
		keywordBoost = float64(overlap) * e.cfg.KeywordBoost / float64(queryTokens)
	}
	bm25 := e.corpusFor(ns).Score(query, mem.Content)
	sal := salienceNow(mem, now)
	ageDays := float64(now-mem.LastSeenAt) / 86400
	recency := math.Exp(-defaultRecencyLambda * ageDays)

	return w.Vector*cos + w.Keyword*keywordBoost + w.BM25*bm25 + w.Salience*sal + w.Recency*recency
}

const defaultRecencyLambda = 0.05

func salienceNow(mem metadata.Memory, now int64) float64 {
	age := float64(now - mem.LastSeenAt)
	if age < 0 {
		age = 0
	}
	return mem.Salience * math.Exp(-mem.DecayLambda*age)
}

func (e *Engine) reinforceAsync(ctx context.Context, hits []QueryHit) {
	for _, h := range hits {
		if err := e.Reinforce(ctx, h.ID, e.cfg.DefaultReinforceBoost); err != nil {
			e.logger.Warn("hsg: reinforcement failed", zap.String("memory_id", h.ID), zap.Error(err))
		}
	}
}

// Reinforce implements spec §4.8's access-time reinforcement:
// salience <- min(1, salience+boost), last_seen_at <- now.
func (e *Engine) Reinforce(ctx context.Context, id string, boost float64) error {
	e.locks.Lock(id)
	defer e.locks.Unlock(id)

	mem, err := e.metadata.GetMemory(ctx, id)
	if err != nil {
		return hsgerr.NewNotFoundError("memory", id)
	}
	now := time.Now().Unix()
	mem.Salience = math.Min(1, mem.Salience+boost)
	mem.LastSeenAt = now
	mem.UpdatedAt = now
	if err := e.metadata.UpdateMemory(ctx, *mem); err != nil {
		return hsgerr.NewMetadataStoreError("update_memory", err)
	}
	if e.OnReinforce != nil {
		e.OnReinforce(ctx, id, boost)
	}
	return nil
}

func (e *Engine) Get(ctx context.Context, id string) (*metadata.Memory, error) {
	mem, err := e.metadata.GetMemory(ctx, id)
	if err != nil {
		return nil, hsgerr.NewNotFoundError("memory", id)
	}
	return mem, nil
}

// DefaultReinforceBoost exposes the configured default boost so transports
// can fall back to it when a caller omits one on /memory/reinforce.
func (e *Engine) DefaultReinforceBoost() float64 {
	return e.cfg.DefaultReinforceBoost
}

// ListMemories backs GET /memory/all: a plain paginated scan, no scoring.
func (e *Engine) ListMemories(ctx context.Context, namespaces []string, sectors []sector.Sector, offset, limit int) ([]metadata.Memory, error) {
	mems, err := e.metadata.ListMemories(ctx, metadata.MemoryFilter{Namespaces: namespaces, Sectors: sectors}, offset, limit)
	if err != nil {
		return nil, hsgerr.NewMetadataStoreError("list_memories", err)
	}
	return mems, nil
}

// Patch updates a memory's content and/or tags in place. Content changes
// re-embed and re-upsert the primary sector's vector in every namespace of
// the memory; vectors of its other active sectors are not updated. A nil
// content leaves vectors untouched.
func (e *Engine) Patch(ctx context.Context, id string, content *string, tags []string) (*metadata.Memory, error) {
	e.locks.Lock(id)
	defer e.locks.Unlock(id)

	mem, err := e.metadata.GetMemory(ctx, id)
	if err != nil {
		return nil, hsgerr.NewNotFoundError("memory", id)
	}

	if tags != nil {
		mem.Tags = tags
	}
	if content != nil && *content != "" {
		mem.Content = *content
		v, _, err := e.embed.Embed(ctx, mem.Content, mem.PrimarySector)
		if err != nil {
			return nil, hsgerr.NewEmbedError(e.embed.Name(), err)
		}
		for _, ns := range mem.Namespaces {
			p := vector.Point{MemoryID: mem.ID, Namespace: ns, Sector: mem.PrimarySector, Vector: v}
			if err := e.vectors.Upsert(ctx, p); err != nil {
				return nil, hsgerr.NewVectorStoreError("upsert", err)
			}
		}
	}
	mem.UpdatedAt = time.Now().Unix()

	if err := e.metadata.UpdateMemory(ctx, *mem); err != nil {
		return nil, hsgerr.NewMetadataStoreError("update_memory", err)
	}
	return mem, nil
}

func (e *Engine) Delete(ctx context.Context, id string) error {
	e.locks.Lock(id)
	defer e.locks.Unlock(id)

	mem, err := e.metadata.GetMemory(ctx, id)
	if err != nil {
		return hsgerr.NewNotFoundError("memory", id)
	}
	for _, ns := range mem.Namespaces {
		if err := e.vectors.BatchDelete(ctx, ns, []string{id}, nil); err != nil {
			return hsgerr.NewVectorStoreError("batch_delete", err)
		}
	}
	if err := e.metadata.DeleteMemory(ctx, id); err != nil {
		return hsgerr.NewMetadataStoreError("delete_memory", err)
	}
	return nil
}

func intersects(a []string, set map[string]struct{}) bool {
	for _, x := range a {
		if _, ok := set[x]; ok {
			return true
		}
	}
	return false
}

func containsAny(haystack, needles []string) bool {
	set := make(map[string]struct{}, len(haystack))
	for _, h := range haystack {
		set[h] = struct{}{}
	}
	for _, n := range needles {
		if _, ok := set[n]; ok {
			return true
		}
	}
	return false
}

func appendUnique(sectors []sector.Sector, s sector.Sector) []sector.Sector {
	for _, existing := range sectors {
		if existing == s {
			return sectors
		}
	}
	return append(sectors, s)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func sortHits(hits []QueryHit, byID map[string]metadata.Memory, now int64) {
	// spec §4.6 step 8: sort by score desc, tie-break by salience_now
	// then last_seen_at.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && less(hits[j], hits[j-1]); j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
}

func less(a, b QueryHit) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Salience != b.Salience {
		return a.Salience > b.Salience
	}
	return a.LastSeenAt > b.LastSeenAt
}
