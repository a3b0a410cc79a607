package hsg

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/hsgmemory/engine/internal/sector"
	"github.com/hsgmemory/engine/internal/store/metadata"
	"github.com/hsgmemory/engine/internal/textutil"
	"go.uber.org/zap"
)

// reflectMaxClusters bounds the farthest-point seed search per namespace
// per run. spec §4.7 leaves the exact cap open ("up to maxClusters");
// six keeps a reflection pass over a few hundred memories cheap while
// still surfacing more than one theme per window.
const reflectMaxClusters = 6

// reflectSampleWindow is the number of recent semantic memories considered
// per reflection pass.
const reflectSampleWindow = 200

// reflectCoherenceFloor is the minimum mean pairwise cosine similarity a
// cluster must have to be considered coherent enough to summarize.
const reflectCoherenceFloor = 0.35

// reflectDuplicateOverlap is the Jaccard token-overlap threshold above
// which a candidate reflective memory is treated as a re-emergence of an
// existing one and suppressed, per spec §4.7's idempotency rule.
const reflectDuplicateOverlap = 0.85

// ReflectionScheduler runs the consolidation job from spec §4.7: every
// reflect_interval minutes, for each namespace with at least
// reflect_min_memories entries, it clusters recent semantic memories and
// emits a derived reflective memory per coherent cluster.
type ReflectionScheduler struct {
	engine         *Engine
	logger         *zap.Logger
	interval       time.Duration
	minMemories    int
	coherenceFloor float64

	lastRunMu sync.Mutex
	lastRun   map[string]time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewReflectionScheduler(e *Engine, logger *zap.Logger) *ReflectionScheduler {
	interval := e.cfg.ReflectInterval
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	return &ReflectionScheduler{
		engine:         e,
		logger:         logger,
		interval:       interval,
		minMemories:    e.cfg.ReflectMinMemories,
		coherenceFloor: reflectCoherenceFloor,
		lastRun:        make(map[string]time.Time),
		stopCh:         make(chan struct{}),
	}
}

func (s *ReflectionScheduler) Start(ctx context.Context) {
	if !s.engine.cfg.AutoReflect {
		return
	}
	s.wg.Add(1)
	go s.run(ctx)
}

func (s *ReflectionScheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *ReflectionScheduler) run(ctx context.Context) {
	defer s.wg.Done()
	// check every minute which namespaces are due, rather than a single
	// ticker at the full interval, so a newly created namespace doesn't
	// have to wait a full cycle to be picked up.
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.checkpoint(ctx)
		}
	}
}

func (s *ReflectionScheduler) checkpoint(ctx context.Context) {
	namespaces, err := s.engine.metadata.ListNamespaces(ctx)
	if err != nil {
		return
	}
	now := time.Now()
	for _, ns := range namespaces {
		s.lastRunMu.Lock()
		last, ran := s.lastRun[ns.Namespace]
		s.lastRunMu.Unlock()
		if ran && now.Sub(last) < s.interval {
			continue
		}
		s.reflectNamespace(ctx, ns.Namespace)
		s.lastRunMu.Lock()
		s.lastRun[ns.Namespace] = now
		s.lastRunMu.Unlock()
	}
}

func (s *ReflectionScheduler) reflectNamespace(ctx context.Context, ns string) {
	candidates, err := s.engine.metadata.ListMemories(ctx, metadata.MemoryFilter{
		Namespaces: []string{ns},
		Sectors:    []sector.Sector{sector.Semantic},
	}, 0, reflectSampleWindow)
	if err != nil {
		s.logger.Warn("hsg: reflection list failed", zap.String("namespace", ns), zap.Error(err))
		return
	}
	if len(candidates) < s.minMemories {
		return
	}

	points := make([]reflectionPoint, 0, len(candidates))
	for _, mem := range candidates {
		v, _, err := s.engine.embed.Embed(ctx, mem.Content, sector.Semantic)
		if err != nil {
			continue
		}
		points = append(points, reflectionPoint{mem: mem, vec: v})
	}
	if len(points) < s.minMemories {
		return
	}

	// cap the seed count so clusters average at least two members; a seed
	// count equal to the point count would just reproduce the input as
	// singleton "clusters" and nothing would ever look coherent enough to
	// summarize.
	numSeeds := reflectMaxClusters
	if maxBySize := len(points) / 2; maxBySize < numSeeds {
		numSeeds = maxBySize
	}
	if numSeeds < 1 {
		numSeeds = 1
	}
	seeds := farthestPointSeeds(points, numSeeds, func(i int) []float32 { return points[i].vec })

	clusters := make([][]reflectionPoint, len(seeds))
	for i := range points {
		best, bestSim := 0, -1.0
		for ci, seedIdx := range seeds {
			sim := cosine(points[i].vec, points[seedIdx].vec)
			if sim > bestSim {
				bestSim = sim
				best = ci
			}
		}
		clusters[best] = append(clusters[best], points[i])
	}

	existing, err := s.engine.metadata.ListMemories(ctx, metadata.MemoryFilter{
		Namespaces: []string{ns},
		Sectors:    []sector.Sector{sector.Reflective},
	}, 0, 200)
	if err != nil {
		existing = nil
	}

	for _, cluster := range clusters {
		if len(cluster) < 2 {
			continue
		}
		coherence := meanPairwiseCosinePoints(cluster)
		if coherence < s.coherenceFloor {
			continue
		}

		contents := make([]string, len(cluster))
		for i, p := range cluster {
			contents[i] = p.mem.Content
		}
		summary := dominantKeywordSummary(contents)

		if isDuplicateReflection(summary, existing) {
			continue
		}

		result, err := s.engine.Store(ctx, StoreRequest{
			Content:    summary,
			Namespaces: []string{ns},
			Tags:       []string{"reflection"},
		})
		if err != nil {
			s.logger.Warn("hsg: reflective store failed", zap.String("namespace", ns), zap.Error(err))
			continue
		}

		// coherence (cosine) gated cluster acceptance above; the waypoint
		// weight itself is mean pairwise token overlap, per spec §4.7(d).
		tokenCoherence := meanPairwiseTokenOverlap(contents)
		for _, p := range cluster {
			wp := metadata.Waypoint{
				SrcID: p.mem.ID, DstID: result.ID, Namespace: ns,
				Weight: tokenCoherence, CreatedAt: time.Now().Unix(), UpdatedAt: time.Now().Unix(),
			}
			if err := s.engine.metadata.UpsertWaypoint(ctx, wp); err != nil {
				s.logger.Warn("hsg: waypoint upsert failed", zap.String("src", p.mem.ID), zap.Error(err))
			}
		}
		existing = append(existing, metadata.Memory{ID: result.ID, Content: summary})
	}
}

// farthestPointSeeds greedily picks up to k indices maximizing the minimum
// distance (1 - cosine) to the seeds chosen so far, per spec §4.7's
// "greedy farthest-point seed selection".
func farthestPointSeeds[T any](points []T, k int, vecOf func(int) []float32) []int {
	if len(points) == 0 {
		return nil
	}
	if k > len(points) {
		k = len(points)
	}
	seeds := []int{0}
	for len(seeds) < k {
		farthest, farthestDist := -1, -1.0
		for i := range points {
			if containsInt(seeds, i) {
				continue
			}
			minDist := math.MaxFloat64
			for _, s := range seeds {
				d := 1 - cosine(vecOf(i), vecOf(s))
				if d < minDist {
					minDist = d
				}
			}
			if minDist > farthestDist {
				farthestDist = minDist
				farthest = i
			}
		}
		if farthest < 0 {
			break
		}
		seeds = append(seeds, farthest)
	}
	return seeds
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// reflectionPoint pairs a candidate memory with its semantic-sector vector
// for clustering purposes.
type reflectionPoint struct {
	mem metadata.Memory
	vec []float32
}

func meanPairwiseCosinePoints(cluster []reflectionPoint) float64 {
	if len(cluster) < 2 {
		return 1
	}
	var sum float64
	var n int
	for i := 0; i < len(cluster); i++ {
		for j := i + 1; j < len(cluster); j++ {
			sum += cosine(cluster[i].vec, cluster[j].vec)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// meanPairwiseTokenOverlap computes the mean pairwise Jaccard token
// overlap across a cluster's member contents, used as the waypoint weight
// per spec §4.7 step (d).
func meanPairwiseTokenOverlap(contents []string) float64 {
	if len(contents) < 2 {
		return 1
	}
	var sum float64
	var n int
	for i := 0; i < len(contents); i++ {
		for j := i + 1; j < len(contents); j++ {
			sum += textutil.JaccardSimilarity(contents[i], contents[j])
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// dominantKeywordSummary builds a short reflective memory body from the
// most frequent tokens across a cluster's contents.
func dominantKeywordSummary(contents []string) string {
	freq := make(map[string]int)
	for _, c := range contents {
		for _, tok := range textutil.Tokenize(c) {
			if len(tok) < 4 {
				continue
			}
			freq[tok]++
		}
	}
	type kv struct {
		tok   string
		count int
	}
	kvs := make([]kv, 0, len(freq))
	for tok, count := range freq {
		kvs = append(kvs, kv{tok, count})
	}
	sort.Slice(kvs, func(i, j int) bool {
		if kvs[i].count != kvs[j].count {
			return kvs[i].count > kvs[j].count
		}
		return kvs[i].tok < kvs[j].tok
	})
	top := kvs
	if len(top) > 8 {
		top = top[:8]
	}
	summary := "Reflection on recurring themes:"
	for _, kv := range top {
		summary += " " + kv.tok
	}
	return summary
}

func isDuplicateReflection(candidate string, existing []metadata.Memory) bool {
	for _, m := range existing {
		if textutil.JaccardSimilarity(candidate, m.Content) >= reflectDuplicateOverlap {
			return true
		}
	}
	return false
}
