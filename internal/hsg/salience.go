package hsg

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/hsgmemory/engine/internal/store/metadata"
	"github.com/hsgmemory/engine/internal/store/vector"
	"go.uber.org/zap"
)

// SalienceManager runs the decay_threads cold-memory fingerprinting pool
// from spec §4.8. Unlike the teacher's bare `go func() { ... }()` fire-
// and-forget background jobs (ai/memory/main.go), each worker here is
// joined on Stop via a WaitGroup so shutdown can drain cleanly per spec
// §5's "signal workers -> join within a grace period".
type SalienceManager struct {
	engine *Engine
	logger *zap.Logger

	threads       int
	interval      time.Duration
	coldThreshold float64
	summaryOnly   bool
	regeneration  bool

	cursorMu sync.Mutex
	cursor   int // round-robin offset into the namespace list

	archiver Archiver

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// Archiver offloads cold-memory content to a durable tier outside the
// metadata store (spec.md §6's "optional on-disk cold-memory summaries",
// extended here to an optional external object store). Implementations
// must be safe for concurrent use; internal/archive provides the S3 one.
type Archiver interface {
	Archive(ctx context.Context, namespace, memoryID, content string) (ref string, err error)
}

// SetArchiver wires an optional cold-memory archive tier. Left unset, the
// decay worker pool just keeps the mechanical truncated summary from
// summarize() and never sets ArchiveRef.
func (m *SalienceManager) SetArchiver(a Archiver) {
	m.archiver = a
}

func NewSalienceManager(e *Engine, logger *zap.Logger) *SalienceManager {
	threads := e.cfg.DecayThreads
	if threads <= 0 {
		threads = 1
	}
	return &SalienceManager{
		engine:        e,
		logger:        logger,
		threads:       threads,
		interval:      30 * time.Second,
		coldThreshold: e.cfg.ColdThreshold,
		summaryOnly:   e.cfg.UseSummaryOnly,
		regeneration:  e.cfg.RegenerationEnabled,
		stopCh:        make(chan struct{}),
	}
}

// Start launches the worker pool. Each worker runs one cooperative
// checkpoint per interval: at most one sweep pass, never overlapping
// sweeps on the same worker.
func (m *SalienceManager) Start(ctx context.Context) {
	for i := 0; i < m.threads; i++ {
		m.wg.Add(1)
		go m.runWorker(ctx, i)
	}
}

// Stop signals every worker and blocks until they've all returned,
// implementing spec §5's orderly shutdown for background maintenance.
func (m *SalienceManager) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

func (m *SalienceManager) runWorker(ctx context.Context, id int) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sweepOnce(ctx)
		}
	}
}

// sweepOnce iterates namespaces in round-robin order and fingerprints any
// memory whose salience_now has dropped below cold_threshold.
func (m *SalienceManager) sweepOnce(ctx context.Context) {
	namespaces, err := m.engine.metadata.ListNamespaces(ctx)
	if err != nil || len(namespaces) == 0 {
		return
	}

	m.cursorMu.Lock()
	start := m.cursor % len(namespaces)
	m.cursor++
	m.cursorMu.Unlock()

	ns := namespaces[start].Namespace
	mems, err := m.engine.metadata.ListMemories(ctx, metadata.MemoryFilter{Namespaces: []string{ns}}, 0, 256)
	if err != nil {
		m.logger.Warn("hsg: salience sweep list failed", zap.String("namespace", ns), zap.Error(err))
		return
	}

	now := time.Now().Unix()
	for _, mem := range mems {
		if mem.Fingerprinted {
			continue
		}
		if salienceNow(mem, now) >= m.coldThreshold {
			continue
		}
		m.fingerprint(ctx, mem)
	}
}

func (m *SalienceManager) fingerprint(ctx context.Context, mem metadata.Memory) {
	m.engine.locks.Lock(mem.ID)
	defer m.engine.locks.Unlock(mem.ID)

	updated := mem
	updated.Fingerprinted = true
	updated.UpdatedAt = time.Now().Unix()

	if m.archiver != nil && m.engine.cfg.CompressionEnabled && len(updated.Content) >= m.engine.cfg.CompressionMinLength {
		ns := "global"
		if len(updated.Namespaces) > 0 {
			ns = updated.Namespaces[0]
		}
		ref, err := m.archiver.Archive(ctx, ns, updated.ID, updated.Content)
		if err != nil {
			m.logger.Warn("hsg: cold archive failed", zap.String("memory_id", updated.ID), zap.Error(err))
		} else {
			updated.ArchiveRef = ref
		}
	}

	if m.summaryOnly {
		summary := updated.Summary
		if summary == "" {
			summary = summarize(updated.Content, m.engine.cfg.SummaryMaxLen)
			updated.Summary = summary
		}
		updated.Content = summary
		for _, ns := range updated.Namespaces {
			if err := m.engine.vectors.BatchDelete(ctx, ns, []string{updated.ID}, &updated.PrimarySector); err != nil {
				m.logger.Warn("hsg: fingerprint vector truncation failed", zap.String("memory_id", updated.ID), zap.Error(err))
			}
		}
	}

	if err := m.engine.metadata.UpdateMemory(ctx, updated); err != nil {
		m.logger.Warn("hsg: fingerprint update failed", zap.String("memory_id", updated.ID), zap.Error(err))
		return
	}
	_ = m.engine.metadata.AppendStat(ctx, "cold_fingerprint", 1)
}

// Regenerate re-embeds the surviving summary of a fingerprinted memory to
// restore a full-dimension vector for its primary sector, per spec §4.8's
// "Regeneration" paragraph. Engine.Query calls this asynchronously on an
// exact vector-id hit against a fingerprinted memory.
func (m *SalienceManager) Regenerate(ctx context.Context, mem metadata.Memory) {
	if !m.regeneration || !mem.Fingerprinted {
		return
	}
	content := mem.Content
	if content == "" {
		content = mem.Summary
	}
	v, _, err := m.engine.embed.Embed(ctx, content, mem.PrimarySector)
	if err != nil {
		m.logger.Warn("hsg: regeneration embed failed", zap.String("memory_id", mem.ID), zap.Error(err))
		return
	}
	for _, ns := range mem.Namespaces {
		p := vector.Point{MemoryID: mem.ID, Namespace: ns, Sector: mem.PrimarySector, Vector: v}
		if err := m.engine.vectors.Upsert(ctx, p); err != nil {
			m.logger.Warn("hsg: regeneration upsert failed", zap.String("memory_id", mem.ID), zap.Error(err))
			return
		}
	}
	_ = m.engine.metadata.AppendStat(ctx, "regeneration", 1)
}

// summarize produces a deterministic truncated summary. The write path
// never fills Summary, so this mechanical truncation is the summary the
// decay worker stores when a memory reaches cold_threshold.
func summarize(content string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = 280
	}
	r := []rune(content)
	if len(r) <= maxLen {
		return content
	}
	cut := int(math.Max(0, float64(maxLen-1)))
	return string(r[:cut]) + "…"
}
