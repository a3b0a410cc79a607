package embedder

import (
	"context"
	"sync/atomic"

	"github.com/hsgmemory/engine/internal/sector"
	"go.uber.org/zap"
)

// Chain wraps a primary provider with a Synthetic fallback so the write
// path never stalls on a provider fault (spec §4.2). Fallback use is
// observable via FallbackCount and via the boolean Embed returns, which
// Engine.Store records as an embed_fallback stats row and on the memory's
// EmbedFallback flag.
type Chain struct {
	primary   Embedder
	fallback  *Synthetic
	logger    *zap.Logger
	fallbacks int64
}

func NewChain(primary Embedder, dim int, logger *zap.Logger) *Chain {
	return &Chain{
		primary:  primary,
		fallback: NewSynthetic(dim),
		logger:   logger,
	}
}

func (c *Chain) Dim() int     { return c.fallback.Dim() }
func (c *Chain) Name() string { return c.primary.Name() }

// Embed tries the primary provider and falls back to the synthetic
// embedder on any error, returning (vector, usedFallback, error). error is
// always nil here: the synthetic embedder cannot itself fail.
func (c *Chain) Embed(ctx context.Context, text string, sec sector.Sector) ([]float32, bool, error) {
	v, err := c.primary.Embed(ctx, text, sec)
	if err == nil {
		return v, false, nil
	}
	if c.logger != nil {
		c.logger.Warn("hsg: embed provider failed, falling back to synthetic",
			zap.String("provider", c.primary.Name()), zap.Error(err))
	}
	atomic.AddInt64(&c.fallbacks, 1)
	v, _ = c.fallback.Embed(ctx, text, sec)
	return v, true, nil
}

func (c *Chain) FallbackCount() int64 {
	return atomic.LoadInt64(&c.fallbacks)
}

// EmbedQuery embeds query text against the primary provider only. Unlike
// Embed, it never falls back to the synthetic embedder: a query vector
// from a different embedding space than what's indexed would silently
// return meaningless nearest-neighbor results instead of failing, so the
// query path must surface the primary's error (spec §7, EmbedError ->
// ServiceUnavailable) rather than swallow it.
func (c *Chain) EmbedQuery(ctx context.Context, text string, sec sector.Sector) ([]float32, error) {
	return c.primary.Embed(ctx, text, sec)
}
