package embedder

import (
	"context"
	"fmt"

	"github.com/hsgmemory/engine/internal/config"
	"go.uber.org/zap"
)

// New builds the configured provider wrapped in a Chain that falls back to
// the synthetic embedder on fault, per spec §4.2.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Chain, error) {
	var primary Embedder

	switch cfg.EmbedProvider {
	case config.EmbedOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("embedder: openai selected but OPENAI_KEY is empty")
		}
		primary = NewOpenAI(cfg.OpenAIKey, "text-embedding-3-small", cfg.VecDim)
	case config.EmbedGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("embedder: gemini selected but GEMINI_API_KEY is empty")
		}
		g, err := NewGemini(ctx, cfg.GeminiAPIKey, "text-embedding-004", cfg.VecDim)
		if err != nil {
			return nil, err
		}
		primary = g
	case config.EmbedBedrock:
		b, err := NewBedrock(ctx, cfg.AWSRegion, "amazon.titan-embed-text-v2:0", cfg.VecDim)
		if err != nil {
			return nil, err
		}
		primary = b
	default:
		primary = NewSynthetic(cfg.VecDim)
	}

	return NewChain(primary, cfg.VecDim, logger), nil
}
