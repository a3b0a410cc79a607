package embedder

import (
	"context"
	"fmt"

	"github.com/hsgmemory/engine/internal/sector"
	"google.golang.org/genai"
)

// Gemini embeds text with Google's text-embedding models, grounded on
// apis/gemini/api.go's genai.Client usage (generalized from content
// generation to the embeddings endpoint).
type Gemini struct {
	client *genai.Client
	model  string
	dim    int
}

func NewGemini(ctx context.Context, apiKey, model string, dim int) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, dim: dim}, nil
}

func (g *Gemini) Dim() int     { return g.dim }
func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Embed(ctx context.Context, text string, _ sector.Sector) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embed content: empty response")
	}
	return Normalize(append([]float32(nil), resp.Embeddings[0].Values...)), nil
}
