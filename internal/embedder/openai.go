package embedder

import (
	"context"
	"fmt"

	"github.com/hsgmemory/engine/internal/sector"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAI embeds text with the OpenAI embeddings API, grounded on
// internal/openai/embeddings.go's GenerateEmbeddings.
type OpenAI struct {
	client openai.Client
	model  string
	dim    int
}

func NewOpenAI(apiKey, model string, dim int) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		dim:    dim,
	}
}

func (o *OpenAI) Dim() int     { return o.dim }
func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Embed(ctx context.Context, text string, _ sector.Sector) ([]float32, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
		Model:          openai.EmbeddingModel(o.model),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embeddings: empty response")
	}
	raw := resp.Data[0].Embedding
	v := make([]float32, len(raw))
	for i, f := range raw {
		v[i] = float32(f)
	}
	return Normalize(v), nil
}
