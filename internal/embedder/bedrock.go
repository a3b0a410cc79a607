package embedder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/hsgmemory/engine/internal/sector"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Bedrock embeds text with Amazon Titan embeddings via the Bedrock Runtime
// API. This extends spec.md's provider enum (openai|gemini|ollama|local)
// with a further real provider pulled from the teacher's AWS stack - see
// the Embedding section of DESIGN.md.
type Bedrock struct {
	client  *bedrockruntime.Client
	modelID string
	dim     int
}

type titanEmbedRequest struct {
	InputText string `json:"inputText"`
}

type titanEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func NewBedrock(ctx context.Context, region, modelID string, dim int) (*Bedrock, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("bedrock: load aws config: %w", err)
	}
	return &Bedrock{
		client:  bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
		dim:     dim,
	}, nil
}

func (b *Bedrock) Dim() int     { return b.dim }
func (b *Bedrock) Name() string { return "bedrock" }

func (b *Bedrock) Embed(ctx context.Context, text string, _ sector.Sector) ([]float32, error) {
	body, err := json.Marshal(titanEmbedRequest{InputText: text})
	if err != nil {
		return nil, fmt.Errorf("bedrock: marshal request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, fmt.Errorf("bedrock: invoke model: %w", err)
	}

	var resp titanEmbedResponse
	if err := json.NewDecoder(bytes.NewReader(out.Body)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("bedrock: decode response: %w", err)
	}
	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("bedrock: empty embedding")
	}
	return Normalize(resp.Embedding), nil
}
