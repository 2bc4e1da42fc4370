package llm

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

var _ contractx.Embedder = (*OpenAIEmbedder)(nil)

// EmbeddingsAPI is the part of the OpenAI SDK the embedder uses.
// *openai.EmbeddingService satisfies it.
type EmbeddingsAPI interface {
	New(ctx context.Context, body openaisdk.EmbeddingNewParams, opts ...option.RequestOption) (*openaisdk.CreateEmbeddingResponse, error)
}

type OpenAIEmbedder struct {
	api   EmbeddingsAPI
	model string
}

func NewOpenAIEmbedder(api EmbeddingsAPI, model string) (*OpenAIEmbedder, error) {
	if api == nil {
		return nil, fmt.Errorf("%w: embeddings api is required", contractx.ErrValidation)
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultEmbeddingModel
	}
	return &OpenAIEmbedder{api: api, model: model}, nil
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) (contractx.Vector, error) {
	input := strings.ReplaceAll(text, "\n", " ")

	resp, err := e.api.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{input},
		},
		Model: openaisdk.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: model=%s: %w", contractx.ErrEmbedding, e.model, err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: model=%s returned no embedding", contractx.ErrEmbedding, e.model)
	}

	vec := make(contractx.Vector, len(resp.Data[0].Embedding))
	copy(vec, resp.Data[0].Embedding)
	return vec, nil
}
