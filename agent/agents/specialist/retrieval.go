package specialist

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	promptx "github.com/tanpawarit/agentic-workflow/agent/prompt"
	"github.com/tanpawarit/agentic-workflow/agent/similarity"
)

var _ contractx.Specialist = (*Retrieval)(nil)

// Retrieval answers from the single knowledge-base document most similar to
// the request. Document embeddings are computed once, at construction.
type Retrieval struct {
	completer  contractx.Completer
	embedder   contractx.Embedder
	system     string
	user       string
	documents  []string
	embeddings []contractx.Vector
}

func NewRetrieval(
	ctx context.Context,
	completer contractx.Completer,
	embedder contractx.Embedder,
	documents []string,
) (*Retrieval, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", contractx.ErrValidation)
	}

	prompts := promptx.LoadPromptSet()
	r := &Retrieval{
		completer:  completer,
		embedder:   embedder,
		system:     prompts.RetrievalSystem,
		user:       prompts.RetrievalUser,
		documents:  append([]string(nil), documents...),
		embeddings: make([]contractx.Vector, 0, len(documents)),
	}

	for i, doc := range r.documents {
		vec, err := embedder.Embed(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("embed knowledge document %d: %w", i, err)
		}
		r.embeddings = append(r.embeddings, vec)
	}

	log.Debug().Int("documents", len(r.documents)).Msg("retrieval specialist initialized")
	return r, nil
}

// Retrieve returns the most relevant document and its index, or the
// no-relevant-information marker and -1 for an empty knowledge base.
func (r *Retrieval) Retrieve(ctx context.Context, request string) (string, int, error) {
	if len(r.documents) == 0 {
		return contractx.NoRelevantInformation, -1, nil
	}

	query, err := r.embedder.Embed(ctx, request)
	if err != nil {
		return "", -1, err
	}

	idx, score := similarity.Best(query, r.embeddings)
	log.Debug().Int("document", idx).Float64("score", score).Msg("retrieved knowledge document")
	return r.documents[idx], idx, nil
}

func (r *Retrieval) Respond(ctx context.Context, request string) (string, error) {
	doc, _, err := r.Retrieve(ctx, request)
	if err != nil {
		return "", err
	}

	msgs, err := promptx.Render(ctx, r.system, r.user, map[string]any{
		"context": doc,
		"input":   request,
	})
	if err != nil {
		return "", err
	}
	return r.completer.Complete(ctx, msgs, false)
}
