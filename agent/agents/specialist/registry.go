package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

type Kind string

const (
	KindDirect    Kind = "direct"
	KindPersona   Kind = "persona"
	KindKnowledge Kind = "knowledge"
	KindRetrieval Kind = "retrieval"
)

// Spec describes one specialist independently of its collaborators.
type Spec struct {
	Kind      Kind
	Persona   string
	Knowledge string
	Documents []string
}

// New builds the specialist variant named by spec.Kind. The embedder is only
// required for retrieval specialists.
func New(
	ctx context.Context,
	spec Spec,
	completer contractx.Completer,
	embedder contractx.Embedder,
) (contractx.Specialist, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(string(spec.Kind)))) {
	case KindDirect:
		return NewDirect(completer)
	case KindPersona:
		return NewPersona(completer, spec.Persona)
	case KindKnowledge:
		return NewKnowledge(completer, spec.Persona, spec.Knowledge)
	case KindRetrieval:
		return NewRetrieval(ctx, completer, embedder, spec.Documents)
	default:
		return nil, fmt.Errorf("%w: unsupported specialist kind=%q", contractx.ErrValidation, spec.Kind)
	}
}
