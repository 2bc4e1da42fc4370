package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Specialist turns a natural-language request into a natural-language response.
type Specialist interface {
	Respond(ctx context.Context, request string) (string, error)
}

// Completer is the text-completion collaborator. deterministic pins the
// sampling temperature to zero.
type Completer interface {
	Complete(ctx context.Context, messages []*schema.Message, deterministic bool) (string, error)
}

// Embedder is the embedding collaborator.
type Embedder interface {
	Embed(ctx context.Context, text string) (Vector, error)
}

type Planner interface {
	Plan(ctx context.Context, goal string) ([]string, error)
}

type Router interface {
	Route(ctx context.Context, request string) (string, error)
}
