// Package router dispatches a request to the registered specialist whose
// description is semantically closest to it.
package router

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	"github.com/tanpawarit/agentic-workflow/agent/similarity"
)

var _ contractx.Router = (*Router)(nil)

type Option func(*Router)

// WithDescriptionCache keeps description embeddings for the lifetime of the
// router. An entry is dropped when its descriptor is re-registered and is
// ignored if the description text no longer matches.
func WithDescriptionCache() Option {
	return func(r *Router) {
		r.cache = make(map[string]cachedEmbedding)
	}
}

type cachedEmbedding struct {
	description string
	vector      contractx.Vector
}

// Router holds an ordered registry of agent descriptors. Registration order
// decides ties.
type Router struct {
	embedder contractx.Embedder

	mu     sync.RWMutex
	agents []contractx.AgentDescriptor

	cacheMu sync.Mutex
	cache   map[string]cachedEmbedding
}

// Selection is the outcome of one routing decision.
type Selection struct {
	Agent  contractx.AgentDescriptor
	Index  int
	Score  float64
	Scores []float64
}

func New(embedder contractx.Embedder, opts ...Option) (*Router, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", contractx.ErrValidation)
	}
	r := &Router{embedder: embedder}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Register adds a descriptor. A descriptor with an existing name replaces the
// old one and keeps its position.
func (r *Router) Register(agent contractx.AgentDescriptor) error {
	agent.Name = strings.TrimSpace(agent.Name)
	if agent.Name == "" {
		return fmt.Errorf("%w: agent name is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(agent.Description) == "" {
		return fmt.Errorf("%w: agent=%s description is required", contractx.ErrValidation, agent.Name)
	}
	if agent.Handler == nil {
		return fmt.Errorf("%w: agent=%s handler is required", contractx.ErrValidation, agent.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.invalidate(agent.Name)
	for i := range r.agents {
		if r.agents[i].Name == agent.Name {
			r.agents[i] = agent
			return nil
		}
	}
	r.agents = append(r.agents, agent)
	return nil
}

// Agents returns a snapshot of the registry in registration order.
func (r *Router) Agents() []contractx.AgentDescriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]contractx.AgentDescriptor(nil), r.agents...)
}

// Lookup returns the descriptor registered under name.
func (r *Router) Lookup(name string) (contractx.AgentDescriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.agents {
		if a.Name == name {
			return a, true
		}
	}
	return contractx.AgentDescriptor{}, false
}

// Select scores every registered descriptor against request and returns the
// first one with the highest similarity. ok is false for an empty registry.
func (r *Router) Select(ctx context.Context, request string) (Selection, bool, error) {
	agents := r.Agents()
	if len(agents) == 0 {
		return Selection{}, false, nil
	}

	query, err := r.embedder.Embed(ctx, request)
	if err != nil {
		return Selection{}, false, fmt.Errorf("embed request: %w", err)
	}

	descriptions := make([]contractx.Vector, 0, len(agents))
	for _, a := range agents {
		vec, err := r.describe(ctx, a)
		if err != nil {
			return Selection{}, false, fmt.Errorf("embed description of agent=%s: %w", a.Name, err)
		}
		descriptions = append(descriptions, vec)
	}

	scores := make([]float64, len(descriptions))
	for i, d := range descriptions {
		scores[i] = similarity.Cosine(query, d)
	}
	idx := similarity.Argmax(scores)
	score := scores[idx]

	log.Debug().
		Str("agent", agents[idx].Name).
		Float64("score", score).
		Floats64("scores", scores).
		Msg("routing decision")

	return Selection{
		Agent:  agents[idx],
		Index:  idx,
		Score:  score,
		Scores: scores,
	}, true, nil
}

// Route forwards request, unmodified, to the selected agent and returns its
// response verbatim.
func (r *Router) Route(ctx context.Context, request string) (string, error) {
	sel, ok, err := r.Select(ctx, request)
	if err != nil {
		return "", err
	}
	if !ok {
		log.Warn().Msg("routing with empty registry")
		return contractx.NoSuitableTarget, nil
	}
	return sel.Agent.Handler.Respond(ctx, request)
}

func (r *Router) describe(ctx context.Context, agent contractx.AgentDescriptor) (contractx.Vector, error) {
	if r.cache == nil {
		return r.embedder.Embed(ctx, agent.Description)
	}

	r.cacheMu.Lock()
	cached, ok := r.cache[agent.Name]
	r.cacheMu.Unlock()
	if ok && cached.description == agent.Description {
		return cached.vector, nil
	}

	vec, err := r.embedder.Embed(ctx, agent.Description)
	if err != nil {
		return nil, err
	}

	r.cacheMu.Lock()
	r.cache[agent.Name] = cachedEmbedding{description: agent.Description, vector: vec}
	r.cacheMu.Unlock()
	return vec, nil
}

func (r *Router) invalidate(name string) {
	if r.cache == nil {
		return
	}
	r.cacheMu.Lock()
	delete(r.cache, name)
	r.cacheMu.Unlock()
}
