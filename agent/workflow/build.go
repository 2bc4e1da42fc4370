package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	evaluatorx "github.com/tanpawarit/agentic-workflow/agent/agents/evaluator"
	plannerx "github.com/tanpawarit/agentic-workflow/agent/agents/planner"
	routerx "github.com/tanpawarit/agentic-workflow/agent/agents/router"
	specialistx "github.com/tanpawarit/agentic-workflow/agent/agents/specialist"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

// Clients are the external collaborators shared by the whole team. Planner,
// Specialist and Evaluator fall back to Completer when nil.
type Clients struct {
	Completer contractx.Completer
	Embedder  contractx.Embedder

	Planner    contractx.Completer
	Specialist contractx.Completer
	Evaluator  contractx.Completer
}

func (c Clients) forRole(role contractx.AgentRole) contractx.Completer {
	var picked contractx.Completer
	switch role {
	case contractx.AgentRolePlanner:
		picked = c.Planner
	case contractx.AgentRoleSpecialist:
		picked = c.Specialist
	case contractx.AgentRoleEvaluator:
		picked = c.Evaluator
	}
	if picked == nil {
		return c.Completer
	}
	return picked
}

type Team struct {
	Planner *plannerx.Planner
	Router  *routerx.Router

	// Evaluators holds the evaluation loop of every agent that declares one,
	// keyed by agent name.
	Evaluators map[string]*evaluatorx.Evaluator
}

// Build wires a definition into a ready team. Agents with an evaluation are
// registered behind their evaluator so routed requests get the refined
// response.
func Build(ctx context.Context, def *Definition, clients Clients) (*Team, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: workflow definition is nil", contractx.ErrValidation)
	}
	if clients.Embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", contractx.ErrValidation)
	}

	planner, err := plannerx.New(clients.forRole(contractx.AgentRolePlanner), def.Planner.Knowledge)
	if err != nil {
		return nil, fmt.Errorf("build planner: %w", err)
	}

	var opts []routerx.Option
	if def.Router.CacheDescriptions {
		opts = append(opts, routerx.WithDescriptionCache())
	}
	router, err := routerx.New(clients.Embedder, opts...)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	team := &Team{
		Planner:    planner,
		Router:     router,
		Evaluators: make(map[string]*evaluatorx.Evaluator, len(def.Agents)),
	}

	for _, a := range def.Agents {
		name := strings.TrimSpace(a.Name)

		handler, err := specialistx.New(ctx, a.Spec(), clients.forRole(contractx.AgentRoleSpecialist), clients.Embedder)
		if err != nil {
			return nil, fmt.Errorf("build agent %q: %w", name, err)
		}

		if a.Evaluation != nil {
			ev, err := evaluatorx.New(clients.forRole(contractx.AgentRoleEvaluator), handler, evaluatorx.Config{
				Persona:         a.Evaluation.Persona,
				Criteria:        a.Evaluation.Criteria,
				MaxInteractions: a.Evaluation.MaxInteractions,
			})
			if err != nil {
				return nil, fmt.Errorf("build evaluator for %q: %w", name, err)
			}
			team.Evaluators[name] = ev
			handler = ev
		}

		if err := router.Register(contractx.AgentDescriptor{
			Name:        name,
			Description: a.Description,
			Handler:     handler,
		}); err != nil {
			return nil, fmt.Errorf("register agent %q: %w", name, err)
		}
	}

	if len(def.Agents) == 0 {
		log.Warn().Msg("workflow has no agents; every step will report no suitable agent")
	}
	log.Debug().Int("agents", len(def.Agents)).Int("evaluated", len(team.Evaluators)).Msg("workflow team built")
	return team, nil
}
