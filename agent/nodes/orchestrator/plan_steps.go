package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

func PlanSteps(
	ctx context.Context,
	in *GraphState,
	planner contractx.Planner,
) (*GraphState, error) {
	if in == nil || in.Run == nil {
		return nil, fmt.Errorf("%w: graph run is nil", contractx.ErrValidation)
	}

	steps, err := planner.Plan(ctx, in.Goal)
	if err != nil {
		return nil, err
	}

	in.Run.SetSteps(steps)
	log.Debug().Str("run_id", in.Run.ID).Int("steps", len(steps)).Msg("plan ready")
	return in, nil
}
