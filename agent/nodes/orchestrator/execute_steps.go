package orchestratornode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	"golang.org/x/sync/errgroup"
)

// ExecuteSteps routes every planned step. With concurrency <= 1 steps run one
// after another in plan order; otherwise up to concurrency steps are in flight
// and results are still recorded in plan order.
func ExecuteSteps(
	ctx context.Context,
	in *GraphState,
	router contractx.Router,
	concurrency int,
) (*GraphState, error) {
	if in == nil || in.Run == nil {
		return nil, fmt.Errorf("%w: graph run is nil", contractx.ErrValidation)
	}

	if concurrency <= 1 || len(in.Run.Steps) <= 1 {
		return executeSequential(ctx, in, router)
	}
	return executeConcurrent(ctx, in, router, concurrency)
}

func executeSequential(ctx context.Context, in *GraphState, router contractx.Router) (*GraphState, error) {
	for i, step := range in.Run.Steps {
		out, err := routeStep(ctx, router, in.Run.ID, i, step)
		if err != nil {
			return nil, err
		}
		if err := in.Run.AppendResult(out); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func executeConcurrent(ctx context.Context, in *GraphState, router contractx.Router, concurrency int) (*GraphState, error) {
	outputs := make([]string, len(in.Run.Steps))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, step := range in.Run.Steps {
		g.Go(func() error {
			out, err := routeStep(gctx, router, in.Run.ID, i, step)
			if err != nil {
				return err
			}
			outputs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := in.Run.SetOutputs(outputs); err != nil {
		return nil, err
	}
	return in, nil
}

func routeStep(ctx context.Context, router contractx.Router, runID string, idx int, step string) (string, error) {
	out, err := router.Route(ctx, step)
	if err != nil {
		return "", fmt.Errorf("route step %d: %w", idx+1, err)
	}
	log.Debug().Str("run_id", runID).Int("step", idx+1).Str("request", step).Msg("step routed")
	return out, nil
}
