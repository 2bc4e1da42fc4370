package orchestrator

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/agentic-workflow/agent/nodes/orchestrator"
)

func (o *Orchestrator) compileRunGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, o.newID, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("plan_steps",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.PlanSteps(ctx, in, o.planner)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_steps: %w", err)
	}

	if err := graph.AddLambdaNode("execute_steps",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.ExecuteSteps(ctx, in, o.router, o.concurrency)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node execute_steps: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_output",
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.FinalizeOutput(in, o.now)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_output: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "plan_steps"},
		{"plan_steps", "execute_steps"},
		{"execute_steps", "finalize_output"},
		{"finalize_output", compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.run_workflow"))
	if err != nil {
		return nil, fmt.Errorf("compile orchestrator graph: %w", err)
	}
	return runner, nil
}
