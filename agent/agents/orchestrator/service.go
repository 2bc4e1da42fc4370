package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	nodex "github.com/tanpawarit/agentic-workflow/agent/nodes/orchestrator"
	statex "github.com/tanpawarit/agentic-workflow/agent/state"
)

var ErrInvalidGoal = nodex.ErrInvalidGoal

type Config struct {
	// Concurrency bounds how many steps are routed at once. Values <= 1 keep
	// strictly sequential execution.
	Concurrency int
}

// Orchestrator drives a goal through planning and routing: the goal is split
// into steps, each step is routed to the best-matching agent and the last
// step's output is the result.
type Orchestrator struct {
	planner contractx.Planner
	router  contractx.Router

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]

	concurrency int

	now   func() time.Time
	newID func() string
}

func New(
	planner contractx.Planner,
	router contractx.Router,
	cfg Config,
) (*Orchestrator, error) {
	if planner == nil {
		return nil, errors.New("planner is required")
	}
	if router == nil {
		return nil, errors.New("router is required")
	}

	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	o := &Orchestrator{
		planner:     planner,
		router:      router,
		concurrency: concurrency,
		now:         time.Now,
		newID:       uuid.NewString,
	}

	graphRunner, err := o.compileRunGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// Run returns the final output of the workflow for goal.
func (o *Orchestrator) Run(ctx context.Context, goal string) (string, error) {
	run, err := o.Execute(ctx, goal)
	if err != nil {
		return "", err
	}
	return run.FinalOutput(), nil
}

// Execute is Run with the full record of planned steps and their outputs.
func (o *Orchestrator) Execute(ctx context.Context, goal string) (*statex.WorkflowRun, error) {
	log.Info().Int("concurrency", o.concurrency).Msg("workflow started")

	out, err := o.graphRunner.Invoke(ctx, nodex.GraphInput{Goal: goal})
	if err != nil {
		log.Error().Err(err).Msg("workflow failed")
		return nil, err
	}

	log.Info().
		Str("run_id", out.Run.ID).
		Int("steps", len(out.Run.Steps)).
		Dur("duration", out.Run.Duration()).
		Msg("workflow finished")
	return out.Run, nil
}
