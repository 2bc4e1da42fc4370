package orchestratornode

import (
	"errors"
	"strings"
	"time"

	statex "github.com/tanpawarit/agentic-workflow/agent/state"
)

var ErrInvalidGoal = errors.New("goal is empty")

type GraphInput struct {
	Goal string
}

type GraphOutput struct {
	Output string
	Run    *statex.WorkflowRun
}

type GraphState struct {
	Goal string
	Run  *statex.WorkflowRun
}

func ValidateRequest(in GraphInput, newID func() string, nowFn func() time.Time) (*GraphState, error) {
	goal := strings.TrimSpace(in.Goal)
	if goal == "" {
		return nil, ErrInvalidGoal
	}

	return &GraphState{
		Goal: goal,
		Run:  statex.NewWorkflowRun(newID(), goal, nowFn()),
	}, nil
}
