package state

import (
	"errors"
	"fmt"
	"time"

	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

// WorkflowRun is the in-memory record of one pipeline execution. It is owned
// by a single Execute call and never persisted.
type WorkflowRun struct {
	ID    string   `json:"id"`
	Goal  string   `json:"goal"`
	Steps []string `json:"steps,omitempty"`

	// Results is index-aligned with Steps once the run has finished.
	Results []StepResult `json:"results,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

type StepResult struct {
	Index  int    `json:"index"`
	Step   string `json:"step"`
	Output string `json:"output"`
}

var (
	ErrNilRun          = errors.New("nil workflow run")
	ErrEmptyRunID      = errors.New("workflow run id is empty")
	ErrStepOutOfRange  = errors.New("step index out of range")
	ErrResultMisplaced = errors.New("step result misplaced")
)

func NewWorkflowRun(id, goal string, now time.Time) *WorkflowRun {
	return &WorkflowRun{
		ID:        id,
		Goal:      goal,
		StartedAt: now.UTC(),
	}
}

/* ----------------------------- Run helpers ----------------------------- */

// SetSteps records the plan and resets any previous results.
func (r *WorkflowRun) SetSteps(steps []string) {
	r.Steps = append([]string(nil), steps...)
	r.Results = make([]StepResult, 0, len(steps))
}

// AppendResult records the output of the next step in plan order.
func (r *WorkflowRun) AppendResult(output string) error {
	if r == nil {
		return ErrNilRun
	}
	idx := len(r.Results)
	if idx >= len(r.Steps) {
		return fmt.Errorf("%w: %d of %d", ErrStepOutOfRange, idx, len(r.Steps))
	}
	r.Results = append(r.Results, StepResult{Index: idx, Step: r.Steps[idx], Output: output})
	return nil
}

// SetOutputs records every step output at once. outputs must be index-aligned
// with Steps.
func (r *WorkflowRun) SetOutputs(outputs []string) error {
	if r == nil {
		return ErrNilRun
	}
	if len(outputs) != len(r.Steps) {
		return fmt.Errorf("%w: %d outputs for %d steps", ErrStepOutOfRange, len(outputs), len(r.Steps))
	}
	r.Results = make([]StepResult, len(outputs))
	for i, out := range outputs {
		r.Results[i] = StepResult{Index: i, Step: r.Steps[i], Output: out}
	}
	return nil
}

// FinalOutput is the output of the last step, or the no-output sentinel when
// nothing ran.
func (r *WorkflowRun) FinalOutput() string {
	if r == nil || len(r.Results) == 0 {
		return contractx.NoOutputGenerated
	}
	return r.Results[len(r.Results)-1].Output
}

func (r *WorkflowRun) Finish(now time.Time) {
	r.FinishedAt = now.UTC()
}

func (r *WorkflowRun) Duration() time.Duration {
	if r == nil || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *WorkflowRun) Validate() error {
	if r == nil {
		return ErrNilRun
	}
	if r.ID == "" {
		return ErrEmptyRunID
	}
	if len(r.Results) > len(r.Steps) {
		return fmt.Errorf("%w: %d results for %d steps", ErrStepOutOfRange, len(r.Results), len(r.Steps))
	}
	for i, res := range r.Results {
		if res.Index != i || res.Step != r.Steps[i] {
			return fmt.Errorf("%w: result %d holds step %d", ErrResultMisplaced, i, res.Index)
		}
	}
	return nil
}
