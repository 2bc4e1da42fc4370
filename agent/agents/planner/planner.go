package planner

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	promptx "github.com/tanpawarit/agentic-workflow/agent/prompt"
)

var _ contractx.Planner = (*Planner)(nil)

// Planner turns a goal into an ordered list of steps using a single
// completion grounded in its knowledge.
type Planner struct {
	completer contractx.Completer
	prompts   promptx.PromptSet
	knowledge string
}

func New(completer contractx.Completer, knowledge string) (*Planner, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	return &Planner{
		completer: completer,
		prompts:   promptx.LoadPromptSet(),
		knowledge: knowledge,
	}, nil
}

// Plan returns one step per non-blank line of the completion. Line content is
// kept as written, numbering included.
func (p *Planner) Plan(ctx context.Context, goal string) ([]string, error) {
	msgs, err := promptx.Render(ctx, p.prompts.Planner, promptx.UserInput, map[string]any{
		"knowledge": p.knowledge,
		"input":     goal,
	})
	if err != nil {
		return nil, err
	}

	completion, err := p.completer.Complete(ctx, msgs, false)
	if err != nil {
		return nil, fmt.Errorf("plan goal: %w", err)
	}
	return SplitSteps(completion), nil
}

// SplitSteps splits text on line breaks, trims each line and drops the empty
// ones.
func SplitSteps(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	steps := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			steps = append(steps, line)
		}
	}
	return steps
}
