package specialist

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	promptx "github.com/tanpawarit/agentic-workflow/agent/prompt"
)

var (
	_ contractx.Specialist = (*Direct)(nil)
	_ contractx.Specialist = (*Persona)(nil)
	_ contractx.Specialist = (*Knowledge)(nil)
)

// Direct forwards the request with no system framing.
type Direct struct {
	completer contractx.Completer
}

func NewDirect(completer contractx.Completer) (*Direct, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	return &Direct{completer: completer}, nil
}

func (s *Direct) Respond(ctx context.Context, request string) (string, error) {
	return respond(ctx, s.completer, "", map[string]any{"input": request})
}

// Persona answers in character, with no knowledge constraint.
type Persona struct {
	completer contractx.Completer
	system    string
	persona   string
}

func NewPersona(completer contractx.Completer, persona string) (*Persona, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	persona = strings.TrimSpace(persona)
	if persona == "" {
		return nil, fmt.Errorf("%w: persona is required", contractx.ErrValidation)
	}
	return &Persona{
		completer: completer,
		system:    promptx.LoadPromptSet().Persona,
		persona:   persona,
	}, nil
}

func (s *Persona) Respond(ctx context.Context, request string) (string, error) {
	return respond(ctx, s.completer, s.system, map[string]any{
		"persona": s.persona,
		"input":   request,
	})
}

// Knowledge answers only from the knowledge it was given, even when that
// knowledge is wrong.
type Knowledge struct {
	completer contractx.Completer
	system    string
	persona   string
	knowledge string
}

func NewKnowledge(completer contractx.Completer, persona, knowledge string) (*Knowledge, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	persona = strings.TrimSpace(persona)
	if persona == "" {
		return nil, fmt.Errorf("%w: persona is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(knowledge) == "" {
		return nil, fmt.Errorf("%w: knowledge is required", contractx.ErrValidation)
	}
	return &Knowledge{
		completer: completer,
		system:    promptx.LoadPromptSet().Knowledge,
		persona:   persona,
		knowledge: knowledge,
	}, nil
}

func (s *Knowledge) Respond(ctx context.Context, request string) (string, error) {
	return respond(ctx, s.completer, s.system, map[string]any{
		"persona":   s.persona,
		"knowledge": s.knowledge,
		"input":     request,
	})
}

func respond(ctx context.Context, completer contractx.Completer, system string, vars map[string]any) (string, error) {
	msgs, err := promptx.Render(ctx, system, promptx.UserInput, vars)
	if err != nil {
		return "", err
	}
	return completer.Complete(ctx, msgs, false)
}
