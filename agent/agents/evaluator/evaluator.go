// Package evaluator implements the bounded evaluate-refine loop around a
// specialist.
package evaluator

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	promptx "github.com/tanpawarit/agentic-workflow/agent/prompt"
)

const DefaultMaxInteractions = 5

// affirmativeToken is matched case-insensitively anywhere in the judgment.
const affirmativeToken = "yes"

var _ contractx.Specialist = (*Evaluator)(nil)

type Config struct {
	// Persona describes the evaluator. It is not sent to the model: judgment
	// and correction calls carry only the criteria and the response.
	Persona         string
	Criteria        string
	MaxInteractions int
}

type Evaluator struct {
	completer contractx.Completer
	worker    contractx.Specialist
	prompts   promptx.PromptSet

	persona         string
	criteria        string
	maxInteractions int
}

func New(completer contractx.Completer, worker contractx.Specialist, cfg Config) (*Evaluator, error) {
	if completer == nil {
		return nil, fmt.Errorf("%w: completer is required", contractx.ErrValidation)
	}
	if worker == nil {
		return nil, fmt.Errorf("%w: worker specialist is required", contractx.ErrValidation)
	}
	criteria := strings.TrimSpace(cfg.Criteria)
	if criteria == "" {
		return nil, fmt.Errorf("%w: evaluation criteria is required", contractx.ErrValidation)
	}

	maxInteractions := cfg.MaxInteractions
	if maxInteractions == 0 {
		maxInteractions = DefaultMaxInteractions
	}
	if maxInteractions < 0 {
		return nil, fmt.Errorf("%w: max interactions must be > 0", contractx.ErrValidation)
	}

	return &Evaluator{
		completer:       completer,
		worker:          worker,
		prompts:         promptx.LoadPromptSet(),
		persona:         strings.TrimSpace(cfg.Persona),
		criteria:        criteria,
		maxInteractions: maxInteractions,
	}, nil
}

func (e *Evaluator) Persona() string {
	return e.persona
}

func (e *Evaluator) MaxInteractions() int {
	return e.maxInteractions
}

// Evaluate asks the worker for a response, judges it against the criteria
// and, while rejected, wraps the previous request, response and correction
// instructions into the next request. Each call starts from scratch.
func (e *Evaluator) Evaluate(ctx context.Context, request string) (contractx.EvaluationResult, error) {
	current := request
	attempts := make([]contractx.Attempt, 0, e.maxInteractions)

	for i := 1; i <= e.maxInteractions; i++ {
		response, err := e.worker.Respond(ctx, current)
		if err != nil {
			return contractx.EvaluationResult{}, fmt.Errorf("worker respond (iteration %d): %w", i, err)
		}

		judgment, err := e.judge(ctx, response)
		if err != nil {
			return contractx.EvaluationResult{}, fmt.Errorf("judge response (iteration %d): %w", i, err)
		}

		attempt := contractx.Attempt{
			Request:  current,
			Response: response,
			Judgment: judgment,
		}

		if isAffirmative(judgment) {
			attempts = append(attempts, attempt)
			log.Debug().Int("iteration", i).Str("judgment", judgment).Msg("evaluation accepted")
			return contractx.EvaluationResult{
				FinalResponse:  response,
				Evaluation:     judgment,
				Verdict:        contractx.VerdictAccepted,
				IterationCount: i,
				Attempts:       attempts,
			}, nil
		}

		instructions, err := e.correct(ctx, response)
		if err != nil {
			return contractx.EvaluationResult{}, fmt.Errorf("correction instructions (iteration %d): %w", i, err)
		}
		attempt.Instructions = instructions
		attempts = append(attempts, attempt)

		log.Debug().Int("iteration", i).Str("judgment", judgment).Msg("evaluation rejected")

		current, err = promptx.Format(ctx, e.prompts.Refinement, map[string]any{
			"request":      current,
			"response":     response,
			"instructions": instructions,
		})
		if err != nil {
			return contractx.EvaluationResult{}, err
		}
	}

	log.Info().Int("max_interactions", e.maxInteractions).Msg("evaluation exhausted")
	return contractx.EvaluationResult{
		FinalResponse:  contractx.EvaluationFailedResponse,
		Evaluation:     contractx.EvaluationFailedVerdict,
		Verdict:        contractx.VerdictFailed,
		IterationCount: e.maxInteractions,
		Attempts:       attempts,
	}, nil
}

// Respond makes an evaluator usable anywhere a specialist is expected; it
// returns the settled response of Evaluate.
func (e *Evaluator) Respond(ctx context.Context, request string) (string, error) {
	result, err := e.Evaluate(ctx, request)
	if err != nil {
		return "", err
	}
	return result.FinalResponse, nil
}

func (e *Evaluator) judge(ctx context.Context, response string) (string, error) {
	judgment, err := e.ask(ctx, e.prompts.Judgment, response)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(judgment), nil
}

func (e *Evaluator) correct(ctx context.Context, response string) (string, error) {
	return e.ask(ctx, e.prompts.Correction, response)
}

func (e *Evaluator) ask(ctx context.Context, template, response string) (string, error) {
	msgs, err := promptx.Render(ctx, "", template, map[string]any{
		"criteria": e.criteria,
		"response": response,
	})
	if err != nil {
		return "", err
	}
	return e.completer.Complete(ctx, msgs, true)
}

func isAffirmative(judgment string) bool {
	return strings.Contains(strings.ToLower(judgment), affirmativeToken)
}
