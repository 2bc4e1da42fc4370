package evaluator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

const criteria = "The answer should be solely the name of a city, not a sentence."

type scriptedCompleter struct {
	judgments     []string
	judgmentCalls int
	correctCalls  int
	lastMessages  []*schema.Message
	deterministic []bool
	err           error
}

func (s *scriptedCompleter) Complete(ctx context.Context, messages []*schema.Message, deterministic bool) (string, error) {
	s.lastMessages = messages
	s.deterministic = append(s.deterministic, deterministic)
	if s.err != nil {
		return "", s.err
	}
	user := messages[len(messages)-1].Content
	if strings.Contains(user, "Does it meet the criteria?") {
		reply := "No"
		if s.judgmentCalls < len(s.judgments) {
			reply = s.judgments[s.judgmentCalls]
		}
		s.judgmentCalls++
		return reply, nil
	}
	s.correctCalls++
	return fmt.Sprintf("Answer with the city name only (correction %d).", s.correctCalls), nil
}

type recordingWorker struct {
	requests []string
	err      error
}

func (w *recordingWorker) Respond(ctx context.Context, request string) (string, error) {
	w.requests = append(w.requests, request)
	if w.err != nil {
		return "", w.err
	}
	return fmt.Sprintf("attempt %d", len(w.requests)), nil
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	worker := &recordingWorker{}
	completer := &scriptedCompleter{}

	_, err := New(nil, worker, Config{Criteria: criteria})
	assert.ErrorIs(t, err, contractx.ErrValidation)

	_, err = New(completer, nil, Config{Criteria: criteria})
	assert.ErrorIs(t, err, contractx.ErrValidation)

	_, err = New(completer, worker, Config{Criteria: "  "})
	assert.ErrorIs(t, err, contractx.ErrValidation)

	_, err = New(completer, worker, Config{Criteria: criteria, MaxInteractions: -1})
	assert.ErrorIs(t, err, contractx.ErrValidation)

	e, err := New(completer, worker, Config{Criteria: criteria})
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxInteractions, e.MaxInteractions())
}

func TestEvaluateAcceptedOnFirstYes(t *testing.T) {
	t.Parallel()

	for k := 1; k <= 4; k++ {
		t.Run(fmt.Sprintf("accepted_at_%d", k), func(t *testing.T) {
			t.Parallel()

			judgments := make([]string, k)
			for i := range judgments {
				judgments[i] = "No"
			}
			judgments[k-1] = "YES, it does."

			completer := &scriptedCompleter{judgments: judgments}
			worker := &recordingWorker{}
			e, err := New(completer, worker, Config{Criteria: criteria, MaxInteractions: 5})
			require.NoError(t, err)

			result, err := e.Evaluate(context.Background(), "What is the capital of France?")
			require.NoError(t, err)

			assert.True(t, result.Accepted())
			assert.Equal(t, k, result.IterationCount)
			assert.Equal(t, fmt.Sprintf("attempt %d", k), result.FinalResponse)
			assert.Equal(t, "YES, it does.", result.Evaluation)
			assert.Len(t, result.Attempts, k)
			assert.Equal(t, k, completer.judgmentCalls)
			assert.Equal(t, k-1, completer.correctCalls)
			assert.Empty(t, result.Attempts[k-1].Instructions)
		})
	}
}

func TestEvaluateExhaustion(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{}
	worker := &recordingWorker{}
	e, err := New(completer, worker, Config{Criteria: criteria, MaxInteractions: 1})
	require.NoError(t, err)

	result, err := e.Evaluate(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	assert.False(t, result.Accepted())
	assert.Equal(t, contractx.VerdictFailed, result.Verdict)
	assert.Equal(t, 1, result.IterationCount)
	assert.Equal(t, contractx.EvaluationFailedResponse, result.FinalResponse)
	assert.Equal(t, contractx.EvaluationFailedVerdict, result.Evaluation)
	assert.Len(t, worker.requests, 1)
	assert.Equal(t, 1, completer.judgmentCalls)
	assert.Equal(t, 1, completer.correctCalls)
}

func TestEvaluateTerminatesWithinMax(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{}
	worker := &recordingWorker{}
	e, err := New(completer, worker, Config{Criteria: criteria, MaxInteractions: 3})
	require.NoError(t, err)

	result, err := e.Evaluate(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	assert.Equal(t, 3, result.IterationCount)
	assert.Len(t, worker.requests, 3)
	assert.Len(t, result.Attempts, 3)
	assert.Equal(t, 3, completer.judgmentCalls)
	assert.Equal(t, 3, completer.correctCalls)
}

func TestEvaluateRefinementWrapsPreviousRequest(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{judgments: []string{"No", "No", "Yes"}}
	worker := &recordingWorker{}
	e, err := New(completer, worker, Config{Criteria: criteria})
	require.NoError(t, err)

	const request = "What is the capital of France?"
	result, err := e.Evaluate(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, 3, result.IterationCount)

	require.Len(t, worker.requests, 3)
	assert.Equal(t, request, worker.requests[0])

	second := "Original prompt: 'What is the capital of France?'. Previous attempt: 'attempt 1'. " +
		"Please refine the response using these instructions: 'Answer with the city name only (correction 1).'"
	assert.Equal(t, second, worker.requests[1])

	third := worker.requests[2]
	assert.Equal(t,
		"Original prompt: '"+second+"'. Previous attempt: 'attempt 2'. "+
			"Please refine the response using these instructions: 'Answer with the city name only (correction 2).'",
		third,
	)
	assert.Contains(t, third, "attempt 1")
	assert.Contains(t, third, "(correction 1)")
	assert.Equal(t, third, result.Attempts[2].Request)
}

func TestEvaluateJudgmentCallsAreDeterministic(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{judgments: []string{"No", "yes"}}
	e, err := New(completer, &recordingWorker{}, Config{
		Persona:  "You are an evaluation agent that checks the answers of other worker agents",
		Criteria: criteria,
	})
	require.NoError(t, err)
	assert.Contains(t, e.Persona(), "evaluation agent")

	_, err = e.Evaluate(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	require.Len(t, completer.deterministic, 3)
	for _, d := range completer.deterministic {
		assert.True(t, d)
	}
	require.Len(t, completer.lastMessages, 1)
	assert.Equal(t, schema.User, completer.lastMessages[0].Role)
	assert.Contains(t, completer.lastMessages[0].Content, criteria)
	assert.NotContains(t, completer.lastMessages[0].Content, "evaluation agent")
}

func TestEvaluateWithoutPersonaSendsSingleMessage(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{judgments: []string{"Yes"}}
	e, err := New(completer, &recordingWorker{}, Config{Criteria: criteria})
	require.NoError(t, err)

	_, err = e.Evaluate(context.Background(), "What is the capital of France?")
	require.NoError(t, err)

	require.Len(t, completer.lastMessages, 1)
	assert.Equal(t, schema.User, completer.lastMessages[0].Role)
}

func TestEvaluatePropagatesErrors(t *testing.T) {
	t.Parallel()

	workerErr := errors.New("worker down")
	e, err := New(&scriptedCompleter{}, &recordingWorker{err: workerErr}, Config{Criteria: criteria})
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), "q")
	assert.ErrorIs(t, err, workerErr)

	modelErr := errors.New("model down")
	e, err = New(&scriptedCompleter{err: modelErr}, &recordingWorker{}, Config{Criteria: criteria})
	require.NoError(t, err)
	_, err = e.Evaluate(context.Background(), "q")
	assert.ErrorIs(t, err, modelErr)
}

func TestRespondReturnsFinalResponse(t *testing.T) {
	t.Parallel()

	e, err := New(&scriptedCompleter{}, &recordingWorker{}, Config{Criteria: criteria, MaxInteractions: 2})
	require.NoError(t, err)

	out, err := e.Respond(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, contractx.EvaluationFailedResponse, out)
}
