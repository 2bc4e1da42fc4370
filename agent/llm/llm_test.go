package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

type fakeChatModel struct {
	responses []*schema.Message
	errs      []error
	calls     int
	opts      [][]einomodel.Option
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	idx := f.calls
	f.calls++
	f.opts = append(f.opts, opts)
	if idx < len(f.errs) && f.errs[idx] != nil {
		return nil, f.errs[idx]
	}
	if idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	return f.responses[idx], nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func TestCompleteDeterministicSetsZeroTemperature(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{responses: []*schema.Message{
		schema.AssistantMessage("Yes", nil),
		schema.AssistantMessage("free text", nil),
	}}
	c, err := NewChatCompleter(fake)
	if err != nil {
		t.Fatalf("NewChatCompleter() error = %v", err)
	}

	out, err := c.Complete(context.Background(), []*schema.Message{schema.UserMessage("judge")}, true)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "Yes" {
		t.Fatalf("unexpected output: %q", out)
	}
	common := einomodel.GetCommonOptions(nil, fake.opts[0]...)
	if common.Temperature == nil || *common.Temperature != 0 {
		t.Fatalf("expected temperature 0, got %v", common.Temperature)
	}

	if _, err := c.Complete(context.Background(), []*schema.Message{schema.UserMessage("write")}, false); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if len(fake.opts[1]) != 0 {
		t.Fatalf("expected default sampling, got %d options", len(fake.opts[1]))
	}
}

func TestCompleteRetriesThenSucceeds(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{
		errs:      []error{errors.New("502"), errors.New("503")},
		responses: []*schema.Message{nil, nil, schema.AssistantMessage("ok", nil)},
	}
	c, err := NewChatCompleter(fake, WithRetry(2, time.Millisecond))
	if err != nil {
		t.Fatalf("NewChatCompleter() error = %v", err)
	}

	out, err := c.Complete(context.Background(), []*schema.Message{schema.UserMessage("hi")}, false)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if out != "ok" || fake.calls != 3 {
		t.Fatalf("unexpected result out=%q calls=%d", out, fake.calls)
	}
}

func TestCompleteRetryBudgetExhausted(t *testing.T) {
	t.Parallel()

	boom := errors.New("upstream down")
	fake := &fakeChatModel{errs: []error{boom, boom}}
	c, err := NewChatCompleter(fake, WithRetry(1, 0))
	if err != nil {
		t.Fatalf("NewChatCompleter() error = %v", err)
	}

	_, err = c.Complete(context.Background(), []*schema.Message{schema.UserMessage("hi")}, false)
	if !errors.Is(err, contractx.ErrModelInvoke) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped model error, got %v", err)
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", fake.calls)
	}
}

func TestCompleteRejectsEmptyMessages(t *testing.T) {
	t.Parallel()

	c, err := NewChatCompleter(&fakeChatModel{})
	if err != nil {
		t.Fatalf("NewChatCompleter() error = %v", err)
	}
	if _, err := c.Complete(context.Background(), nil, false); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

type fakeEmbeddingsAPI struct {
	inputs []string
	models []string
	resp   *openaisdk.CreateEmbeddingResponse
	err    error
}

func (f *fakeEmbeddingsAPI) New(ctx context.Context, body openaisdk.EmbeddingNewParams, opts ...option.RequestOption) (*openaisdk.CreateEmbeddingResponse, error) {
	f.inputs = append(f.inputs, body.Input.OfArrayOfStrings...)
	f.models = append(f.models, string(body.Model))
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestEmbedNormalizesNewlines(t *testing.T) {
	t.Parallel()

	api := &fakeEmbeddingsAPI{resp: &openaisdk.CreateEmbeddingResponse{
		Data: []openaisdk.Embedding{{Embedding: []float64{0.1, 0.2, 0.3}}},
	}}
	e, err := NewOpenAIEmbedder(api, "")
	if err != nil {
		t.Fatalf("NewOpenAIEmbedder() error = %v", err)
	}

	vec, err := e.Embed(context.Background(), "line one\nline two")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vec) != 3 || vec[2] != 0.3 {
		t.Fatalf("unexpected vector: %v", vec)
	}
	if api.inputs[0] != "line one line two" {
		t.Fatalf("unexpected input: %q", api.inputs[0])
	}
	if api.models[0] != DefaultEmbeddingModel {
		t.Fatalf("unexpected model: %q", api.models[0])
	}
}

func TestEmbedErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("rate limited")
	e, _ := NewOpenAIEmbedder(&fakeEmbeddingsAPI{err: boom}, "text-embedding-3-small")
	if _, err := e.Embed(context.Background(), "x"); !errors.Is(err, contractx.ErrEmbedding) || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped embedding error, got %v", err)
	}

	empty, _ := NewOpenAIEmbedder(&fakeEmbeddingsAPI{resp: &openaisdk.CreateEmbeddingResponse{}}, "m")
	if _, err := empty.Embed(context.Background(), "x"); !errors.Is(err, contractx.ErrEmbedding) {
		t.Fatalf("expected ErrEmbedding for empty data, got %v", err)
	}
}

func TestConfigChatForOverrides(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:                " key ",
		Model:                 "gpt-default",
		Temperature:           0.7,
		MaxCompletionToken:    512,
		MaxRetries:            3,
		EvaluatorModel:        "gpt-judge",
		EvaluatorTemperature:  0,
		PlannerTemperature:    -1,
		SpecialistTemperature: 0.9,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	eval := cfg.ChatFor(contractx.AgentRoleEvaluator)
	if eval.Model != "gpt-judge" || eval.Temperature != 0 {
		t.Fatalf("unexpected evaluator config: %+v", eval)
	}
	planner := cfg.ChatFor(contractx.AgentRolePlanner)
	if planner.Model != "gpt-default" || planner.Temperature != 0.7 {
		t.Fatalf("unexpected planner config: %+v", planner)
	}
	spec := cfg.ChatFor(contractx.AgentRoleSpecialist)
	if spec.Temperature != 0.9 || spec.APIKey != "key" || *spec.MaxCompletionToken != 512 {
		t.Fatalf("unexpected specialist config: %+v", spec)
	}

	_, embedModel := cfg.Embedding()
	if embedModel != DefaultEmbeddingModel {
		t.Fatalf("unexpected embedding model: %s", embedModel)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (Config{Model: "m"}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing key, got %v", err)
	}
	if err := (Config{APIKey: "k", Model: "m", MaxRetries: -1}).Validate(); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation for negative retries, got %v", err)
	}
}
