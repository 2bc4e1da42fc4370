package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	openaicompatx "github.com/tanpawarit/agentic-workflow/pkg/openaicompat"
)

const DefaultEmbeddingModel = "text-embedding-3-large"

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.openai.com/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"gpt-3.5-turbo"`
	EmbeddingModel     string        `envconfig:"EMBEDDING_MODEL" split_words:"true" default:"text-embedding-3-large"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	MaxRetries         int           `envconfig:"MAX_RETRIES" split_words:"true" default:"2"`
	RetryBackoff       time.Duration `envconfig:"RETRY_BACKOFF" split_words:"true" default:"500ms"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	PlannerModel          string  `envconfig:"PLANNER_MODEL" split_words:"true"`
	SpecialistModel       string  `envconfig:"SPECIALIST_MODEL" split_words:"true"`
	EvaluatorModel        string  `envconfig:"EVALUATOR_MODEL" split_words:"true"`
	PlannerTemperature    float32 `envconfig:"PLANNER_TEMPERATURE" split_words:"true" default:"-1"`
	SpecialistTemperature float32 `envconfig:"SPECIALIST_TEMPERATURE" split_words:"true" default:"-1"`
	EvaluatorTemperature  float32 `envconfig:"EVALUATOR_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: max retries must be >= 0", contractx.ErrValidation)
	}
	return nil
}

// ChatFor resolves the chat endpoint settings for one agent role, applying
// the per-role model and temperature overrides.
func (c Config) ChatFor(role contractx.AgentRole) openaicompatx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case contractx.AgentRolePlanner:
		if v := strings.TrimSpace(c.PlannerModel); v != "" {
			modelName = v
		}
		if c.PlannerTemperature >= 0 {
			temp = c.PlannerTemperature
		}
	case contractx.AgentRoleSpecialist:
		if v := strings.TrimSpace(c.SpecialistModel); v != "" {
			modelName = v
		}
		if c.SpecialistTemperature >= 0 {
			temp = c.SpecialistTemperature
		}
	case contractx.AgentRoleEvaluator:
		if v := strings.TrimSpace(c.EvaluatorModel); v != "" {
			modelName = v
		}
		if c.EvaluatorTemperature >= 0 {
			temp = c.EvaluatorTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openaicompatx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		MaxRetries:         c.MaxRetries,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}

// Embedding returns the client settings and model name for the embedding
// endpoint.
func (c Config) Embedding() (openaicompatx.Config, string) {
	modelName := strings.TrimSpace(c.EmbeddingModel)
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}
	return openaicompatx.Config{
		BaseURL:    strings.TrimSpace(c.BaseURL),
		APIKey:     strings.TrimSpace(c.APIKey),
		Model:      modelName,
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
		SiteURL:    strings.TrimSpace(c.SiteURL),
		SiteName:   strings.TrimSpace(c.SiteName),
	}, modelName
}
