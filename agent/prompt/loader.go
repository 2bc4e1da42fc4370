package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

var (
	//go:embed template/persona.txt
	personaRaw string

	//go:embed template/knowledge.txt
	knowledgeRaw string

	//go:embed template/retrieval_system.txt
	retrievalSystemRaw string

	//go:embed template/retrieval_user.txt
	retrievalUserRaw string

	//go:embed template/planner.txt
	plannerRaw string

	//go:embed template/judgment.txt
	judgmentRaw string

	//go:embed template/correction.txt
	correctionRaw string

	//go:embed template/refinement.txt
	refinementRaw string
)

// UserInput is the template that passes the caller's text through unchanged.
const UserInput = "{input}"

// PromptSet holds loaded prompt templates. Placeholders use eino FString
// syntax, so literal braces in a template must be doubled.
type PromptSet struct {
	Persona         string
	Knowledge       string
	RetrievalSystem string
	RetrievalUser   string
	Planner         string
	Judgment        string
	Correction      string
	Refinement      string
}

// LoadPromptSet returns a PromptSet with trimmed templates.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Persona:         strings.TrimSpace(personaRaw),
		Knowledge:       strings.TrimSpace(knowledgeRaw),
		RetrievalSystem: strings.TrimSpace(retrievalSystemRaw),
		RetrievalUser:   strings.TrimSpace(retrievalUserRaw),
		Planner:         strings.TrimSpace(plannerRaw),
		Judgment:        strings.TrimSpace(judgmentRaw),
		Correction:      strings.TrimSpace(correctionRaw),
		Refinement:      strings.TrimSpace(refinementRaw),
	}
}

// Render formats a system/user template pair into a conversation. An empty
// system template produces a single user message. Variable values are
// inserted verbatim.
func Render(ctx context.Context, systemTemplate, userTemplate string, vars map[string]any) ([]*schema.Message, error) {
	if strings.TrimSpace(userTemplate) == "" {
		return nil, fmt.Errorf("%w: user template is empty", contractx.ErrPromptMissing)
	}

	templates := make([]schema.MessagesTemplate, 0, 2)
	if strings.TrimSpace(systemTemplate) != "" {
		templates = append(templates, schema.SystemMessage(systemTemplate))
	}
	templates = append(templates, schema.UserMessage(userTemplate))

	msgs, err := einoprompt.FromMessages(schema.FString, templates...).Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: format template: %w", contractx.ErrPromptMissing, err)
	}
	return msgs, nil
}

// Format renders a single template into plain text.
func Format(ctx context.Context, template string, vars map[string]any) (string, error) {
	msgs, err := Render(ctx, "", template, vars)
	if err != nil {
		return "", err
	}
	return msgs[len(msgs)-1].Content, nil
}
