// Package workflow loads declarative team definitions: a planner, the agents
// it routes to and the evaluation wrapped around each of them.
package workflow

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	specialistx "github.com/tanpawarit/agentic-workflow/agent/agents/specialist"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	"gopkg.in/yaml.v3"
)

type Definition struct {
	Planner PlannerDefinition `yaml:"planner"`
	Router  RouterDefinition  `yaml:"router"`
	Agents  []AgentDefinition `yaml:"agents"`
}

type PlannerDefinition struct {
	Knowledge string `yaml:"knowledge"`
}

type RouterDefinition struct {
	CacheDescriptions bool `yaml:"cache_descriptions"`
}

type AgentDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	Kind      specialistx.Kind `yaml:"kind"`
	Persona   string           `yaml:"persona"`
	Knowledge string           `yaml:"knowledge"`
	// KnowledgeFiles are appended to Knowledge in order. Relative paths are
	// resolved against the definition file.
	KnowledgeFiles []string `yaml:"knowledge_files"`
	Documents      []string `yaml:"documents"`

	Evaluation *EvaluationDefinition `yaml:"evaluation"`
}

type EvaluationDefinition struct {
	Persona         string `yaml:"persona"`
	Criteria        string `yaml:"criteria"`
	MaxInteractions int    `yaml:"max_interactions"`
}

func (a AgentDefinition) Spec() specialistx.Spec {
	return specialistx.Spec{
		Kind:      a.Kind,
		Persona:   a.Persona,
		Knowledge: a.Knowledge,
		Documents: a.Documents,
	}
}

// Load reads a definition file, inlines its knowledge files and validates it.
func Load(path string) (*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow %s: %w", path, err)
	}

	def, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse workflow %s: %w", path, err)
	}
	if err := def.resolveKnowledgeFiles(filepath.Dir(path)); err != nil {
		return nil, err
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("validate workflow %s: %w", path, err)
	}
	return def, nil
}

// Parse decodes a definition without touching the filesystem. Unknown fields
// are rejected.
func Parse(raw []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var def Definition
	if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", contractx.ErrValidation, err)
	}
	return &def, nil
}

func (d *Definition) Validate() error {
	seen := make(map[string]struct{}, len(d.Agents))
	for i, a := range d.Agents {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return fmt.Errorf("%w: agents[%d].name is required", contractx.ErrValidation, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate agent name %q", contractx.ErrValidation, name)
		}
		seen[name] = struct{}{}

		if strings.TrimSpace(a.Description) == "" {
			return fmt.Errorf("%w: agent %q has no description", contractx.ErrValidation, name)
		}

		switch specialistx.Kind(strings.ToLower(string(a.Kind))) {
		case specialistx.KindDirect, specialistx.KindPersona, specialistx.KindKnowledge, specialistx.KindRetrieval:
		default:
			return fmt.Errorf("%w: agent %q has unsupported kind %q", contractx.ErrValidation, name, a.Kind)
		}

		if a.Evaluation != nil {
			if strings.TrimSpace(a.Evaluation.Criteria) == "" {
				return fmt.Errorf("%w: agent %q evaluation needs criteria", contractx.ErrValidation, name)
			}
			if a.Evaluation.MaxInteractions < 0 {
				return fmt.Errorf("%w: agent %q max_interactions must be >= 0", contractx.ErrValidation, name)
			}
		}
	}
	return nil
}

func (d *Definition) resolveKnowledgeFiles(baseDir string) error {
	for i := range d.Agents {
		a := &d.Agents[i]
		for _, f := range a.KnowledgeFiles {
			p := f
			if !filepath.IsAbs(p) {
				p = filepath.Join(baseDir, p)
			}
			content, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("agent %q knowledge file: %w", a.Name, err)
			}
			a.Knowledge += string(content)
		}
		a.KnowledgeFiles = nil
	}
	return nil
}
