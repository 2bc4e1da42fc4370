package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	orchestratorx "github.com/tanpawarit/agentic-workflow/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
	llmx "github.com/tanpawarit/agentic-workflow/agent/llm"
	workflowx "github.com/tanpawarit/agentic-workflow/agent/workflow"
	configx "github.com/tanpawarit/agentic-workflow/pkg/config"
	logautoload "github.com/tanpawarit/agentic-workflow/pkg/logger/autoload"
	openaicompatx "github.com/tanpawarit/agentic-workflow/pkg/openaicompat"
)

type AppConfig struct {
	WorkflowFile string `envconfig:"WORKFLOW_FILE" split_words:"true" default:"configs/email_router.yaml"`
	Concurrency  int    `envconfig:"CONCURRENCY" split_words:"true" default:"1"`
}

type rootOptions struct {
	envFile      string
	workflowFile string
	concurrency  int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("agentflow failed")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "agentflow",
		Short: "Plan, route and evaluate LLM agent workflows",
		Long: `agentflow breaks a goal into steps, routes every step to the agent whose
description best matches it and lets each agent's evaluator refine the answer
until it meets the agent's criteria.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.envFile != "" {
				configx.SetEnvFile(opts.envFile)
				logautoload.Load()
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "dotenv file to load (default ENV_FILE or ./.env)")
	root.PersistentFlags().StringVar(&opts.workflowFile, "workflow", "", "workflow definition file (default APP_WORKFLOW_FILE)")
	root.PersistentFlags().IntVar(&opts.concurrency, "concurrency", 0, "steps routed at once (default APP_CONCURRENCY)")

	root.AddCommand(
		newRunCmd(opts),
		newPlanCmd(opts),
		newRouteCmd(opts),
		newEvaluateCmd(opts),
	)
	return root
}

// app is everything a command needs once configuration is loaded.
type app struct {
	team        *workflowx.Team
	concurrency int
}

func loadApp(ctx context.Context, opts *rootOptions) (*app, error) {
	appCfg, err := configx.New[AppConfig]("APP")
	if err != nil {
		return nil, fmt.Errorf("load app config: %w", err)
	}
	if opts.workflowFile != "" {
		appCfg.WorkflowFile = opts.workflowFile
	}
	if opts.concurrency > 0 {
		appCfg.Concurrency = opts.concurrency
	}

	llmCfg, err := configx.New[llmx.Config]("LLM")
	if err != nil {
		return nil, fmt.Errorf("load llm config: %w", err)
	}
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}

	def, err := workflowx.Load(appCfg.WorkflowFile)
	if err != nil {
		return nil, err
	}

	clients, err := newClients(ctx, *llmCfg)
	if err != nil {
		return nil, err
	}

	team, err := workflowx.Build(ctx, def, clients)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("workflow", appCfg.WorkflowFile).
		Int("concurrency", appCfg.Concurrency).
		Msg("agentflow ready")
	return &app{team: team, concurrency: appCfg.Concurrency}, nil
}

func newClients(ctx context.Context, cfg llmx.Config) (workflowx.Clients, error) {
	completerFor := func(role contractx.AgentRole) (contractx.Completer, error) {
		chatCfg := cfg.ChatFor(role)
		chatModel, err := chatCfg.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("init %s chat model: %w", role, err)
		}
		return llmx.NewChatCompleter(chatModel, llmx.WithRetry(cfg.MaxRetries, cfg.RetryBackoff))
	}

	planner, err := completerFor(contractx.AgentRolePlanner)
	if err != nil {
		return workflowx.Clients{}, err
	}
	specialist, err := completerFor(contractx.AgentRoleSpecialist)
	if err != nil {
		return workflowx.Clients{}, err
	}
	evaluator, err := completerFor(contractx.AgentRoleEvaluator)
	if err != nil {
		return workflowx.Clients{}, err
	}

	embeddingCfg, embeddingModel := cfg.Embedding()
	client := openaicompatx.NewClient(embeddingCfg)
	if client == nil {
		return workflowx.Clients{}, fmt.Errorf("%w: embedding client needs an api key", contractx.ErrValidation)
	}
	embedder, err := llmx.NewOpenAIEmbedder(&client.Embeddings, embeddingModel)
	if err != nil {
		return workflowx.Clients{}, err
	}

	return workflowx.Clients{
		Completer:  specialist,
		Planner:    planner,
		Specialist: specialist,
		Evaluator:  evaluator,
		Embedder:   embedder,
	}, nil
}

func newOrchestrator(a *app) (*orchestratorx.Orchestrator, error) {
	return orchestratorx.New(a.team.Planner, a.team.Router, orchestratorx.Config{
		Concurrency: a.concurrency,
	})
}
