package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	contractx "github.com/tanpawarit/agentic-workflow/agent/contract"
)

var (
	errGoalRequired    = errors.New("--goal is required")
	errRequestRequired = errors.New("--request is required")
	errAgentRequired   = errors.New("--agent is required")
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var goal string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Plan a goal and route every step, printing each result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(goal) == "" {
				return errGoalRequired
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			o, err := newOrchestrator(a)
			if err != nil {
				return err
			}

			run, err := o.Execute(cmd.Context(), goal)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, res := range run.Results {
				fmt.Fprintf(out, "--- Step %d: %s ---\n%s\n\n", res.Index+1, res.Step, res.Output)
			}
			fmt.Fprintf(out, "--- Final Output ---\n%s\n", run.FinalOutput())
			return nil
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "goal to plan and execute")
	return cmd
}

func newPlanCmd(opts *rootOptions) *cobra.Command {
	var goal string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the steps the planner extracts from a goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(goal) == "" {
				return errGoalRequired
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}

			steps, err := a.team.Planner.Plan(cmd.Context(), goal)
			if err != nil {
				return err
			}
			for _, step := range steps {
				fmt.Fprintln(cmd.OutOrStdout(), step)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "goal to plan")
	return cmd
}

func newRouteCmd(opts *rootOptions) *cobra.Command {
	var request string
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Route one request to the best-matching agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(request) == "" {
				return errRequestRequired
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}

			sel, ok, err := a.team.Router.Select(cmd.Context(), request)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), contractx.NoSuitableTarget)
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "routed to %s (score %.4f)\n", sel.Agent.Name, sel.Score)

			out, err := sel.Agent.Handler.Respond(cmd.Context(), request)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&request, "request", "", "request to route")
	return cmd
}

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	var agent, request string
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run one agent's evaluate-refine loop and print every attempt",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(agent) == "" {
				return errAgentRequired
			}
			if strings.TrimSpace(request) == "" {
				return errRequestRequired
			}
			a, err := loadApp(cmd.Context(), opts)
			if err != nil {
				return err
			}

			ev, ok := a.team.Evaluators[agent]
			if !ok {
				return fmt.Errorf("agent %q has no evaluation configured", agent)
			}
			result, err := ev.Evaluate(cmd.Context(), request)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, at := range result.Attempts {
				fmt.Fprintf(out, "--- Interaction %d ---\nResponse: %s\nEvaluation: %s\n", i+1, at.Response, at.Judgment)
				if at.Instructions != "" {
					fmt.Fprintf(out, "Instructions: %s\n", at.Instructions)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Verdict: %s after %d interaction(s)\n%s\n", result.Verdict, result.IterationCount, result.FinalResponse)
			return nil
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "", "agent name from the workflow definition")
	cmd.Flags().StringVar(&request, "request", "", "request to evaluate")
	return cmd
}
