package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/campaign"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/config"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/engine"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/evaluator"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/llm/providers"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory/embedder"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/memory/vector"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/planner"
	"github.com/ooiyeefei/ai-marketing-content-gen-sub000/internal/stages"
)

var (
	runGoal        string
	runBusinessURL string
	runCompetitors []string
	runIndustry    string
	runDays        int
	runDryRun      bool
	runShowTrace   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a content generation campaign",
	Long: `Run executes one campaign end to end: the planner decides the order
of research, strategy, creative and publishing, the evaluator gates stage
quality, and learnings are stored for future campaigns.

Stage tools are the built-in canned implementations; the LLM provider and
learning memory come from the config file. --dry-run forces the scripted
mock provider so the whole loop runs offline.`,
	RunE: runCampaign,
}

func init() {
	runCmd.Flags().StringVarP(&runGoal, "goal", "g", "", "campaign goal (required)")
	runCmd.Flags().StringVarP(&runBusinessURL, "business-url", "b", "", "business website URL (required)")
	runCmd.Flags().StringSliceVar(&runCompetitors, "competitor", nil, "competitor URL (repeatable)")
	runCmd.Flags().StringVar(&runIndustry, "industry", "", "industry tag for learning retrieval")
	runCmd.Flags().IntVar(&runDays, "days", 7, "number of campaign days")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "use the offline mock provider")
	runCmd.Flags().BoolVar(&runShowTrace, "trace", false, "print the reasoning scratchpad")
	_ = runCmd.MarkFlagRequired("goal")
	_ = runCmd.MarkFlagRequired("business-url")

	rootCmd.AddCommand(runCmd)
}

func runCampaign(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if runDryRun {
		cfg.Provider = llm.ProviderConfig{Type: llm.ProviderMock}
	}

	provider, err := providers.NewProvider(cfg.Provider)
	if err != nil {
		return err
	}

	reasoner := planner.NewMasterReasoner(provider,
		planner.WithModel(cfg.Planner.Model),
		planner.WithTemperature(cfg.Planner.Temperature),
		planner.WithMaxTokens(cfg.Planner.MaxTokens),
		planner.WithLogger(logger),
	)

	tools := stages.NewStaticTools(runDays)
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithProvider(provider),
		engine.WithNodeTimeout(cfg.Engine.NodeTimeout.Std()),
	}

	if cfg.Evaluator.Scorer == config.ScorerLLM {
		opts = append(opts, engine.WithEvaluator(evaluator.NewEvaluator(
			evaluator.WithScorer(evaluator.NewLLMScorer(provider,
				evaluator.WithScorerModel(cfg.Evaluator.Model),
				evaluator.WithScorerLogger(logger))),
			evaluator.WithLogger(logger),
		)))
	}

	if cfg.Memory.Enabled {
		store, err := buildLearningStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, engine.WithLearningStore(store))
	}

	eng, err := engine.New(reasoner, engine.Tools{
		Research:    tools,
		Strategy:    tools,
		Creative:    tools,
		Orchestrate: tools,
	}, opts...)
	if err != nil {
		return err
	}

	state := campaign.NewState(runGoal, runBusinessURL,
		campaign.WithCompetitorURLs(runCompetitors),
		campaign.WithIndustry(runIndustry),
		campaign.WithMaxIterations(cfg.Engine.MaxIterations),
		campaign.WithQualityThreshold(cfg.Engine.QualityThreshold),
	)

	result, runErr := eng.Run(ctx, state)
	if result != nil {
		printSummary(result)
	}
	return runErr
}

// buildLearningStore composes the configured embedder and vector backend.
func buildLearningStore(ctx context.Context, cfg *config.Config) (memory.LearningStore, error) {
	emb, err := embedder.New(ctx, cfg.Memory.Embedder)
	if err != nil {
		return nil, err
	}
	store, err := vector.New(vector.Config{
		Backend:    cfg.Memory.Backend,
		Path:       cfg.Memory.Path,
		Dimensions: emb.Dimensions(),
	})
	if err != nil {
		return nil, err
	}
	return memory.NewLearningMemory(store, emb), nil
}

// printSummary renders the run outcome for the terminal.
func printSummary(result *engine.RunResult) {
	state := result.State

	fmt.Printf("\nCampaign %s\n", state.CampaignID)
	fmt.Printf("  status:      %s", state.Status)
	if state.StopReason != "" {
		fmt.Printf(" (%s)", state.StopReason)
	}
	fmt.Println()
	if state.ErrorMessage != "" {
		fmt.Printf("  error:       %s\n", state.ErrorMessage)
	}
	fmt.Printf("  iterations:  %d/%d\n", state.Iterations, state.MaxIterations)
	fmt.Printf("  duration:    %s\n", result.Duration.Round(time.Millisecond))
	fmt.Printf("  tokens:      %d\n", result.Usage.TotalTokens)

	if len(state.QualityScores) > 0 {
		fmt.Println("  quality scores:")
		for _, stage := range campaign.StagePriority() {
			if score, ok := state.QualityScore(stage); ok {
				fmt.Printf("    %-12s %.2f\n", stage, score)
			}
		}
	}

	if state.Strategy != nil {
		fmt.Printf("  strategy:    %d days planned\n", len(state.Strategy.Days))
	}
	if state.Creative != nil {
		fmt.Printf("  creative:    %d days, %d images, %d videos\n",
			len(state.Creative.Days),
			state.Creative.TotalImagesGenerated,
			state.Creative.TotalVideosGenerated)
	}
	if state.Orchestration != nil {
		fmt.Printf("  published:   %d content items\n", len(state.Orchestration.PublishedContentIDs))
	}

	if runShowTrace && len(state.Scratchpad) > 0 {
		fmt.Println("\nReasoning trace:")
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		for _, entry := range state.Scratchpad {
			fmt.Fprintf(w, "  %d\t%s\t%s\t%s\n", entry.Step, entry.Action, entry.Thought, entry.Observation)
		}
		w.Flush()
	}
}
