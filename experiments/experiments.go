package experiments

import (
	"context"
	"fmt"

	"coinsim/config"
	"coinsim/engine"
	"coinsim/experiments/metrics"

	"github.com/rs/zerolog/log"
)

// TrueP is the default coin bias for the preset experiments.
const TrueP = 0.63

// benchPlayers is the standard lineup pitting every estimator against the
// fixed and random baselines.
func benchPlayers() []config.Player {
	return []config.Player{
		{ID: "p1", Strategy: "constant", Value: 0.5},
		{ID: "p2", Strategy: "random"},
		{ID: "p3", Strategy: "frequentist"},
		{ID: "p4", Strategy: "bayesian", PriorAlpha: 1, PriorBeta: 1},
		{ID: "p5", Strategy: "moving-average", Smoothing: 0.1},
		{ID: "p6", Strategy: "noisy", Base: "frequentist", NoiseScale: 0.05},
	}
}

// RunScoringRuleExperiment compares the standard lineup under each proper
// scoring rule.
func RunScoringRuleExperiment() {
	variants := []config.Experiment{}
	for _, rule := range []string{"quadratic", "logarithmic", "spherical"} {
		cfg := config.Default()
		cfg.TrueP = TrueP
		cfg.ScoringRule = rule
		cfg.Players = benchPlayers()
		variants = append(variants, cfg)
	}
	runExperiment("scoring_rule", variants, func(cfg config.Experiment) string {
		return cfg.ScoringRule
	})
}

// RunConvergenceExperiment tracks how estimator error shrinks with the round
// horizon.
func RunConvergenceExperiment() {
	variants := []config.Experiment{}
	for _, rounds := range []int{10, 100, 1000} {
		cfg := config.Default()
		cfg.TrueP = TrueP
		cfg.Rounds = rounds
		cfg.Players = []config.Player{
			{ID: "p1", Strategy: "frequentist"},
			{ID: "p2", Strategy: "bayesian", PriorAlpha: 1, PriorBeta: 1},
		}
		variants = append(variants, cfg)
	}
	runExperiment("convergence", variants, func(cfg config.Experiment) string {
		return fmt.Sprintf("rounds_%d", cfg.Rounds)
	})
}

// RunFeedbackExperiment compares the standard lineup across feedback policies:
// full feeds strategies the outcome, partial only their own score (forcing
// rule inversion), none freezes all beliefs.
func RunFeedbackExperiment() {
	variants := []config.Experiment{}
	for _, feedback := range []string{"full", "partial", "none"} {
		cfg := config.Default()
		cfg.TrueP = TrueP
		cfg.Feedback = feedback
		cfg.Players = benchPlayers()
		variants = append(variants, cfg)
	}
	runExperiment("feedback", variants, func(cfg config.Experiment) string {
		return cfg.Feedback
	})
}

// RunFictitiousExperiment pits fictitious play against a bayesian opponent in
// the two-player setting it is built for.
func RunFictitiousExperiment() {
	cfg := config.Default()
	cfg.TrueP = TrueP
	cfg.Players = []config.Player{
		{ID: "p1", Strategy: "fictitious"},
		{ID: "p2", Strategy: "bayesian", PriorAlpha: 1, PriorBeta: 1},
	}
	runExperiment("fictitious", []config.Experiment{cfg}, func(config.Experiment) string {
		return "fictitious_vs_bayesian"
	})
}

// Run executes a single configured experiment end to end and returns its
// aggregated result. This is the entry point external drivers use.
func Run(ctx context.Context, cfg config.Experiment) (metrics.ExperimentResult, error) {
	collector := metrics.NewCollector()
	runner, err := engine.NewRunner(cfg, engine.WithCollector(collector))
	if err != nil {
		return metrics.ExperimentResult{}, err
	}
	runs, err := runner.Run(ctx)
	if err != nil {
		return metrics.ExperimentResult{}, err
	}
	metric := collector.Complete()
	log.Info().Msgf("completed %d replicates (%d failed) in %s on %d workers",
		metric.Replicates, metric.Failures, metric.Duration, metric.Workers)

	return metrics.Aggregate(runs)
}

func runExperiment(name string, variants []config.Experiment, label func(config.Experiment) string) {
	log.Info().Msgf("starting %s experiment...", name)

	for vi, cfg := range variants {
		log.Info().Msgf("starting %s variant %d of %d (%s)...", name, vi+1, len(variants), label(cfg))

		collector := metrics.NewCollector()
		runner, err := engine.NewRunner(cfg, engine.WithCollector(collector))
		if err != nil {
			panic(fmt.Sprintf("failed to build runner: %v", err))
		}
		runs, err := runner.Run(context.Background())
		if err != nil {
			panic(fmt.Sprintf("failed to run variant %s: %v", label(cfg), err))
		}
		metric := collector.Complete()
		log.Info().Msgf("completed %d replicates (%d failed) in %s", metric.Replicates, metric.Failures, metric.Duration)

		result, err := metrics.Aggregate(runs)
		if err != nil {
			panic(fmt.Sprintf("failed to aggregate variant %s: %v", label(cfg), err))
		}
		log.Info().Msgf("best strategy for %s: %s (mean score %.4f)",
			label(cfg), result.Best().Strategy, result.Best().MeanScore)

		writeResults(fmt.Sprintf("%s_%s", name, label(cfg)), result, runs)
	}

	log.Info().Msgf("completed %s experiment", name)
}

func writeResults(name string, result metrics.ExperimentResult, runs []engine.SimulationRun) {
	writer, err := metrics.NewWriter(name)
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}

	if err := writer.WriteResult(result); err != nil {
		panic(fmt.Sprintf("failed to write result: %v", err))
	}
	if err := writer.WriteSummaries(result); err != nil {
		panic(fmt.Sprintf("failed to write summaries: %v", err))
	}
	if err := writer.WriteConvergence(result); err != nil {
		panic(fmt.Sprintf("failed to write convergence: %v", err))
	}
	if err := writer.WriteRuns(runs); err != nil {
		panic(fmt.Sprintf("failed to write runs: %v", err))
	}
	log.Info().Msg("stored experiment results")
}
