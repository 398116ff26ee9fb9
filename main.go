package main

import (
	"context"
	"os"

	"coinsim/config"
	"coinsim/experiments"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Thin driver: builds or loads a configuration, hands it to the runner, and
// passes the aggregated result onward. Everything interesting lives in the
// packages it calls.
func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) > 1 {
		runFromFile(os.Args[1])
		return
	}

	experiments.RunScoringRuleExperiment()
	experiments.RunConvergenceExperiment()
	experiments.RunFeedbackExperiment()
	experiments.RunFictitiousExperiment()
}

func runFromFile(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Msgf("failed to load config %s: %v", path, err)
	}

	result, err := experiments.Run(context.Background(), cfg)
	if err != nil {
		log.Fatal().Msgf("experiment failed: %v", err)
	}

	for _, s := range result.Summaries {
		log.Info().Msgf("#%d %s: mean score %.4f (variance %.4f over %d samples)",
			s.Rank, s.Strategy, s.MeanScore, s.VarianceScore, s.Samples)
	}
}
