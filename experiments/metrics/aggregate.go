package metrics

import (
	"fmt"
	"math"
	"sort"

	"coinsim/engine"
	"coinsim/utils"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// StrategySummary aggregates one strategy's outcomes over all successful
// replicates. When several players share a strategy their samples are pooled.
type StrategySummary struct {
	Strategy      string  `json:"strategy"`
	Rank          int     `json:"rank"`
	Players       int     `json:"players"`
	Samples       int     `json:"samples"`
	MeanScore     float64 `json:"mean_score"`
	VarianceScore float64 `json:"variance_score"`
	// Convergence holds the mean |guess - true p| per round index, averaged
	// over replicates and same-strategy players.
	Convergence []float64 `json:"convergence"`
}

// ReplicateFailure records one aborted replicate.
type ReplicateFailure struct {
	Replicate int    `json:"replicate"`
	Reason    string `json:"reason"`
}

// ExperimentResult is the serializable record handed to external consumers.
// Summaries are in rank order: best mean cumulative score first, ties broken
// by lower variance, then by lexical strategy name.
type ExperimentResult struct {
	Replicates int                `json:"replicates"`
	Failed     int                `json:"failed"`
	Rounds     int                `json:"rounds"`
	Summaries  []StrategySummary  `json:"summaries"`
	Failures   []ReplicateFailure `json:"failures,omitempty"`
}

// Best returns the top-ranked summary.
func (r ExperimentResult) Best() StrategySummary {
	return r.Summaries[0]
}

// Aggregate reduces S replicates into per-strategy statistics. Failed
// replicates are recorded and excluded from the statistics; aggregation of a
// fully failed run is an error.
func Aggregate(runs []engine.SimulationRun) (ExperimentResult, error) {
	if len(runs) == 0 {
		return ExperimentResult{}, fmt.Errorf("no runs to aggregate")
	}

	result := ExperimentResult{Replicates: len(runs)}

	// Anything produced per strategy, keyed by first-seen order.
	names := []string{}
	players := map[string]int{}
	cumulative := map[string][]float64{}
	absErrs := map[string][][]float64{} // per round index, pooled samples

	for _, run := range runs {
		if run.Failed {
			result.Failed++
			result.Failures = append(result.Failures, ReplicateFailure{
				Replicate: run.Replicate,
				Reason:    run.Failure,
			})
			continue
		}
		if len(run.Rounds) > result.Rounds {
			result.Rounds = len(run.Rounds)
		}
		seen := map[string]int{}
		for i, name := range run.Strategies {
			if utils.FindIndex(names, name) == -1 {
				names = append(names, name)
			}
			seen[name]++
			cumulative[name] = append(cumulative[name], run.Cumulative[i])
			for len(absErrs[name]) < len(run.Rounds) {
				absErrs[name] = append(absErrs[name], nil)
			}
			for t, round := range run.Rounds {
				absErrs[name][t] = append(absErrs[name][t], math.Abs(round.Guesses[i]-run.TrueP))
			}
		}
		for name, n := range seen {
			if n > players[name] {
				players[name] = n
			}
		}
	}

	if result.Failed == len(runs) {
		return result, fmt.Errorf("all %d replicates failed", result.Failed)
	}

	for _, name := range names {
		samples := cumulative[name]
		mean, err := stats.Mean(samples)
		if err != nil {
			return result, fmt.Errorf("failed to aggregate %q: %w", name, err)
		}
		variance := 0.0
		if len(samples) > 1 {
			variance, err = stats.SampleVariance(samples)
			if err != nil {
				return result, fmt.Errorf("failed to aggregate %q: %w", name, err)
			}
		}
		curve := make([]float64, len(absErrs[name]))
		for t, errs := range absErrs[name] {
			curve[t] = stat.Mean(errs, nil)
		}
		result.Summaries = append(result.Summaries, StrategySummary{
			Strategy:      name,
			Players:       players[name],
			Samples:       len(samples),
			MeanScore:     mean,
			VarianceScore: variance,
			Convergence:   curve,
		})
	}

	rank(result.Summaries)
	return result, nil
}

// rank orders summaries best-first: highest mean, then lowest variance, then
// lexical strategy name so ties resolve deterministically.
func rank(summaries []StrategySummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i], summaries[j]
		if a.MeanScore != b.MeanScore {
			return a.MeanScore > b.MeanScore
		}
		if a.VarianceScore != b.VarianceScore {
			return a.VarianceScore < b.VarianceScore
		}
		return a.Strategy < b.Strategy
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}
}
