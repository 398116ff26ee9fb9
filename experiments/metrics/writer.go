package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"coinsim/engine"
)

type Writer struct {
	baseDir string
}

// NewWriter creates a result directory for one named experiment, stamped so
// repeated runs never overwrite each other.
func NewWriter(name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join("results", name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

// WriteResult stores the full experiment result as JSON, the hand-off format
// for external visualization.
func (w *Writer) WriteResult(result ExperimentResult) error {
	path := filepath.Join(w.baseDir, "result.json")
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	err = os.WriteFile(path, raw, 0644)
	if err != nil {
		return fmt.Errorf("failed to write result file: %w", err)
	}
	return nil
}

// WriteSummaries stores the per-strategy ranking table.
func (w *Writer) WriteSummaries(result ExperimentResult) error {
	path := filepath.Join(w.baseDir, "summaries.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summaries file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"rank", "strategy", "players", "samples", "mean_score", "variance_score"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write summaries header: %w", err)
	}

	for _, s := range result.Summaries {
		row := []string{
			strconv.Itoa(s.Rank),
			s.Strategy,
			strconv.Itoa(s.Players),
			strconv.Itoa(s.Samples),
			strconv.FormatFloat(s.MeanScore, 'g', -1, 64),
			strconv.FormatFloat(s.VarianceScore, 'g', -1, 64),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write summaries row: %w", err)
		}
	}

	return nil
}

// WriteConvergence stores each strategy's mean absolute error per round.
func (w *Writer) WriteConvergence(result ExperimentResult) error {
	path := filepath.Join(w.baseDir, "convergence.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create convergence file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"strategy", "round", "mean_abs_error"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write convergence header: %w", err)
	}

	for _, s := range result.Summaries {
		for t, e := range s.Convergence {
			row := []string{
				s.Strategy,
				strconv.Itoa(t),
				strconv.FormatFloat(e, 'g', -1, 64),
			}
			err = writer.Write(row)
			if err != nil {
				return fmt.Errorf("failed to write convergence row: %w", err)
			}
		}
	}

	return nil
}

// WriteRuns stores one row per replicate and player with the cumulative score.
func (w *Writer) WriteRuns(runs []engine.SimulationRun) error {
	path := filepath.Join(w.baseDir, "runs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create runs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	header := []string{"replicate", "seed", "true_p", "player", "strategy", "cumulative_score", "failed", "failure"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write runs header: %w", err)
	}

	for _, run := range runs {
		if run.Failed {
			row := []string{
				strconv.Itoa(run.Replicate),
				strconv.FormatUint(run.Seed, 10),
				"", "", "", "",
				"true",
				run.Failure,
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write runs row: %w", err)
			}
			continue
		}
		for i, id := range run.PlayerIDs {
			row := []string{
				strconv.Itoa(run.Replicate),
				strconv.FormatUint(run.Seed, 10),
				strconv.FormatFloat(run.TrueP, 'g', -1, 64),
				id,
				run.Strategies[i],
				strconv.FormatFloat(run.Cumulative[i], 'g', -1, 64),
				"false",
				"",
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write runs row: %w", err)
			}
		}
	}

	return nil
}
