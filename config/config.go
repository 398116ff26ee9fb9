package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"coinsim/game"
	"coinsim/strategy"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfiguration is returned for any setup error: the simulation
// never starts on a configuration that fails validation.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Player assigns one strategy, with its parameters, to one player slot.
type Player struct {
	ID       string `yaml:"id"`
	Strategy string `yaml:"strategy"`

	Value      float64 `yaml:"value,omitempty"`       // constant
	PriorAlpha float64 `yaml:"prior_alpha,omitempty"` // bayesian
	PriorBeta  float64 `yaml:"prior_beta,omitempty"`
	NoiseScale float64 `yaml:"noise_scale,omitempty"` // noisy
	Base       string  `yaml:"base,omitempty"`
	Smoothing  float64 `yaml:"smoothing,omitempty"` // moving-average
}

// Experiment is the single immutable configuration handed to the runner.
// It is passed by value; nothing mutates it after validation.
type Experiment struct {
	TrueP       float64  `yaml:"p"`
	Rounds      int      `yaml:"rounds"`
	Replicates  int      `yaml:"replicates"`
	ScoringRule string   `yaml:"scoring_rule"`
	Feedback    string   `yaml:"feedback"`
	Seed        uint64   `yaml:"seed"`
	Workers     int      `yaml:"workers"`
	Players     []Player `yaml:"players"`

	// RedrawP redraws the true bias per replicate from Beta(RedrawAlpha,
	// RedrawBeta) instead of holding TrueP fixed. Off by default.
	RedrawP     bool    `yaml:"redraw_p"`
	RedrawAlpha float64 `yaml:"redraw_alpha,omitempty"`
	RedrawBeta  float64 `yaml:"redraw_beta,omitempty"`
}

// Default returns an experiment with the documented defaults filled in.
// TrueP and Players still have to be set by the caller.
func Default() Experiment {
	return Experiment{
		Rounds:      1000,
		Replicates:  20,
		ScoringRule: "quadratic",
		Feedback:    "full",
		Seed:        1,
		Workers:     runtime.NumCPU(),
		RedrawAlpha: 1,
		RedrawBeta:  1,
	}
}

// Load reads a YAML experiment file over the defaults.
func Load(path string) (Experiment, error) {
	exp := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return exp, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &exp); err != nil {
		return exp, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return exp, nil
}

// Validate rejects every configuration the runner must not start on:
// out-of-range p, non-positive T or S, unknown rule/policy/strategy names,
// and per-strategy parameter errors. Strategy parameters are checked by
// constructing a trial instance through the registry.
func (e Experiment) Validate() error {
	if !e.RedrawP && (e.TrueP <= 0 || e.TrueP >= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration,
			fmt.Errorf("%w: true p %v outside (0,1)", game.ErrInvalidProbability, e.TrueP))
	}
	if e.Rounds <= 0 {
		return fmt.Errorf("%w: rounds %d must be positive", ErrInvalidConfiguration, e.Rounds)
	}
	if e.Replicates <= 0 {
		return fmt.Errorf("%w: replicates %d must be positive", ErrInvalidConfiguration, e.Replicates)
	}
	if e.RedrawP && (e.RedrawAlpha <= 0 || e.RedrawBeta <= 0) {
		return fmt.Errorf("%w: redraw prior (%v,%v) must be strictly positive",
			ErrInvalidConfiguration, e.RedrawAlpha, e.RedrawBeta)
	}
	rule, err := game.ParseScoringRule(e.ScoringRule)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if _, err := game.ParseFeedbackPolicy(e.Feedback); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if len(e.Players) == 0 {
		return fmt.Errorf("%w: no players configured", ErrInvalidConfiguration)
	}
	seen := map[string]bool{}
	for _, p := range e.Players {
		if p.ID == "" {
			return fmt.Errorf("%w: player with empty id", ErrInvalidConfiguration)
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate player id %q", ErrInvalidConfiguration, p.ID)
		}
		seen[p.ID] = true
		if _, err := strategy.New(p.Strategy, p.StrategyConfig(rule, 0)); err != nil {
			return fmt.Errorf("%w: player %q: %v", ErrInvalidConfiguration, p.ID, err)
		}
	}
	return nil
}

// StrategyConfig maps the player's parameters onto the strategy registry's
// config, binding the experiment's rule and a stream seed.
func (p Player) StrategyConfig(rule game.ScoringRule, seed uint64) strategy.Config {
	return strategy.Config{
		Value:      p.Value,
		PriorAlpha: p.PriorAlpha,
		PriorBeta:  p.PriorBeta,
		NoiseScale: p.NoiseScale,
		Base:       p.Base,
		Smoothing:  p.Smoothing,
		Rule:       rule,
		Seed:       seed,
	}
}
