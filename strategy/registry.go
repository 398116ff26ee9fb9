package strategy

import (
	"errors"
	"fmt"
	"sort"

	"coinsim/game"

	"golang.org/x/exp/rand"
)

// ErrUnknownStrategy is returned when a strategy name has no registered constructor.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Config carries the per-player parameters a constructor may need. Unused
// fields are ignored by variants that do not consume them.
type Config struct {
	Value      float64 // constant: fixed guess
	PriorAlpha float64 // bayesian prior, defaults to (1,1)
	PriorBeta  float64
	NoiseScale float64 // noisy: initial magnitude, default 0.05
	Base       string  // noisy: name of the wrapped variant
	Smoothing  float64 // moving-average, default 0.1

	// Rule is the experiment's scoring rule, injected by the engine. It backs
	// partial-feedback decoding and the fictitious best response.
	Rule game.ScoringRule
	// Seed feeds the private stream of stochastic variants.
	Seed uint64
}

// Constructor builds a fresh strategy instance from its configuration.
// Constructors are called once per player per replicate so belief state never
// leaks across replicates.
type Constructor func(cfg Config) (Strategy, error)

var registry map[string]Constructor

func init() {
	registry = map[string]Constructor{
		"constant": func(cfg Config) (Strategy, error) {
			return NewConstant(cfg.Value)
		},
		"random": func(cfg Config) (Strategy, error) {
			return NewRandom(rand.New(rand.NewSource(cfg.Seed))), nil
		},
		"frequentist": func(cfg Config) (Strategy, error) {
			return NewFrequentist(cfg.Rule), nil
		},
		"bayesian": func(cfg Config) (Strategy, error) {
			alpha, beta := cfg.PriorAlpha, cfg.PriorBeta
			if alpha == 0 && beta == 0 {
				alpha, beta = 1, 1
			}
			return NewBayesian(alpha, beta, cfg.Rule)
		},
		"moving-average": func(cfg Config) (Strategy, error) {
			smoothing := cfg.Smoothing
			if smoothing == 0 {
				smoothing = 0.1
			}
			return NewMovingAverage(smoothing, cfg.Rule)
		},
		"noisy": func(cfg Config) (Strategy, error) {
			if cfg.Base == "" || cfg.Base == "noisy" {
				return nil, fmt.Errorf("noisy strategy needs a non-noisy base, got %q", cfg.Base)
			}
			base, err := New(cfg.Base, cfg)
			if err != nil {
				return nil, fmt.Errorf("noisy base: %w", err)
			}
			scale := cfg.NoiseScale
			if scale == 0 {
				scale = 0.05
			}
			return NewNoisy(base, scale, rand.New(rand.NewSource(cfg.Seed)))
		},
		"fictitious": func(cfg Config) (Strategy, error) {
			return NewFictitious(cfg.Rule), nil
		},
	}
}

// Register adds or replaces a named constructor, keeping the strategy set
// open for extension.
func Register(name string, construct Constructor) {
	registry[name] = construct
}

// New builds a fresh instance of the named strategy.
func New(name string, cfg Config) (Strategy, error) {
	construct, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return construct(cfg)
}

// Names lists the registered strategy names in lexical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
