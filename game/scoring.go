package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownRule is returned when a scoring rule name has no registered variant.
var ErrUnknownRule = errors.New("unknown scoring rule")

// Epsilon bounds guesses away from 0 and 1 so the logarithmic rule stays finite.
const Epsilon = 1e-12

// Clamp pins a guess into the open interval (Epsilon, 1-Epsilon). Applied as
// policy before every evaluation, never raised as an error.
func Clamp(guess float64) float64 {
	return math.Max(Epsilon, math.Min(1-Epsilon, guess))
}

// ScoringRule maps a predicted probability of heads and a realized outcome to
// a score, higher is better. Every variant is strictly proper: the expected
// score under Bernoulli(p) outcomes is maximized at guess = p.
type ScoringRule interface {
	Name() string
	Evaluate(guess float64, outcome Outcome) float64
}

// QuadraticRule is the Brier-style rule -(guess - outcome)^2.
type QuadraticRule struct{}

func (QuadraticRule) Name() string { return "quadratic" }

func (QuadraticRule) Evaluate(guess float64, outcome Outcome) float64 {
	d := guess - outcome.Value()
	return -(d * d)
}

// LogarithmicRule scores ln(guess) on heads and ln(1-guess) on tails.
// Callers must clamp: the rule itself evaluates whatever it is given.
type LogarithmicRule struct{}

func (LogarithmicRule) Name() string { return "logarithmic" }

func (LogarithmicRule) Evaluate(guess float64, outcome Outcome) float64 {
	if outcome == Heads {
		return math.Log(guess)
	}
	return math.Log(1 - guess)
}

// SphericalRule scores guess/sqrt(guess^2+(1-guess)^2) on heads and the
// complementary ratio on tails. Range [0,1], higher is better.
type SphericalRule struct{}

func (SphericalRule) Name() string { return "spherical" }

func (SphericalRule) Evaluate(guess float64, outcome Outcome) float64 {
	denom := math.Sqrt(guess*guess + (1-guess)*(1-guess))
	if outcome == Heads {
		return guess / denom
	}
	return (1 - guess) / denom
}

// ParseScoringRule resolves a configured rule name to its variant.
func ParseScoringRule(name string) (ScoringRule, error) {
	switch name {
	case "quadratic":
		return QuadraticRule{}, nil
	case "logarithmic":
		return LogarithmicRule{}, nil
	case "spherical":
		return SphericalRule{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRule, name)
	}
}
