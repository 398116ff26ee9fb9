package strategy

import (
	"fmt"

	"coinsim/game"
)

// frequentist guesses the empirical heads frequency. Cold start (zero
// observations) is exactly 0.5. Under partial feedback it recovers the
// outcome by inverting the scoring rule at its last guess.
type frequentist struct {
	heads     int
	total     int
	lastGuess float64
	rule      game.ScoringRule
}

// NewFrequentist builds a frequency estimator. The rule is only consulted for
// partial-feedback decoding and may be nil when feedback is full.
func NewFrequentist(rule game.ScoringRule) Strategy {
	return &frequentist{rule: rule}
}

func (s *frequentist) Name() string { return "frequentist" }

func (s *frequentist) ProduceGuess(History) float64 {
	g := 0.5
	if s.total > 0 {
		g = float64(s.heads) / float64(s.total)
	}
	s.lastGuess = g
	return g
}

func (s *frequentist) Update(fb Feedback) {
	switch {
	case fb.OutcomeKnown:
		s.observe(fb.Outcome)
	case fb.ScoreKnown:
		if outcome, ok := decodeOutcome(s.rule, s.lastGuess, fb.Score); ok {
			s.observe(outcome)
		}
	}
}

func (s *frequentist) observe(outcome game.Outcome) {
	if outcome == game.Heads {
		s.heads++
	}
	s.total++
}

// bayesian maintains a Beta(alpha, beta) posterior over the coin's bias and
// guesses its mean. Heads increments alpha, tails beta, no decay.
type bayesian struct {
	alpha     float64
	beta      float64
	lastGuess float64
	rule      game.ScoringRule
}

// NewBayesian builds a Beta-posterior strategy from a strictly positive prior.
func NewBayesian(alpha, beta float64, rule game.ScoringRule) (Strategy, error) {
	if alpha <= 0 || beta <= 0 {
		return nil, fmt.Errorf("bayesian prior (%v,%v) must be strictly positive", alpha, beta)
	}
	return &bayesian{alpha: alpha, beta: beta, rule: rule}, nil
}

func (s *bayesian) Name() string { return "bayesian" }

func (s *bayesian) ProduceGuess(History) float64 {
	g := s.alpha / (s.alpha + s.beta)
	s.lastGuess = g
	return g
}

func (s *bayesian) Update(fb Feedback) {
	switch {
	case fb.OutcomeKnown:
		s.observe(fb.Outcome)
	case fb.ScoreKnown:
		if outcome, ok := decodeOutcome(s.rule, s.lastGuess, fb.Score); ok {
			s.observe(outcome)
		}
	}
}

func (s *bayesian) observe(outcome game.Outcome) {
	if outcome == game.Heads {
		s.alpha++
	} else {
		s.beta++
	}
}

// movingAverage tracks an exponentially smoothed estimate of the bias:
// estimate <- smoothing*outcome + (1-smoothing)*estimate.
type movingAverage struct {
	estimate  float64
	smoothing float64
	lastGuess float64
	rule      game.ScoringRule
}

// NewMovingAverage builds an exponential-smoothing estimator. smoothing must
// lie in (0,1]; the initial estimate is 0.5.
func NewMovingAverage(smoothing float64, rule game.ScoringRule) (Strategy, error) {
	if smoothing <= 0 || smoothing > 1 {
		return nil, fmt.Errorf("moving-average smoothing %v outside (0,1]", smoothing)
	}
	return &movingAverage{estimate: 0.5, smoothing: smoothing, rule: rule}, nil
}

func (s *movingAverage) Name() string { return "moving-average" }

func (s *movingAverage) ProduceGuess(History) float64 {
	s.lastGuess = s.estimate
	return s.estimate
}

func (s *movingAverage) Update(fb Feedback) {
	switch {
	case fb.OutcomeKnown:
		s.observe(fb.Outcome)
	case fb.ScoreKnown:
		if outcome, ok := decodeOutcome(s.rule, s.lastGuess, fb.Score); ok {
			s.observe(outcome)
		}
	}
}

func (s *movingAverage) observe(outcome game.Outcome) {
	s.estimate = s.smoothing*outcome.Value() + (1-s.smoothing)*s.estimate
}
