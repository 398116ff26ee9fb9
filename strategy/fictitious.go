package strategy

import (
	"coinsim/game"
)

const responseGridSteps = 1000

// fictitious plays a two-player fictitious-play heuristic: it accumulates the
// opponent's guesses from the public board, treats their empirical mean as a
// Bernoulli parameter, and best-responds with the guess maximizing expected
// own score against it. Cold start is 0.5.
type fictitious struct {
	rule     game.ScoringRule
	opponent []float64
}

// NewFictitious builds a fictitious-play strategy under the given rule.
func NewFictitious(rule game.ScoringRule) Strategy {
	return &fictitious{rule: rule}
}

func (s *fictitious) Name() string { return "fictitious" }

func (s *fictitious) ProduceGuess(History) float64 {
	if len(s.opponent) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, g := range s.opponent {
		sum += g
	}
	return bestResponse(s.rule, sum/float64(len(s.opponent)))
}

func (s *fictitious) Update(Feedback) {}

// Observe records every other player's guess from the completed board.
func (s *fictitious) Observe(self string, board Board) {
	for i, id := range board.IDs {
		if id != self {
			s.opponent = append(s.opponent, board.Guesses[i])
		}
	}
}

// bestResponse grid-searches the guess maximizing expected score when
// outcomes are believed to follow Bernoulli(p). For a proper rule this lands
// on p itself at grid resolution; the search keeps the heuristic honest for
// arbitrary rules. The first maximizer wins, so results are deterministic.
func bestResponse(rule game.ScoringRule, p float64) float64 {
	best := 0.0
	bestScore := 0.0
	for i := 0; i <= responseGridSteps; i++ {
		g := game.Clamp(float64(i) / responseGridSteps)
		expected := p*rule.Evaluate(g, game.Heads) + (1-p)*rule.Evaluate(g, game.Tails)
		if i == 0 || expected > bestScore {
			best = g
			bestScore = expected
		}
	}
	return best
}
