package strategy

import (
	"math"

	"coinsim/game"
)

// History is a player's own ordered record of past guesses and scores. Its
// length equals the current round index.
type History struct {
	Guesses []float64
	Scores  []float64
}

// Rounds reports how many rounds the history covers.
func (h History) Rounds() int {
	return len(h.Guesses)
}

// Feedback is what a round reveals to one strategy, gated by the engine's
// feedback policy: under full feedback both the outcome and the score are
// known, under partial feedback only the score.
type Feedback struct {
	Round        int
	Outcome      game.Outcome
	OutcomeKnown bool
	Score        float64
	ScoreKnown   bool
}

// Strategy produces a guess for the next round from its private belief state
// and folds feedback back into that state. Instances are never shared between
// players or replicates.
type Strategy interface {
	Name() string
	// ProduceGuess returns the predicted probability of heads for the next round.
	ProduceGuess(history History) float64
	// Update folds one round's feedback into the belief state.
	Update(fb Feedback)
}

// Board is the round-scoped public guess board: every player's submitted
// guess for one round, populated after all guesses are in and never mutated
// afterwards. IDs and Guesses are index-aligned in player order.
type Board struct {
	Round   int
	IDs     []string
	Guesses []float64
}

// Observer is implemented by strategies that read the public board, such as
// fictitious play. The engine delivers the completed board once per round.
type Observer interface {
	Observe(self string, board Board)
}

// decodeOutcome inverts a scoring rule at the strategy's own last guess:
// whichever hypothetical outcome yields a payoff nearer the observed score is
// taken as the realized one. An exact tie (e.g. a guess of 0.5 under the
// quadratic rule) is ambiguous and decodes to nothing.
func decodeOutcome(rule game.ScoringRule, lastGuess, score float64) (game.Outcome, bool) {
	if rule == nil {
		return 0, false
	}
	g := game.Clamp(lastGuess)
	dTails := math.Abs(score - rule.Evaluate(g, game.Tails))
	dHeads := math.Abs(score - rule.Evaluate(g, game.Heads))
	switch {
	case dTails < dHeads:
		return game.Tails, true
	case dHeads < dTails:
		return game.Heads, true
	default:
		return 0, false
	}
}
