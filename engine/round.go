package engine

import (
	"coinsim/game"
	"coinsim/strategy"
)

// Round records one completed round. Guesses and Scores are index-aligned
// with the players slice the round was played with. Outcome is always stored
// for the experimenter; Revealed tells whether the feedback policy showed it
// to the strategies.
type Round struct {
	Index    int
	Guesses  []float64
	Scores   []float64
	Outcome  game.Outcome
	Revealed bool
}

// PlayRound executes a single round: draw one outcome, collect every player's
// guess from its private belief state, publish the read-only guess board to
// observer strategies, score the clamped guesses, and deliver feedback per the
// policy. Players are visited strictly in slice order so runs are reproducible.
func PlayRound(index int, players []*Player, coin *game.CoinSource, rule game.ScoringRule, policy game.FeedbackPolicy) Round {
	outcome := coin.Flip()

	guesses := make([]float64, len(players))
	ids := make([]string, len(players))
	for i, p := range players {
		guesses[i] = game.Clamp(p.Strategy.ProduceGuess(p.History()))
		ids[i] = p.ID
	}

	// The board exists only after every guess is submitted and is never
	// mutated afterwards.
	board := strategy.Board{Round: index, IDs: ids, Guesses: guesses}

	scores := make([]float64, len(players))
	for i := range players {
		scores[i] = rule.Evaluate(guesses[i], outcome)
	}

	for i, p := range players {
		switch policy {
		case game.FeedbackFull:
			p.Strategy.Update(strategy.Feedback{
				Round:        index,
				Outcome:      outcome,
				OutcomeKnown: true,
				Score:        scores[i],
				ScoreKnown:   true,
			})
		case game.FeedbackPartial:
			p.Strategy.Update(strategy.Feedback{
				Round:      index,
				Score:      scores[i],
				ScoreKnown: true,
			})
		case game.FeedbackNone:
			// no update
		}
		if obs, ok := p.Strategy.(strategy.Observer); ok {
			obs.Observe(p.ID, board)
		}
		p.Record(guesses[i], scores[i])
	}

	return Round{
		Index:    index,
		Guesses:  guesses,
		Scores:   scores,
		Outcome:  outcome,
		Revealed: policy == game.FeedbackFull,
	}
}
