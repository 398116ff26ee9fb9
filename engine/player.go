package engine

import "coinsim/strategy"

// Player couples one strategy instance with its accumulated history. The
// history grows by exactly one guess and one score per round.
type Player struct {
	ID       string
	Strategy strategy.Strategy

	guesses []float64
	scores  []float64
}

// NewPlayer creates a player around a freshly built strategy.
func NewPlayer(id string, s strategy.Strategy) *Player {
	return &Player{ID: id, Strategy: s}
}

// History returns the player's own past guesses and scores.
func (p *Player) History() strategy.History {
	return strategy.History{Guesses: p.guesses, Scores: p.scores}
}

// Record appends one completed round to the history.
func (p *Player) Record(guess, score float64) {
	p.guesses = append(p.guesses, guess)
	p.scores = append(p.scores, score)
}

// Rounds reports how many rounds the player has completed.
func (p *Player) Rounds() int {
	return len(p.guesses)
}

// Cumulative sums the player's scores over all completed rounds.
func (p *Player) Cumulative() float64 {
	total := 0.0
	for _, s := range p.scores {
		total += s
	}
	return total
}
