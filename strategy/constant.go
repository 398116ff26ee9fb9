package strategy

import (
	"fmt"

	"coinsim/game"

	"golang.org/x/exp/rand"
)

// constant always returns its configured probability, ignoring all history
// and feedback. Value 1 covers "always heads", value 0 "always tails".
type constant struct {
	value float64
}

// NewConstant builds a fixed-guess strategy. The value must lie in [0,1];
// clamping to the open interval happens at evaluation time, not here.
func NewConstant(value float64) (Strategy, error) {
	if value < 0 || value > 1 {
		return nil, fmt.Errorf("%w: constant value %v outside [0,1]", game.ErrInvalidProbability, value)
	}
	return &constant{value: value}, nil
}

func (s *constant) Name() string { return "constant" }

func (s *constant) ProduceGuess(History) float64 { return s.value }

func (s *constant) Update(Feedback) {}

// random draws a fresh uniform guess each round from its own stream.
type random struct {
	rng *rand.Rand
}

// NewRandom builds a uniform-guess strategy over the given stream.
func NewRandom(rng *rand.Rand) Strategy {
	return &random{rng: rng}
}

func (s *random) Name() string { return "random" }

func (s *random) ProduceGuess(History) float64 { return s.rng.Float64() }

func (s *random) Update(Feedback) {}
