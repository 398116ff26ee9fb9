package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidProbability is returned when a probability lies outside its valid range.
var ErrInvalidProbability = errors.New("invalid probability")

// Outcome is the result of a single coin flip.
type Outcome int

const (
	Tails Outcome = 0
	Heads Outcome = 1
)

// Value maps the outcome onto {0, 1} for scoring arithmetic.
func (o Outcome) Value() float64 {
	return float64(o)
}

func (o Outcome) String() string {
	if o == Heads {
		return "heads"
	}
	return "tails"
}

// CoinSource produces independent Bernoulli(p) outcomes from its own seeded
// stream. Immutable once constructed; one instance serves one replicate.
type CoinSource struct {
	p    float64
	bern distuv.Bernoulli
}

// NewCoinSource builds a coin with the given bias. p must lie strictly
// inside (0,1): a deterministic coin makes every scoring comparison trivial.
func NewCoinSource(p float64, seed uint64) (*CoinSource, error) {
	if p <= 0 || p >= 1 {
		return nil, fmt.Errorf("%w: true p %v outside (0,1)", ErrInvalidProbability, p)
	}
	return &CoinSource{
		p: p,
		bern: distuv.Bernoulli{
			P:   p,
			Src: rand.NewPCG(seed, seed),
		},
	}, nil
}

// Flip draws one outcome, independent of all previous draws.
func (c *CoinSource) Flip() Outcome {
	if c.bern.Rand() == 1 {
		return Heads
	}
	return Tails
}

// P reports the true bias of the coin.
func (c *CoinSource) P() float64 {
	return c.p
}
