package strategy

import (
	"fmt"

	"coinsim/game"

	"golang.org/x/exp/rand"
)

const (
	minNoiseScale = 1e-3
	maxNoiseScale = 0.5
)

// noisy wraps a base strategy and perturbs its guesses with bounded uniform
// noise. The magnitude adapts on the score trend: a drop versus the previous
// round grows it, anything else shrinks it.
type noisy struct {
	base      Strategy
	rng       *rand.Rand
	scale     float64
	lastScore float64
	scored    bool
}

// NewNoisy wraps base with adaptive noise of the given initial scale.
func NewNoisy(base Strategy, scale float64, rng *rand.Rand) (Strategy, error) {
	if base == nil {
		return nil, fmt.Errorf("noisy strategy needs a base strategy")
	}
	if scale <= 0 || scale > maxNoiseScale {
		return nil, fmt.Errorf("noise scale %v outside (0,%v]", scale, maxNoiseScale)
	}
	return &noisy{base: base, rng: rng, scale: scale}, nil
}

func (s *noisy) Name() string { return "noisy" }

func (s *noisy) ProduceGuess(history History) float64 {
	g := s.base.ProduceGuess(history)
	noise := (s.rng.Float64()*2 - 1) * s.scale
	return game.Clamp(g + noise)
}

func (s *noisy) Update(fb Feedback) {
	s.base.Update(fb)
	if !fb.ScoreKnown {
		return
	}
	if s.scored {
		if fb.Score < s.lastScore {
			s.scale = min(s.scale*1.5, maxNoiseScale)
		} else {
			s.scale = max(s.scale*0.75, minNoiseScale)
		}
	}
	s.lastScore = fb.Score
	s.scored = true
}
