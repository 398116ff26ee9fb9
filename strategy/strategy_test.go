package strategy

import (
	"testing"

	"coinsim/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func fullFeedback(outcome game.Outcome, score float64) Feedback {
	return Feedback{Outcome: outcome, OutcomeKnown: true, Score: score, ScoreKnown: true}
}

func TestConstant(t *testing.T) {
	t.Run("always returns the configured value", func(t *testing.T) {
		s, err := NewConstant(0.8)
		require.NoError(t, err)

		require.Equal(t, 0.8, s.ProduceGuess(History{}))
		s.Update(fullFeedback(game.Tails, -0.64))
		require.Equal(t, 0.8, s.ProduceGuess(History{}),
			"Feedback must not move a constant strategy")
	})

	t.Run("rejects values outside [0,1]", func(t *testing.T) {
		_, err := NewConstant(1.2)
		require.ErrorIs(t, err, game.ErrInvalidProbability)
		_, err = NewConstant(-0.1)
		require.ErrorIs(t, err, game.ErrInvalidProbability)
	})

	t.Run("allows the always-heads and always-tails presets", func(t *testing.T) {
		for _, v := range []float64{0, 1} {
			s, err := NewConstant(v)
			require.NoError(t, err)
			require.Equal(t, v, s.ProduceGuess(History{}))
		}
	})
}

func TestRandom(t *testing.T) {
	t.Run("guesses stay in [0,1] and follow the seed", func(t *testing.T) {
		s1 := NewRandom(rand.New(rand.NewSource(9)))
		s2 := NewRandom(rand.New(rand.NewSource(9)))

		for i := 0; i < 50; i++ {
			g1 := s1.ProduceGuess(History{})
			require.GreaterOrEqual(t, g1, 0.0)
			require.LessOrEqual(t, g1, 1.0)
			require.Equal(t, g1, s2.ProduceGuess(History{}),
				"Same seed should reproduce the same guesses")
		}
	})
}

func TestFrequentist(t *testing.T) {
	t.Run("cold start is exactly 0.5", func(t *testing.T) {
		s := NewFrequentist(nil)
		require.Equal(t, 0.5, s.ProduceGuess(History{}),
			"Zero observations must produce exactly 0.5")
	})

	t.Run("tracks the empirical frequency", func(t *testing.T) {
		s := NewFrequentist(nil)
		s.ProduceGuess(History{})
		s.Update(fullFeedback(game.Heads, 0))
		s.Update(fullFeedback(game.Heads, 0))
		s.Update(fullFeedback(game.Tails, 0))

		require.Equal(t, 2.0/3.0, s.ProduceGuess(History{}))
	})

	t.Run("ignores feedback without outcome or score", func(t *testing.T) {
		s := NewFrequentist(nil)
		s.ProduceGuess(History{})
		s.Update(Feedback{})
		require.Equal(t, 0.5, s.ProduceGuess(History{}))
	})
}

func TestBayesian(t *testing.T) {
	t.Run("posterior mean is exact from the uniform prior", func(t *testing.T) {
		s, err := NewBayesian(1, 1, nil)
		require.NoError(t, err)
		require.Equal(t, 0.5, s.ProduceGuess(History{}))

		// 3 heads and 2 tails: mean must equal (1+3)/(2+3+2).
		for i := 0; i < 3; i++ {
			s.Update(fullFeedback(game.Heads, 0))
		}
		for i := 0; i < 2; i++ {
			s.Update(fullFeedback(game.Tails, 0))
		}
		require.Equal(t, 4.0/7.0, s.ProduceGuess(History{}),
			"Posterior mean should be (1+h)/(2+h+t) exactly")
	})

	t.Run("rejects non-positive priors", func(t *testing.T) {
		_, err := NewBayesian(0, 1, nil)
		require.Error(t, err)
		_, err = NewBayesian(1, -2, nil)
		require.Error(t, err)
	})
}

func TestMovingAverage(t *testing.T) {
	t.Run("smooths toward observed outcomes", func(t *testing.T) {
		s, err := NewMovingAverage(0.1, nil)
		require.NoError(t, err)
		require.Equal(t, 0.5, s.ProduceGuess(History{}))

		s.Update(fullFeedback(game.Heads, 0))
		require.InDelta(t, 0.55, s.ProduceGuess(History{}), 1e-12)

		s.Update(fullFeedback(game.Tails, 0))
		require.InDelta(t, 0.495, s.ProduceGuess(History{}), 1e-12)
	})

	t.Run("rejects smoothing outside (0,1]", func(t *testing.T) {
		_, err := NewMovingAverage(0, nil)
		require.Error(t, err)
		_, err = NewMovingAverage(1.5, nil)
		require.Error(t, err)
	})
}

func TestPartialFeedbackDecoding(t *testing.T) {
	rule := game.QuadraticRule{}

	t.Run("recovers the outcome by inverting the rule", func(t *testing.T) {
		s, err := NewBayesian(2, 1, rule)
		require.NoError(t, err)
		g := s.ProduceGuess(History{})
		require.Equal(t, 2.0/3.0, g)

		// Score for a realized head at guess 2/3 is -(1/3)^2.
		s.Update(Feedback{Score: rule.Evaluate(g, game.Heads), ScoreKnown: true})
		require.Equal(t, 3.0/4.0, s.ProduceGuess(History{}),
			"Decoded head should increment alpha")
	})

	t.Run("ambiguous score at guess 0.5 skips the update", func(t *testing.T) {
		s := NewFrequentist(rule)
		g := s.ProduceGuess(History{})
		require.Equal(t, 0.5, g)

		// Both outcomes yield -0.25 at guess 0.5: nothing to learn.
		s.Update(Feedback{Score: -0.25, ScoreKnown: true})
		require.Equal(t, 0.5, s.ProduceGuess(History{}))
	})

	t.Run("decodes nothing without a rule", func(t *testing.T) {
		s := NewFrequentist(nil)
		s.ProduceGuess(History{})
		s.Update(Feedback{Score: -0.09, ScoreKnown: true})
		require.Equal(t, 0.5, s.ProduceGuess(History{}))
	})
}

func TestNoisy(t *testing.T) {
	base := func(t *testing.T) Strategy {
		s, err := NewConstant(0.5)
		require.NoError(t, err)
		return s
	}

	t.Run("perturbed guesses stay clamped", func(t *testing.T) {
		s, err := NewNoisy(base(t), 0.5, rand.New(rand.NewSource(3)))
		require.NoError(t, err)

		for i := 0; i < 100; i++ {
			g := s.ProduceGuess(History{})
			require.Greater(t, g, 0.0)
			require.Less(t, g, 1.0)
		}
	})

	t.Run("noise grows on a score drop and shrinks otherwise", func(t *testing.T) {
		s, err := NewNoisy(base(t), 0.1, rand.New(rand.NewSource(3)))
		require.NoError(t, err)
		n := s.(*noisy)

		s.Update(Feedback{Score: -0.1, ScoreKnown: true})
		require.Equal(t, 0.1, n.scale, "First score sets the baseline only")

		s.Update(Feedback{Score: -0.5, ScoreKnown: true})
		require.Greater(t, n.scale, 0.1, "Score drop should grow the noise")

		grown := n.scale
		s.Update(Feedback{Score: -0.2, ScoreKnown: true})
		require.Less(t, n.scale, grown, "Score recovery should shrink the noise")
	})

	t.Run("requires a base strategy and a sane scale", func(t *testing.T) {
		_, err := NewNoisy(nil, 0.1, rand.New(rand.NewSource(1)))
		require.Error(t, err)
		_, err = NewNoisy(base(t), 0, rand.New(rand.NewSource(1)))
		require.Error(t, err)
	})
}

func TestRegistry(t *testing.T) {
	t.Run("builds every registered variant", func(t *testing.T) {
		cfg := Config{Value: 0.5, Base: "frequentist", Rule: game.QuadraticRule{}, Seed: 1}
		for _, name := range Names() {
			s, err := New(name, cfg)
			require.NoError(t, err, "Constructor for %q should succeed", name)
			require.NotNil(t, s)
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := New("oracle", Config{})
		require.ErrorIs(t, err, ErrUnknownStrategy)
	})

	t.Run("bayesian defaults to the uniform prior", func(t *testing.T) {
		s, err := New("bayesian", Config{})
		require.NoError(t, err)
		require.Equal(t, 0.5, s.ProduceGuess(History{}))
	})

	t.Run("noisy refuses to wrap itself", func(t *testing.T) {
		_, err := New("noisy", Config{Base: "noisy"})
		require.Error(t, err)
		_, err = New("noisy", Config{})
		require.Error(t, err)
	})
}
