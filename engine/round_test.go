package engine

import (
	"testing"

	"coinsim/game"
	"coinsim/strategy"

	"github.com/stretchr/testify/require"
)

func mustStrategy(t *testing.T, name string, cfg strategy.Config) strategy.Strategy {
	t.Helper()
	s, err := strategy.New(name, cfg)
	require.NoError(t, err)
	return s
}

func mustCoin(t *testing.T, p float64, seed uint64) *game.CoinSource {
	t.Helper()
	coin, err := game.NewCoinSource(p, seed)
	require.NoError(t, err)
	return coin
}

func TestPlayRound(t *testing.T) {
	rule := game.QuadraticRule{}

	t.Run("records guesses, scores and the outcome", func(t *testing.T) {
		players := []*Player{
			NewPlayer("p1", mustStrategy(t, "constant", strategy.Config{Value: 0.8})),
			NewPlayer("p2", mustStrategy(t, "frequentist", strategy.Config{Rule: rule})),
		}
		coin := mustCoin(t, 0.7, 11)

		round := PlayRound(0, players, coin, rule, game.FeedbackFull)

		require.Equal(t, 0, round.Index)
		require.Equal(t, []float64{0.8, 0.5}, round.Guesses)
		require.True(t, round.Revealed, "Full feedback reveals the outcome")
		for i := range players {
			require.Equal(t, rule.Evaluate(round.Guesses[i], round.Outcome), round.Scores[i],
				"Recorded score must match the rule on the recorded outcome")
		}
	})

	t.Run("history grows by one per round for every player", func(t *testing.T) {
		players := []*Player{
			NewPlayer("p1", mustStrategy(t, "constant", strategy.Config{Value: 0.5})),
			NewPlayer("p2", mustStrategy(t, "bayesian", strategy.Config{Rule: rule})),
		}
		coin := mustCoin(t, 0.5, 3)

		for i := 0; i < 5; i++ {
			for _, p := range players {
				require.Equal(t, i, p.Rounds(),
					"History length must equal the round index")
			}
			PlayRound(i, players, coin, rule, game.FeedbackFull)
		}
		for _, p := range players {
			require.Equal(t, 5, p.Rounds())
		}
	})

	t.Run("full feedback drives belief updates from the outcome", func(t *testing.T) {
		bayes := mustStrategy(t, "bayesian", strategy.Config{})
		players := []*Player{NewPlayer("p1", bayes)}
		coin := mustCoin(t, 0.7, 5)

		round := PlayRound(0, players, coin, rule, game.FeedbackFull)

		want := 1.0 / 3.0
		if round.Outcome == game.Heads {
			want = 2.0 / 3.0
		}
		require.Equal(t, want, bayes.ProduceGuess(players[0].History()),
			"Posterior must move toward the revealed outcome")
	})

	t.Run("partial feedback updates through rule inversion", func(t *testing.T) {
		bayes := mustStrategy(t, "bayesian", strategy.Config{PriorAlpha: 2, PriorBeta: 1, Rule: rule})
		players := []*Player{NewPlayer("p1", bayes)}
		coin := mustCoin(t, 0.7, 5)

		round := PlayRound(0, players, coin, rule, game.FeedbackPartial)
		require.False(t, round.Revealed, "Partial feedback must not reveal the outcome")

		// Guess 2/3 is decodable under the quadratic rule, so the posterior
		// still tracks the realized outcome.
		want := 2.0 / 4.0
		if round.Outcome == game.Heads {
			want = 3.0 / 4.0
		}
		require.Equal(t, want, bayes.ProduceGuess(players[0].History()))
	})

	t.Run("no feedback freezes beliefs", func(t *testing.T) {
		bayes := mustStrategy(t, "bayesian", strategy.Config{})
		players := []*Player{NewPlayer("p1", bayes)}
		coin := mustCoin(t, 0.7, 5)

		for i := 0; i < 3; i++ {
			PlayRound(i, players, coin, rule, game.FeedbackNone)
		}
		require.Equal(t, 0.5, bayes.ProduceGuess(players[0].History()),
			"Beliefs must not move without feedback")
	})

	t.Run("guess board reaches observer strategies after submission", func(t *testing.T) {
		players := []*Player{
			NewPlayer("p1", mustStrategy(t, "fictitious", strategy.Config{Rule: rule})),
			NewPlayer("p2", mustStrategy(t, "constant", strategy.Config{Value: 0.8})),
		}
		coin := mustCoin(t, 0.5, 13)

		round0 := PlayRound(0, players, coin, rule, game.FeedbackFull)
		require.Equal(t, 0.5, round0.Guesses[0],
			"Fictitious play starts cold before seeing any board")

		round1 := PlayRound(1, players, coin, rule, game.FeedbackFull)
		require.InDelta(t, 0.8, round1.Guesses[0], 0.002,
			"After one board the best response tracks the opponent's guess")
	})
}
