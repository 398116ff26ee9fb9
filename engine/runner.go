package engine

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"coinsim/config"
	"coinsim/game"
	"coinsim/strategy"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
)

// Stream seed derivation: each replicate gets its own seed off the base, and
// each random consumer inside a replicate (coin, redraw, one per player) its
// own stream, so parallel execution stays reproducible and free of cross-talk.
const (
	replicateStride = 0x9E3779B97F4A7C15
	streamStride    = 0xBF58476D1CE4E5B9
)

func replicateSeed(base uint64, replicate int) uint64 {
	return base + uint64(replicate+1)*replicateStride
}

func streamSeed(seed uint64, stream int) uint64 {
	return seed + uint64(stream+1)*streamStride
}

const (
	coinStream   = 0
	redrawStream = 1
	playerStream = 2 // first player; player j uses playerStream+j
)

// SimulationRun is one replicate's full record: T rounds plus per-player
// cumulative scores. Guesses, Scores and Cumulative are index-aligned with
// PlayerIDs and Strategies. A failed replicate carries no rounds.
type SimulationRun struct {
	Replicate  int
	Seed       uint64
	TrueP      float64
	PlayerIDs  []string
	Strategies []string
	Rounds     []Round
	Cumulative []float64
	Failed     bool
	Failure    string
}

// Collector receives replicate-level progress events from a run. The zero
// collector ignores everything; metrics.NewCollector provides a real one.
type Collector interface {
	Start(workers int)
	AddReplicate()
	AddFailure()
}

type nopCollector struct{}

func (nopCollector) Start(int)     {}
func (nopCollector) AddReplicate() {}
func (nopCollector) AddFailure()   {}

type Option func(r *Runner)

// WithWorkers overrides the configured replicate worker bound.
func WithWorkers(workers int) Option {
	return func(r *Runner) {
		if workers > 0 {
			r.workers = workers
		}
	}
}

// WithCollector attaches a progress collector to the run.
func WithCollector(c Collector) Option {
	return func(r *Runner) {
		if c != nil {
			r.collector = c
		}
	}
}

// Runner drives S independent replicates of T sequential rounds each. It is
// built from a validated configuration and holds no mutable state across
// replicates: each replicate is a pure function of (seed, configuration).
type Runner struct {
	cfg       config.Experiment
	rule      game.ScoringRule
	policy    game.FeedbackPolicy
	workers   int
	collector Collector
}

// NewRunner validates the configuration and resolves its enums. Any setup
// error is fatal here; Run never starts on a bad configuration.
func NewRunner(cfg config.Experiment, options ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rule, err := game.ParseScoringRule(cfg.ScoringRule)
	if err != nil {
		return nil, err
	}
	policy, err := game.ParseFeedbackPolicy(cfg.Feedback)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	r := &Runner{cfg: cfg, rule: rule, policy: policy, workers: workers, collector: nopCollector{}}
	for _, option := range options {
		option(r)
	}
	return r, nil
}

// Run executes all replicates, bounded by the configured worker count.
// Rounds within a replicate are strictly sequential; replicates share nothing
// mutable so they run concurrently. Cancellation is honored at replicate
// boundaries. A failure inside one replicate aborts only that replicate; the
// overall run fails only if every replicate does.
func (r *Runner) Run(ctx context.Context) ([]SimulationRun, error) {
	runs := make([]SimulationRun, r.cfg.Replicates)
	r.collector.Start(r.workers)

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(r.workers)
	for i := 0; i < r.cfg.Replicates; i++ {
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			runs[i] = r.replicate(i)
			if runs[i].Failed {
				r.collector.AddFailure()
			} else {
				r.collector.AddReplicate()
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, run := range runs {
		if run.Failed {
			failed++
		}
	}
	if failed == len(runs) {
		return runs, fmt.Errorf("all %d replicates failed", failed)
	}
	return runs, nil
}

// replicate plays one full run of T rounds on freshly instantiated state.
// A panic anywhere in the round loop is recorded as this replicate's failure
// rather than propagated: the simulation is deterministic given its seed, so
// a failure is reported, never retried.
func (r *Runner) replicate(index int) (run SimulationRun) {
	seed := replicateSeed(r.cfg.Seed, index)
	run = SimulationRun{Replicate: index, Seed: seed}

	defer func() {
		if rec := recover(); rec != nil {
			run = SimulationRun{
				Replicate: index,
				Seed:      seed,
				Failed:    true,
				Failure:   fmt.Sprintf("%v", rec),
			}
			log.Error().Msgf("replicate %d failed: %v", index, rec)
		}
	}()

	p := r.cfg.TrueP
	if r.cfg.RedrawP {
		s := streamSeed(seed, redrawStream)
		beta := distuv.Beta{
			Alpha: r.cfg.RedrawAlpha,
			Beta:  r.cfg.RedrawBeta,
			Src:   rand.NewPCG(s, s),
		}
		p = game.Clamp(beta.Rand())
	}

	coin, err := game.NewCoinSource(p, streamSeed(seed, coinStream))
	if err != nil {
		panic(err)
	}
	players, err := r.buildPlayers(seed)
	if err != nil {
		panic(err)
	}

	run.TrueP = p
	run.PlayerIDs = make([]string, len(players))
	run.Strategies = make([]string, len(players))
	for i, pl := range r.cfg.Players {
		run.PlayerIDs[i] = pl.ID
		run.Strategies[i] = pl.Strategy
	}

	run.Rounds = make([]Round, 0, r.cfg.Rounds)
	for t := 0; t < r.cfg.Rounds; t++ {
		run.Rounds = append(run.Rounds, PlayRound(t, players, coin, r.rule, r.policy))
	}

	run.Cumulative = make([]float64, len(players))
	for i, player := range players {
		run.Cumulative[i] = player.Cumulative()
	}
	return run
}

// buildPlayers instantiates fresh strategies for one replicate. State never
// leaks between replicates because nothing built here outlives the run.
func (r *Runner) buildPlayers(seed uint64) ([]*Player, error) {
	players := make([]*Player, len(r.cfg.Players))
	for i, pl := range r.cfg.Players {
		cfg := pl.StrategyConfig(r.rule, streamSeed(seed, playerStream+i))
		s, err := strategy.New(pl.Strategy, cfg)
		if err != nil {
			return nil, fmt.Errorf("player %q: %w", pl.ID, err)
		}
		players[i] = NewPlayer(pl.ID, s)
	}
	return players, nil
}
