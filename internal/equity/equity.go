// Package equity estimates hold'em hand equity by Monte Carlo
// simulation: deal unseen cards, complete the board, rank every hand
// and count how often the hero ends up best.
package equity

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/ranker"
)

// MaxTrials caps a single estimate. Beyond this the sampling error is
// far below anything a betting decision can use.
const MaxTrials = 200_000

const maxOpponents = 8

// Result represents the outcome of an equity estimate
type Result struct {
	Wins   int
	Ties   int
	Trials int

	// Distribution maps hand category names to the fraction of
	// trials in which the hero made that hand
	Distribution map[string]float64
}

// WinRate returns the strict win rate (0.0 to 1.0)
func (r Result) WinRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Trials)
}

// TieRate returns the tie rate (0.0 to 1.0)
func (r Result) TieRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Ties) / float64(r.Trials)
}

// LossRate returns the loss rate (0.0 to 1.0)
func (r Result) LossRate() float64 {
	if r.Trials == 0 {
		return 0
	}
	return float64(r.Trials-r.Wins-r.Ties) / float64(r.Trials)
}

// Equity returns overall equity: wins count 1.0, ties 0.5
func (r Result) Equity() float64 {
	if r.Trials == 0 {
		return 0
	}
	return (float64(r.Wins) + float64(r.Ties)*0.5) / float64(r.Trials)
}

// ConfidenceInterval returns the 95% interval around the equity
func (r Result) ConfidenceInterval() (lower, upper float64) {
	eq := r.Equity()
	n := float64(r.Trials)
	if n == 0 {
		return 0, 0
	}
	margin := 1.96 * math.Sqrt(eq*(1-eq)/n)
	return math.Max(0, eq-margin), math.Min(1, eq+margin)
}

// Func matches Estimator.Estimate so callers can substitute a stub
type Func func(ctx context.Context, rng *rand.Rand, hole, board []deck.Card, opponents, trials int) (Result, error)

// Estimator runs Monte Carlo equity simulations. Safe for concurrent
// use as long as each call gets its own rng.
type Estimator struct {
	ranker  ranker.HandRanker
	workers int
}

// New creates an estimator using the given hand ranker
func New(hr ranker.HandRanker) *Estimator {
	workers := runtime.GOMAXPROCS(0)
	if workers > 8 {
		workers = 8
	}
	return &Estimator{ranker: hr, workers: workers}
}

// Estimate simulates the hand to completion trials times against the
// given number of random opponent hands. Trials are clamped to
// MaxTrials, opponents to [1, 8].
func (e *Estimator) Estimate(ctx context.Context, rng *rand.Rand, hole, board []deck.Card, opponents, trials int) (Result, error) {
	if len(hole) != 2 {
		return Result{}, fmt.Errorf("expected 2 hole cards, got %d", len(hole))
	}
	if len(board) > 5 {
		return Result{}, fmt.Errorf("board has %d cards, max 5", len(board))
	}
	if opponents < 1 {
		opponents = 1
	}
	if opponents > maxOpponents {
		opponents = maxOpponents
	}
	if trials < 1 {
		trials = 1
	}
	if trials > MaxTrials {
		trials = MaxTrials
	}

	known := append(append([]deck.Card(nil), hole...), board...)

	workers := e.workers
	if workers > trials {
		workers = trials
	}

	var (
		mu    sync.Mutex
		total tally
	)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		share := trials / workers
		if w < trials%workers {
			share++
		}
		seed := rng.Int63()

		g.Go(func() error {
			part, err := e.run(ctx, rand.New(rand.NewSource(seed)), known, hole, board, opponents, share)
			if err != nil {
				return err
			}
			mu.Lock()
			total.add(part)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return total.result(), nil
}

// tally accumulates raw trial outcomes
type tally struct {
	wins, ties, trials int
	categories         [ranker.RoyalFlush + 1]int
}

func (t *tally) add(o tally) {
	t.wins += o.wins
	t.ties += o.ties
	t.trials += o.trials
	for i := range t.categories {
		t.categories[i] += o.categories[i]
	}
}

func (t tally) result() Result {
	dist := make(map[string]float64, len(t.categories))
	for cat, n := range t.categories {
		if n > 0 {
			dist[ranker.Category(cat).String()] = float64(n) / float64(t.trials)
		}
	}
	return Result{Wins: t.wins, Ties: t.ties, Trials: t.trials, Distribution: dist}
}

// run executes one worker's share of trials with its own rng
func (e *Estimator) run(ctx context.Context, rng *rand.Rand, known, hole, board []deck.Card, opponents, trials int) (tally, error) {
	var t tally

	for i := 0; i < trials; i++ {
		// Checking on every iteration would dominate the deal cost
		if i%1024 == 0 && ctx.Err() != nil {
			return tally{}, ctx.Err()
		}

		d := deck.New(rng)
		d.ExcludeKnown(known)
		d.Shuffle()

		fullBoard := append(append([]deck.Card(nil), board...), d.Deal(5-len(board))...)

		heroStrength, err := e.ranker.Rank(append(append([]deck.Card(nil), hole...), fullBoard...))
		if err != nil {
			return tally{}, fmt.Errorf("ranking hero hand: %w", err)
		}
		t.categories[heroStrength.Category()]++

		win, tie := true, false
		for o := 0; o < opponents; o++ {
			oppStrength, err := e.ranker.Rank(append(d.Deal(2), fullBoard...))
			if err != nil {
				return tally{}, fmt.Errorf("ranking opponent hand: %w", err)
			}
			if oppStrength > heroStrength {
				win, tie = false, false
				break
			}
			if oppStrength == heroStrength {
				tie = true
			}
		}

		switch {
		case win && tie:
			t.ties++
		case win:
			t.wins++
		}
		t.trials++
	}

	return t, nil
}
