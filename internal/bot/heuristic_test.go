package bot

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/equity"
	"github.com/tablestakes/holdem/internal/table"
)

// fixedEquity returns an estimator stub reporting the given equity
func fixedEquity(eq float64) equity.Func {
	return func(ctx context.Context, rng *rand.Rand, hole, board []deck.Card, opponents, trials int) (equity.Result, error) {
		return equity.Result{Wins: int(eq * 1000), Trials: 1000}, nil
	}
}

func failingEquity(ctx context.Context, rng *rand.Rand, hole, board []deck.Card, opponents, trials int) (equity.Result, error) {
	return equity.Result{}, errors.New("simulation broken")
}

func heuristicWith(est equity.Func) *Heuristic {
	return &Heuristic{
		rng:      rand.New(rand.NewSource(1)),
		estimate: est,
		logger:   testLogger(),
	}
}

func facingBetView() View {
	return View{
		Stage:     table.StagePreFlop,
		Pot:       30,
		Bet:       10,
		ToCall:    10,
		Chips:     1000,
		BigBlind:  10,
		Opponents: 2,
		Info: table.ActionInfo{
			Valid:    []table.Action{table.Fold, table.Call, table.Raise},
			MinRaise: 20,
			MaxRaise: 1000,
		},
	}
}

func checkedToView() View {
	v := facingBetView()
	v.Bet = 0
	v.ToCall = 0
	v.Info.MinRaise = 10
	v.Info.Valid = []table.Action{table.Fold, table.Check, table.Raise}
	return v
}

func TestHeuristicFoldsWeakHandFacingBet(t *testing.T) {
	h := heuristicWith(fixedEquity(0.10))
	req := h.Decide(context.Background(), facingBetView())
	assert.Equal(t, table.Fold, req.Action)
}

func TestHeuristicCallsMediumHand(t *testing.T) {
	h := heuristicWith(fixedEquity(0.50))
	req := h.Decide(context.Background(), facingBetView())
	assert.Equal(t, table.Call, req.Action)
}

func TestHeuristicChecksWeakHandForFree(t *testing.T) {
	// Below the fold threshold, but nothing is owed
	h := heuristicWith(fixedEquity(0.10))
	req := h.Decide(context.Background(), checkedToView())
	assert.Equal(t, table.Check, req.Action)
}

func TestHeuristicRaisesStrongHand(t *testing.T) {
	h := heuristicWith(fixedEquity(0.80))
	req := h.Decide(context.Background(), facingBetView())
	assert.Equal(t, table.Raise, req.Action)
	// Raise to bet + half Kelly: 10 + (2*0.8-1) * 1000 * 0.5
	assert.Equal(t, 310, req.Amount)
}

func TestHeuristicRaiseFloorsAtBigBlind(t *testing.T) {
	// A thin edge on a short stack sizes below one big blind; the
	// raise still goes a full blind over the standing bet
	v := checkedToView()
	v.Chips = 50
	v.Info.MaxRaise = 50

	h := heuristicWith(fixedEquity(0.62))
	req := h.Decide(context.Background(), v)
	assert.Equal(t, table.Raise, req.Action)
	// Half Kelly is 6, floored to the 10-chip big blind
	assert.Equal(t, 10, req.Amount)
}

func TestHeuristicRaiseClampsToMinimum(t *testing.T) {
	// Re-raising doubles the minimum, outpacing bet + half Kelly
	v := facingBetView()
	v.Bet = 50
	v.ToCall = 50
	v.Chips = 150
	v.Info.MinRaise = 100
	v.Info.MaxRaise = 150

	h := heuristicWith(fixedEquity(0.62))
	req := h.Decide(context.Background(), v)
	assert.Equal(t, table.Raise, req.Action)
	assert.Equal(t, v.Info.MinRaise, req.Amount)
}

func TestHeuristicRaiseClampsToMaximum(t *testing.T) {
	v := facingBetView()
	v.Info.MaxRaise = 50

	h := heuristicWith(fixedEquity(0.99))
	req := h.Decide(context.Background(), v)
	assert.Equal(t, table.Raise, req.Action)
	assert.Equal(t, 50, req.Amount)
}

func TestHeuristicStrongHandWithoutRaiseOption(t *testing.T) {
	v := facingBetView()
	v.Info.Valid = []table.Action{table.Fold, table.Call}

	h := heuristicWith(fixedEquity(0.90))
	req := h.Decide(context.Background(), v)
	assert.Equal(t, table.Call, req.Action)
}

func TestHeuristicSafeDefaultOnEstimateError(t *testing.T) {
	h := heuristicWith(failingEquity)
	req := h.Decide(context.Background(), facingBetView())
	assert.Equal(t, table.Call, req.Action)
}
