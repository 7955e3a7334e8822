package bot

import (
	"context"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/tablestakes/holdem/internal/equity"
	"github.com/tablestakes/holdem/internal/table"
)

const (
	heuristicTrials = 200

	foldThreshold  = 0.35
	raiseThreshold = 0.60
)

// Heuristic plays on simulated equity alone: fold weak hands facing a
// bet, raise strong ones sized by edge, otherwise take the cheap line.
type Heuristic struct {
	rng      *rand.Rand
	estimate equity.Func
	logger   *log.Logger
}

// NewHeuristic creates a heuristic agent using the given estimator
func NewHeuristic(rng *rand.Rand, est *equity.Estimator, logger *log.Logger) *Heuristic {
	return &Heuristic{
		rng:      rng,
		estimate: est.Estimate,
		logger:   logger.WithPrefix("heuristic"),
	}
}

// Decide runs a short equity simulation and acts on thresholds
func (h *Heuristic) Decide(ctx context.Context, v View) Request {
	res, err := h.estimate(ctx, h.rng, v.Hole, v.Board, v.Opponents, heuristicTrials)
	if err != nil {
		h.logger.Warn("equity estimate failed, taking safe default", "err", err)
		return SafeDefault(v.Info)
	}
	eq := res.Equity()

	h.logger.Debug("decision input",
		"equity", eq,
		"to_call", v.ToCall,
		"pot", v.Pot,
		"opponents", v.Opponents)

	if v.ToCall > 0 && eq < foldThreshold {
		return Request{Action: table.Fold}
	}

	if eq >= raiseThreshold && v.Info.Allows(table.Raise) {
		return Request{Action: table.Raise, Amount: h.raiseSize(eq, v)}
	}

	return SafeDefault(v.Info)
}

// raiseSize raises to the standing bet plus half the Kelly fraction of
// the stack, at least one big blind on top, clamped to the legal window
func (h *Heuristic) raiseSize(eq float64, v View) int {
	edge := 2*eq - 1
	if edge < 0 {
		edge = 0
	}
	kelly := int(edge * float64(v.Chips) * 0.5)
	if kelly < v.BigBlind {
		kelly = v.BigBlind
	}
	amount := v.Bet + kelly

	if amount < v.Info.MinRaise {
		amount = v.Info.MinRaise
	}
	if amount > v.Info.MaxRaise {
		amount = v.Info.MaxRaise
	}
	return amount
}
