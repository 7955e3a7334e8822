// Package bot implements automated decision making for seated bots.
// Agents see a redacted view of the table and return exactly one
// action request; the table revalidates every request on apply.
package bot

import (
	"context"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/table"
)

// View is what one seat can see when it is due to act
type View struct {
	Hole      []deck.Card
	Board     []deck.Card
	Stage     table.Stage
	Pot       int
	Bet       int // table bet level to match
	ToCall    int
	Chips     int
	BigBlind  int
	Opponents int
	Info      table.ActionInfo
}

// Request is an agent's chosen action
type Request struct {
	Action table.Action
	Amount int
}

// Agent decides actions for a seat. Decide must return a legal request
// for the given view; agents that cannot decide fall back to
// SafeDefault rather than returning an error.
type Agent interface {
	Decide(ctx context.Context, view View) Request
}

// SafeDefault picks the least committal legal action: check when free,
// call when facing a bet, fold when nothing else is allowed.
func SafeDefault(info table.ActionInfo) Request {
	switch {
	case info.Allows(table.Check):
		return Request{Action: table.Check}
	case info.Allows(table.Call):
		return Request{Action: table.Call}
	default:
		return Request{Action: table.Fold}
	}
}
