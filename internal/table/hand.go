package table

import (
	"github.com/tablestakes/holdem/internal/deck"
)

// StartHand promotes pending seats, deals a fresh hand and posts
// blinds. Returns false without touching state when fewer than two
// seats are available to play.
func (t *Table) StartHand() bool {
	for _, s := range t.seats {
		if s.PendingActive {
			s.Active = true
			s.PendingActive = false
		}
	}

	active := t.activeSeats()
	if len(active) < 2 {
		t.logger.Debug("not enough players to start", "table", t.id, "active", len(active))
		t.stage = StageWaiting
		t.current = -1
		return false
	}

	for _, s := range active {
		s.resetForHand()
	}
	t.board = nil
	t.pot = 0
	t.lastWinners = nil
	t.stage = StagePreFlop

	d := deck.New(t.rng)
	d.Shuffle()
	for _, s := range active {
		s.HoleCards = d.Deal(2)
	}

	t.assignPositions(active)
	t.bet = t.cfg.BigBlind

	t.logger.Info("hand started",
		"table", t.id,
		"players", len(active),
		"dealer", active[0].ID,
		"first_to_act", t.current)

	t.publish(HandStartedEvent{Table: t.Snapshot()})
	return true
}

// assignPositions sets dealer and blind flags, posts blinds and picks
// the first seat to act pre-flop. active is in seat order and has at
// least two seats.
func (t *Table) assignPositions(active []*Seat) {
	if len(active) == 2 {
		// Heads-up: the dealer posts the small blind and acts first
		dealer, big := active[0], active[1]
		dealer.Dealer = true
		dealer.SmallBlind = true
		big.BigBlind = true
		t.postBlind(dealer, t.cfg.SmallBlind)
		t.postBlind(big, t.cfg.BigBlind)
		t.current = dealer.ID
		return
	}

	dealer, small := active[0], active[1]
	dealer.Dealer = true
	small.SmallBlind = true
	t.postBlind(small, t.cfg.SmallBlind)

	big := active[0]
	if len(active) > 2 {
		big = active[2]
	}
	big.BigBlind = true
	t.postBlind(big, t.cfg.BigBlind)

	// First to act is the seat after the big blind, wrapping to the
	// dealer when the table is short
	if len(active) > 3 {
		t.current = active[3].ID
	} else {
		t.current = active[0].ID
	}
}

// postBlind moves chips from the seat into the pot. A short stack
// posts what it has; this table does not model side pots.
func (t *Table) postBlind(s *Seat, amount int) {
	if amount > s.Chips {
		t.logger.Warn("short stack posting blind", "table", t.id, "seat", s.ID, "chips", s.Chips, "blind", amount)
		amount = s.Chips
	}
	s.Chips -= amount
	s.CurrentBet = amount
	t.pot += amount
}

// advanceStage moves to the next stage once a betting round is
// complete: resets round state, deals community cards and picks the
// first seat to act.
func (t *Table) advanceStage() {
	live := t.liveSeats()
	if len(live) <= 1 {
		t.stage = StageShowdown
		return
	}

	for _, s := range live {
		s.resetForRound()
	}
	t.bet = 0

	switch t.stage {
	case StagePreFlop:
		t.dealCommunity(3)
		t.stage = StageFlop
	case StageFlop:
		t.dealCommunity(1)
		t.stage = StageTurn
	case StageTurn:
		t.dealCommunity(1)
		t.stage = StageRiver
	case StageRiver:
		t.stage = StageShowdown
		return
	default:
		return
	}

	t.current = t.firstToActPostFlop(live)
	t.publish(StageAdvancedEvent{Table: t.Snapshot(), Stage: t.stage})
}

// dealCommunity deals n board cards from a fresh deck with every
// visible card excluded
func (t *Table) dealCommunity(n int) {
	known := append([]deck.Card(nil), t.board...)
	for _, s := range t.seats {
		known = append(known, s.HoleCards...)
	}

	d := deck.New(t.rng)
	d.ExcludeKnown(known)
	d.Shuffle()
	t.board = append(t.board, d.Deal(n)...)
}

// firstToActPostFlop returns the small blind seat if it is still in
// the hand, otherwise the first live non-dealer seat
func (t *Table) firstToActPostFlop(live []*Seat) int {
	for _, s := range live {
		if s.SmallBlind {
			return s.ID
		}
	}
	for _, s := range live {
		if !s.Dealer {
			return s.ID
		}
	}
	return live[0].ID
}
