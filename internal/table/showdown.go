package table

import (
	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/ranker"
)

// resolveShowdown awards the pot. A single live seat wins uncontested;
// otherwise the best ranked hand wins and ties split the pot evenly,
// with any remainder going to the tied seat closest to the button.
func (t *Table) resolveShowdown() {
	live := t.liveSeats()
	pot := t.pot

	if len(live) == 0 {
		t.logger.Error("showdown with no live seats", "table", t.id)
		return
	}

	var winners []Winner
	switch {
	case len(live) == 1:
		winners = t.award(pot, live, "")

	case len(t.board) < 5:
		// The stage machine should never leave the board short here
		t.logger.Warn("showdown on incomplete board", "table", t.id, "board", len(t.board))
		winners = t.award(pot, live[:1], "")

	default:
		best, category := t.bestHands(live)
		if len(best) == 0 {
			t.logger.Error("no rankable hands at showdown", "table", t.id)
			best = live[:1]
		}
		winners = t.award(pot, best, category)
	}

	t.pot = 0
	t.lastWinners = winners

	t.logger.Info("hand complete", "table", t.id, "pot", pot, "winners", len(winners))
	t.publish(HandCompleteEvent{Table: t.Snapshot(), Winners: winners, Pot: pot})
}

// bestHands ranks every live seat's hole cards against the board and
// returns all seats tied for the strongest hand
func (t *Table) bestHands(live []*Seat) ([]*Seat, string) {
	var (
		best     []*Seat
		bestRank ranker.Strength
	)

	for _, s := range live {
		if len(s.HoleCards) != 2 {
			t.logger.Warn("seat missing hole cards at showdown", "table", t.id, "seat", s.ID)
			continue
		}
		cards := append(append([]deck.Card(nil), s.HoleCards...), t.board...)
		strength, err := t.ranker.Rank(cards)
		if err != nil {
			t.logger.Error("hand ranking failed", "table", t.id, "seat", s.ID, "err", err)
			continue
		}
		switch {
		case len(best) == 0 || strength > bestRank:
			best = []*Seat{s}
			bestRank = strength
		case strength == bestRank:
			best = append(best, s)
		}
	}

	if len(best) == 0 {
		return nil, ""
	}
	return best, bestRank.Category().String()
}

// award splits the pot evenly across the winning seats. The remainder
// goes to the winner seated closest clockwise from the dealer.
func (t *Table) award(pot int, seats []*Seat, category string) []Winner {
	ordered := t.orderFromButton(seats)
	share := pot / len(ordered)
	remainder := pot % len(ordered)

	winners := make([]Winner, 0, len(ordered))
	for i, s := range ordered {
		amount := share
		if i == 0 {
			amount += remainder
		}
		s.Chips += amount
		winners = append(winners, Winner{
			SeatID: s.ID,
			Name:   s.Name,
			Amount: amount,
			Hand:   category,
		})
	}
	return winners
}

// orderFromButton sorts seats by clockwise distance from the seat
// after the dealer
func (t *Table) orderFromButton(seats []*Seat) []*Seat {
	dealer := 0
	for _, s := range t.seats {
		if s.Dealer {
			dealer = s.ID
			break
		}
	}

	n := len(t.seats)
	distance := func(id int) int {
		return ((id - dealer - 1) % n + n) % n
	}

	ordered := append([]*Seat(nil), seats...)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && distance(ordered[j].ID) < distance(ordered[j-1].ID); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}
	return ordered
}
