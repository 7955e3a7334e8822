package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablestakes/holdem/internal/deck"
)

func mustCards(t *testing.T, s string) []deck.Card {
	t.Helper()
	cards, err := deck.ParseCards(s)
	require.NoError(t, err)
	return cards
}

func TestShowdownBestHandWins(t *testing.T) {
	tbl := newTestTable(t, 3)
	require.True(t, tbl.StartHand())
	pot := tbl.pot

	tbl.seats[0].HoleCards = mustCards(t, "Ah Ad")
	tbl.seats[1].HoleCards = mustCards(t, "Kh Kd")
	tbl.seats[2].HoleCards = mustCards(t, "Qh Qd")
	tbl.board = mustCards(t, "2c 7d 9h Js 3s")
	tbl.stage = StageShowdown

	tbl.resolveShowdown()

	winners := tbl.LastWinners()
	require.Len(t, winners, 1)
	assert.Equal(t, 0, winners[0].SeatID)
	assert.Equal(t, pot, winners[0].Amount)
	assert.Equal(t, "One Pair", winners[0].Hand)
	assert.Equal(t, 1000+pot, tbl.seats[0].Chips)
	assert.Equal(t, 0, tbl.pot)
}

func TestShowdownTieSplitsEvenly(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())
	require.Equal(t, 15, tbl.pot)

	// Seats 1 and 3 hold the same hand in different suits
	tbl.seats[0].HoleCards = mustCards(t, "4c 5d")
	tbl.seats[1].HoleCards = mustCards(t, "Ah Kh")
	tbl.seats[2].HoleCards = mustCards(t, "6h 7s")
	tbl.seats[3].HoleCards = mustCards(t, "Ad Kd")
	tbl.board = mustCards(t, "Qc Js 9h 3c 2d")
	tbl.stage = StageShowdown

	tbl.resolveShowdown()

	winners := tbl.LastWinners()
	require.Len(t, winners, 2)

	byID := map[int]Winner{}
	for _, w := range winners {
		byID[w.SeatID] = w
	}
	require.Contains(t, byID, 1)
	require.Contains(t, byID, 3)

	// 15 split two ways: the odd chip goes to the tied seat closest
	// clockwise from the dealer button (seat 0)
	assert.Equal(t, 8, byID[1].Amount)
	assert.Equal(t, 7, byID[3].Amount)
	assert.Equal(t, 0, tbl.pot)
}

func TestShowdownTieRemainderWrapsAroundButton(t *testing.T) {
	tbl := newTestTable(t, 3)
	require.True(t, tbl.StartHand())
	require.Equal(t, 15, tbl.pot)

	// Dealer is seat 0; seats 0 and 2 tie. Clockwise from the button,
	// seat 2 comes before seat 0, so it takes the odd chip.
	tbl.seats[0].HoleCards = mustCards(t, "Ah Kh")
	tbl.seats[1].HoleCards = mustCards(t, "4c 5d")
	tbl.seats[2].HoleCards = mustCards(t, "Ad Kd")
	tbl.board = mustCards(t, "Qc Js 9h 3c 2d")
	tbl.stage = StageShowdown

	tbl.resolveShowdown()

	byID := map[int]Winner{}
	for _, w := range tbl.LastWinners() {
		byID[w.SeatID] = w
	}
	require.Len(t, byID, 2)
	assert.Equal(t, 8, byID[2].Amount)
	assert.Equal(t, 7, byID[0].Amount)
}

func TestShowdownSkipsFoldedSeats(t *testing.T) {
	tbl := newTestTable(t, 3)
	require.True(t, tbl.StartHand())
	pot := tbl.pot

	tbl.seats[0].HoleCards = mustCards(t, "2h 3d") // best hand, but folded
	tbl.seats[0].Folded = true
	tbl.seats[1].HoleCards = mustCards(t, "Ah Ad")
	tbl.seats[2].HoleCards = mustCards(t, "Kh Kd")
	tbl.board = mustCards(t, "2c 2d 9h Js 3s")
	tbl.stage = StageShowdown

	tbl.resolveShowdown()

	winners := tbl.LastWinners()
	require.Len(t, winners, 1)
	assert.Equal(t, 1, winners[0].SeatID)
	assert.Equal(t, pot, winners[0].Amount)
}

func TestRedactedSnapshotHidesHoleCards(t *testing.T) {
	tbl := newTestTable(t, 3)
	require.True(t, tbl.StartHand())

	view := tbl.Snapshot().Redacted(1)
	for _, s := range view.Seats {
		if s.ID == 1 {
			assert.Len(t, s.HoleCards, 2, "viewer keeps own cards")
		} else {
			assert.Empty(t, s.HoleCards, "seat %d must be hidden", s.ID)
		}
	}

	// Observers see nothing mid-hand
	observer := tbl.Snapshot().Redacted(-1)
	for _, s := range observer.Seats {
		assert.Empty(t, s.HoleCards)
	}
}

func TestRedactedSnapshotRevealsShowdown(t *testing.T) {
	tbl := newTestTable(t, 3)
	require.True(t, tbl.StartHand())
	require.NoError(t, tbl.Apply(tbl.current, Fold, 0))
	tbl.stage = StageShowdown

	view := tbl.Snapshot().Redacted(-1)
	for _, s := range view.Seats {
		if s.Folded {
			assert.Empty(t, s.HoleCards, "folded hands stay hidden")
		} else {
			assert.Len(t, s.HoleCards, 2, "live hands are public at showdown")
		}
	}
}
