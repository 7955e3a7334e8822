package table

import (
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/ranker"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func newTestRanker() ranker.HandRanker {
	return ranker.NewStandardRanker()
}

// newTestTable builds a table with n seated players and a fixed seed
func newTestTable(t *testing.T, n int) *Table {
	t.Helper()
	specs := make([]SeatSpec, n)
	for i := range specs {
		specs[i] = SeatSpec{Name: "Player", Kind: Human}
	}
	return New(
		Config{SeatCount: n, SmallBlind: 5, BigBlind: 10, StartingChips: 1000},
		specs,
		rand.New(rand.NewSource(1)),
		ranker.NewStandardRanker(),
		testLogger(),
		nil,
	)
}

// totalChips sums seat stacks plus the pot
func totalChips(tbl *Table) int {
	total := tbl.pot
	for _, s := range tbl.seats {
		total += s.Chips
	}
	return total
}

func TestStartHandDealsUniqueHoleCards(t *testing.T) {
	for _, n := range []int{2, 3, 6, 9} {
		tbl := newTestTable(t, n)
		require.True(t, tbl.StartHand())

		seen := make(map[deck.Card]bool)
		for _, s := range tbl.seats {
			require.Len(t, s.HoleCards, 2, "seat %d", s.ID)
			for _, c := range s.HoleCards {
				assert.False(t, seen[c], "duplicate card %s with %d players", c, n)
				seen[c] = true
			}
		}
		assert.Len(t, seen, n*2)
	}
}

func TestStartHandRequiresTwoPlayers(t *testing.T) {
	tbl := New(
		Config{SeatCount: 4, SmallBlind: 5, BigBlind: 10, StartingChips: 1000},
		[]SeatSpec{{Name: "Lonely", Kind: Human}},
		rand.New(rand.NewSource(1)),
		ranker.NewStandardRanker(),
		testLogger(),
		nil,
	)

	assert.False(t, tbl.StartHand())
	assert.Equal(t, StageWaiting, tbl.Stage())
	assert.Equal(t, -1, tbl.current)
}

func TestStartHandHeadsUpPositions(t *testing.T) {
	tbl := newTestTable(t, 2)
	require.True(t, tbl.StartHand())

	dealer, big := tbl.seats[0], tbl.seats[1]
	assert.True(t, dealer.Dealer)
	assert.True(t, dealer.SmallBlind)
	assert.True(t, big.BigBlind)
	assert.False(t, big.Dealer)

	// Dealer posts small blind and acts first pre-flop
	assert.Equal(t, 995, dealer.Chips)
	assert.Equal(t, 990, big.Chips)
	assert.Equal(t, 15, tbl.pot)
	assert.Equal(t, 10, tbl.bet)
	assert.Equal(t, 0, tbl.current)
}

func TestStartHandMultiwayPositions(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	assert.True(t, tbl.seats[0].Dealer)
	assert.True(t, tbl.seats[1].SmallBlind)
	assert.True(t, tbl.seats[2].BigBlind)
	assert.Equal(t, 3, tbl.current, "seat after the big blind acts first")
	assert.Equal(t, 15, tbl.pot)

	// With exactly 3 players the action wraps to the dealer
	tbl3 := newTestTable(t, 3)
	require.True(t, tbl3.StartHand())
	assert.Equal(t, 0, tbl3.current)
}

func TestJoinPendingMidHand(t *testing.T) {
	tbl := New(
		Config{SeatCount: 4, SmallBlind: 5, BigBlind: 10, StartingChips: 1000},
		[]SeatSpec{{Name: "A", Kind: Human}, {Name: "B", Kind: Human}},
		rand.New(rand.NewSource(1)),
		ranker.NewStandardRanker(),
		testLogger(),
		nil,
	)
	require.True(t, tbl.StartHand())

	id, err := tbl.Join("C", Human)
	require.NoError(t, err)
	seat := tbl.Seat(id)
	assert.True(t, seat.PendingActive)
	assert.False(t, seat.Active)

	// Pending seats cannot act
	assert.ErrorIs(t, tbl.Apply(id, Fold, 0), ErrNotYourTurn)

	// Promoted at the next hand
	require.True(t, tbl.StartHand())
	assert.True(t, seat.Active)
	assert.False(t, seat.PendingActive)
	assert.Len(t, seat.HoleCards, 2)
}

func TestJoinWhileWaitingIsImmediatelyActive(t *testing.T) {
	tbl := New(
		Config{SeatCount: 4, SmallBlind: 5, BigBlind: 10, StartingChips: 1000},
		nil,
		rand.New(rand.NewSource(1)),
		ranker.NewStandardRanker(),
		testLogger(),
		nil,
	)

	id, err := tbl.Join("A", Human)
	require.NoError(t, err)
	assert.True(t, tbl.Seat(id).Active)
}

func TestJoinFullTable(t *testing.T) {
	tbl := newTestTable(t, 2)
	_, err := tbl.Join("Extra", Human)
	assert.ErrorIs(t, err, ErrNoSeats)
}

func TestLeaveFoldsRunningSeat(t *testing.T) {
	tbl := newTestTable(t, 3)
	require.True(t, tbl.StartHand())

	// Seat 1 (not current) leaves mid-hand
	require.NoError(t, tbl.Leave(1))
	assert.True(t, tbl.seats[1].Folded)
	assert.False(t, tbl.seats[1].Active)

	// Hand continues between the remaining seats
	assert.True(t, tbl.Stage().Betting())
}

func TestLeaveLastOpponentEndsHand(t *testing.T) {
	tbl := newTestTable(t, 2)
	require.True(t, tbl.StartHand())

	require.NoError(t, tbl.Leave(1))
	assert.Equal(t, StageShowdown, tbl.Stage())
	assert.Equal(t, 0, tbl.pot, "pot awarded to the remaining seat")
	assert.Equal(t, 1010, tbl.seats[0].Chips, "blinds come back plus the opponent's big blind")
}

func TestShortStackBlindIsCapped(t *testing.T) {
	tbl := newTestTable(t, 2)
	tbl.seats[1].Chips = 4 // cannot cover the big blind

	require.True(t, tbl.StartHand())
	assert.Equal(t, 0, tbl.seats[1].Chips)
	assert.GreaterOrEqual(t, tbl.seats[1].Chips, 0, "chips must never go negative")
	assert.Equal(t, 9, tbl.pot) // 5 small blind + 4 capped big blind
}
