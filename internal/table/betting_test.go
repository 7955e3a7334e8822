package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablestakes/holdem/internal/deck"
)

func TestValidActionsMatchedBet(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	bb := tbl.seats[2] // big blind already matches the bet level
	info := tbl.ValidActions(bb)
	assert.True(t, info.Allows(Fold))
	assert.True(t, info.Allows(Check))
	assert.False(t, info.Allows(Call))
	assert.True(t, info.Allows(Raise))
	assert.Equal(t, 20, info.MinRaise, "max(bet+bb, bet*2)")
	assert.Equal(t, 1000, info.MaxRaise, "committed chips plus stack")
}

func TestValidActionsFacingBet(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	utg := tbl.seats[3]
	info := tbl.ValidActions(utg)
	assert.True(t, info.Allows(Fold))
	assert.False(t, info.Allows(Check))
	assert.True(t, info.Allows(Call))
	assert.True(t, info.Allows(Raise))
	assert.Equal(t, 1000, info.MaxRaise)
}

func TestValidActionsMinRaiseDoubles(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	// After a raise to 50 the next minimum is double, not bet+bb
	require.NoError(t, tbl.Apply(3, Raise, 50))
	info := tbl.ValidActions(tbl.seats[0])
	assert.Equal(t, 100, info.MinRaise)
}

func TestValidActionsNoRaiseWithEmptyStack(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	seat := tbl.seats[3]
	seat.Chips = 0
	info := tbl.ValidActions(seat)
	assert.False(t, info.Allows(Raise))
}

func TestApplyRejections(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	// Force a short stack for the insufficient-call case
	tbl.seats[3].Chips = 3

	snapshotBefore := tbl.Snapshot()

	cases := []struct {
		name   string
		seat   int
		action Action
		amount int
		want   error
	}{
		{"unassigned seat", -1, Fold, 0, ErrUnassigned},
		{"unknown action", 3, Action(99), 0, ErrInvalidAction},
		{"seat out of range", 42, Fold, 0, ErrInvalidSeat},
		{"not your turn", 0, Fold, 0, ErrNotYourTurn},
		{"check facing a bet", 3, Check, 0, ErrMustCallOrFold},
		{"call beyond stack", 3, Call, 0, ErrInsufficientChips},
		{"raise below minimum", 3, Raise, 15, ErrRaiseTooSmall},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tbl.Apply(tc.seat, tc.action, tc.amount)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Rejections must leave the table untouched
	after := tbl.Snapshot()
	assert.Equal(t, snapshotBefore.Pot, after.Pot)
	assert.Equal(t, snapshotBefore.Current, after.Current)
	assert.Equal(t, snapshotBefore.Stage, after.Stage)
}

func TestApplyRejectsRaiseBeyondStack(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	assert.ErrorIs(t, tbl.Apply(3, Raise, 5000), ErrInsufficientChips)
	assert.Equal(t, 1000, tbl.seats[3].Chips)
}

func TestApplyRejectsInactiveSeat(t *testing.T) {
	tbl := New(
		Config{SeatCount: 4, SmallBlind: 5, BigBlind: 10, StartingChips: 1000},
		[]SeatSpec{{Name: "A", Kind: Human}, {Name: "B", Kind: Human}},
		newTestRand(),
		newTestRanker(),
		testLogger(),
		nil,
	)
	require.True(t, tbl.StartHand())

	id, err := tbl.Join("C", Human)
	require.NoError(t, err)

	// A pending seat can never legitimately hold the turn
	tbl.current = id
	assert.ErrorIs(t, tbl.Apply(id, Check, 0), ErrSeatInactive)
}

func TestRaiseReopensAction(t *testing.T) {
	tbl := newTestTable(t, 3)
	require.True(t, tbl.StartHand())
	require.Equal(t, 0, tbl.current, "dealer acts first three-handed")

	require.NoError(t, tbl.Apply(0, Call, 0))
	require.Equal(t, 1, tbl.current)

	// The small blind raises; the dealer and big blind owe another act
	require.NoError(t, tbl.Apply(1, Raise, 30))
	assert.Equal(t, StagePreFlop, tbl.Stage())
	assert.False(t, tbl.seats[0].Acted)
	assert.False(t, tbl.seats[2].Acted)

	require.NoError(t, tbl.Apply(2, Call, 0))
	assert.Equal(t, StagePreFlop, tbl.Stage(), "round stays open until the dealer responds")

	require.NoError(t, tbl.Apply(0, Call, 0))
	assert.Equal(t, StageFlop, tbl.Stage())
	assert.Equal(t, 90, tbl.pot)
}

func TestFoldToOneAwardsPot(t *testing.T) {
	tbl := newTestTable(t, 2)
	require.True(t, tbl.StartHand())

	before := totalChips(tbl)
	require.NoError(t, tbl.Apply(0, Fold, 0))

	assert.Equal(t, StageShowdown, tbl.Stage())
	assert.Equal(t, 0, tbl.pot)
	assert.Equal(t, 1005, tbl.seats[1].Chips)
	assert.Equal(t, before, totalChips(tbl), "chips conserved")

	winners := tbl.LastWinners()
	require.Len(t, winners, 1)
	assert.Equal(t, 1, winners[0].SeatID)
	assert.Equal(t, 15, winners[0].Amount)
}

func TestCheckDownToShowdown(t *testing.T) {
	tbl := newTestTable(t, 2)
	require.True(t, tbl.StartHand())
	before := totalChips(tbl)

	// Pre-flop: dealer completes, big blind checks
	require.NoError(t, tbl.Apply(0, Call, 0))
	require.NoError(t, tbl.Apply(1, Check, 0))
	require.Equal(t, StageFlop, tbl.Stage())
	require.Len(t, tbl.board, 3)

	checkRound := func(stage Stage, boardLen int) {
		t.Helper()
		require.NoError(t, tbl.Apply(tbl.current, Check, 0))
		require.NoError(t, tbl.Apply(tbl.current, Check, 0))
		require.Equal(t, stage, tbl.Stage())
		require.Len(t, tbl.board, boardLen)
	}

	checkRound(StageTurn, 4)
	checkRound(StageRiver, 5)

	require.NoError(t, tbl.Apply(tbl.current, Check, 0))
	require.NoError(t, tbl.Apply(tbl.current, Check, 0))
	assert.Equal(t, StageShowdown, tbl.Stage())
	assert.Equal(t, 0, tbl.pot)
	assert.NotEmpty(t, tbl.LastWinners())
	assert.Equal(t, before, totalChips(tbl), "chips conserved through the hand")

	// Board cards never collide with hole cards
	seen := make(map[deck.Card]bool)
	for _, c := range tbl.board {
		assert.False(t, seen[c], "duplicate board card %s", c)
		seen[c] = true
	}
	for _, s := range tbl.seats {
		for _, c := range s.HoleCards {
			assert.False(t, seen[c], "board reuses hole card %s", c)
		}
	}
}

func TestSmallBlindActsFirstPostFlop(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(3, Call, 0))
	require.NoError(t, tbl.Apply(0, Call, 0))
	require.NoError(t, tbl.Apply(1, Call, 0))
	require.NoError(t, tbl.Apply(2, Check, 0))

	require.Equal(t, StageFlop, tbl.Stage())
	assert.Equal(t, 1, tbl.current, "small blind leads every post-flop round")
	assert.Equal(t, 0, tbl.bet)
	for _, s := range tbl.liveSeats() {
		assert.Zero(t, s.CurrentBet)
		assert.False(t, s.Acted)
	}
}

func TestFoldedSmallBlindSkippedPostFlop(t *testing.T) {
	tbl := newTestTable(t, 4)
	require.True(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(3, Call, 0))
	require.NoError(t, tbl.Apply(0, Call, 0))
	require.NoError(t, tbl.Apply(1, Fold, 0))
	require.NoError(t, tbl.Apply(2, Check, 0))

	require.Equal(t, StageFlop, tbl.Stage())
	assert.Equal(t, 2, tbl.current, "first live non-dealer seat leads")
}

func TestCallSettlesBet(t *testing.T) {
	tbl := newTestTable(t, 2)
	require.True(t, tbl.StartHand())

	require.NoError(t, tbl.Apply(0, Call, 0))
	assert.Equal(t, 990, tbl.seats[0].Chips)
	assert.Equal(t, 10, tbl.seats[0].CurrentBet)
	assert.Equal(t, 20, tbl.pot)
	assert.Equal(t, "call", tbl.seats[0].LastAction)
}
