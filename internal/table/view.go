package table

import (
	"github.com/tablestakes/holdem/internal/deck"
)

// SeatSnapshot is the serializable public state of one seat
type SeatSnapshot struct {
	ID            int         `json:"id"`
	Name          string      `json:"name"`
	Kind          PlayerKind  `json:"player_type"`
	Chips         int         `json:"chips"`
	HoleCards     []deck.Card `json:"hole_cards"`
	Dealer        bool        `json:"is_dealer"`
	SmallBlind    bool        `json:"is_small_blind"`
	BigBlind      bool        `json:"is_big_blind"`
	Active        bool        `json:"is_active"`
	PendingActive bool        `json:"pending_active"`
	CurrentBet    int         `json:"current_bet"`
	Folded        bool        `json:"folded"`
	Acted         bool        `json:"acted_this_round"`
	LastAction    string      `json:"last_action,omitempty"`
}

// Snapshot is a point-in-time copy of the table, safe to use after
// the table lock is released
type Snapshot struct {
	TableID       string         `json:"table_id"`
	Seats         []SeatSnapshot `json:"players"`
	Community     []deck.Card    `json:"community_cards"`
	Pot           int            `json:"pot"`
	CurrentBet    int            `json:"current_bet"`
	Current       int            `json:"current_player_index"`
	Stage         Stage          `json:"game_stage"`
	SmallBlind    int            `json:"small_blind"`
	BigBlind      int            `json:"big_blind"`
	SeatCount     int            `json:"max_players"`
	StartingChips int            `json:"starting_chips"`

	// Actions is the legal action set for the seat due to act, nil
	// outside betting rounds
	Actions *ActionInfo `json:"action_info,omitempty"`
}

// Winner records one seat's share of an awarded pot
type Winner struct {
	SeatID int    `json:"seat_id"`
	Name   string `json:"name"`
	Amount int    `json:"amount"`
	Hand   string `json:"hand,omitempty"`
}

// Snapshot copies the table state
func (t *Table) Snapshot() Snapshot {
	snap := Snapshot{
		TableID:       t.id,
		Community:     append([]deck.Card(nil), t.board...),
		Pot:           t.pot,
		CurrentBet:    t.bet,
		Current:       t.current,
		Stage:         t.stage,
		SmallBlind:    t.cfg.SmallBlind,
		BigBlind:      t.cfg.BigBlind,
		SeatCount:     t.cfg.SeatCount,
		StartingChips: t.cfg.StartingChips,
	}
	if t.stage.Betting() {
		if seat := t.CurrentSeat(); seat != nil {
			info := t.ValidActions(seat)
			snap.Actions = &info
		}
	}
	for _, s := range t.seats {
		snap.Seats = append(snap.Seats, SeatSnapshot{
			ID:            s.ID,
			Name:          s.Name,
			Kind:          s.Kind,
			Chips:         s.Chips,
			HoleCards:     append([]deck.Card(nil), s.HoleCards...),
			Dealer:        s.Dealer,
			SmallBlind:    s.SmallBlind,
			BigBlind:      s.BigBlind,
			Active:        s.Active,
			PendingActive: s.PendingActive,
			CurrentBet:    s.CurrentBet,
			Folded:        s.Folded,
			Acted:         s.Acted,
			LastAction:    s.LastAction,
		})
	}
	return snap
}

// Redacted returns a copy with hole cards hidden from everyone but
// the viewer. At showdown, unfolded hands are public. A negative
// viewer sees only showdown hands (observer view).
func (s Snapshot) Redacted(viewerSeat int) Snapshot {
	out := s
	out.Seats = append([]SeatSnapshot(nil), s.Seats...)
	for i := range out.Seats {
		seat := &out.Seats[i]
		if seat.ID == viewerSeat {
			continue
		}
		if s.Stage == StageShowdown && !seat.Folded && seat.Active {
			continue
		}
		seat.HoleCards = nil
	}
	return out
}

// LastWinners returns the winners of the most recently completed hand
func (t *Table) LastWinners() []Winner {
	return append([]Winner(nil), t.lastWinners...)
}
