package table

import (
	"fmt"

	"github.com/tablestakes/holdem/internal/deck"
)

// PlayerKind distinguishes how a seat's decisions are made
type PlayerKind int

const (
	Human PlayerKind = iota
	HeuristicBot
	PolicyBot
)

// String returns the wire name of the player kind
func (k PlayerKind) String() string {
	switch k {
	case Human:
		return "human"
	case HeuristicBot:
		return "heuristic_bot"
	case PolicyBot:
		return "policy_bot"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (k PlayerKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *PlayerKind) UnmarshalText(text []byte) error {
	for kind := Human; kind <= PolicyBot; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown player kind %q", text)
}

// IsBot reports whether decisions for this kind are automated
func (k PlayerKind) IsBot() bool {
	return k == HeuristicBot || k == PolicyBot
}

// Seat holds one position at the table. Chips persist across hands;
// everything else is reset when a hand starts.
type Seat struct {
	ID         int
	Name       string
	Kind       PlayerKind
	Chips      int
	HoleCards  []deck.Card
	Folded     bool
	Acted      bool // acted this betting round
	Dealer     bool
	SmallBlind bool
	BigBlind   bool
	CurrentBet int // chips committed this betting round
	LastAction string

	// Active seats are dealt into the current hand. Seats joining
	// mid-hand are PendingActive until the next hand starts.
	Active        bool
	PendingActive bool
}

// InHand reports whether the seat is dealt in and has not folded
func (s *Seat) InHand() bool {
	return s.Active && !s.Folded
}

// resetForHand clears per-hand state, leaving chips and identity
func (s *Seat) resetForHand() {
	s.HoleCards = nil
	s.Folded = false
	s.Acted = false
	s.Dealer = false
	s.SmallBlind = false
	s.BigBlind = false
	s.CurrentBet = 0
	s.LastAction = ""
}

// resetForRound clears per-betting-round state
func (s *Seat) resetForRound() {
	s.CurrentBet = 0
	s.Acted = false
}
