package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Clubs
	Spades
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// Name returns the wire name of a suit ("hearts", "spades", ...)
func (s Suit) Name() string {
	switch s {
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	case Spades:
		return "spades"
	default:
		return "unknown"
	}
}

// Rank represents a card rank, aces high
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch {
	case r >= Two && r <= Nine:
		return fmt.Sprintf("%d", int(r))
	case r == Ten:
		return "T"
	case r == Jack:
		return "J"
	case r == Queen:
		return "Q"
	case r == King:
		return "K"
	case r == Ace:
		return "A"
	default:
		return "?"
	}
}

// Card represents a playing card. Cards are value types and compare
// equal when rank and suit match.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the short representation of a card (e.g., "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// cardJSON is the wire format used by clients ({"rank":"A","suit":"hearts"})
type cardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// MarshalJSON implements json.Marshaler
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{Rank: c.Rank.String(), Suit: c.Suit.Name()})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Card) UnmarshalJSON(data []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	rank, ok := rankNames[cj.Rank]
	if !ok {
		return fmt.Errorf("unknown rank %q", cj.Rank)
	}
	suit, ok := suitNames[cj.Suit]
	if !ok {
		return fmt.Errorf("unknown suit %q", cj.Suit)
	}
	c.Rank = rank
	c.Suit = suit
	return nil
}

var rankNames = map[string]Rank{
	"2": Two, "3": Three, "4": Four, "5": Five, "6": Six, "7": Seven,
	"8": Eight, "9": Nine, "T": Ten, "J": Jack, "Q": Queen, "K": King, "A": Ace,
}

var suitNames = map[string]Suit{
	"hearts": Hearts, "diamonds": Diamonds, "clubs": Clubs, "spades": Spades,
}

var suitLetters = map[byte]Suit{
	'h': Hearts, 'd': Diamonds, 'c': Clubs, 's': Spades,
}

// ParseCard parses a two character card like "Ah" or "Tc"
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, ok := rankNames[strings.ToUpper(s[:1])]
	if !ok {
		return Card{}, fmt.Errorf("invalid rank in %q", s)
	}
	suit, ok := suitLetters[s[1]|0x20]
	if !ok {
		return Card{}, fmt.Errorf("invalid suit in %q", s)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a whitespace separated list of cards ("Ah Kd")
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
