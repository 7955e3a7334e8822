// Package ranker provides total ordering over 5-7 card poker hands.
//
// The engine depends only on the HandRanker interface so tests can
// substitute a stub with known orderings.
package ranker

import (
	"github.com/tablestakes/holdem/internal/deck"
)

// Category identifies the class of a poker hand
type Category int

const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns the canonical category name
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Strength is an orderable hand strength. Higher is stronger. The
// category sits in the top 4 bits, tie-break ranks in the low 20.
type Strength uint32

// Category returns the hand category encoded in the strength
func (s Strength) Category() Category {
	return Category(s >> 28)
}

// String returns the category name of the strength
func (s Strength) String() string {
	return s.Category().String()
}

// HandRanker evaluates the best 5-card hand from 5-7 cards and
// returns an orderable strength
type HandRanker interface {
	Rank(cards []deck.Card) (Strength, error)
}
