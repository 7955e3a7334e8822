package ranker

import (
	"fmt"
	"sort"

	"github.com/tablestakes/holdem/internal/deck"
)

// StandardRanker evaluates standard high hands. For 6 or 7 cards it
// takes the best strength over every 5-card combination.
type StandardRanker struct{}

// NewStandardRanker creates a StandardRanker
func NewStandardRanker() *StandardRanker {
	return &StandardRanker{}
}

// Rank implements HandRanker
func (r *StandardRanker) Rank(cards []deck.Card) (Strength, error) {
	switch {
	case len(cards) < 5:
		return 0, fmt.Errorf("need at least 5 cards, got %d", len(cards))
	case len(cards) > 7:
		return 0, fmt.Errorf("need at most 7 cards, got %d", len(cards))
	case len(cards) == 5:
		return evaluate5(cards), nil
	}

	var best Strength
	combo := make([]deck.Card, 5)
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						combo[0], combo[1], combo[2] = cards[a], cards[b], cards[c]
						combo[3], combo[4] = cards[d], cards[e]
						if s := evaluate5(combo); s > best {
							best = s
						}
					}
				}
			}
		}
	}
	return best, nil
}

// evaluate5 scores exactly 5 cards
func evaluate5(cards []deck.Card) Strength {
	var counts [15]int // indexed by rank value 2..14
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	straightHigh := straightHighCard(counts)

	if flush && straightHigh > 0 {
		if straightHigh == deck.Ace {
			return encode(RoyalFlush, deck.Ace)
		}
		return encode(StraightFlush, straightHigh)
	}

	// Group ranks by multiplicity, each group ordered high to low
	var quads, trips, pairs, singles []deck.Rank
	for rank := deck.Ace; rank >= deck.Two; rank-- {
		switch counts[rank] {
		case 4:
			quads = append(quads, rank)
		case 3:
			trips = append(trips, rank)
		case 2:
			pairs = append(pairs, rank)
		case 1:
			singles = append(singles, rank)
		}
	}

	switch {
	case len(quads) == 1:
		return encode(FourOfAKind, quads[0], singles[0])
	case len(trips) == 1 && len(pairs) == 1:
		return encode(FullHouse, trips[0], pairs[0])
	case flush:
		return encode(Flush, singles...)
	case straightHigh > 0:
		return encode(Straight, straightHigh)
	case len(trips) == 1:
		return encode(ThreeOfAKind, trips[0], singles[0], singles[1])
	case len(pairs) == 2:
		return encode(TwoPair, pairs[0], pairs[1], singles[0])
	case len(pairs) == 1:
		return encode(OnePair, pairs[0], singles[0], singles[1], singles[2])
	default:
		return encode(HighCard, singles...)
	}
}

// straightHighCard returns the high card of a 5-card straight, or 0.
// The wheel (A-2-3-4-5) returns Five.
func straightHighCard(counts [15]int) deck.Rank {
	run := 0
	for rank := deck.Two; rank <= deck.Ace; rank++ {
		if counts[rank] == 0 {
			run = 0
			continue
		}
		run++
		if run == 5 {
			return rank
		}
	}
	// Ace plays low in the wheel
	if counts[deck.Ace] > 0 && counts[deck.Two] > 0 && counts[deck.Three] > 0 &&
		counts[deck.Four] > 0 && counts[deck.Five] > 0 {
		return deck.Five
	}
	return 0
}

// encode packs a category and up to five tie-break ranks, most
// significant first, into a Strength
func encode(cat Category, ranks ...deck.Rank) Strength {
	s := Strength(cat) << 28
	shift := 16
	for _, r := range ranks {
		s |= Strength(r-2) << shift
		shift -= 4
	}
	return s
}

// SortDescending orders cards from highest to lowest rank, in place
func SortDescending(cards []deck.Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].Rank > cards[j].Rank
	})
}
