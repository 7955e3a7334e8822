package deck

import (
	"math/rand"
)

// Deck represents an ordered deck of playing cards
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// New creates a standard 52-card deck using the supplied RNG for shuffling.
// Callers own seeding; tests pass a fixed-seed RNG for determinism.
func New(rng *rand.Rand) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, NewCard(rank, suit))
		}
	}
	return d
}

// Shuffle randomizes the order of the remaining cards
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top n cards. Returns fewer when the
// deck runs short; the table never asks for more than remain.
func (d *Deck) Deal(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	dealt := make([]Card, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt
}

// ExcludeKnown removes every card in known from the deck. Used when
// completing a board against cards already visible elsewhere.
func (d *Deck) ExcludeKnown(known []Card) {
	if len(known) == 0 {
		return
	}
	seen := make(map[Card]bool, len(known))
	for _, c := range known {
		seen[c] = true
	}
	remaining := d.cards[:0]
	for _, c := range d.cards {
		if !seen[c] {
			remaining = append(remaining, c)
		}
	}
	d.cards = remaining
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards)
}
