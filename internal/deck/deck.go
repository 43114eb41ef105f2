package deck

import (
	"fmt"

	"github.com/cardroomlabs/holdem-advisor/internal/randutil"
)

// Size is the number of cards in a full deck.
const Size = 52

// Deck is an ordered sequence of 52 unique cards consumed front to back.
// A deck belongs to exactly one hand and is rebuilt for the next one.
type Deck struct {
	cards [Size]Card
	next  int
}

// New builds a deck whose order is a pure function of (seed, handID):
// the seed string and hand number are hashed with FNV-1a, the hash seeds a
// xorshift32 stream, and the stream drives a Fisher-Yates shuffle. Identical
// inputs always yield identical card order.
func New(seed string, handID int) *Deck {
	d := &Deck{}
	i := 0
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}

	stream := randutil.NewStream(randutil.HashSeed(fmt.Sprintf("%s#%d", seed, handID)))
	for i := Size - 1; i > 0; i-- {
		j := stream.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
	return d
}

// Draw removes and returns the next card. Running out of cards is an
// invariant violation: a single six-seat hand can never consume 52 cards.
func (d *Deck) Draw() Card {
	if d.next >= Size {
		panic("deck: exhausted")
	}
	c := d.cards[d.next]
	d.next++
	return c
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return Size - d.next
}
