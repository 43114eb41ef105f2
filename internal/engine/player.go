package engine

import "github.com/cardroomlabs/holdem-advisor/internal/deck"

// Status describes a seat's standing within the current hand.
type Status int

const (
	// StatusActive players can still act this hand.
	StatusActive Status = iota
	// StatusFolded players have mucked and are out of the hand.
	StatusFolded
	// StatusAllIn players have committed their whole stack and cannot act
	// further but remain eligible for pots up to their commitment level.
	StatusAllIn
	// StatusOut seats have no chips and do not participate in the hand.
	StatusOut
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all_in"
	case StatusOut:
		return "out"
	default:
		return "unknown"
	}
}

// Player is one seat's per-hand record. Seat identity and stack carry across
// hands; everything else is reset when a new hand starts.
type Player struct {
	Seat            int
	Stack           int
	TotalCommitted  int // chips committed this hand
	StreetCommitted int // chips committed this street
	Status          Status
	HoleCards       []deck.Card
}

// InHand reports whether the seat still contests the pot.
func (p *Player) InHand() bool {
	return p.Status == StatusActive || p.Status == StatusAllIn
}

// commit moves chips from the stack into the current street's commitment,
// flipping the player to all-in when the stack empties.
func (p *Player) commit(chips int) {
	if chips > p.Stack {
		chips = p.Stack
	}
	p.Stack -= chips
	p.StreetCommitted += chips
	p.TotalCommitted += chips
	if p.Stack == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
}
