package engine

import "sort"

// Pot is a settlement-time pot: an amount and the seats that may win it.
// Pots are derived from commitment levels, never mutated incrementally.
type Pot struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// computePots partitions all committed chips into main and side pots.
//
// Distinct positive commitment totals are sorted ascending; each level's pot
// collects (level - previous) from every player committed at least that far.
// Eligibility is the non-folded subset of those contributors, which handles
// any number of simultaneous all-ins at different depths. Chips committed by
// players nobody matched (an uncalled bet) form a pot only its bettor is
// eligible for, returning them at settlement.
func (e *Engine) computePots() []Pot {
	levelSet := make(map[int]bool)
	for _, p := range e.players {
		if p.TotalCommitted > 0 {
			levelSet[p.TotalCommitted] = true
		}
	}
	if len(levelSet) == 0 {
		return nil
	}

	levels := make([]int, 0, len(levelSet))
	for l := range levelSet {
		levels = append(levels, l)
	}
	sort.Ints(levels)

	var pots []Pot
	prev := 0
	for _, level := range levels {
		pot := Pot{}
		for _, p := range e.players {
			if p.TotalCommitted < level {
				// Partial contributions below this level were captured by
				// the lower levels (each commitment total is its own level).
				continue
			}
			pot.Amount += level - prev
			if p.InHand() {
				pot.Eligible = append(pot.Eligible, p.Seat)
			}
		}
		if pot.Amount > 0 {
			pots = append(pots, pot)
		}
		prev = level
	}
	return pots
}
