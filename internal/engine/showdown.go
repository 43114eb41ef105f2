package engine

import (
	"fmt"
	"strings"

	"github.com/cardroomlabs/holdem-advisor/internal/deck"
	"github.com/cardroomlabs/holdem-advisor/internal/evaluator"
)

// settleUncontested awards the whole pot to the last seat in the hand
// without evaluating anything.
func (e *Engine) settleUncontested(inHand []int) {
	if len(inHand) != 1 {
		// Zero seats in hand cannot happen: a fold never removes the last
		// contender. Guard anyway so settlement stays total.
		e.endHand(nil)
		return
	}

	winner := inHand[0]
	total := 0
	for _, p := range e.players {
		total += p.TotalCommitted
	}
	e.players[winner].Stack += total

	win := PotWinner{Seat: winner, Amount: total}
	e.emit(EventPotAwarded, PotAwardedData{
		PotIndex:    0,
		Amount:      total,
		Uncontested: true,
		Winners:     []PotWinner{win},
	})
	e.logger.Debug("pot awarded uncontested", "hand", e.handID, "seat", winner, "amount", total)
	e.endHand([]PotWinner{win})
}

// resolveShowdown computes pots from commitment levels, evaluates each
// contender's best seven-card hand, and awards every pot to its strongest
// eligible contenders, splitting ties.
func (e *Engine) resolveShowdown() {
	ranks := make(map[int]evaluator.HandRank)
	for _, p := range e.players {
		if p.InHand() {
			cards := make([]deck.Card, 0, 7)
			cards = append(cards, p.HoleCards...)
			cards = append(cards, e.board...)
			ranks[p.Seat] = evaluator.Evaluate7(cards)
		}
	}

	var allWinners []PotWinner
	for i, pot := range e.computePots() {
		winners := e.potWinners(pot, ranks)
		payouts := e.splitPot(pot.Amount, winners)
		for w := range payouts {
			payouts[w].Hand = ranks[payouts[w].Seat].Category.String()
			e.players[payouts[w].Seat].Stack += payouts[w].Amount
		}
		allWinners = append(allWinners, payouts...)
		e.emit(EventPotAwarded, PotAwardedData{PotIndex: i, Amount: pot.Amount, Winners: payouts})
		e.logger.Debug("pot awarded", "hand", e.handID, "pot", i, "amount", pot.Amount)
	}
	e.endHand(allWinners)
}

// potWinners returns the eligible seats holding the best hand for this pot.
func (e *Engine) potWinners(pot Pot, ranks map[int]evaluator.HandRank) []int {
	var best evaluator.HandRank
	var winners []int
	for _, seat := range pot.Eligible {
		r, ok := ranks[seat]
		if !ok {
			continue
		}
		if len(winners) == 0 {
			best = r
			winners = []int{seat}
			continue
		}
		switch cmp := evaluator.Compare(r, best); {
		case cmp > 0:
			best = r
			winners = []int{seat}
		case cmp == 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

// splitPot divides an amount among winning seats. Odd chips go one at a time
// to winners in clockwise order starting from the seat after the dealer.
func (e *Engine) splitPot(amount int, winners []int) []PotWinner {
	if len(winners) == 0 {
		return nil
	}

	ordered := make([]int, 0, len(winners))
	isWinner := make(map[int]bool, len(winners))
	for _, seat := range winners {
		isWinner[seat] = true
	}
	for i := 1; i <= NumSeats; i++ {
		seat := (e.dealerSeat + i) % NumSeats
		if isWinner[seat] {
			ordered = append(ordered, seat)
		}
	}

	share := amount / len(ordered)
	odd := amount % len(ordered)
	payouts := make([]PotWinner, 0, len(ordered))
	for _, seat := range ordered {
		pay := share
		if odd > 0 {
			pay++
			odd--
		}
		payouts = append(payouts, PotWinner{Seat: seat, Amount: pay})
	}
	return payouts
}

// endHand clears the awarded commitments, emits the summary and terminal
// events, and freezes the hand. Commitments must be zeroed once pots are
// paid out or the ended snapshot would show the chips twice.
func (e *Engine) endHand(winners []PotWinner) {
	for _, p := range e.players {
		p.TotalCommitted = 0
		p.StreetCommitted = 0
	}
	e.emit(EventHandSummary, HandSummaryData{
		Board:   deck.Strings(e.board),
		Winners: winners,
		Text:    e.summaryText(winners),
	})
	e.phase = PhaseEnded
	e.actionSeat = -1
	e.emit(EventHandEnded, HandEndedData{Stacks: e.stacks()})
	e.logger.Debug("hand ended", "hand", e.handID, "stacks", e.stacks())
}

func (e *Engine) summaryText(winners []PotWinner) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*** SUMMARY hand %d ***\n", e.handID)
	if len(e.board) > 0 {
		fmt.Fprintf(&b, "Board [%s]\n", strings.Join(deck.Strings(e.board), " "))
	}
	for _, w := range winners {
		if w.Hand != "" {
			fmt.Fprintf(&b, "Seat %d won %d with %s\n", w.Seat, w.Amount, w.Hand)
		} else {
			fmt.Fprintf(&b, "Seat %d won %d uncontested\n", w.Seat, w.Amount)
		}
	}
	return b.String()
}
