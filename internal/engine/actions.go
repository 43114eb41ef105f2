package engine

import "github.com/cardroomlabs/holdem-advisor/internal/deck"

// ApplyAction validates and applies one action for the acting seat. It
// validates everything up front and only then mutates, so a returned error
// guarantees state is unchanged.
func (e *Engine) ApplyAction(req ActionRequest) error {
	if e.phase == PhaseEnded || e.phase == PhaseShowdown {
		return invalidAction(req.Actor, req.Type, "no betting in phase %s", e.phase)
	}
	if req.Actor != e.actionSeat {
		return invalidAction(req.Actor, req.Type, "not this seat's turn (action on seat %d)", e.actionSeat)
	}

	p := e.players[req.Actor]
	if p.Status != StatusActive {
		return invalidAction(req.Actor, req.Type, "seat is %s", p.Status)
	}

	toCall := e.currentBet - p.StreetCommitted
	maxTotal := p.Stack + p.StreetCommitted

	switch req.Type {
	case ActionFold:
		if toCall <= 0 {
			return invalidAction(req.Actor, req.Type, "nothing to fold to, check instead")
		}
	case ActionCheck:
		if toCall > 0 {
			return invalidAction(req.Actor, req.Type, "facing a bet of %d, cannot check", toCall)
		}
	case ActionCall:
		if toCall <= 0 {
			return invalidAction(req.Actor, req.Type, "nothing to call")
		}
	case ActionBet:
		if toCall > 0 {
			return invalidAction(req.Actor, req.Type, "facing a bet, raise instead")
		}
		if p.Stack == 0 {
			return invalidAction(req.Actor, req.Type, "no chips behind")
		}
		// With a live bet already matched (big-blind option), a bet must be a
		// genuine raise over it; minRaiseTo always strictly exceeds currentBet,
		// as does the all-in cap, so the range check enforces that.
		minBet := e.cfg.BigBlind
		if e.currentBet > 0 {
			minBet = e.minRaiseTo
		}
		if minBet > maxTotal {
			minBet = maxTotal
		}
		if req.Amount < minBet || req.Amount > maxTotal {
			return invalidAction(req.Actor, req.Type, "bet of %d outside [%d, %d]", req.Amount, minBet, maxTotal)
		}
	case ActionRaise:
		if toCall <= 0 {
			return invalidAction(req.Actor, req.Type, "no bet to raise, bet instead")
		}
		if !e.canRaise[req.Actor] {
			return invalidAction(req.Actor, req.Type, "raising is closed for this seat")
		}
		if req.Amount <= e.currentBet {
			return invalidAction(req.Actor, req.Type, "raise to %d does not exceed current bet %d", req.Amount, e.currentBet)
		}
		if req.Amount > maxTotal {
			return invalidAction(req.Actor, req.Type, "raise to %d exceeds all-in ceiling %d", req.Amount, maxTotal)
		}
		if req.Amount < e.minRaiseTo && req.Amount != maxTotal {
			return invalidAction(req.Actor, req.Type, "raise to %d below minimum %d and not all-in", req.Amount, e.minRaiseTo)
		}
	default:
		return invalidAction(req.Actor, req.Type, "unknown action type")
	}

	// Validation passed; mutate.
	switch req.Type {
	case ActionFold:
		p.Status = StatusFolded
		e.hasActed[req.Actor] = true
		e.canRaise[req.Actor] = false

	case ActionCheck:
		e.hasActed[req.Actor] = true
		e.canRaise[req.Actor] = false

	case ActionCall:
		pay := toCall
		if pay > p.Stack {
			pay = p.Stack
		}
		p.commit(pay)
		e.hasActed[req.Actor] = true
		e.canRaise[req.Actor] = false

	case ActionBet:
		full := e.currentBet == 0 || req.Amount >= e.minRaiseTo
		raiseSize := req.Amount - e.currentBet
		p.commit(req.Amount - p.StreetCommitted)
		e.currentBet = req.Amount
		if full {
			e.lastRaiseSize = raiseSize
			e.minRaiseTo = e.currentBet + e.lastRaiseSize
			e.reopenAction(req.Actor)
		} else {
			// A short all-in over the matched blind is not a full raise and
			// does not reopen action.
			e.hasActed[req.Actor] = true
			e.canRaise[req.Actor] = false
		}

	case ActionRaise:
		full := req.Amount >= e.minRaiseTo
		raiseSize := req.Amount - e.currentBet
		p.commit(req.Amount - p.StreetCommitted)
		e.currentBet = req.Amount
		if full {
			e.lastRaiseSize = raiseSize
			e.minRaiseTo = e.currentBet + e.lastRaiseSize
			e.reopenAction(req.Actor)
		} else {
			// A short all-in does not reopen action: seats that already
			// acted keep their cleared raise rights and may only call.
			e.hasActed[req.Actor] = true
			e.canRaise[req.Actor] = false
		}
	}

	e.emit(EventActionTaken, ActionTakenData{
		Seat:   req.Actor,
		Action: req.Type,
		Amount: req.Amount,
		Street: e.phase.String(),
	})
	e.history = append(e.history, ActionRecord{
		HandID: e.handID,
		Street: e.phase.String(),
		Seat:   req.Actor,
		Action: req.Type,
		Amount: req.Amount,
	})
	e.logger.Debug("action applied",
		"hand", e.handID, "street", e.phase, "seat", req.Actor,
		"action", req.Type, "amount", req.Amount)

	e.afterAction()
	return nil
}

// reopenAction applies the aggression bookkeeping shared by bets and full
// raises: everyone except the aggressor owes action again, and raise rights
// are restored for every other active funded seat. The aggressor's own right
// is consumed until someone reopens with a full raise, so a short all-in
// behind them leaves only call and fold.
func (e *Engine) reopenAction(actor int) {
	for seat, p := range e.players {
		switch {
		case seat == actor:
			e.hasActed[seat] = true
			e.canRaise[seat] = false
		case p.Status == StatusActive:
			e.hasActed[seat] = false
			e.canRaise[seat] = p.Stack > 0
		default:
			e.hasActed[seat] = true
			e.canRaise[seat] = false
		}
	}
}

// afterAction settles the hand, advances the street, or passes action to the
// next seat, in that priority order.
func (e *Engine) afterAction() {
	inHand := e.seatsInHand()
	if len(inHand) <= 1 {
		e.settleUncontested(inHand)
		return
	}

	if e.roundComplete() {
		e.advanceStreets()
		return
	}

	e.actionSeat = e.nextSeatToAct(e.actionSeat + 1)
}

func (e *Engine) seatsInHand() []int {
	var seats []int
	for seat, p := range e.players {
		if p.InHand() {
			seats = append(seats, seat)
		}
	}
	return seats
}

// roundComplete reports whether the betting round is finished: every seat
// still in the hand is either all-in and accounted for, or active with a
// matched bet and its action taken. Zero seats in hand also counts.
func (e *Engine) roundComplete() bool {
	for seat, p := range e.players {
		switch p.Status {
		case StatusAllIn:
			if !e.hasActed[seat] {
				return false
			}
		case StatusActive:
			if p.StreetCommitted != e.currentBet || !e.hasActed[seat] {
				return false
			}
		}
	}
	return true
}

// advanceStreets deals community cards for the next street, skipping through
// streets with no possible action, and triggers showdown resolution when the
// river round closes.
func (e *Engine) advanceStreets() {
	for {
		for _, p := range e.players {
			p.StreetCommitted = 0
		}
		e.currentBet = 0
		e.lastRaiseSize = e.cfg.BigBlind
		e.minRaiseTo = e.cfg.BigBlind
		for seat, p := range e.players {
			e.hasActed[seat] = p.Status != StatusActive
			e.canRaise[seat] = p.Status == StatusActive && p.Stack > 0
		}

		e.phase++
		if e.phase == PhaseShowdown {
			e.resolveShowdown()
			return
		}

		reveal := 1
		if e.phase == PhaseFlop {
			reveal = 3
		}
		e.burn = append(e.burn, e.cards.Draw())
		street := make([]deck.Card, 0, reveal)
		for i := 0; i < reveal; i++ {
			c := e.cards.Draw()
			street = append(street, c)
			e.board = append(e.board, c)
		}
		e.emit(EventStreetDealt, StreetDealtData{
			Street: e.phase.String(),
			Cards:  deck.Strings(street),
			Board:  deck.Strings(e.board),
		})
		e.logger.Debug("street dealt", "hand", e.handID, "street", e.phase, "board", deck.Strings(e.board))

		e.actionSeat = e.nextSeatToAct(e.sbSeat)
		if e.actionSeat != -1 {
			return
		}
		// Nobody can act (remaining seats all-in); keep dealing.
	}
}
