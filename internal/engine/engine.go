// Package engine implements the authoritative no-limit hold'em betting state
// machine: blinds, streets, legal-action derivation, pot settlement and
// showdown resolution for a single six-seat table.
//
// The engine is single-threaded and synchronous. Every public operation
// either fully completes or fails without mutating state; it assumes exactly
// one logical caller per instance and provides no locking.
package engine

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/cardroomlabs/holdem-advisor/internal/deck"
)

// NumSeats is the fixed table size. Seat identity (0..5) is permanent.
const NumSeats = 6

// Phase is the state machine state for the current hand.
type Phase int

const (
	PhasePreflop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
	PhaseEnded
)

func (p Phase) String() string {
	return [...]string{"preflop", "flop", "turn", "river", "showdown", "ended"}[p]
}

// ActionType is the engine's concrete action vocabulary. Externally-facing
// proposals use a collapsed FOLD/CALL/RAISE vocabulary; the gateway maps it
// back onto these before anything reaches ApplyAction.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionBet   ActionType = "bet"
	ActionRaise ActionType = "raise"
)

// LegalAction is one currently legal action for the acting seat. MinAmount
// and MaxAmount are set for bet and raise only, and are total street
// commitments ("raise to"), with MaxAmount the all-in ceiling.
type LegalAction struct {
	Type      ActionType `json:"type"`
	MinAmount int        `json:"min_amount,omitempty"`
	MaxAmount int        `json:"max_amount,omitempty"`
}

// ActionRequest is the input to ApplyAction. Amount is the total street
// commitment for bet/raise and ignored otherwise.
type ActionRequest struct {
	Actor  int        `json:"actor"`
	Type   ActionType `json:"type"`
	Amount int        `json:"amount,omitempty"`
}

// Config describes a table. Stacks optionally overrides the uniform starting
// stack per seat (length NumSeats).
type Config struct {
	Seed          string `json:"seed"`
	SmallBlind    int    `json:"small_blind"`
	BigBlind      int    `json:"big_blind"`
	StartingStack int    `json:"starting_stack"`
	Stacks        []int  `json:"stacks,omitempty"`
}

func (c Config) validate() error {
	if c.SmallBlind <= 0 {
		return fmt.Errorf("engine: small blind must be positive, got %d", c.SmallBlind)
	}
	if c.BigBlind <= c.SmallBlind {
		return fmt.Errorf("engine: big blind %d must exceed small blind %d", c.BigBlind, c.SmallBlind)
	}
	if c.Stacks == nil && c.StartingStack <= 0 {
		return fmt.Errorf("engine: starting stack must be positive, got %d", c.StartingStack)
	}
	if c.Stacks != nil && len(c.Stacks) != NumSeats {
		return fmt.Errorf("engine: stacks must cover %d seats, got %d", NumSeats, len(c.Stacks))
	}
	return nil
}

// Engine owns one table's GameState. All mutation goes through ApplyAction
// and StartNextHand.
type Engine struct {
	cfg    Config
	logger *log.Logger

	handID     int
	phase      Phase
	dealerSeat int
	sbSeat     int
	bbSeat     int
	actionSeat int

	board []deck.Card
	cards *deck.Deck
	burn  []deck.Card

	players [NumSeats]*Player

	currentBet    int
	minRaiseTo    int
	lastRaiseSize int
	hasActed      [NumSeats]bool
	canRaise      [NumSeats]bool

	events  []Event
	history []ActionRecord

	handStartTotal int // chip-conservation baseline for the current hand
}

// New creates an engine and deals the first hand.
func New(cfg Config, logger *log.Logger) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		cfg:        cfg,
		logger:     logger,
		dealerSeat: -1,
		phase:      PhaseEnded,
	}
	for seat := 0; seat < NumSeats; seat++ {
		stack := cfg.StartingStack
		if cfg.Stacks != nil {
			stack = cfg.Stacks[seat]
		}
		e.players[seat] = &Player{Seat: seat, Stack: stack}
	}

	if err := e.startHand(); err != nil {
		return nil, err
	}
	return e, nil
}

// StartNextHand advances the dealer button and deals the next hand. It fails
// with ErrHandNotEnded while a hand is live and ErrNotEnoughPlayers when
// fewer than two seats still have chips.
func (e *Engine) StartNextHand() error {
	if e.phase != PhaseEnded {
		return ErrHandNotEnded
	}
	return e.startHand()
}

func (e *Engine) startHand() error {
	funded := 0
	for _, p := range e.players {
		if p.Stack > 0 {
			funded++
		}
	}
	if funded < 2 {
		return ErrNotEnoughPlayers
	}

	e.handID++
	e.board = nil
	e.burn = nil
	e.cards = deck.New(e.cfg.Seed, e.handID)

	total := 0
	for _, p := range e.players {
		p.TotalCommitted = 0
		p.StreetCommitted = 0
		p.HoleCards = nil
		if p.Stack > 0 {
			p.Status = StatusActive
		} else {
			p.Status = StatusOut
		}
		total += p.Stack
	}
	e.handStartTotal = total

	// The button advances linearly every hand, even onto an out seat; only
	// blind assignment skips ineligible seats.
	e.dealerSeat = (e.dealerSeat + 1) % NumSeats
	e.sbSeat = e.nextInHand(e.dealerSeat + 1)
	e.bbSeat = e.nextInHand(e.sbSeat + 1)

	e.phase = PhasePreflop
	e.emit(EventHandStarted, HandStartedData{
		DealerSeat:     e.dealerSeat,
		SmallBlindSeat: e.sbSeat,
		BigBlindSeat:   e.bbSeat,
		Stacks:         e.stacks(),
	})
	e.logger.Debug("hand started",
		"hand", e.handID, "dealer", e.dealerSeat, "sb", e.sbSeat, "bb", e.bbSeat)

	e.postBlind(e.sbSeat, e.cfg.SmallBlind, "small")
	e.postBlind(e.bbSeat, e.cfg.BigBlind, "big")

	e.currentBet = e.cfg.BigBlind
	e.lastRaiseSize = e.cfg.BigBlind
	e.minRaiseTo = e.cfg.BigBlind + e.cfg.BigBlind

	// Two passes starting from the small blind, seat by seat.
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < NumSeats; i++ {
			p := e.players[(e.sbSeat+i)%NumSeats]
			if p.InHand() {
				p.HoleCards = append(p.HoleCards, e.cards.Draw())
			}
		}
	}

	for seat, p := range e.players {
		e.hasActed[seat] = p.Status == StatusAllIn
		e.canRaise[seat] = p.Status == StatusActive && p.Stack > 0
	}

	e.actionSeat = e.nextSeatToAct(e.bbSeat + 1)
	if e.actionSeat == -1 {
		// Blinds put everyone all-in; run the board out.
		e.advanceStreets()
	}
	return nil
}

func (e *Engine) postBlind(seat, blind int, label string) {
	p := e.players[seat]
	pay := blind
	if pay > p.Stack {
		pay = p.Stack
	}
	p.commit(pay)
	e.emit(EventBlindPosted, BlindPostedData{Seat: seat, Blind: label, Amount: pay})
}

// nextInHand scans forward (wrapping) for the next seat participating in the
// hand. Callers guarantee at least two such seats exist.
func (e *Engine) nextInHand(from int) int {
	for i := 0; i < NumSeats; i++ {
		seat := (from + i) % NumSeats
		if e.players[seat].Status != StatusOut {
			return seat
		}
	}
	return -1
}

// nextSeatToAct scans forward (wrapping) for the next active seat that still
// owes action this street: either its commitment trails the current bet or
// it has not acted yet.
func (e *Engine) nextSeatToAct(from int) int {
	for i := 0; i < NumSeats; i++ {
		seat := (from + i) % NumSeats
		p := e.players[seat]
		if p.Status != StatusActive {
			continue
		}
		if p.StreetCommitted != e.currentBet || !e.hasActed[seat] {
			return seat
		}
	}
	return -1
}

func (e *Engine) stacks() []int {
	out := make([]int, NumSeats)
	for i, p := range e.players {
		out[i] = p.Stack
	}
	return out
}

// HandID returns the monotonic hand counter.
func (e *Engine) HandID() int { return e.handID }

// Phase returns the current state machine phase.
func (e *Engine) Phase() Phase { return e.phase }

// ActionSeat returns the seat due to act, or -1 when no action is pending.
func (e *Engine) ActionSeat() int {
	if e.phase == PhaseEnded {
		return -1
	}
	return e.actionSeat
}

// GetLegalActions derives the acting seat's legal actions. It is a pure
// read: no state is mutated. The slice is empty once the hand has ended.
func (e *Engine) GetLegalActions() []LegalAction {
	if e.phase == PhaseEnded || e.actionSeat < 0 {
		return nil
	}

	p := e.players[e.actionSeat]
	maxTotal := p.Stack + p.StreetCommitted
	toCall := e.currentBet - p.StreetCommitted

	var actions []LegalAction
	if toCall > 0 {
		actions = append(actions,
			LegalAction{Type: ActionFold},
			LegalAction{Type: ActionCall},
		)
		if e.canRaise[e.actionSeat] && maxTotal > e.currentBet {
			minTo := e.minRaiseTo
			if minTo > maxTotal {
				minTo = maxTotal
			}
			actions = append(actions, LegalAction{Type: ActionRaise, MinAmount: minTo, MaxAmount: maxTotal})
		}
	} else {
		actions = append(actions, LegalAction{Type: ActionCheck})
		if p.Stack > 0 {
			minBet := e.cfg.BigBlind
			if e.currentBet > 0 {
				minBet = e.minRaiseTo
			}
			if minBet > maxTotal {
				minBet = maxTotal
			}
			actions = append(actions, LegalAction{Type: ActionBet, MinAmount: minBet, MaxAmount: maxTotal})
		}
	}
	return actions
}
