package engine

import "github.com/cardroomlabs/holdem-advisor/internal/deck"

// PlayerView is a seat's state as exposed in a snapshot.
type PlayerView struct {
	Seat            int      `json:"seat"`
	Stack           int      `json:"stack"`
	TotalCommitted  int      `json:"total_committed"`
	StreetCommitted int      `json:"street_committed"`
	Status          string   `json:"status"`
	HoleCards       []string `json:"hole_cards,omitempty"`
}

// StateView is the public projection of GameState.
type StateView struct {
	HandID         int          `json:"hand_id"`
	Phase          string       `json:"phase"`
	DealerSeat     int          `json:"dealer_seat"`
	SmallBlindSeat int          `json:"small_blind_seat"`
	BigBlindSeat   int          `json:"big_blind_seat"`
	ActionSeat     int          `json:"action_seat"`
	Board          []string     `json:"board"`
	Players        []PlayerView `json:"players"`
	Pots           []Pot        `json:"pots"`
	CurrentBet     int          `json:"current_bet"`
	MinRaiseTo     int          `json:"min_raise_to"`
	LastRaiseSize  int          `json:"last_raise_size"`
}

// Snapshot is a read-only, defensively copied view of the engine: config,
// state, the full event log and the action history.
type Snapshot struct {
	Config        Config         `json:"config"`
	State         StateView      `json:"state"`
	Events        []Event        `json:"events"`
	ActionHistory []ActionRecord `json:"action_history"`
}

// GetSnapshot returns a copy of the engine's observable state. Mutating the
// returned value never affects the engine.
func (e *Engine) GetSnapshot() Snapshot {
	players := make([]PlayerView, NumSeats)
	for i, p := range e.players {
		players[i] = PlayerView{
			Seat:            p.Seat,
			Stack:           p.Stack,
			TotalCommitted:  p.TotalCommitted,
			StreetCommitted: p.StreetCommitted,
			Status:          p.Status.String(),
			HoleCards:       deck.Strings(p.HoleCards),
		}
		if len(p.HoleCards) == 0 {
			players[i].HoleCards = nil
		}
	}

	pots := e.computePots()
	potsCopy := make([]Pot, len(pots))
	for i, pot := range pots {
		eligible := make([]int, len(pot.Eligible))
		copy(eligible, pot.Eligible)
		potsCopy[i] = Pot{Amount: pot.Amount, Eligible: eligible}
	}

	events := make([]Event, len(e.events))
	copy(events, e.events)
	history := make([]ActionRecord, len(e.history))
	copy(history, e.history)

	cfg := e.cfg
	if cfg.Stacks != nil {
		stacks := make([]int, len(cfg.Stacks))
		copy(stacks, cfg.Stacks)
		cfg.Stacks = stacks
	}

	actionSeat := e.actionSeat
	if e.phase == PhaseEnded {
		actionSeat = -1
	}

	return Snapshot{
		Config: cfg,
		State: StateView{
			HandID:         e.handID,
			Phase:          e.phase.String(),
			DealerSeat:     e.dealerSeat,
			SmallBlindSeat: e.sbSeat,
			BigBlindSeat:   e.bbSeat,
			ActionSeat:     actionSeat,
			Board:          deck.Strings(e.board),
			Players:        players,
			Pots:           potsCopy,
			CurrentBet:     e.currentBet,
			MinRaiseTo:     e.minRaiseTo,
			LastRaiseSize:  e.lastRaiseSize,
		},
		Events:        events,
		ActionHistory: history,
	}
}
