package engine

// EventType identifies an entry in the engine's append-only event log.
type EventType string

const (
	EventHandStarted EventType = "hand_started"
	EventBlindPosted EventType = "blind_posted"
	EventActionTaken EventType = "action_taken"
	EventStreetDealt EventType = "street_dealt"
	EventPotAwarded  EventType = "pot_awarded"
	EventHandSummary EventType = "hand_summary"
	EventHandEnded   EventType = "hand_ended"
)

// Event is one entry in the event log. The log is append-only and never
// pruned for the lifetime of the engine.
type Event struct {
	Type   EventType `json:"type"`
	HandID int       `json:"hand_id"`
	Data   any       `json:"data"`
}

// HandStartedData describes the table at the start of a hand.
type HandStartedData struct {
	DealerSeat     int   `json:"dealer_seat"`
	SmallBlindSeat int   `json:"small_blind_seat"`
	BigBlindSeat   int   `json:"big_blind_seat"`
	Stacks         []int `json:"stacks"`
}

// BlindPostedData records a posted blind. Amount is the chips actually
// committed, which may be short of the blind when the stack is smaller.
type BlindPostedData struct {
	Seat   int    `json:"seat"`
	Blind  string `json:"blind"` // "small" or "big"
	Amount int    `json:"amount"`
}

// ActionTakenData records an applied player action.
type ActionTakenData struct {
	Seat   int        `json:"seat"`
	Action ActionType `json:"action"`
	Amount int        `json:"amount,omitempty"`
	Street string     `json:"street"`
}

// StreetDealtData records newly revealed community cards.
type StreetDealtData struct {
	Street string   `json:"street"`
	Cards  []string `json:"cards"`
	Board  []string `json:"board"`
}

// PotWinner is one seat's share of an awarded pot.
type PotWinner struct {
	Seat   int    `json:"seat"`
	Amount int    `json:"amount"`
	Hand   string `json:"hand,omitempty"`
}

// PotAwardedData records settlement of a single pot.
type PotAwardedData struct {
	PotIndex    int         `json:"pot_index"`
	Amount      int         `json:"amount"`
	Uncontested bool        `json:"uncontested,omitempty"`
	Winners     []PotWinner `json:"winners"`
}

// HandSummaryData is the end-of-hand roll-up.
type HandSummaryData struct {
	Board   []string    `json:"board"`
	Winners []PotWinner `json:"winners"`
	Text    string      `json:"text"`
}

// HandEndedData marks the terminal phase of a hand.
type HandEndedData struct {
	Stacks []int `json:"stacks"`
}

// ActionRecord is one entry in the snapshot's action history.
type ActionRecord struct {
	HandID int        `json:"hand_id"`
	Street string     `json:"street"`
	Seat   int        `json:"seat"`
	Action ActionType `json:"action"`
	Amount int        `json:"amount,omitempty"`
}

func (e *Engine) emit(t EventType, data any) {
	e.events = append(e.events, Event{Type: t, HandID: e.handID, Data: data})
}
