// Package decision defines the canonical form of an externally proposed
// poker action and the validation that turns untrusted model output into
// one. Validation failures are values, never panics: dealing with a
// misbehaving proposer is routine, not exceptional.
package decision

import "fmt"

// ActionType is the collapsed action vocabulary exposed to the untrusted
// proposer. CHECK is always pre-encoded as CALL and BET as RAISE before the
// proposer sees the state; the gateway un-collapses on the way back in.
type ActionType string

const (
	Fold  ActionType = "FOLD"
	Call  ActionType = "CALL"
	Raise ActionType = "RAISE"
)

// Plan is the proposer's stated line for the rest of the hand.
type Plan string

const (
	PlanValue   Plan = "value"
	PlanBluff   Plan = "bluff"
	PlanControl Plan = "control"
)

// DefaultPlan is substituted when the proposal omits the plan or supplies
// something outside the enum.
const DefaultPlan = PlanControl

// DefaultConfidence is substituted when the proposal omits confidence.
const DefaultConfidence = 0.5

// ProposedAction is the action the proposer wants taken. Amount is set only
// for RAISE and is a total street commitment ("raise to").
type ProposedAction struct {
	Type   ActionType `json:"type"`
	Amount *int       `json:"amount,omitempty"`
}

// Driver is one weighted factor behind a decision.
type Driver struct {
	Key    string  `json:"key"`
	Weight float64 `json:"weight"`
}

// Reason explains a proposal.
type Reason struct {
	Drivers     []Driver `json:"drivers"`
	Plan        Plan     `json:"plan"`
	Assumptions []string `json:"assumptions,omitempty"`
	Line        string   `json:"line"`
}

// Decision is the canonical internal form of a validated proposal. It is
// built fresh per proposal and discarded after accept/reject.
type Decision struct {
	Action     ProposedAction `json:"action"`
	Reason     Reason         `json:"reason"`
	Confidence float64        `json:"confidence"`
}

// SchemaError reports a proposal that failed schema validation.
type SchemaError struct {
	Detail string
}

func (e *SchemaError) Error() string {
	return "decision: schema mismatch: " + e.Detail
}

func schemaErr(format string, args ...any) error {
	return &SchemaError{Detail: fmt.Sprintf(format, args...)}
}
