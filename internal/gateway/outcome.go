package gateway

import (
	"github.com/cardroomlabs/holdem-advisor/internal/decision"
	"github.com/cardroomlabs/holdem-advisor/internal/engine"
)

// Status is the pipeline's tri-state result.
type Status string

const (
	// StatusAccepted means the proposal passed every gate. The caller still
	// has to confirm it before anything touches the engine.
	StatusAccepted Status = "accepted"
	// StatusRejected means a gate failed; the outcome carries the reason.
	StatusRejected Status = "rejected"
	// StatusFallback means policy said not to consult the proposer at all.
	// It is distinct from rejection and is not a failure.
	StatusFallback Status = "fallback"
)

// ReasonCode identifies the gate that stopped a proposal.
type ReasonCode string

const (
	ReasonInvalidAIConfig   ReasonCode = "invalid_ai_config"
	ReasonManualMode        ReasonCode = "manual_mode"
	ReasonMissingCredential ReasonCode = "missing_credential"
	ReasonProviderError     ReasonCode = "provider_error"
	ReasonInvalidJSON       ReasonCode = "invalid_json"
	ReasonSchemaMismatch    ReasonCode = "schema_mismatch"
	ReasonCapabilityLimit   ReasonCode = "capability_limit"
	ReasonIllegalAction     ReasonCode = "illegal_action"
)

// messageCodes is the stable caller-facing taxonomy for display.
var messageCodes = map[ReasonCode]string{
	ReasonInvalidAIConfig:   "AI_CONFIG_INVALID",
	ReasonMissingCredential: "CREDENTIAL_MISSING",
	ReasonProviderError:     "PROVIDER_ERROR",
	ReasonInvalidJSON:       "INVALID_RESPONSE_FORMAT",
	ReasonSchemaMismatch:    "RESPONSE_SCHEMA_MISMATCH",
	ReasonIllegalAction:     "ACTION_NOT_LEGAL",
	ReasonCapabilityLimit:   "CAPABILITY_RESTRICTED",
}

// MessageCode returns the display code for a reason, empty for fallback.
func MessageCode(code ReasonCode) string {
	return messageCodes[code]
}

// Outcome is the pipeline's single result value. Exactly one of the three
// statuses is set; governance failures are carried here, never thrown.
type Outcome struct {
	Status      Status             `json:"status"`
	RequestID   string             `json:"request_id"`
	Decision    *decision.Decision `json:"decision,omitempty"`
	Action      engine.ActionType  `json:"action,omitempty"`
	Amount      int                `json:"amount,omitempty"`
	ReasonCode  ReasonCode         `json:"reason_code,omitempty"`
	MessageCode string             `json:"message_code,omitempty"`
	Message     string             `json:"message,omitempty"`

	// AllowManualFallback is true on every non-accepted outcome: no
	// governance failure may block forward progress of the hand.
	AllowManualFallback bool `json:"allow_manual_fallback"`
}

func rejected(requestID string, code ReasonCode, message string) Outcome {
	return Outcome{
		Status:              StatusRejected,
		RequestID:           requestID,
		ReasonCode:          code,
		MessageCode:         MessageCode(code),
		Message:             message,
		AllowManualFallback: true,
	}
}

func fallback(requestID string, message string) Outcome {
	return Outcome{
		Status:              StatusFallback,
		RequestID:           requestID,
		ReasonCode:          ReasonManualMode,
		Message:             message,
		AllowManualFallback: true,
	}
}

func accepted(requestID string, d *decision.Decision, action engine.ActionType, amount int) Outcome {
	return Outcome{
		Status:    StatusAccepted,
		RequestID: requestID,
		Decision:  d,
		Action:    action,
		Amount:    amount,
	}
}
