package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/cardroomlabs/holdem-advisor/internal/engine"
)

// Observation is the state the proposer is shown. It speaks the collapsed
// FOLD/CALL/RAISE vocabulary exclusively: the un-collapsing back to the
// engine's CHECK/BET happens in the authority gate, never here.
type Observation struct {
	HandID     int            `json:"hand_id"`
	Seat       int            `json:"seat"`
	Street     string         `json:"street"`
	HoleCards  []string       `json:"hole_cards"`
	Board      []string       `json:"board"`
	Stacks     map[string]int `json:"stacks"`
	Pot        int            `json:"pot"`
	ToCall     int            `json:"to_call"`
	MinRaiseTo int            `json:"min_raise_to,omitempty"`
	MaxRaiseTo int            `json:"max_raise_to,omitempty"`
	Legal      []string       `json:"legal_actions"`
}

// LegalIntent is one entry of the collapsed action vocabulary with raise
// bounds when applicable.
type LegalIntent struct {
	Intent    string
	MinAmount int
	MaxAmount int
}

// CollapseLegal maps the engine's concrete legal actions onto the fixed
// external vocabulary: CHECK becomes CALL, BET becomes RAISE. The mapping
// is part of the frozen external contract and must stay bit-for-bit stable.
func CollapseLegal(legal []engine.LegalAction) []LegalIntent {
	var out []LegalIntent
	for _, la := range legal {
		switch la.Type {
		case engine.ActionFold:
			out = append(out, LegalIntent{Intent: "FOLD"})
		case engine.ActionCheck, engine.ActionCall:
			out = append(out, LegalIntent{Intent: "CALL"})
		case engine.ActionBet, engine.ActionRaise:
			out = append(out, LegalIntent{Intent: "RAISE", MinAmount: la.MinAmount, MaxAmount: la.MaxAmount})
		}
	}
	return out
}

const systemPrompt = `You are a no-limit hold'em decision advisor. Reply with a single JSON object:
{"action":{"type":"FOLD|CALL|RAISE","amount":<raise-to, RAISE only>},
 "reason":{"drivers":[{"key":"...","weight":0.0}],"plan":"value|bluff|control","line":"..."},
 "confidence":0.0}
Driver weights should sum to 1. Use only the legal actions given. Output nothing but the JSON object.`

// buildPrompt renders the observation into the fixed, provider-agnostic
// prompt payload.
func buildPrompt(obs Observation, legal []engine.LegalAction) (system, user string, err error) {
	intents := CollapseLegal(legal)
	obs.Legal = obs.Legal[:0]
	for _, in := range intents {
		obs.Legal = append(obs.Legal, in.Intent)
		if in.Intent == "RAISE" {
			obs.MinRaiseTo = in.MinAmount
			obs.MaxRaiseTo = in.MaxAmount
		}
	}

	encoded, err := json.Marshal(obs)
	if err != nil {
		return "", "", fmt.Errorf("gateway: encode observation: %w", err)
	}
	return systemPrompt, string(encoded), nil
}
