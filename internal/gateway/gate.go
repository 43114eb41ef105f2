package gateway

import (
	"fmt"

	"github.com/cardroomlabs/holdem-advisor/internal/decision"
	"github.com/cardroomlabs/holdem-advisor/internal/engine"
)

// Tier is a policy-assigned ceiling on which action types an externally
// proposed decision may contain, independent of game legality. Tier1 is the
// most restricted.
type Tier int

const (
	Tier1 Tier = iota + 1
	Tier2
	Tier3
)

// ParseTier parses "tier1".."tier3".
func ParseTier(s string) (Tier, error) {
	switch s {
	case "tier1":
		return Tier1, nil
	case "tier2":
		return Tier2, nil
	case "tier3":
		return Tier3, nil
	default:
		return 0, fmt.Errorf("gateway: unknown authority tier %q", s)
	}
}

func (t Tier) String() string {
	return fmt.Sprintf("tier%d", int(t))
}

// allowsRaise reports whether the tier may propose RAISE. Tier2 and Tier3
// share an identical permitted-action set; the distinction between them is
// presentational only. This is an audited decision, not an oversight.
func (t Tier) allowsRaise() bool {
	return t >= Tier2
}

// rejection is an internal gate failure with its reason code.
type rejection struct {
	code    ReasonCode
	message string
}

// authorize runs the two-stage authority/capability gate: first the tier's
// permitted-action check, then legality against the engine's current legal
// actions. The collapsed CALL/RAISE intents are mapped back onto the
// engine's concrete CHECK/CALL and BET/RAISE vocabulary here.
func authorize(action decision.ProposedAction, tier Tier, legal []engine.LegalAction) (engine.ActionType, int, *rejection) {
	if action.Type == decision.Raise && !tier.allowsRaise() {
		return "", 0, &rejection{
			code:    ReasonCapabilityLimit,
			message: fmt.Sprintf("%s may not propose RAISE", tier),
		}
	}

	byType := make(map[engine.ActionType]engine.LegalAction, len(legal))
	for _, la := range legal {
		byType[la.Type] = la
	}

	switch action.Type {
	case decision.Fold:
		if _, ok := byType[engine.ActionFold]; !ok {
			return "", 0, &rejection{code: ReasonIllegalAction, message: "FOLD is not currently legal"}
		}
		return engine.ActionFold, 0, nil

	case decision.Call:
		if _, ok := byType[engine.ActionCheck]; ok {
			return engine.ActionCheck, 0, nil
		}
		if _, ok := byType[engine.ActionCall]; ok {
			return engine.ActionCall, 0, nil
		}
		return "", 0, &rejection{code: ReasonIllegalAction, message: "neither CHECK nor CALL is currently legal"}

	case decision.Raise:
		la, ok := byType[engine.ActionBet]
		if !ok {
			la, ok = byType[engine.ActionRaise]
		}
		if !ok {
			return "", 0, &rejection{code: ReasonIllegalAction, message: "neither BET nor RAISE is currently legal"}
		}
		if action.Amount == nil {
			return "", 0, &rejection{code: ReasonIllegalAction, message: "RAISE proposal has no amount"}
		}
		if *action.Amount < la.MinAmount || *action.Amount > la.MaxAmount {
			return "", 0, &rejection{
				code: ReasonIllegalAction,
				message: fmt.Sprintf("amount %d outside legal range [%d, %d]",
					*action.Amount, la.MinAmount, la.MaxAmount),
			}
		}
		return la.Type, *action.Amount, nil

	default:
		return "", 0, &rejection{code: ReasonIllegalAction, message: fmt.Sprintf("unknown intent %q", action.Type)}
	}
}
