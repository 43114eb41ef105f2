package decision

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// ParseObject parses raw transport output strictly as a single JSON object.
// Concatenated top-level values and non-object top-level values are
// rejected. There are no repair heuristics.
func ParseObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decision: invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("decision: multiple top-level JSON values")
	}
	// Decode stops at the end of the first value; anything but trailing
	// whitespace after it is a second value in disguise.
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decision: trailing data after JSON object")
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New("decision: top-level JSON value is not an object")
	}
	return obj, nil
}

// Validate turns a parsed proposal object into a canonical Decision. The
// steps run in a fixed order with no leniency beyond the normalizations
// stated here; any failure is a *SchemaError.
func Validate(obj map[string]any) (*Decision, error) {
	action, err := validateAction(obj["action"])
	if err != nil {
		return nil, err
	}

	reason, err := validateReason(obj["reason"])
	if err != nil {
		return nil, err
	}

	confidence, err := validateConfidence(obj["confidence"])
	if err != nil {
		return nil, err
	}

	return &Decision{Action: action, Reason: reason, Confidence: confidence}, nil
}

func validateAction(raw any) (ProposedAction, error) {
	// A bare action-type string is shorthand for {"type": ...}. Only the
	// canonical types are normalized; anything else falls through to the
	// type check below and is rejected there.
	obj, ok := raw.(map[string]any)
	if !ok {
		if s, isString := raw.(string); isString {
			obj = map[string]any{"type": s}
		} else {
			return ProposedAction{}, schemaErr("action must be an object or action-type string")
		}
	}

	typ, _ := obj["type"].(string)
	switch ActionType(typ) {
	case Fold, Call, Raise:
	default:
		return ProposedAction{}, schemaErr("action.type %q is not one of FOLD, CALL, RAISE", typ)
	}
	action := ProposedAction{Type: ActionType(typ)}

	if action.Type == Raise {
		f, err := finiteNumber(obj["amount"])
		if err != nil {
			return ProposedAction{}, schemaErr("action.amount for RAISE: %v", err)
		}
		// Chip amounts are integral; truncating would validate a different
		// amount than the one proposed.
		amount := int(f)
		if float64(amount) != f {
			return ProposedAction{}, schemaErr("action.amount %v is not a whole number of chips", f)
		}
		action.Amount = &amount
	}
	return action, nil
}

func validateReason(raw any) (Reason, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Reason{}, schemaErr("reason must be an object")
	}

	rawDrivers, ok := obj["drivers"].([]any)
	if !ok || len(rawDrivers) == 0 {
		return Reason{}, schemaErr("reason.drivers must be a non-empty array")
	}
	drivers := make([]Driver, 0, len(rawDrivers))
	for i, rd := range rawDrivers {
		d, ok := rd.(map[string]any)
		if !ok {
			return Reason{}, schemaErr("reason.drivers[%d] must be an object", i)
		}
		key, _ := d["key"].(string)
		if key == "" {
			return Reason{}, schemaErr("reason.drivers[%d].key must be a non-empty string", i)
		}
		weight, err := finiteNumber(d["weight"])
		if err != nil {
			return Reason{}, schemaErr("reason.drivers[%d].weight: %v", i, err)
		}
		drivers = append(drivers, Driver{Key: key, Weight: weight})
	}

	// Plan defaults rather than rejects when absent or outside the enum.
	plan := DefaultPlan
	if s, ok := obj["plan"].(string); ok {
		switch Plan(s) {
		case PlanValue, PlanBluff, PlanControl:
			plan = Plan(s)
		}
	}

	line, _ := obj["line"].(string)

	var assumptions []string
	if rawAssumptions, ok := obj["assumptions"].([]any); ok {
		for _, a := range rawAssumptions {
			if s, ok := a.(string); ok {
				assumptions = append(assumptions, s)
			}
		}
	}

	return Reason{Drivers: drivers, Plan: plan, Assumptions: assumptions, Line: line}, nil
}

func validateConfidence(raw any) (float64, error) {
	if raw == nil {
		return DefaultConfidence, nil
	}
	f, err := finiteNumber(raw)
	if err != nil {
		return 0, schemaErr("confidence: %v", err)
	}
	return f, nil
}

func finiteNumber(raw any) (float64, error) {
	n, ok := raw.(json.Number)
	if !ok {
		return 0, errors.New("required finite number is missing or not a number")
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("value %q is not finite", n.String())
	}
	return f, nil
}
