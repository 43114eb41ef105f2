package decision

import (
	"bytes"
	"embed"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas
var schemaFiles embed.FS

const schemaURL = "https://cardroomlabs.com/schemas/decision.json"

// StrictValidator applies the full-strictness contract: structural JSON
// Schema validation, then the canonical parse, then every sanity rule as a
// hard failure. It is a standalone utility for tests and offline checking;
// the live pipeline deliberately uses only ParseObject/Validate and treats
// sanity findings as warnings.
type StrictValidator struct {
	schema *jsonschema.Schema
}

// NewStrictValidator compiles the embedded decision schema.
func NewStrictValidator() (*StrictValidator, error) {
	data, err := schemaFiles.ReadFile("schemas/decision.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read decision schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add decision schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile decision schema: %w", err)
	}

	return &StrictValidator{schema: schema}, nil
}

// Validate runs the strict pipeline over raw proposal bytes.
func (v *StrictValidator) Validate(raw []byte) (*Decision, error) {
	obj, err := ParseObject(raw)
	if err != nil {
		return nil, err
	}

	// The schema library wants plain decoded values, which ParseObject
	// already produced (json.Number satisfies its number checks).
	if err := v.schema.Validate(anyify(obj)); err != nil {
		return nil, &SchemaError{Detail: err.Error()}
	}

	d, err := Validate(obj)
	if err != nil {
		return nil, err
	}

	if problems := SanityProblems(d); len(problems) > 0 {
		return nil, &SchemaError{Detail: "sanity: " + strings.Join(problems, "; ")}
	}
	return d, nil
}

// anyify converts json.Number values back to float64 for the schema
// library, which only understands the default encoding/json value types.
func anyify(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = anyify(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = anyify(val)
		}
		return out
	default:
		if n, ok := v.(interface{ Float64() (float64, error) }); ok {
			if f, err := n.Float64(); err == nil {
				return f
			}
		}
		return v
	}
}
