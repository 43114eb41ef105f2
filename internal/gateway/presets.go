package gateway

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Mode is the operator-configured level of AI involvement.
type Mode string

const (
	// ModeManual disables the proposer entirely; the pipeline short-circuits
	// to a fallback outcome before any transport work.
	ModeManual Mode = "manual"
	// ModeSuggest permits advisory proposals only, capped at Tier1.
	ModeSuggest Mode = "suggest"
	// ModeAct permits the full tier range.
	ModeAct Mode = "act"
)

// maxTier returns the highest authority tier the mode permits.
func (m Mode) maxTier() Tier {
	if m == ModeSuggest {
		return Tier1
	}
	return Tier3
}

// Preset names a proposer configuration: which provider and model to call,
// under which authority tier and mode.
type Preset struct {
	Name     string `hcl:"name,label"`
	Provider string `hcl:"provider"`
	Model    string `hcl:"model"`
	Tier     string `hcl:"tier,optional"`
	Mode     string `hcl:"mode,optional"`
}

// RegistryConfig is the HCL file shape.
type RegistryConfig struct {
	Presets []Preset `hcl:"preset,block"`
}

// Registry is a read-only preset lookup table, loaded once at startup and
// never mutated afterwards.
type Registry struct {
	presets map[string]Preset
}

// DefaultRegistry returns the built-in presets used when no config file is
// present.
func DefaultRegistry() *Registry {
	r, err := NewRegistry([]Preset{
		{Name: "cautious", Provider: "openai", Model: "gpt-4o-mini", Tier: "tier1", Mode: "suggest"},
		{Name: "standard", Provider: "openai", Model: "gpt-4o", Tier: "tier2", Mode: "act"},
		{Name: "aggressive", Provider: "openai", Model: "gpt-4o", Tier: "tier3", Mode: "act"},
		{Name: "tableside", Provider: "openai", Model: "gpt-4o", Tier: "tier2", Mode: "manual"},
	})
	if err != nil {
		panic(err) // built-in presets are validated by tests
	}
	return r
}

// LoadRegistry reads presets from an HCL file, falling back to the defaults
// when the file does not exist.
func LoadRegistry(filename string) (*Registry, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultRegistry(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse preset file: %s", diags.Error())
	}

	var cfg RegistryConfig
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode preset file: %s", diags.Error())
	}

	return NewRegistry(cfg.Presets)
}

// NewRegistry builds and validates a registry from preset definitions.
func NewRegistry(presets []Preset) (*Registry, error) {
	byName := make(map[string]Preset, len(presets))
	for _, p := range presets {
		if p.Name == "" {
			return nil, fmt.Errorf("gateway: preset with empty name")
		}
		if _, dup := byName[p.Name]; dup {
			return nil, fmt.Errorf("gateway: duplicate preset %q", p.Name)
		}
		if p.Provider == "" || p.Model == "" {
			return nil, fmt.Errorf("gateway: preset %q needs provider and model", p.Name)
		}
		if p.Tier == "" {
			p.Tier = "tier1"
		}
		if _, err := ParseTier(p.Tier); err != nil {
			return nil, fmt.Errorf("gateway: preset %q: %w", p.Name, err)
		}
		switch Mode(p.Mode) {
		case ModeManual, ModeSuggest, ModeAct:
		case "":
			p.Mode = string(ModeSuggest)
		default:
			return nil, fmt.Errorf("gateway: preset %q: unknown mode %q", p.Name, p.Mode)
		}
		byName[p.Name] = p
	}
	return &Registry{presets: byName}, nil
}

// Resolve looks up a preset by name.
func (r *Registry) Resolve(name string) (Preset, bool) {
	p, ok := r.presets[name]
	return p, ok
}

// Names returns all preset names (unordered).
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	return names
}
