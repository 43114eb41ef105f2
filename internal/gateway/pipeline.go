// Package gateway is the sole checkpoint between an untrusted action
// proposer and the game. It resolves presets, gates authority and legality,
// and turns every failure into a structured outcome the caller can act on.
// The gateway never mutates the engine: it only reasons about the legal
// actions the caller obtained from it.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/cardroomlabs/holdem-advisor/internal/decision"
	"github.com/cardroomlabs/holdem-advisor/internal/engine"
	"github.com/cardroomlabs/holdem-advisor/internal/transport"
)

// DefaultTimeout bounds the single transport call when the request does not
// specify a budget.
const DefaultTimeout = 30 * time.Second

// Credential is a provider API credential supplied by the caller. The
// gateway never stores it.
type Credential struct {
	Provider string
	Key      string
}

// Request carries everything one pipeline invocation needs. Invocations are
// independent and stateless; nothing is cached between calls.
type Request struct {
	Preset       string
	Credential   Credential
	LegalActions []engine.LegalAction
	Observation  Observation
	Timeout      time.Duration
}

// Pipeline runs proposals through the fixed gate sequence. It holds only
// immutable collaborators and is safe for concurrent use.
type Pipeline struct {
	registry  *Registry
	transport transport.Client
	logger    *log.Logger
}

// New creates a pipeline over a preset registry and a transport.
func New(registry *Registry, client transport.Client, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{registry: registry, transport: client, logger: logger}
}

// Propose runs one proposal end to end and returns exactly one of
// ACCEPTED, REJECTED or FALLBACK. It never retries, never switches
// transport targets, and never invents or substitutes an action; transport
// faults are absorbed here and never escape as errors.
func (p *Pipeline) Propose(ctx context.Context, req Request) Outcome {
	requestID := uuid.NewString()
	logger := p.logger.With("request", requestID, "preset", req.Preset)

	// 1. Preset resolution.
	preset, ok := p.registry.Resolve(req.Preset)
	if !ok {
		return p.reject(logger, requestID, ReasonInvalidAIConfig,
			fmt.Sprintf("unknown preset %q", req.Preset))
	}
	tier, err := ParseTier(preset.Tier)
	if err != nil {
		return p.reject(logger, requestID, ReasonInvalidAIConfig, err.Error())
	}

	// 2. Manual mode short-circuits before any transport work.
	if Mode(preset.Mode) == ModeManual {
		logger.Debug("manual mode, falling back")
		return fallback(requestID, "preset is manual-only; no proposal requested")
	}

	// 3. The authority tier must not exceed what the mode permits.
	if tier > Mode(preset.Mode).maxTier() {
		return p.reject(logger, requestID, ReasonInvalidAIConfig,
			fmt.Sprintf("%s exceeds what mode %q permits", tier, preset.Mode))
	}

	// 4. Credential resolution.
	if req.Credential.Key == "" {
		return p.reject(logger, requestID, ReasonMissingCredential, "no API credential supplied")
	}
	if req.Credential.Provider != preset.Provider {
		return p.reject(logger, requestID, ReasonMissingCredential,
			fmt.Sprintf("credential is for provider %q, preset wants %q", req.Credential.Provider, preset.Provider))
	}

	// 5. Fixed-structure prompt payload.
	system, user, err := buildPrompt(req.Observation, req.LegalActions)
	if err != nil {
		return p.reject(logger, requestID, ReasonProviderError, err.Error())
	}

	// 6. Single transport invocation under the timeout budget. A timeout is
	// just another transport fault.
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := p.transport.Complete(callCtx, req.Credential.Key, transport.Request{
		Model:  preset.Model,
		System: system,
		User:   user,
	})
	if err != nil {
		var statusErr *transport.StatusError
		if errors.As(err, &statusErr) && statusErr.AuthClass() {
			return p.reject(logger, requestID, ReasonMissingCredential, err.Error())
		}
		return p.reject(logger, requestID, ReasonProviderError, err.Error())
	}

	// 7. Strict single-object parse; no repair heuristics.
	obj, err := decision.ParseObject([]byte(raw))
	if err != nil {
		return p.reject(logger, requestID, ReasonInvalidJSON, err.Error())
	}

	// 8. Schema validation into the canonical Decision.
	d, err := decision.Validate(obj)
	if err != nil {
		return p.reject(logger, requestID, ReasonSchemaMismatch, err.Error())
	}

	// Sanity findings are advisory in the live pipeline.
	for _, problem := range decision.SanityProblems(d) {
		logger.Warn("decision sanity", "problem", problem)
	}

	// 9. Authority then legality.
	action, amount, rej := authorize(d.Action, tier, req.LegalActions)
	if rej != nil {
		return p.reject(logger, requestID, rej.code, rej.message)
	}

	// 10. Accepted. Applying it remains the caller's explicit call.
	logger.Debug("proposal accepted", "action", action, "amount", amount)
	return accepted(requestID, d, action, amount)
}

func (p *Pipeline) reject(logger *log.Logger, requestID string, code ReasonCode, message string) Outcome {
	logger.Warn("proposal rejected", "reason", code, "detail", message)
	return rejected(requestID, code, message)
}
