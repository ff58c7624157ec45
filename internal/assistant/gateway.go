package assistant

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/valet-org/valet/internal/logger"
	"github.com/valet-org/valet/internal/ollama"
)

// Fixed user-facing strings. The exact wording is part of the external
// contract and must not drift.
const (
	// NotConfiguredMessage is returned when the inference link is down or
	// no model is active.
	NotConfiguredMessage = "❌ Ollama not configured or no model active."
	// NoOutputMessage is returned when a completion succeeds but carries
	// no text.
	NoOutputMessage = "No output."
	// LoggedMessage acknowledges a recorded memory note.
	LoggedMessage = "🧠 Logged."
)

// TriggerPhrase marks a message as a memory note. Matching is
// case-insensitive on the whole message; the note keeps its original casing.
const TriggerPhrase = "remember this:"

// systemPrompt is the fixed instruction preamble injected into every
// completion request.
const systemPrompt = "You are VALET, an advanced AI assistant. " +
	"You are sharp, witty, professional with dry humor, " +
	"and remember everything unless told to forget."

// Inference is the completion service consulted by the gateway.
type Inference interface {
	ListModels(ctx context.Context) ([]string, error)
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// MemoryStore is the persisted note log injected into every prompt.
type MemoryStore interface {
	Append(ctx context.Context, note string) error
	Clear(ctx context.Context) error
	Dump() string
	Count() int
}

// ProbeFunc reports whether the inference runtime is installed and reachable.
type ProbeFunc func(ctx context.Context) bool

// Gateway owns the process-wide assistant state: the inference readiness
// flag, the transient model registry with its active selection, the
// user-preferred model, and the memory log. It handles one message
// start-to-finish with blocking calls; the mutex only guards the state
// against concurrent status probes.
type Gateway struct {
	inference Inference
	memory    MemoryStore
	probe     ProbeFunc

	mu        sync.Mutex
	ready     bool
	models    []string
	active    string
	preferred string
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithProbe overrides the runtime availability probe. Used in tests.
func WithProbe(probe ProbeFunc) Option {
	return func(g *Gateway) {
		g.probe = probe
	}
}

// New creates a Gateway over the given inference client and memory store.
func New(inference Inference, memory MemoryStore, opts ...Option) *Gateway {
	g := &Gateway{
		inference: inference,
		memory:    memory,
		probe:     ollama.Installed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CheckAvailability probes the inference runtime and updates the readiness
// flag. A failed probe means unavailable, never an error.
func (g *Gateway) CheckAvailability(ctx context.Context) bool {
	ready := g.probe(ctx)

	g.mu.Lock()
	g.ready = ready
	g.mu.Unlock()

	return ready
}

// RefreshModels queries the inference service for available models. On
// success the registry is replaced and, when non-empty, the active model is
// set to the first entry. On failure prior state is left untouched.
func (g *Gateway) RefreshModels(ctx context.Context) error {
	names, err := g.inference.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	g.mu.Lock()
	g.models = names
	if len(names) > 0 {
		g.active = names[0]
	}
	g.mu.Unlock()

	logger.Debug(ctx, "Model registry refreshed", "count", len(names))
	return nil
}

// Ready reports the readiness flag from the last availability check.
func (g *Gateway) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ready
}

// Models returns a copy of the current model registry.
func (g *Gateway) Models() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.models)
}

// ActiveModel returns the default model selection, or an empty string when
// the registry has never been refreshed with a non-empty list.
func (g *Gateway) ActiveModel() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.active
}

// SetPreferredModel records a user-chosen model override and reports
// whether the name is present in the current registry. An absent name is
// still recorded; per-generation resolution falls back to the active model
// until a refresh makes the name available.
func (g *Gateway) SetPreferredModel(name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.preferred = name
	return slices.Contains(g.models, name)
}

// ModelInUse resolves the model a generation request would use right now:
// the preferred model when it is present in the registry, else the active
// model.
func (g *Gateway) ModelInUse() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.resolveModelLocked()
}

func (g *Gateway) resolveModelLocked() string {
	if g.preferred != "" && slices.Contains(g.models, g.preferred) {
		return g.preferred
	}
	return g.active
}

// RecordNote appends a timestamped note to the memory log.
func (g *Gateway) RecordNote(ctx context.Context, note string) error {
	return g.memory.Append(ctx, note)
}

// ClearMemory wipes the memory log.
func (g *Gateway) ClearMemory(ctx context.Context) error {
	return g.memory.Clear(ctx)
}

// Memories returns the full memory log, or the empty-state marker.
func (g *Gateway) Memories() string {
	return g.memory.Dump()
}

// MemoryCount returns the number of recorded notes.
func (g *Gateway) MemoryCount() int {
	return g.memory.Count()
}

// Respond builds the prompt context around the user message and issues one
// blocking completion request. Every failure mode maps to a short
// human-readable string; nothing propagates as an error.
func (g *Gateway) Respond(ctx context.Context, message string) string {
	g.mu.Lock()
	ready := g.ready
	model := g.resolveModelLocked()
	g.mu.Unlock()

	if !ready || model == "" {
		return NotConfiguredMessage
	}

	out, err := g.inference.Generate(ctx, model, g.buildPrompt(message))
	if err != nil {
		logger.Error(ctx, "Generation failed", "model", model, "err", err)
		if apiErr, ok := ollama.AsAPIError(err); ok {
			return fmt.Sprintf("❌ API error %d", apiErr.StatusCode)
		}
		return fmt.Sprintf("❌ Failed to connect: %v", err)
	}
	if out == "" {
		return NoOutputMessage
	}
	return out
}

// Dispatch routes one inbound message. A message carrying the trigger
// phrase records the trailing text as a note and acknowledges it; an empty
// note or a failed record falls through to generation with the original
// message. Everything else is forwarded to Respond verbatim.
func (g *Gateway) Dispatch(ctx context.Context, message string) string {
	if idx := strings.Index(strings.ToLower(message), TriggerPhrase); idx >= 0 {
		note := strings.TrimSpace(message[idx+len(TriggerPhrase):])
		if note != "" {
			err := g.RecordNote(ctx, note)
			if err == nil {
				return LoggedMessage
			}
			logger.Error(ctx, "Could not record memory note", "err", err)
		}
	}
	return g.Respond(ctx, message)
}

// buildPrompt assembles the ephemeral prompt context: the instruction
// preamble, the full memory log, and the user message. Recomputed per call,
// never stored.
func (g *Gateway) buildPrompt(message string) string {
	return fmt.Sprintf("%s\n\nMEMORY:\n%s\n\nUSER: %s", systemPrompt, g.memory.Dump(), message)
}
