package domain

import "context"

// Schema is a structured-output constraint passed to the inference service.
// Types use the service's uppercase JSON-schema names (OBJECT, STRING, ...).
type Schema struct {
	Type       string             `json:"type"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// GenerateOptions configures a single inference call
type GenerateOptions struct {
	// ResponseSchema, when set, constrains output to JSON of this shape
	ResponseSchema *Schema

	// EnableSearch turns on the live web-search tool; responses then may
	// carry citations
	EnableSearch bool

	// ThinkingBudget is the reasoning-effort budget in tokens (0 = default)
	ThinkingBudget int
}

// TokenUsage holds the token counters reported by the inference service.
// Counters missing from the response are zero.
type TokenUsage struct {
	PromptTokens     int
	CandidatesTokens int
}

// GenerateResult is the raw outcome of one inference call
type GenerateResult struct {
	Text      string
	Usage     TokenUsage
	Citations []Citation
}

// GenAI defines the interface to the remote inference capability
type GenAI interface {
	Generate(ctx context.Context, model, prompt string, opts GenerateOptions) (*GenerateResult, error)
}

// Cache defines the interface for the per-agent result stores. Entries are
// immutable once written and live for the process; there is no eviction.
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}) error
	Exists(ctx context.Context, key string) (bool, error)
}
