package qtype

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
)

// Provider bundles the schema, validation and scoring logic for one question
// type. Payloads cross the boundary as json.RawMessage; each provider decodes
// into its own typed struct, so callers never need the concrete type.
type Provider interface {
	Type() string
	// Validate checks a full question payload. Expected failures land in the
	// result's Errors/Warnings; it never panics on bad input.
	Validate(raw json.RawMessage) ValidationResult
	// Score grades a submission against the payload's answer key. The
	// submission shape is type-specific: option ids ([]string) for multiple
	// choice, free text (string) for short answer.
	Score(raw json.RawMessage, submission any) (float64, error)
	// AnswerConstraints pre-screens a submission against authored bounds
	// before scoring. Types without constraints return nil.
	AnswerConstraints(raw json.RawMessage, submission any) []string
	// Display returns a fresh copy of the payload fit for showing to a
	// learner (answer key and explanations stripped) or to an author
	// (unredacted). The input is never mutated.
	Display(raw json.RawMessage, forStudent bool) (json.RawMessage, error)

	Schema() map[string]any
	DefaultSettings() map[string]any
	ValidationRules() map[string]any
	Metadata() TypeMetadata
	Templates() []Template
}

// Registry maps a question-type tag to its provider. It is populated once at
// startup and read-only afterwards, so sharing one instance across concurrent
// requests needs no locking.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: map[string]Provider{}}
}

// Register installs a provider. Adding a new question type is just another
// Register call; no dispatch site changes.
func (r *Registry) Register(p Provider) error {
	t := p.Type()
	if t == "" {
		return fmt.Errorf("provider has empty type tag")
	}
	if _, dup := r.providers[t]; dup {
		return fmt.Errorf("provider already registered for type %q", t)
	}
	r.providers[t] = p
	return nil
}

func (r *Registry) Provider(typ string) (Provider, bool) {
	p, ok := r.providers[typ]
	return p, ok
}

// Types lists registered type tags, sorted for stable output.
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.providers))
	for t := range r.providers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ValidateQuestion reads the type discriminant from the payload and
// dispatches. Unknown types come back as a normal invalid result, so dispatch
// is total.
func (r *Registry) ValidateQuestion(raw json.RawMessage) ValidationResult {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return validationResult([]string{"invalid question payload: " + err.Error()}, nil)
	}
	p, ok := r.providers[envelope.Type]
	if !ok {
		return validationResult([]string{fmt.Sprintf("Unsupported question type: %s", envelope.Type)}, nil)
	}
	return p.Validate(raw)
}

// Score dispatches to the provider for typ. Unknown types score 0.
func (r *Registry) Score(typ string, submission any, raw json.RawMessage) (float64, error) {
	p, ok := r.providers[typ]
	if !ok {
		return 0, nil
	}
	return p.Score(raw, submission)
}

// ProcessForDisplay returns a learner- or author-facing copy of the payload.
func (r *Registry) ProcessForDisplay(typ string, raw json.RawMessage, forStudent bool) (json.RawMessage, error) {
	p, ok := r.providers[typ]
	if !ok {
		return nil, fmt.Errorf("unsupported question type: %s", typ)
	}
	return p.Display(raw, forStudent)
}

// AnswerConstraints delegates to the type-specific pre-screen. Unknown types
// have no constraints.
func (r *Registry) AnswerConstraints(typ string, submission any, raw json.RawMessage) []string {
	p, ok := r.providers[typ]
	if !ok {
		return nil
	}
	return p.AnswerConstraints(raw, submission)
}

func (r *Registry) Schema(typ string) (map[string]any, bool) {
	p, ok := r.providers[typ]
	if !ok {
		return nil, false
	}
	return p.Schema(), true
}

func (r *Registry) DefaultSettings(typ string) (map[string]any, bool) {
	p, ok := r.providers[typ]
	if !ok {
		return nil, false
	}
	return p.DefaultSettings(), true
}

func (r *Registry) ValidationRules(typ string) (map[string]any, bool) {
	p, ok := r.providers[typ]
	if !ok {
		return nil, false
	}
	return p.ValidationRules(), true
}

func (r *Registry) Metadata(typ string) (TypeMetadata, bool) {
	p, ok := r.providers[typ]
	if !ok {
		return TypeMetadata{}, false
	}
	return p.Metadata(), true
}

func (r *Registry) Templates(typ string) ([]Template, bool) {
	p, ok := r.providers[typ]
	if !ok {
		return nil, false
	}
	return p.Templates(), true
}

// Registry options

type registryConfig struct {
	shuffle func(n int, swap func(i, j int))
}

type RegistryOption func(*registryConfig)

// WithShuffle overrides the shuffle used for randomized option order, e.g.
// rand.New(rand.NewSource(seed)).Shuffle for deterministic display in tests.
func WithShuffle(fn func(n int, swap func(i, j int))) RegistryOption {
	return func(c *registryConfig) { c.shuffle = fn }
}

// NewDefaultRegistry installs the built-in providers.
func NewDefaultRegistry(opts ...RegistryOption) *Registry {
	cfg := &registryConfig{shuffle: rand.Shuffle}
	for _, o := range opts {
		o(cfg)
	}
	r := NewRegistry()
	// Register cannot fail for the built-ins: tags are distinct and non-empty.
	_ = r.Register(&multipleChoiceProvider{shuffle: cfg.shuffle})
	_ = r.Register(&shortAnswerProvider{})
	return r
}

// submission helpers

func toStringSlice(v any) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

func toSet(arr []string) map[string]struct{} {
	m := make(map[string]struct{}, len(arr))
	for _, s := range arr {
		m[s] = struct{}{}
	}
	return m
}

func setEqual(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
