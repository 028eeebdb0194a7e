// Package catalog holds the static registry of known project fields: keyword
// lists, extraction patterns, normalization rules, and the per-phase
// requirement sets that gate workflow progression. Everything here is
// declarative data; the extractor and evaluator consume it without
// field-specific branches.
package catalog

import (
	"regexp"

	"github.com/rotisserie/eris"

	"github.com/kiso-design/intake-cli/internal/model"
)

// FieldSpec declares one known field: how to detect it in free text and how
// to normalize a raw captured value.
type FieldSpec struct {
	Key       string         `json:"key"`
	Label     string         `json:"label"`
	Category  model.Category `json:"category"`
	Keywords  []string       `json:"keywords"`
	Patterns  []string       `json:"patterns"`
	Normalize NormalizeKind  `json:"normalize,omitempty"`
	Question  string         `json:"question,omitempty"`

	compiled []*regexp.Regexp
}

// Match tries each pattern in declaration order against text and returns
// the first captured value. The whole match is used when the pattern has no
// capture group.
func (f *FieldSpec) Match(text string) (string, bool) {
	for _, re := range f.compiled {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && m[1] != "" {
			return m[1], true
		}
		return m[0], true
	}
	return "", false
}

// Catalog is the indexed field registry plus the phase definitions.
type Catalog struct {
	Fields []FieldSpec

	byKey    map[string]*FieldSpec
	phases   map[model.Phase]model.PhaseDefinition
	required map[string]bool
}

// New builds a Catalog from field specs and phase definitions. Patterns are
// compiled up front; a field key is required when any phase lists it in its
// required set. Thresholds outside (0,1] are a configuration bug.
func New(fields []FieldSpec, phases []model.PhaseDefinition) (*Catalog, error) {
	c := &Catalog{
		Fields:   fields,
		byKey:    make(map[string]*FieldSpec, len(fields)),
		phases:   make(map[model.Phase]model.PhaseDefinition, len(phases)),
		required: make(map[string]bool),
	}

	for i := range c.Fields {
		f := &c.Fields[i]
		if f.Key == "" {
			return nil, eris.New("catalog: field spec with empty key")
		}
		if _, dup := c.byKey[f.Key]; dup {
			return nil, eris.Errorf("catalog: duplicate field key %q", f.Key)
		}
		if f.Normalize == "" {
			f.Normalize = NormalizeTrim
		}
		if _, ok := normalizers[f.Normalize]; !ok {
			return nil, eris.Errorf("catalog: field %q: unknown normalizer %q", f.Key, f.Normalize)
		}
		f.compiled = f.compiled[:0]
		for _, p := range f.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, eris.Wrapf(err, "catalog: field %q: compile pattern", f.Key)
			}
			f.compiled = append(f.compiled, re)
		}
		c.byKey[f.Key] = f
	}

	for _, ph := range phases {
		if ph.CompletionThreshold <= 0 || ph.CompletionThreshold > 1 {
			return nil, eris.Errorf("catalog: phase %s: completion threshold %v outside (0,1]", ph.Phase, ph.CompletionThreshold)
		}
		c.phases[ph.Phase] = ph
		for _, key := range ph.RequiredFields {
			c.required[key] = true
		}
	}

	return c, nil
}

// ByKey returns the field spec for key, or nil.
func (c *Catalog) ByKey(key string) *FieldSpec {
	return c.byKey[key]
}

// Phase returns the definition for p.
func (c *Catalog) Phase(p model.Phase) (model.PhaseDefinition, bool) {
	def, ok := c.phases[p]
	return def, ok
}

// Required reports whether key gates progression in any phase.
func (c *Catalog) Required(key string) bool {
	return c.required[key]
}

// Label returns the display label for key, falling back to the key itself.
func (c *Catalog) Label(key string) string {
	if f := c.byKey[key]; f != nil && f.Label != "" {
		return f.Label
	}
	return key
}

// Question returns the follow-up question for key, or a generic prompt.
func (c *Catalog) Question(key string) string {
	if f := c.byKey[key]; f != nil && f.Question != "" {
		return f.Question
	}
	return c.Label(key) + "を入力してください。"
}

// Category returns the category for key, defaulting to other for unknown
// keys (e.g. ad hoc form or LLM fields).
func (c *Catalog) Category(key string) model.Category {
	if f := c.byKey[key]; f != nil {
		return f.Category
	}
	return model.CategoryOther
}

// Keys returns all known field keys in declaration order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.Fields))
	for i := range c.Fields {
		keys[i] = c.Fields[i].Key
	}
	return keys
}
