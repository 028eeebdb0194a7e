package model

// Category groups fields for UI routing and form generation. It has no
// effect on merge precedence.
type Category string

const (
	CategorySite       Category = "site"
	CategoryBuilding   Category = "building"
	CategoryRegulation Category = "regulation"
	CategoryTank       Category = "tank"
	CategoryProgram    Category = "program"
	CategoryOther      Category = "other"
)

// Source records the provenance of an extracted value.
type Source string

const (
	SourcePattern Source = "pattern"
	SourceLLM     Source = "llm"
	SourceForm    Source = "form"
)

// Status is the lifecycle state of a field within the canonical set.
type Status string

const (
	StatusMissing   Status = "missing"
	StatusExtracted Status = "extracted"
	StatusConfirmed Status = "confirmed"
	StatusEdited    Status = "edited"
)

// ExtractedField is one fact about a project. The canonical set holds at
// most one ExtractedField per Key; StatusMissing implies Value == "".
type ExtractedField struct {
	Key        string   `json:"key"`
	Label      string   `json:"label"`
	Category   Category `json:"category"`
	Value      string   `json:"value,omitempty"`
	Confidence float64  `json:"confidence"`
	Source     Source   `json:"source"`
	Status     Status   `json:"status"`
	Required   bool     `json:"required"`
}

// HasValue reports whether the field carries a usable extracted or
// confirmed value.
func (f ExtractedField) HasValue() bool {
	return f.Value != "" && (f.Status == StatusExtracted || f.Status == StatusConfirmed || f.Status == StatusEdited)
}

// Locked reports whether the field may not be overwritten by a
// re-extraction. User-confirmed and form-entered data is never silently
// replaced by lower-trust sources.
func (f ExtractedField) Locked() bool {
	return f.Status == StatusConfirmed || f.Source == SourceForm
}

// FieldSet is the canonical merged collection of fields for a session,
// keyed by field key.
type FieldSet map[string]ExtractedField

// Clone returns a shallow copy of the set.
func (s FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// List returns the fields as a slice. Order is unspecified; callers that
// need determinism sort by key.
func (s FieldSet) List() []ExtractedField {
	out := make([]ExtractedField, 0, len(s))
	for _, f := range s {
		out = append(out, f)
	}
	return out
}
