// Package extract turns raw interaction text into candidate field values
// using the catalog's keyword lists and regular expressions.
package extract

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/width"

	"github.com/kiso-design/intake-cli/internal/catalog"
	"github.com/kiso-design/intake-cli/internal/model"
)

// patternBonus is added to the keyword score when a regex supplied a value.
const patternBonus = 0.3

// Extractor is the pattern-based field extractor. It is a pure function of
// its input text and the static catalog; no state is kept between calls.
type Extractor struct {
	catalog *catalog.Catalog
}

// New creates an Extractor over the given catalog.
func New(c *catalog.Catalog) *Extractor {
	return &Extractor{catalog: c}
}

// Extract scans text and returns one candidate per detected field.
//
// Detection works per catalog field: keywords are counted as substrings of
// the folded, lowercased text; patterns run in declaration order against
// the folded text and the first match supplies the raw value, which is then
// normalized. Confidence is min(1, matched/total + 0.3) with a value,
// matched/total without.
//
// A field with keyword evidence but no pattern value is surfaced with
// status missing and an empty value — the topic was mentioned but nothing
// usable was captured. Fields with no evidence at all are omitted; callers
// merge against the phase definition to determine what is truly missing.
func (e *Extractor) Extract(text string) []model.ExtractedField {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	// Fold width variants so full-width digits and colons (０-９, ：) match
	// the half-width pattern table, then lowercase for keyword search.
	folded := width.Fold.String(text)
	lowered := strings.ToLower(folded)

	var out []model.ExtractedField
	for i := range e.catalog.Fields {
		spec := &e.catalog.Fields[i]

		matched := 0
		for _, kw := range spec.Keywords {
			if strings.Contains(lowered, strings.ToLower(kw)) {
				matched++
			}
		}

		raw, hasValue := spec.Match(folded)
		value := ""
		if hasValue {
			value = spec.Apply(raw)
			if value == "" {
				hasValue = false
			}
		}

		if matched == 0 && !hasValue {
			continue
		}

		confidence := 0.0
		if len(spec.Keywords) > 0 {
			confidence = float64(matched) / float64(len(spec.Keywords))
		}
		status := model.StatusMissing
		if hasValue {
			confidence += patternBonus
			if confidence > 1.0 {
				confidence = 1.0
			}
			status = model.StatusExtracted
		}

		out = append(out, model.ExtractedField{
			Key:        spec.Key,
			Label:      spec.Label,
			Category:   spec.Category,
			Value:      value,
			Confidence: confidence,
			Source:     model.SourcePattern,
			Status:     status,
			Required:   e.catalog.Required(spec.Key),
		})
	}

	if len(out) > 0 {
		zap.L().Debug("extract: pattern pass complete",
			zap.Int("candidates", len(out)),
			zap.Int("text_len", len(text)),
		)
	}
	return out
}
