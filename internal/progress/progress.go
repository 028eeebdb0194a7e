// Package progress evaluates how complete a workflow phase is given the
// canonical field set.
package progress

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/kiso-design/intake-cli/internal/catalog"
	"github.com/kiso-design/intake-cli/internal/model"
)

// ErrUnknownPhase indicates evaluation was requested for a phase with no
// definition. This is a configuration bug, never user input.
var ErrUnknownPhase = eris.New("progress: unknown phase")

// suggestionLimit caps how many field labels one suggestion names.
const suggestionLimit = 3

// Evaluator computes ProgressStatus from phase definitions in the catalog.
// It is deterministic and keeps no state.
type Evaluator struct {
	catalog *catalog.Catalog
}

// New creates an Evaluator over the given catalog.
func New(c *catalog.Catalog) *Evaluator {
	return &Evaluator{catalog: c}
}

// Evaluate computes the completion state of phase for the given field set.
// A field counts as completed when it is extracted or confirmed with a
// non-empty value and belongs to the phase's required or optional sets.
// Progress is the rounded percentage of required fields completed; an empty
// required set means 100.
func (e *Evaluator) Evaluate(phase model.Phase, fields model.FieldSet) (model.ProgressStatus, error) {
	def, ok := e.catalog.Phase(phase)
	if !ok {
		return model.ProgressStatus{}, eris.Wrapf(ErrUnknownPhase, "phase %q", phase)
	}

	inScope := make(map[string]bool, len(def.RequiredFields)+len(def.OptionalFields))
	for _, k := range def.RequiredFields {
		inScope[k] = true
	}
	for _, k := range def.OptionalFields {
		inScope[k] = true
	}

	completed := make(map[string]bool)
	var completedList []string
	// Iterate in definition order for deterministic output.
	for _, k := range append(append([]string{}, def.RequiredFields...), def.OptionalFields...) {
		if f, ok := fields[k]; ok && f.HasValue() && inScope[k] {
			completed[k] = true
			completedList = append(completedList, k)
		}
	}

	var missing []string
	requiredDone := 0
	for _, k := range def.RequiredFields {
		if completed[k] {
			requiredDone++
		} else {
			missing = append(missing, k)
		}
	}

	pct := 100
	if len(def.RequiredFields) > 0 {
		pct = int(math.Round(float64(requiredDone) / float64(len(def.RequiredFields)) * 100))
	}

	status := model.ProgressStatus{
		Phase:           phase,
		CompletedFields: completedList,
		MissingFields:   missing,
		Progress:        pct,
		CanProceed:      float64(pct) >= def.CompletionThreshold*100,
		NextPhase:       phase.Next(),
	}
	status.Suggestions = e.suggestions(def, completed, missing)

	return status, nil
}

// suggestions names up to three missing required labels, or, once all
// required fields are known, up to three still-missing optional ones.
func (e *Evaluator) suggestions(def model.PhaseDefinition, completed map[string]bool, missing []string) []string {
	if len(missing) > 0 {
		return []string{fmt.Sprintf("次の必須項目が不足しています: %s", e.joinLabels(missing))}
	}

	var optMissing []string
	for _, k := range def.OptionalFields {
		if !completed[k] {
			optMissing = append(optMissing, k)
		}
	}
	if len(optMissing) > 0 {
		return []string{fmt.Sprintf("以下の項目も入力すると、より正確な設計が可能です: %s", e.joinLabels(optMissing))}
	}
	return nil
}

func (e *Evaluator) joinLabels(keys []string) string {
	if len(keys) > suggestionLimit {
		keys = keys[:suggestionLimit]
	}
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = e.catalog.Label(k)
	}
	return strings.Join(labels, "、")
}
