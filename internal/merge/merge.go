// Package merge reconciles candidate extractions from multiple sources into
// the canonical per-session field set.
package merge

import (
	"go.uber.org/zap"

	"github.com/kiso-design/intake-cli/internal/model"
)

// contradictionThreshold is the minimum confidence on both sides before a
// value disagreement between sources is worth logging.
const contradictionThreshold = 0.5

// Merge combines incoming candidates into the existing canonical set and
// returns a new set; neither input is mutated.
//
// Precedence per key, highest first:
//
//  1. Incoming form-entered or confirmed data always lands — a new form
//     submission is the only thing allowed to overwrite earlier
//     form/confirmed data.
//  2. An existing confirmed or form entry is otherwise retained
//     unconditionally; pattern/LLM re-extractions never touch it.
//  3. A value-bearing candidate beats a keyword-only (valueless) one.
//  4. Higher confidence wins; ties keep the existing entry, which makes the
//     merge idempotent and order-insensitive for distinct confidences.
func Merge(existing model.FieldSet, incoming []model.ExtractedField) model.FieldSet {
	out := existing.Clone()
	if out == nil {
		out = make(model.FieldSet)
	}

	for _, in := range incoming {
		if in.Key == "" {
			continue
		}
		cur, ok := out[in.Key]
		if !ok {
			out[in.Key] = in
			continue
		}

		if in.Locked() {
			out[in.Key] = in
			continue
		}
		if cur.Locked() {
			continue
		}

		logContradiction(cur, in)

		if prefer(in, cur) {
			out[in.Key] = in
		}
	}

	return out
}

// prefer reports whether the incoming candidate should replace the current
// entry. Both sides are unlocked here.
func prefer(in, cur model.ExtractedField) bool {
	if in.HasValue() != cur.HasValue() {
		return in.HasValue()
	}
	return in.Confidence > cur.Confidence
}

// logContradiction records value disagreements between sources when both
// sides are moderately confident. The merge still resolves deterministically;
// the log is for operators reviewing extraction quality.
func logContradiction(cur, in model.ExtractedField) {
	if !cur.HasValue() || !in.HasValue() || cur.Value == in.Value {
		return
	}
	if cur.Confidence < contradictionThreshold || in.Confidence < contradictionThreshold {
		return
	}
	zap.L().Warn("merge: source contradiction",
		zap.String("key", in.Key),
		zap.String("existing_value", cur.Value),
		zap.String("existing_source", string(cur.Source)),
		zap.Float64("existing_confidence", cur.Confidence),
		zap.String("incoming_value", in.Value),
		zap.String("incoming_source", string(in.Source)),
		zap.Float64("incoming_confidence", in.Confidence),
	)
}
