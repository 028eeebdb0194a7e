// Package orchestrate coordinates one intake interaction end to end:
// extraction from the input, merge into the session's canonical field set,
// progress evaluation, and the UI actions that follow from it.
package orchestrate

import (
	"context"
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kiso-design/intake-cli/internal/catalog"
	"github.com/kiso-design/intake-cli/internal/extract"
	"github.com/kiso-design/intake-cli/internal/merge"
	"github.com/kiso-design/intake-cli/internal/model"
	"github.com/kiso-design/intake-cli/internal/progress"
	"github.com/kiso-design/intake-cli/pkg/anthropic"
)

// LLMExtractor extracts fields from free text via a language model. It is
// optional; the coordinator degrades to pattern-only extraction without it.
type LLMExtractor interface {
	ExtractFields(ctx context.Context, text string, knownKeys []string) ([]anthropic.Field, error)
}

// DocumentParser converts an uploaded document into plain text.
type DocumentParser interface {
	Parse(ctx context.Context, name string, content []byte) (string, error)
}

// Result is the outcome of one interaction: a conversational reply plus the
// actions the UI should perform.
type Result struct {
	Message  string               `json:"message"`
	Actions  []model.Action       `json:"actions"`
	Progress model.ProgressStatus `json:"progress"`
}

// Options tunes coordinator behavior.
type Options struct {
	// FormFieldThreshold is the missing-required count above which a
	// show_form action is emitted instead of conversational prompting.
	FormFieldThreshold int
	// LLMTimeout bounds the language-model extraction call. Zero means
	// no extra deadline beyond the caller's context.
	LLMTimeout time.Duration
}

// Coordinator runs the extract, merge, evaluate, act pipeline for a session.
type Coordinator struct {
	catalog   *catalog.Catalog
	extractor *extract.Extractor
	evaluator *progress.Evaluator
	llm       LLMExtractor
	parser    DocumentParser
	opts      Options
}

// New creates a Coordinator. llm and parser may be nil, which disables
// language-model extraction and document input respectively.
func New(c *catalog.Catalog, llm LLMExtractor, parser DocumentParser, opts Options) *Coordinator {
	if opts.FormFieldThreshold <= 0 {
		opts.FormFieldThreshold = 3
	}
	return &Coordinator{
		catalog:   c,
		extractor: extract.New(c),
		evaluator: progress.New(c),
		llm:       llm,
		parser:    parser,
		opts:      opts,
	}
}

// HandleText processes one free-text message against the session. Pattern
// extraction and language-model extraction run concurrently; the model side
// is best effort and its failure only degrades the result.
func (o *Coordinator) HandleText(ctx context.Context, session *model.SessionState, text string) (*Result, error) {
	candidates, degraded := o.extractAll(ctx, text)
	return o.apply(session, candidates, degraded)
}

// HandleForm processes a form submission. Form values are operator-confirmed
// facts: they carry full confidence and overwrite whatever extraction put
// there before.
func (o *Coordinator) HandleForm(ctx context.Context, session *model.SessionState, values map[string]string) (*Result, error) {
	candidates := make([]model.ExtractedField, 0, len(values))
	for key, value := range values {
		if value == "" {
			continue
		}
		spec := o.catalog.ByKey(key)
		if spec == nil {
			zap.L().Warn("orchestrate: form value for unknown field", zap.String("key", key))
			continue
		}
		candidates = append(candidates, model.ExtractedField{
			Key:        key,
			Label:      spec.Label,
			Category:   spec.Category,
			Value:      spec.Apply(value),
			Confidence: 1.0,
			Source:     model.SourceForm,
			Status:     model.StatusConfirmed,
			Required:   o.catalog.Required(key),
		})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Key < candidates[j].Key })
	return o.apply(session, candidates, false)
}

// HandleDocument parses an uploaded document to text and runs it through the
// same pipeline as a chat message.
func (o *Coordinator) HandleDocument(ctx context.Context, session *model.SessionState, name string, content []byte) (*Result, error) {
	if o.parser == nil {
		return nil, eris.New("orchestrate: no document parser configured")
	}
	text, err := o.parser.Parse(ctx, name, content)
	if err != nil {
		return nil, eris.Wrapf(err, "orchestrate: parse document %q", name)
	}
	return o.HandleText(ctx, session, text)
}

// EvaluatePhase evaluates phase progress without running an interaction.
func (o *Coordinator) EvaluatePhase(phase model.Phase, fields model.FieldSet) (model.ProgressStatus, error) {
	return o.evaluator.Evaluate(phase, fields)
}

// extractAll fans out pattern and language-model extraction and collects
// both candidate lists. The pattern pass always runs; the model pass may
// fail or time out, in which case degraded is true.
func (o *Coordinator) extractAll(ctx context.Context, text string) ([]model.ExtractedField, bool) {
	var patternFields, llmFields []model.ExtractedField
	degraded := false

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		patternFields = o.extractor.Extract(text)
		return nil
	})
	if o.llm != nil {
		g.Go(func() error {
			llmCtx := gctx
			if o.opts.LLMTimeout > 0 {
				var cancel context.CancelFunc
				llmCtx, cancel = context.WithTimeout(gctx, o.opts.LLMTimeout)
				defer cancel()
			}
			raw, err := o.llm.ExtractFields(llmCtx, text, o.catalog.Keys())
			if err != nil {
				zap.L().Warn("orchestrate: model extraction failed, using pattern results only",
					zap.Error(err))
				degraded = true
				return nil
			}
			llmFields = o.fromLLM(raw)
			return nil
		})
	}
	// Goroutines only return nil; Wait is for synchronization.
	_ = g.Wait()

	// Pattern results first so that model results, which carry fixed higher
	// confidence, win key collisions during merge in a deterministic order.
	return append(patternFields, llmFields...), degraded
}

// fromLLM converts model-extractor output into catalog-labeled fields,
// normalizing values the same way the pattern path does.
func (o *Coordinator) fromLLM(raw []anthropic.Field) []model.ExtractedField {
	out := make([]model.ExtractedField, 0, len(raw))
	for _, f := range raw {
		spec := o.catalog.ByKey(f.Key)
		if spec == nil {
			continue
		}
		out = append(out, model.ExtractedField{
			Key:        f.Key,
			Label:      spec.Label,
			Category:   spec.Category,
			Value:      spec.Apply(f.Value),
			Confidence: f.Confidence,
			Source:     model.SourceLLM,
			Status:     model.StatusExtracted,
			Required:   o.catalog.Required(f.Key),
		})
	}
	return out
}

// apply merges candidates into the session, evaluates the current phase, and
// derives the reply and actions. The session's fields, proceed flag and
// timestamp are updated in place; its phase is not advanced here, that is
// the caller's decision after seeing a proceed_phase action.
func (o *Coordinator) apply(session *model.SessionState, candidates []model.ExtractedField, degraded bool) (*Result, error) {
	before := session.Fields
	merged := merge.Merge(before, candidates)

	status, err := o.evaluator.Evaluate(session.Phase, merged)
	if err != nil {
		return nil, eris.Wrap(err, "orchestrate: evaluate progress")
	}

	landed := changedFields(before, merged, candidates)
	actions := o.decideActions(session, status, merged)

	wasProceedable := session.CanProceed
	session.Fields = merged
	session.CanProceed = status.CanProceed
	session.UpdatedAt = time.Now()

	zap.L().Info("orchestrate: interaction handled",
		zap.String("session_id", session.ID),
		zap.String("phase", string(session.Phase)),
		zap.Int("candidates", len(candidates)),
		zap.Int("landed", len(landed)),
		zap.Int("progress", status.Progress),
		zap.Bool("can_proceed", status.CanProceed),
		zap.Bool("degraded", degraded),
	)

	return &Result{
		Message:  o.composeMessage(landed, status, wasProceedable, degraded),
		Actions:  actions,
		Progress: status,
	}, nil
}

// decideActions derives UI actions from the evaluation. update_status is
// always emitted; show_form when too many required fields are still missing;
// proceed_phase only on the transition from not-proceedable to proceedable,
// so repeated evaluations at 100% do not re-prompt.
func (o *Coordinator) decideActions(session *model.SessionState, status model.ProgressStatus, fields model.FieldSet) []model.Action {
	actions := []model.Action{{
		Type: model.ActionUpdateStatus,
		Payload: model.StatusPayload{
			Fields:   fields.List(),
			Progress: status,
		},
	}}

	if len(status.MissingFields) > o.opts.FormFieldThreshold {
		formFields := make([]model.FormField, 0, len(status.MissingFields))
		for _, key := range status.MissingFields {
			formFields = append(formFields, model.FormField{
				Key:      key,
				Label:    o.catalog.Label(key),
				Question: o.catalog.Question(key),
				Category: o.catalog.Category(key),
			})
		}
		actions = append(actions, model.Action{
			Type:    model.ActionShowForm,
			Payload: model.ShowFormPayload{Phase: status.Phase, Fields: formFields},
		})
	}

	if status.CanProceed && !session.CanProceed {
		actions = append(actions, model.Action{
			Type:    model.ActionProceedPhase,
			Payload: model.ProceedPayload{NextPhase: status.NextPhase},
		})
	}

	return actions
}

// changedFields returns the candidates that actually landed in the merged
// set with a value, in candidate order, deduplicated by key.
func changedFields(before, after model.FieldSet, candidates []model.ExtractedField) []model.ExtractedField {
	var out []model.ExtractedField
	seen := make(map[string]bool)
	for _, c := range candidates {
		if seen[c.Key] {
			continue
		}
		seen[c.Key] = true
		cur, ok := after[c.Key]
		if !ok || !cur.HasValue() {
			continue
		}
		prev, had := before[c.Key]
		if had && prev.Value == cur.Value && prev.Status == cur.Status {
			continue
		}
		out = append(out, cur)
	}
	return out
}
