package orchestrate

import (
	"fmt"
	"strings"

	"github.com/kiso-design/intake-cli/internal/model"
)

// promptLimit caps how many missing fields the conversational reply names.
const promptLimit = 3

// composeMessage builds the Japanese reply for one interaction: what was
// understood, where the phase stands, and what to provide next.
func (o *Coordinator) composeMessage(landed []model.ExtractedField, status model.ProgressStatus, wasProceedable, degraded bool) string {
	var b strings.Builder

	valued := make([]model.ExtractedField, 0, len(landed))
	for _, f := range landed {
		if f.HasValue() {
			valued = append(valued, f)
		}
	}

	if len(valued) > 0 {
		b.WriteString("以下の情報を確認しました:\n")
		for _, f := range valued {
			fmt.Fprintf(&b, "・%s: %s\n", f.Label, f.Value)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "現在の進捗: %d%%\n", status.Progress)

	switch {
	case status.CanProceed && !wasProceedable:
		b.WriteString("必要な情報が揃いました。次のステップに進めます。")
	case len(status.MissingFields) > 0:
		b.WriteString("以下の情報が必要です: ")
		b.WriteString(o.joinLabels(status.MissingFields))
	case len(status.Suggestions) > 0:
		b.WriteString(status.Suggestions[0])
	}

	if degraded {
		b.WriteString("\n（簡易抽出モードで処理しました）")
	}

	return strings.TrimRight(b.String(), "\n")
}

func (o *Coordinator) joinLabels(keys []string) string {
	if len(keys) > promptLimit {
		keys = keys[:promptLimit]
	}
	labels := make([]string, len(keys))
	for i, k := range keys {
		labels[i] = o.catalog.Label(k)
	}
	return strings.Join(labels, "、")
}
