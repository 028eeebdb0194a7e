package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Field is one key/value pair extracted by the language model.
type Field struct {
	Key        string
	Value      string
	Confidence float64
}

// llmConfidence is assigned to model-extracted values. The model sees the
// full sentence context, so it outranks most keyword-ratio scores while
// staying below form input.
const llmConfidence = 0.8

const extractSystem = `あなたは建築プロジェクトの情報抽出専門家です。
ユーザーのメッセージから以下の情報を抽出してください：
- 敷地情報（住所、地番、面積）
- 建物情報（用途、規模、階数、構造）
- 法規情報（用途地域、建ぺい率、容積率）
- タンク情報（容量、内容物、寸法）

値が見つかった項目だけを含む単一のJSONオブジェクトで回答してください。
キーは指示された英語のフィールドキー、値は文字列とします。`

// Extractor extracts project fields from free text via the Anthropic API.
type Extractor struct {
	client    Client
	model     string
	maxTokens int64
}

// NewExtractor creates an Extractor using the given model.
func NewExtractor(client Client, model string, maxTokens int64) *Extractor {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Extractor{client: client, model: model, maxTokens: maxTokens}
}

// ExtractFields asks the model for a JSON object of field key → value.
// knownKeys limits the vocabulary to catalog keys and also tells the model
// which fields are already known and should be skipped. Errors are returned
// to the caller, which degrades to pattern-only extraction; this method
// never panics into the caller.
func (e *Extractor) ExtractFields(ctx context.Context, text string, knownKeys []string) ([]Field, error) {
	prompt := fmt.Sprintf("抽出対象のフィールドキー: %s\n\nメッセージ:\n%s",
		strings.Join(knownKeys, ", "), text)

	temp := 0.0
	resp, err := e.client.CreateMessage(ctx, MessageRequest{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		System:      extractSystem,
		Messages:    []Message{{Role: "user", Content: prompt}},
		Temperature: &temp,
	})
	if err != nil {
		return nil, eris.Wrap(err, "anthropic: extract fields")
	}

	fields, err := parseFieldResponse(resp.Text)
	if err != nil {
		return nil, err
	}

	// Drop keys outside the requested vocabulary.
	allowed := make(map[string]bool, len(knownKeys))
	for _, k := range knownKeys {
		allowed[k] = true
	}
	out := fields[:0]
	for _, f := range fields {
		if allowed[f.Key] {
			out = append(out, f)
		}
	}

	zap.L().Debug("anthropic: field extraction complete",
		zap.Int("fields", len(out)),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens),
	)

	return out, nil
}

// parseFieldResponse pulls the first JSON object out of the model response,
// tolerating fenced code blocks and surrounding prose.
func parseFieldResponse(text string) ([]Field, error) {
	payload := extractJSONObject(text)
	if payload == "" {
		return nil, eris.New("anthropic: no JSON object in response")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, eris.Wrap(err, "anthropic: unmarshal field response")
	}

	fields := make([]Field, 0, len(raw))
	for k, v := range raw {
		s := strings.TrimSpace(fmt.Sprintf("%v", v))
		if v == nil || s == "" || s == "null" {
			continue
		}
		fields = append(fields, Field{Key: k, Value: s, Confidence: llmConfidence})
	}
	return fields, nil
}

// extractJSONObject returns the content of the first ```json fence, or the
// first balanced top-level {...} span, or "".
func extractJSONObject(text string) string {
	if i := strings.Index(text, "```json"); i >= 0 {
		rest := text[i+len("```json"):]
		if j := strings.Index(rest, "```"); j >= 0 {
			return strings.TrimSpace(rest[:j])
		}
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '"':
			if i == 0 || text[i-1] != '\\' {
				inString = !inString
			}
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1]
				}
			}
		}
	}
	return ""
}
