package anthropic

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type mockClient struct {
	resp *MessageResponse
	err  error

	gotReq MessageRequest
}

func (m *mockClient) CreateMessage(_ context.Context, req MessageRequest) (*MessageResponse, error) {
	m.gotReq = req
	return m.resp, m.err
}

func textResponse(text string) *MessageResponse {
	return &MessageResponse{ID: "msg_1", Model: "test-model", Text: text}
}

func TestExtractFields_PlainJSON(t *testing.T) {
	client := &mockClient{resp: textResponse(`{"siteAddress": "東京都港区六本木1-1-1", "buildingUse": "事務所"}`)}
	e := NewExtractor(client, "test-model", 1024)

	fields, err := e.ExtractFields(context.Background(), "msg",
		[]string{"siteAddress", "buildingUse"})
	require.NoError(t, err)
	require.Len(t, fields, 2)
	for _, f := range fields {
		assert.Equal(t, 0.8, f.Confidence)
	}
}

func TestExtractFields_FencedJSON(t *testing.T) {
	client := &mockClient{resp: textResponse("抽出結果は以下の通りです。\n```json\n{\"siteAddress\": \"東京都港区六本木1-1-1\"}\n```\n以上です。")}
	e := NewExtractor(client, "test-model", 1024)

	fields, err := e.ExtractFields(context.Background(), "msg", []string{"siteAddress"})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "siteAddress", fields[0].Key)
	assert.Equal(t, "東京都港区六本木1-1-1", fields[0].Value)
}

func TestExtractFields_JSONEmbeddedInProse(t *testing.T) {
	client := &mockClient{resp: textResponse(`以下を抽出しました: {"tankCapacity": "1000"} ご確認ください。`)}
	e := NewExtractor(client, "test-model", 1024)

	fields, err := e.ExtractFields(context.Background(), "msg", []string{"tankCapacity"})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "1000", fields[0].Value)
}

func TestExtractFields_FiltersUnknownAndEmpty(t *testing.T) {
	client := &mockClient{resp: textResponse(`{"siteAddress": "東京都港区", "madeUpKey": "x", "buildingUse": null, "siteArea": ""}`)}
	e := NewExtractor(client, "test-model", 1024)

	fields, err := e.ExtractFields(context.Background(), "msg",
		[]string{"siteAddress", "buildingUse", "siteArea"})
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "siteAddress", fields[0].Key)
}

func TestExtractFields_NoJSONInResponse(t *testing.T) {
	client := &mockClient{resp: textResponse("申し訳ありませんが、情報を抽出できませんでした。")}
	e := NewExtractor(client, "test-model", 1024)

	_, err := e.ExtractFields(context.Background(), "msg", []string{"siteAddress"})
	assert.Error(t, err)
}

func TestExtractFields_ClientError(t *testing.T) {
	client := &mockClient{err: eris.New("rate limited")}
	e := NewExtractor(client, "test-model", 1024)

	_, err := e.ExtractFields(context.Background(), "msg", []string{"siteAddress"})
	assert.Error(t, err)
}

func TestExtractFields_RequestShape(t *testing.T) {
	client := &mockClient{resp: textResponse(`{}`)}
	e := NewExtractor(client, "test-model", 512)

	_, err := e.ExtractFields(context.Background(), "所在地は港区です",
		[]string{"siteAddress", "buildingUse"})
	require.NoError(t, err)

	req := client.gotReq
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, int64(512), req.MaxTokens)
	assert.NotEmpty(t, req.System)
	require.Len(t, req.Messages, 1)
	assert.Contains(t, req.Messages[0].Content, "siteAddress, buildingUse")
	assert.Contains(t, req.Messages[0].Content, "所在地は港区です")
	require.NotNil(t, req.Temperature)
	assert.Equal(t, 0.0, *req.Temperature)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"nested braces", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"brace inside string", `{"a": "}"}`, `{"a": "}"}`},
		{"prose around", `before {"a": 1} after`, `{"a": 1}`},
		{"no object", "nothing here", ""},
		{"unbalanced", `{"a": 1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSONObject(tt.in))
		})
	}
}
