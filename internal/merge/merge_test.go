package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kiso-design/intake-cli/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func pattern(key, value string, confidence float64) model.ExtractedField {
	status := model.StatusExtracted
	if value == "" {
		status = model.StatusMissing
	}
	return model.ExtractedField{
		Key: key, Label: key, Value: value,
		Confidence: confidence, Source: model.SourcePattern, Status: status,
	}
}

func llm(key, value string, confidence float64) model.ExtractedField {
	return model.ExtractedField{
		Key: key, Label: key, Value: value,
		Confidence: confidence, Source: model.SourceLLM, Status: model.StatusExtracted,
	}
}

func form(key, value string) model.ExtractedField {
	return model.ExtractedField{
		Key: key, Label: key, Value: value,
		Confidence: 1.0, Source: model.SourceForm, Status: model.StatusConfirmed,
	}
}

func TestMerge_InsertNewKeys(t *testing.T) {
	out := Merge(nil, []model.ExtractedField{pattern("siteAddress", "東京都港区", 0.6)})
	require.Len(t, out, 1)
	assert.Equal(t, "東京都港区", out["siteAddress"].Value)
}

func TestMerge_HigherConfidenceWins(t *testing.T) {
	existing := model.FieldSet{"tankCapacity": pattern("tankCapacity", "500kL", 0.5)}
	out := Merge(existing, []model.ExtractedField{llm("tankCapacity", "1000kL", 0.8)})
	assert.Equal(t, "1000kL", out["tankCapacity"].Value)
	assert.Equal(t, model.SourceLLM, out["tankCapacity"].Source)
}

func TestMerge_LowerConfidenceLoses(t *testing.T) {
	existing := model.FieldSet{"tankCapacity": llm("tankCapacity", "1000kL", 0.8)}
	out := Merge(existing, []model.ExtractedField{pattern("tankCapacity", "500kL", 0.5)})
	assert.Equal(t, "1000kL", out["tankCapacity"].Value)
}

func TestMerge_TieKeepsExisting(t *testing.T) {
	existing := model.FieldSet{"buildingUse": pattern("buildingUse", "事務所", 0.7)}
	out := Merge(existing, []model.ExtractedField{llm("buildingUse", "倉庫", 0.7)})
	assert.Equal(t, "事務所", out["buildingUse"].Value)
}

func TestMerge_ValueBeatsKeywordOnly(t *testing.T) {
	// A keyword-only mention carries no value; even with a higher keyword
	// ratio it never displaces real data, and real data always lands on it.
	existing := model.FieldSet{"siteArea": pattern("siteArea", "", 0.9)}
	out := Merge(existing, []model.ExtractedField{pattern("siteArea", "1200㎡", 0.4)})
	assert.Equal(t, "1200㎡", out["siteArea"].Value)
	assert.Equal(t, model.StatusExtracted, out["siteArea"].Status)

	existing = model.FieldSet{"siteArea": pattern("siteArea", "1200㎡", 0.4)}
	out = Merge(existing, []model.ExtractedField{pattern("siteArea", "", 0.9)})
	assert.Equal(t, "1200㎡", out["siteArea"].Value)
}

func TestMerge_ConfirmedIsLocked(t *testing.T) {
	existing := model.FieldSet{"siteAddress": form("siteAddress", "東京都港区六本木1-1-1")}
	out := Merge(existing, []model.ExtractedField{
		llm("siteAddress", "大阪市北区", 0.9),
		pattern("siteAddress", "名古屋市", 0.9),
	})
	assert.Equal(t, "東京都港区六本木1-1-1", out["siteAddress"].Value)
	assert.Equal(t, model.StatusConfirmed, out["siteAddress"].Status)
}

func TestMerge_NewFormSubmissionOverwritesConfirmed(t *testing.T) {
	existing := model.FieldSet{"buildingUse": form("buildingUse", "事務所")}
	out := Merge(existing, []model.ExtractedField{form("buildingUse", "倉庫")})
	assert.Equal(t, "倉庫", out["buildingUse"].Value)
}

func TestMerge_Idempotent(t *testing.T) {
	incoming := []model.ExtractedField{
		pattern("siteAddress", "東京都港区", 0.6),
		llm("tankCapacity", "1000kL", 0.8),
	}
	once := Merge(nil, incoming)
	twice := Merge(once, incoming)
	assert.Equal(t, once, twice)
}

func TestMerge_OrderInsensitiveForDistinctConfidences(t *testing.T) {
	a := pattern("tankContent", "重油", 0.5)
	b := llm("tankContent", "ガソリン", 0.8)

	ab := Merge(Merge(nil, []model.ExtractedField{a}), []model.ExtractedField{b})
	ba := Merge(Merge(nil, []model.ExtractedField{b}), []model.ExtractedField{a})
	assert.Equal(t, ab, ba)
	assert.Equal(t, "ガソリン", ab["tankContent"].Value)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	existing := model.FieldSet{"siteArea": pattern("siteArea", "1200㎡", 0.4)}
	_ = Merge(existing, []model.ExtractedField{llm("siteArea", "9999㎡", 0.8)})
	assert.Equal(t, "1200㎡", existing["siteArea"].Value)
}

func TestMerge_SkipsEmptyKeys(t *testing.T) {
	out := Merge(nil, []model.ExtractedField{{Key: "", Value: "x"}})
	assert.Empty(t, out)
}
