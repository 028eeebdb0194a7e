package progress

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiso-design/intake-cli/internal/catalog"
	"github.com/kiso-design/intake-cli/internal/model"
)

func extracted(key, value string) model.ExtractedField {
	return model.ExtractedField{
		Key: key, Value: value,
		Confidence: 0.7, Source: model.SourcePattern, Status: model.StatusExtracted,
	}
}

func TestEvaluate_UnknownPhase(t *testing.T) {
	e := New(catalog.Default())
	_, err := e.Evaluate(model.Phase("p99"), nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownPhase))
}

func TestEvaluate_EmptyFieldSet(t *testing.T) {
	e := New(catalog.Default())
	status, err := e.Evaluate(model.PhaseBasicInfo, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, status.Progress)
	assert.False(t, status.CanProceed)
	assert.Empty(t, status.CompletedFields)
	assert.Equal(t, []string{"siteAddress", "buildingUse", "totalFloorArea"}, status.MissingFields)
	assert.Equal(t, model.PhaseTankSpec, status.NextPhase)
}

func TestEvaluate_PartialProgressRounds(t *testing.T) {
	e := New(catalog.Default())
	fields := model.FieldSet{
		"siteAddress":    extracted("siteAddress", "東京都港区六本木1-1-1"),
		"totalFloorArea": extracted("totalFloorArea", "5000㎡"),
	}
	status, err := e.Evaluate(model.PhaseBasicInfo, fields)
	require.NoError(t, err)

	assert.Equal(t, 67, status.Progress) // 2 of 3 required
	assert.False(t, status.CanProceed)   // threshold is 0.75
	assert.Equal(t, []string{"buildingUse"}, status.MissingFields)
	require.Len(t, status.Suggestions, 1)
	assert.Contains(t, status.Suggestions[0], "建物用途")
}

func TestEvaluate_AllRequiredComplete(t *testing.T) {
	e := New(catalog.Default())
	fields := model.FieldSet{
		"siteAddress":    extracted("siteAddress", "東京都港区六本木1-1-1"),
		"buildingUse":    extracted("buildingUse", "事務所"),
		"totalFloorArea": extracted("totalFloorArea", "5000㎡"),
	}
	status, err := e.Evaluate(model.PhaseBasicInfo, fields)
	require.NoError(t, err)

	assert.Equal(t, 100, status.Progress)
	assert.True(t, status.CanProceed)
	assert.Empty(t, status.MissingFields)
	// Optional fields are still open, so the suggestion switches to them.
	require.Len(t, status.Suggestions, 1)
	assert.Contains(t, status.Suggestions[0], "より正確な設計")
}

func TestEvaluate_ThresholdBoundary(t *testing.T) {
	// With four required fields and a 0.75 threshold, exactly three
	// completed must pass: progress 75 meets the threshold, 50 does not.
	cat, err := catalog.New(
		[]catalog.FieldSpec{
			{Key: "a", Label: "A"}, {Key: "b", Label: "B"},
			{Key: "c", Label: "C"}, {Key: "d", Label: "D"},
		},
		[]model.PhaseDefinition{{
			Phase:               model.PhaseBasicInfo,
			RequiredFields:      []string{"a", "b", "c", "d"},
			CompletionThreshold: 0.75,
		}},
	)
	require.NoError(t, err)
	e := New(cat)

	two := model.FieldSet{"a": extracted("a", "1"), "b": extracted("b", "2")}
	status, err := e.Evaluate(model.PhaseBasicInfo, two)
	require.NoError(t, err)
	assert.Equal(t, 50, status.Progress)
	assert.False(t, status.CanProceed)

	three := two.Clone()
	three["c"] = extracted("c", "3")
	status, err = e.Evaluate(model.PhaseBasicInfo, three)
	require.NoError(t, err)
	assert.Equal(t, 75, status.Progress)
	assert.True(t, status.CanProceed)
}

func TestEvaluate_MissingStatusDoesNotCount(t *testing.T) {
	e := New(catalog.Default())
	fields := model.FieldSet{
		"siteAddress": {
			Key: "siteAddress", Value: "",
			Confidence: 0.5, Source: model.SourcePattern, Status: model.StatusMissing,
		},
	}
	status, err := e.Evaluate(model.PhaseBasicInfo, fields)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Progress)
	assert.Contains(t, status.MissingFields, "siteAddress")
}

func TestEvaluate_EmptyRequiredSetIsComplete(t *testing.T) {
	e := New(catalog.Default())
	status, err := e.Evaluate(model.PhaseCalculation, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, status.Progress)
	assert.True(t, status.CanProceed)
	assert.Empty(t, status.MissingFields)
}

func TestEvaluate_OutOfScopeFieldsIgnored(t *testing.T) {
	e := New(catalog.Default())
	fields := model.FieldSet{
		"tankCapacity": extracted("tankCapacity", "1000kL"), // p2 field
	}
	status, err := e.Evaluate(model.PhaseBasicInfo, fields)
	require.NoError(t, err)
	assert.Equal(t, 0, status.Progress)
	assert.Empty(t, status.CompletedFields)
}

func TestEvaluate_ProgressMonotonicUnderMoreFields(t *testing.T) {
	e := New(catalog.Default())
	fields := model.FieldSet{}
	last := -1
	for _, add := range []model.ExtractedField{
		extracted("siteAddress", "東京都港区六本木1-1-1"),
		extracted("buildingUse", "事務所"),
		extracted("totalFloorArea", "5000㎡"),
	} {
		fields[add.Key] = add
		status, err := e.Evaluate(model.PhaseBasicInfo, fields)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, status.Progress, last)
		last = status.Progress
	}
	assert.Equal(t, 100, last)
}
