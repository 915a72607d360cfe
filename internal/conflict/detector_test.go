package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

func TestExtractNumericValues(t *testing.T) {
	vals := ExtractNumericValues("Reserve pressure is 50 bar at 30 meters.")
	require.Len(t, vals, 2)

	assert.Equal(t, 50.0, vals[0].Value)
	assert.Equal(t, "bar", vals[0].Unit)
	assert.Contains(t, vals[0].Context, "50 bar")

	assert.Equal(t, 30.0, vals[1].Value)
	assert.Equal(t, "meters", vals[1].Unit)
}

func TestExtractNumericValuesNoUnit(t *testing.T) {
	vals := ExtractNumericValues("Repeat the check 3 times, then wait 5.")
	require.Len(t, vals, 2)
	assert.Equal(t, 3.0, vals[0].Value)
	assert.Equal(t, "times", vals[0].Unit)
	assert.Equal(t, 5.0, vals[1].Value)
	assert.Empty(t, vals[1].Unit)
}

func TestDetectNumericConflict(t *testing.T) {
	chunks := []domain.Chunk{
		{
			ID:      "DOM::C1",
			TopicID: "bailout_gas_requirements",
			Text:    "Minimum bailout reserve is 50 bar.",
		},
		{
			ID:      "IMCA::C7",
			TopicID: "bailout_gas_requirements",
			Text:    "Minimum bailout reserve is 70 bar.",
		},
	}

	findings := Detect(chunks)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, domain.ConflictNumeric, f.Type)
	assert.Equal(t, "bailout_gas_requirements", f.TopicID)
	assert.Equal(t, "DOM::C1", f.Chunk1ID)
	assert.Equal(t, "IMCA::C7", f.Chunk2ID)
	assert.Equal(t, "Different values for bar: 50 vs 70", f.Detail)
	assert.Contains(t, f.Context1, "50 bar")
	assert.Contains(t, f.Context2, "70 bar")
}

func TestDetectUnitMismatch(t *testing.T) {
	chunks := []domain.Chunk{
		{
			ID:      "DOM::C2",
			TopicID: "depth_limits",
			Text:    "Maximum depth is fifty meters.",
			Units:   []domain.UnitMeasurement{{Value: "50", Unit: "meters"}},
		},
		{
			ID:      "SPEC::C3",
			TopicID: "depth_limits",
			Text:    "Maximum depth is one hundred sixty four feet.",
			Units:   []domain.UnitMeasurement{{Value: "164", Unit: "feet"}},
		},
	}

	findings := Detect(chunks)
	require.Len(t, findings, 1)

	f := findings[0]
	assert.Equal(t, domain.ConflictUnitMismatch, f.Type)
	assert.Equal(t, "Different distance units: meters vs feet", f.Detail)
}

func TestDetectPressureMismatch(t *testing.T) {
	chunks := []domain.Chunk{
		{
			ID:      "A::C1",
			TopicID: "cylinder_pressure",
			Units:   []domain.UnitMeasurement{{Value: "200", Unit: "bar"}},
		},
		{
			ID:      "B::C1",
			TopicID: "cylinder_pressure",
			Units:   []domain.UnitMeasurement{{Value: "3000", Unit: "psi"}},
		},
	}

	findings := Detect(chunks)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.ConflictUnitMismatch, findings[0].Type)
	assert.Equal(t, "Different pressure units: bar vs psi", findings[0].Detail)
}

func TestDetectDifferentTopicsNoConflict(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "A::C1", TopicID: "depth_limits", Text: "Maximum 50 bar."},
		{ID: "B::C1", TopicID: "bailout", Text: "Maximum 70 bar."},
	}

	assert.Empty(t, Detect(chunks))
}

func TestDetectSkipsUntaggedChunks(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "A::C1", TopicID: "", Text: "Value 50 bar."},
		{ID: "B::C1", TopicID: "", Text: "Value 70 bar."},
	}

	assert.Empty(t, Detect(chunks))
}

func TestDetectAgreementNoConflict(t *testing.T) {
	chunks := []domain.Chunk{
		{
			ID:      "A::C1",
			TopicID: "depth_limits",
			Text:    "Maximum depth is 50 meters.",
			Units:   []domain.UnitMeasurement{{Value: "50", Unit: "meters"}},
		},
		{
			ID:      "B::C1",
			TopicID: "depth_limits",
			Text:    "Depth is limited to 50 meters.",
			Units:   []domain.UnitMeasurement{{Value: "50", Unit: "meters"}},
		},
	}

	assert.Empty(t, Detect(chunks))
}

func TestDetectInTopic(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "A::C1", TopicID: "depth_limits", Text: "Limit 50 meters."},
		{ID: "B::C1", TopicID: "depth_limits", Text: "Limit 40 meters."},
		{ID: "C::C1", TopicID: "bailout", Text: "Reserve 70 bar."},
	}

	findings := DetectInTopic(chunks, "depth_limits")
	require.Len(t, findings, 1)
	assert.Equal(t, domain.ConflictNumeric, findings[0].Type)

	assert.Empty(t, DetectInTopic(chunks, "bailout"))
}
