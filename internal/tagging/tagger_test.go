package tagging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

func TestDetectDocType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		text     string
		want     domain.DocType
	}{
		{"imca standard", "imca-d014.txt", "International code of safe diving", domain.DocTypeStandard},
		{"legislation", "dwr1997.txt", "The Diving at Work Regulations apply offshore.", domain.DocTypeLegislation},
		{"guidance", "notes.txt", "This guidance describes safe methods for wet bells.", domain.DocTypeGuidance},
		{"client spec", "clientdoc.txt", "This client specification supplements the contractor manual.", domain.DocTypeClientSpec},
		{"manual by keyword", "dom.txt", "This diving operations manual covers surface supplied diving.", domain.DocTypeManual},
		{"default manual", "misc.txt", "Some unclassified content here.", domain.DocTypeManual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectDocType(tt.filename, tt.text))
		})
	}
}

func TestDocumentTypeRulesFollowPriority(t *testing.T) {
	require.Len(t, documentTypeRules, len(domain.DocTypePriority))
	for i, dt := range domain.DocTypePriority {
		assert.Equal(t, string(dt), documentTypeRules[i].label)
		assert.NotEmpty(t, documentTypeRules[i].keywords, "type %q has no keywords", dt)
	}
}

func TestDetectDivingModes(t *testing.T) {
	body := "Surface supplied air diving with nitrox excursions from a DP vessel."
	modes := DetectDivingModes(body, "2 DIVING OPERATIONS")
	assert.Equal(t, []string{"air", "nitrox", "dp"}, modes)

	assert.Empty(t, DetectDivingModes("No relevant content.", ""))
}

func TestDetectPhysiologyTags(t *testing.T) {
	body := "Monitor ppO2 continuously. Elevated CO2 causes hypercapnia."
	tags := DetectPhysiologyTags(body, "")
	assert.Equal(t, []string{"oxygen", "carbon_dioxide"}, tags)
}

func TestDetectEmergency(t *testing.T) {
	ok, category := DetectEmergency(
		"In the event of loss of primary gas the diver switches to bailout.",
		"5.1 Bailout Procedure")
	require.True(t, ok)
	assert.Equal(t, "bailout", category)

	ok, category = DetectEmergency("Routine pre-dive checks of the panel.", "4.2 Checks")
	assert.False(t, ok)
	assert.Empty(t, category)
}

func TestDetectNormativeLanguage(t *testing.T) {
	// Prohibited outranks mandatory even when "shall" appears first.
	tier := DetectNormativeLanguage("The diver shall carry a knife and shall not exceed 50 meters.")
	assert.Equal(t, domain.NormativeProhibited, tier)

	assert.Equal(t, domain.NormativeMandatory,
		DetectNormativeLanguage("The supervisor shall brief the dive team."))
	assert.Equal(t, domain.NormativeRecommended,
		DetectNormativeLanguage("A wet bell is recommended for dives beyond 30 minutes."))
	assert.Equal(t, domain.NormativeNone,
		DetectNormativeLanguage("This section describes the vessel layout."))
}

func TestDetectConflictQualifiers(t *testing.T) {
	body := "The minimum bailout pressure is 180 bar. The maximum depth is 50 meters."
	quals := DetectConflictQualifiers(body)
	require.Len(t, quals, 2)

	assert.Equal(t, domain.QualifierMinLimit, quals[0].Type)
	assert.Equal(t, "minimum", quals[0].Keyword)
	assert.Contains(t, quals[0].Context, "minimum bailout pressure")

	assert.Equal(t, domain.QualifierMaxLimit, quals[1].Type)
	assert.Contains(t, quals[1].Context, "maximum depth")
}

func TestDetectConflictQualifiersRepeats(t *testing.T) {
	body := "A minimum of 40 bar and a minimum of two cylinders."
	quals := DetectConflictQualifiers(body)
	require.Len(t, quals, 2)
	assert.Equal(t, quals[0].Keyword, quals[1].Keyword)
}

func TestExtractUnits(t *testing.T) {
	units := ExtractUnits("Cylinder pressure of 3000 psi or 200 bar at a depth of 50 meters.")
	require.Len(t, units, 3)

	// Order of appearance, not pattern order.
	assert.Equal(t, "psi", units[0].Unit)
	assert.Equal(t, "3000", units[0].Value)
	assert.Equal(t, "bar", units[1].Unit)
	assert.Equal(t, "200", units[1].Value)
	assert.Equal(t, "meters", units[2].Unit)
	assert.Equal(t, "50", units[2].Value)

	assert.Contains(t, units[1].Context, "200 bar")
}

func TestExtractUnitsDecimalsAndAliases(t *testing.T) {
	units := ExtractUnits("Ascend to 6.0 m and hold. Chamber pressure 2.8 ata.")
	require.Len(t, units, 2)
	assert.Equal(t, "meters", units[0].Unit)
	assert.Equal(t, "6.0", units[0].Value)
	assert.Equal(t, "ata", units[1].Unit)
	assert.Equal(t, "2.8", units[1].Value)
}

func TestApply(t *testing.T) {
	c := &domain.Chunk{
		Heading: "5.1 Bailout Procedure",
		Text:    "On loss of primary gas the diver shall switch to bailout. Minimum cylinder pressure is 180 bar.",
	}

	Apply(c)

	assert.Equal(t, "bailout_procedure", c.TopicID)
	assert.True(t, c.IsEmergencyProcedure)
	assert.Equal(t, "bailout", c.EmergencyCategory)
	assert.Equal(t, domain.NormativeMandatory, c.NormativeLanguage)
	require.Len(t, c.Units, 1)
	assert.Equal(t, "bar", c.Units[0].Unit)
	require.NotEmpty(t, c.ConflictQualifiers)
	assert.Equal(t, domain.QualifierMinLimit, c.ConflictQualifiers[0].Type)
}

func TestIsBoilerplateLine(t *testing.T) {
	assert.True(t, IsBoilerplateLine("Document No: DOM-001"))
	assert.True(t, IsBoilerplateLine("  Rev No: 4"))
	assert.True(t, IsBoilerplateLine("Page: 12 of 340"))
	assert.False(t, IsBoilerplateLine("The diver shall surface."))
	assert.False(t, IsBoilerplateLine(""))
}
