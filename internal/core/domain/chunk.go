package domain

// NormativeTier classifies the requirement strength of a passage.
type NormativeTier string

const (
	// NormativeNone means no requirement language was detected.
	NormativeNone NormativeTier = ""
	// NormativeMandatory covers "shall", "must", "required", "mandatory".
	NormativeMandatory NormativeTier = "mandatory"
	// NormativeRecommended covers "should", "recommended".
	NormativeRecommended NormativeTier = "recommended"
	// NormativeProhibited covers "shall not", "must not", "not permitted".
	NormativeProhibited NormativeTier = "prohibited"
)

// QualifierType identifies a conflict-sensitive qualifier phrase.
type QualifierType string

const (
	// QualifierMinLimit covers "minimum", "at least", "not less than".
	QualifierMinLimit QualifierType = "min_limit"
	// QualifierMaxLimit covers "maximum", "no more than", "not greater than".
	QualifierMaxLimit QualifierType = "max_limit"
	// QualifierLimit covers "limit", "threshold".
	QualifierLimit QualifierType = "limit"
)

// UnitMeasurement is a single canonical unit occurrence extracted from
// chunk text. The value is kept as the captured string, not parsed,
// so the original formatting survives round-trips.
type UnitMeasurement struct {
	// Value is the numeric string exactly as it appeared (e.g. "30", "1.5").
	Value string `json:"value"`

	// Unit is the canonical unit name (meters, feet, bar, psi, ata,
	// litres, cubic_feet).
	Unit string `json:"unit"`

	// Context is a snippet of surrounding text (20 characters each side).
	Context string `json:"context"`
}

// ConflictQualifier records one occurrence of a min/max/threshold phrase.
// Repeated occurrences of the same keyword produce repeated entries.
type ConflictQualifier struct {
	// Type is the qualifier category.
	Type QualifierType `json:"type"`

	// Keyword is the trigger phrase that matched.
	Keyword string `json:"keyword"`

	// Context is a snippet of surrounding text (30 characters each side).
	Context string `json:"context"`
}

// Chunk is a bounded, hierarchy-scoped span of manual text carrying
// derived metadata. Chunk IDs are manual-scoped and deterministic:
// re-ingesting unchanged source text reproduces the same IDs.
type Chunk struct {
	// ID is "<manualID>::C<n>" with n counting from 0 in emission order.
	ID string

	// ManualID links to the Document that produced this chunk.
	ManualID string

	// Text is the chunk body. Heading lines are never part of the body.
	Text string

	// Heading is the governing heading as "num title" (e.g. "1.5 Bailout Gas").
	Heading string

	// Path is the hierarchy rendered as "num title > num title > ...".
	Path string

	// HeadingNum is the dotted heading number ("3.2.1"), empty for
	// unnumbered headings.
	HeadingNum string

	// Level is the count of dot-separated segments in HeadingNum.
	// Equals the chunk's depth in the heading stack at emission time.
	Level int

	// TopicID is a deterministic slug derived from Heading. Chunks from
	// different documents that share a heading share a TopicID.
	TopicID string

	// IsEmergencyProcedure flags emergency/abnormal-operations content.
	IsEmergencyProcedure bool

	// EmergencyCategory is the first emergency category that matched
	// (bailout, medical, equipment_failure, abort, weather, rescue).
	EmergencyCategory string

	// Units are canonical unit occurrences in order of appearance.
	Units []UnitMeasurement

	// DivingModes are detected operational contexts, first-match order.
	DivingModes []string

	// PhysiologyTags are detected physiology/gas hazards, first-match order.
	PhysiologyTags []string

	// SystemsTags are detected systems/equipment, first-match order.
	SystemsTags []string

	// NormativeLanguage is at most one requirement tier,
	// priority prohibited > mandatory > recommended.
	NormativeLanguage NormativeTier

	// ConflictQualifiers are detected min/max/threshold phrases.
	ConflictQualifiers []ConflictQualifier

	// ConflictType is the most recent conflict type observed against this
	// chunk by the detector, empty if none. Annotation only.
	ConflictType ConflictType

	// Embedding is the externally produced vector for retrieval scoring.
	Embedding []float32
}
