package domain

import "time"

// DocType classifies an ingested document.
type DocType string

const (
	// DocTypeManual is an operational manual (the default).
	DocTypeManual DocType = "manual"
	// DocTypeStandard is an industry standard (IMCA, NORSOK, ISO, ...).
	DocTypeStandard DocType = "standard"
	// DocTypeLegislation is statutory material.
	DocTypeLegislation DocType = "legislation"
	// DocTypeGuidance is a recommended practice or code of practice.
	DocTypeGuidance DocType = "guidance"
	// DocTypeClientSpec is a client or project specification.
	DocTypeClientSpec DocType = "client_spec"
)

// DocTypePriority is the classification precedence: when a document
// matches keywords from several types, the earliest entry wins.
var DocTypePriority = []DocType{
	DocTypeClientSpec,
	DocTypeLegislation,
	DocTypeStandard,
	DocTypeGuidance,
	DocTypeManual,
}

// Valid reports whether t is one of the known document types.
func (t DocType) Valid() bool {
	switch t {
	case DocTypeManual, DocTypeStandard, DocTypeLegislation, DocTypeGuidance, DocTypeClientSpec:
		return true
	}
	return false
}

// Document is an ingested manual. Re-ingesting a manual replaces the
// document row and its full chunk set atomically (delete-then-insert).
type Document struct {
	// ManualID is the primary key, derived from the source filename.
	ManualID string

	// DocType is the detected (or operator-overridden) document type.
	DocType DocType

	// ComplianceStandard names the standard this document complies with.
	ComplianceStandard string

	// EffectiveDate is when the document came into force.
	EffectiveDate string

	// SupersededBy names the replacing document, if any.
	SupersededBy string

	// MandatoryReviewDate is the next compliance review deadline.
	MandatoryReviewDate string

	// FilePath is the source file the document was ingested from.
	FilePath string

	// IngestedAt is when the document was last (re-)ingested.
	IngestedAt time.Time
}
