package tagging

import (
	"sort"
	"strings"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// Search-text bounds. Tagging reads the heading plus the opening of the
// body, which keeps matching cheap and focused on introductory context.
const (
	emergencySearchLimit = 500
	modeSearchLimit      = 1000
	docTypeSearchLimit   = 1000
)

// searchText builds the lowercase "heading + body prefix" string a
// category matches against.
func searchText(heading, body string, limit int) string {
	if len(body) > limit {
		body = body[:limit]
	}
	return strings.ToLower(heading + " " + body)
}

// matchAll returns every sub-label whose any keyword occurs in the
// search text, de-duplicated, in the ruleset's declaration order.
func matchAll(rules []rule, text string) []string {
	var out []string
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				out = append(out, r.label)
				break
			}
		}
	}
	return out
}

// matchFirst returns the first sub-label with a keyword hit, or "".
func matchFirst(rules []rule, text string) string {
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.label
			}
		}
	}
	return ""
}

// DetectDocType classifies a document from its filename plus the first
// ~1000 characters of content. Types are checked most specific first
// (client_spec > legislation > standard > guidance > manual) so generic
// keywords cannot shadow a specific classification. Defaults to manual.
func DetectDocType(filename, text string) domain.DocType {
	combined := strings.ToLower(filename) + " " + searchText("", text, docTypeSearchLimit)
	if label := matchFirst(documentTypeRules, combined); label != "" {
		return domain.DocType(label)
	}
	return domain.DocTypeManual
}

// DetectDivingModes returns the diving modes detected in heading + body.
func DetectDivingModes(body, heading string) []string {
	return matchAll(divingModeRules, searchText(heading, body, modeSearchLimit))
}

// DetectPhysiologyTags returns the physiology/gas-hazard tags detected
// in heading + body.
func DetectPhysiologyTags(body, heading string) []string {
	return matchAll(physiologyRules, searchText(heading, body, modeSearchLimit))
}

// DetectSystemsTags returns the systems/equipment tags detected in
// heading + body.
func DetectSystemsTags(body, heading string) []string {
	return matchAll(systemsRules, searchText(heading, body, modeSearchLimit))
}

// DetectEmergency reports whether heading + body indicate an emergency
// procedure and which category matched first.
func DetectEmergency(body, heading string) (bool, string) {
	combined := searchText(heading, body, emergencySearchLimit)
	if label := matchFirst(emergencyRules, combined); label != "" {
		return true, label
	}
	return false, ""
}

// DetectNormativeLanguage classifies the requirement strength of the
// full body text. Tiers are checked in priority order
// prohibited > mandatory > recommended; the first tier with any keyword
// hit wins regardless of keyword positions in the text.
func DetectNormativeLanguage(body string) domain.NormativeTier {
	lower := strings.ToLower(body)
	if label := matchFirst(normativeRules, lower); label != "" {
		return domain.NormativeTier(label)
	}
	return domain.NormativeNone
}

// DetectConflictQualifiers finds min/max/threshold phrases across the
// full body. Each occurrence is recorded with a 30-character-radius
// context snippet; repeated keywords produce repeated entries.
func DetectConflictQualifiers(body string) []domain.ConflictQualifier {
	var out []domain.ConflictQualifier
	lower := strings.ToLower(body)

	for _, r := range qualifierRules {
		for _, kw := range r.keywords {
			for from := 0; ; {
				idx := strings.Index(lower[from:], kw)
				if idx < 0 {
					break
				}
				idx += from

				start := idx - 30
				if start < 0 {
					start = 0
				}
				end := idx + len(kw) + 30
				if end > len(body) {
					end = len(body)
				}

				out = append(out, domain.ConflictQualifier{
					Type:    domain.QualifierType(r.label),
					Keyword: kw,
					Context: strings.TrimSpace(body[start:end]),
				})

				from = idx + len(kw)
			}
		}
	}

	return out
}

// ExtractUnits scans text with the canonical unit patterns, producing
// one record per match in order of appearance. The numeric capture is
// kept as text; nothing is parsed to a number at this stage.
func ExtractUnits(text string) []domain.UnitMeasurement {
	type positioned struct {
		offset int
		m      domain.UnitMeasurement
	}
	var found []positioned

	for _, p := range unitPatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			value := text[loc[2]:loc[3]]

			start := loc[0] - 20
			if start < 0 {
				start = 0
			}
			end := loc[1] + 20
			if end > len(text) {
				end = len(text)
			}

			found = append(found, positioned{
				offset: loc[0],
				m: domain.UnitMeasurement{
					Value:   value,
					Unit:    p.unit,
					Context: strings.TrimSpace(text[start:end]),
				},
			})
		}
	}

	// Patterns scan one unit at a time; re-order by text position so
	// "3000 psi or 200 bar" lists psi before bar.
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].offset < found[j].offset
	})

	out := make([]domain.UnitMeasurement, 0, len(found))
	for _, f := range found {
		out = append(out, f.m)
	}
	return out
}

// IsBoilerplateLine reports whether a line starts with one of the
// anchored boilerplate prefixes (document number, revision, issue date,
// disclaimer, owner, page-of-page).
func IsBoilerplateLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	for _, re := range boilerplatePatterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// Apply decorates a chunk with every tag category: topic id, emergency
// flag, unit records, diving modes, physiology, systems, normative
// language and conflict qualifiers, derived from the chunk's heading
// and body.
func Apply(c *domain.Chunk) {
	c.TopicID = TopicID(c.Heading)
	c.IsEmergencyProcedure, c.EmergencyCategory = DetectEmergency(c.Text, c.Heading)
	c.Units = ExtractUnits(c.Text)
	c.DivingModes = DetectDivingModes(c.Text, c.Heading)
	c.PhysiologyTags = DetectPhysiologyTags(c.Text, c.Heading)
	c.SystemsTags = DetectSystemsTags(c.Text, c.Heading)
	c.NormativeLanguage = DetectNormativeLanguage(c.Text)
	c.ConflictQualifiers = DetectConflictQualifiers(c.Text)
}
