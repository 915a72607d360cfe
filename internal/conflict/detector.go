// Package conflict flags contradictory numeric and unit requirements
// between chunks that share a topic id.
package conflict

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// numericValueRE captures a number and whatever word follows it
// verbatim. This is deliberately looser than the canonical unit
// extractor: the trailing word is taken as-is, which can both under-
// and over-match, and that literal behaviour is kept for compatibility.
var numericValueRE = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zA-Z]+)?`)

// NumericValue is one number occurrence with its raw trailing word.
type NumericValue struct {
	Value   float64
	Unit    string
	Context string
}

// ExtractNumericValues pulls every (number, trailing word, context)
// triple out of text for numeric conflict comparison.
func ExtractNumericValues(text string) []NumericValue {
	var out []NumericValue

	for _, loc := range numericValueRE.FindAllStringSubmatchIndex(text, -1) {
		raw := text[loc[2]:loc[3]]
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		unit := ""
		if loc[4] >= 0 {
			unit = text[loc[4]:loc[5]]
		}

		start := loc[0] - 30
		if start < 0 {
			start = 0
		}
		end := loc[1] + 30
		if end > len(text) {
			end = len(text)
		}

		out = append(out, NumericValue{
			Value:   value,
			Unit:    unit,
			Context: strings.TrimSpace(text[start:end]),
		})
	}

	return out
}

// Unit categories compared for mismatches. Ata, litres and cubic feet
// are intentionally not compared: a known scope limitation.
var (
	distanceUnits = map[string]bool{"meters": true, "feet": true}
	pressureUnits = map[string]bool{"bar": true, "psi": true}
)

// Finding is one detected disagreement between two chunks. Findings are
// turned into persisted Conflict records by the conflict service.
type Finding struct {
	Type     domain.ConflictType
	TopicID  string
	Chunk1ID string
	Chunk2ID string
	Detail   string
	Context1 string
	Context2 string
}

// Detect groups chunks by non-empty topic id and examines every
// unordered pair within each group for numeric conflicts and
// distance/pressure unit mismatches. Quadratic per group; topic groups
// are small by construction.
func Detect(chunks []domain.Chunk) []Finding {
	groups := make(map[string][]domain.Chunk)
	for _, c := range chunks {
		if c.TopicID == "" {
			continue
		}
		groups[c.TopicID] = append(groups[c.TopicID], c)
	}

	// Deterministic scan order across runs.
	topicIDs := make([]string, 0, len(groups))
	for id := range groups {
		topicIDs = append(topicIDs, id)
	}
	sort.Strings(topicIDs)

	var findings []Finding
	for _, topicID := range topicIDs {
		findings = append(findings, detectInTopic(groups[topicID], topicID)...)
	}
	return findings
}

// DetectInTopic examines only the chunks carrying the given topic id.
func DetectInTopic(chunks []domain.Chunk, topicID string) []Finding {
	var group []domain.Chunk
	for _, c := range chunks {
		if c.TopicID == topicID {
			group = append(group, c)
		}
	}
	return detectInTopic(group, topicID)
}

func detectInTopic(group []domain.Chunk, topicID string) []Finding {
	if len(group) < 2 {
		return nil
	}

	var findings []Finding
	for i := range group {
		chunk1 := group[i]
		nums1 := ExtractNumericValues(chunk1.Text)

		for j := i + 1; j < len(group); j++ {
			chunk2 := group[j]
			nums2 := ExtractNumericValues(chunk2.Text)

			findings = append(findings, numericFindings(chunk1, chunk2, nums1, nums2, topicID)...)
			findings = append(findings, mismatchFindings(chunk1, chunk2, topicID)...)
		}
	}
	return findings
}

// numericFindings flags pairs of values whose raw unit words are equal
// but whose values differ.
func numericFindings(c1, c2 domain.Chunk, nums1, nums2 []NumericValue, topicID string) []Finding {
	var out []Finding
	for _, n1 := range nums1 {
		for _, n2 := range nums2 {
			if n1.Unit == n2.Unit && n1.Value != n2.Value {
				out = append(out, Finding{
					Type:     domain.ConflictNumeric,
					TopicID:  topicID,
					Chunk1ID: c1.ID,
					Chunk2ID: c2.ID,
					Detail: fmt.Sprintf("Different values for %s: %s vs %s",
						n1.Unit, formatValue(n1.Value), formatValue(n2.Value)),
					Context1: n1.Context,
					Context2: n2.Context,
				})
			}
		}
	}
	return out
}

// mismatchFindings flags chunk pairs whose canonical unit sets disagree
// within the distance or pressure category.
func mismatchFindings(c1, c2 domain.Chunk, topicID string) []Finding {
	var out []Finding

	d1, d2 := categorySubset(c1.Units, distanceUnits), categorySubset(c2.Units, distanceUnits)
	if len(d1) > 0 && len(d2) > 0 && !sameSet(d1, d2) {
		out = append(out, Finding{
			Type:     domain.ConflictUnitMismatch,
			TopicID:  topicID,
			Chunk1ID: c1.ID,
			Chunk2ID: c2.ID,
			Detail:   fmt.Sprintf("Different distance units: %s vs %s", setString(d1), setString(d2)),
		})
	}

	p1, p2 := categorySubset(c1.Units, pressureUnits), categorySubset(c2.Units, pressureUnits)
	if len(p1) > 0 && len(p2) > 0 && !sameSet(p1, p2) {
		out = append(out, Finding{
			Type:     domain.ConflictUnitMismatch,
			TopicID:  topicID,
			Chunk1ID: c1.ID,
			Chunk2ID: c2.ID,
			Detail:   fmt.Sprintf("Different pressure units: %s vs %s", setString(p1), setString(p2)),
		})
	}

	return out
}

func categorySubset(units []domain.UnitMeasurement, category map[string]bool) map[string]bool {
	subset := make(map[string]bool)
	for _, u := range units {
		if category[u.Unit] {
			subset[u.Unit] = true
		}
	}
	return subset
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func setString(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for k := range set {
		names = append(names, k)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
