package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// tocLeaderRE matches table-of-contents dotted leaders:
	// five or more dots followed by a trailing page number.
	tocLeaderRE = regexp.MustCompile(`\.{5,}\s*\d+\s*$`)

	numberedHeadingRE   = regexp.MustCompile(`^\d+(\.\d+)*\s+[A-Za-z]`)
	hierarchicalRE      = regexp.MustCompile(`^\d+(\.\d+)+\s+\S`)
	columnGapRE         = regexp.MustCompile(`\S\s{3,}\S`)
	standaloneNumberRE  = regexp.MustCompile(`\b\d+(\.\d+)?\b`)
	alphaRE             = regexp.MustCompile(`[A-Za-z]`)
	wideGapRE           = regexp.MustCompile(`\s{3,}`)
	simpleHeadingRE     = regexp.MustCompile(`^(\d+)\s+(.*)$`)
	headingNumTitleRE   = regexp.MustCompile(`^(\d+(?:\.\d+)*)\s+(.*\S)\s*$`)
	punctuationInRestRE = regexp.MustCompile(`[,:;]`)
)

// IsTOCLeader reports whether a line is a table-of-contents dotted-leader
// entry. Such lines are neither tables nor headings.
func IsTOCLeader(line string) bool {
	return tocLeaderRE.MatchString(strings.TrimSpace(line))
}

// IsTableish reports whether a line looks like a table row: it contains
// a column separator, has two or more multi-column gaps, or is mostly
// standalone numbers with no letters.
func IsTableish(line string) bool {
	t := strings.TrimSpace(line)
	if t == "" {
		return false
	}

	// TOC dotted leaders are not tables.
	if tocLeaderRE.MatchString(t) {
		return false
	}

	// Numbered headings are not tables, whatever their spacing.
	if numberedHeadingRE.MatchString(t) {
		return false
	}

	if strings.Contains(t, "|") {
		return true
	}

	if len(columnGapRE.FindAllString(t, -1)) >= 2 {
		return true
	}

	if len(standaloneNumberRE.FindAllString(t, -1)) >= 3 && !alphaRE.MatchString(t) {
		return true
	}

	return false
}

// IsHeadingLine reports whether a line looks like a section heading:
// a hierarchical numbered heading, an ALL CAPS heading, or a
// "1 INTRODUCTION" style top-level heading.
func IsHeadingLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}
	if len(s) < 3 || len(s) > 140 {
		return false
	}

	// TOC dotted-leader lines are not headings.
	if tocLeaderRE.MatchString(s) {
		return false
	}

	// Hierarchical numbered headings: "3.2.1 Chamber Operation".
	if hierarchicalRE.MatchString(s) {
		return true
	}

	// ALL CAPS-ish headings.
	var letters, uppers int
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				uppers++
			}
		}
	}
	if letters > 0 {
		ratio := float64(uppers) / float64(letters)
		if ratio >= 0.75 && !strings.HasSuffix(s, ".") {
			return true
		}
	}

	// "1 INTRODUCTION" style.
	if m := simpleHeadingRE.FindStringSubmatch(s); m != nil {
		rest := strings.TrimSpace(m[2])
		if rest == "" {
			return false
		}
		if wideGapRE.MatchString(line) { // table/list row
			return false
		}
		if strings.HasSuffix(rest, ".") || punctuationInRestRE.MatchString(rest) {
			return false
		}
		if alphaRE.MatchString(rest) {
			return true
		}
	}

	return false
}

// ParseHeading extracts (number, title) from a numbered heading line.
// The title must contain at least one letter; this is the rule that
// keeps numeric list items like "1 5" from being read as headings.
// Returns ok=false when the line is not a numbered heading.
func ParseHeading(line string) (num, title string, ok bool) {
	s := strings.TrimSpace(line)
	m := headingNumTitleRE.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	num = m[1]
	title = strings.TrimSpace(m[2])
	if !alphaRE.MatchString(title) {
		return "", "", false
	}
	return num, title, true
}

// HeadingLevel returns the depth of a dotted heading number:
// "3" is level 1, "3.2" level 2, "3.2.1" level 3.
func HeadingLevel(num string) int {
	return strings.Count(num, ".") + 1
}
