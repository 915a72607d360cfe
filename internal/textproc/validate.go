package textproc

import (
	"regexp"
	"strings"
)

// MinContentChars is the minimum meaningful length for a section body
// after noise stripping.
const MinContentChars = 40

var bulletNoiseRE = regexp.MustCompile(`[\s•xX\-\*]+`)

// IsTOCLike reports whether text is a table-of-contents/index fragment
// that should not be embedded: it mentions "table of contents" or at
// least a quarter of its non-blank lines are dotted-leader entries.
func IsTOCLike(text string) bool {
	if text == "" {
		return false
	}
	if strings.Contains(strings.ToLower(text), "table of contents") {
		return true
	}

	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			lines = append(lines, s)
		}
	}
	if len(lines) == 0 {
		return false
	}

	tocish := 0
	for _, ln := range lines {
		if tocLeaderRE.MatchString(ln) {
			tocish++
		}
	}

	return float64(tocish)/float64(len(lines)) >= 0.25
}

// HasRealContent reports whether text still carries at least minChars of
// substance once noise lines, bullets and whitespace are stripped.
func HasRealContent(text string, minChars int) bool {
	t := StripNoiseLines(text)
	t = strings.TrimSpace(bulletNoiseRE.ReplaceAllString(t, " "))
	return len(t) >= minChars
}

// Validate removes sections that are blank, TOC-like, or reduce to
// noise after stripping.
func Validate(sections []Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, sec := range sections {
		t := strings.TrimSpace(sec.Text)
		if t == "" {
			continue
		}
		if IsTOCLike(t) {
			continue
		}
		if !HasRealContent(t, MinContentChars) {
			continue
		}
		out = append(out, sec)
	}
	return out
}
