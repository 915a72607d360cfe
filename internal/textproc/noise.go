package textproc

import (
	"regexp"
	"strings"

	"github.com/oceanic-labs/manualmind/internal/tagging"
)

// noiseLineRE matches repeating header/footer/admin line signatures.
// It is applied with a substring search, not full-line anchoring, so
// merged multi-field footer lines are still caught.
var noiseLineRE = regexp.MustCompile(`(?i)(?:^|\b)(` +
	`global\s+standard|document\s*no|document\s+no|` +
	`rev\.?\s*no|revision|date\s*issued|issue\s*date|` +
	`document\s+owner|document\s+originator|document\s+approver|` +
	`disclaimer|uncontrolled\s+copy|page\s*:\s*\d+\s*of\s*\d+` +
	`)\b`)

var whitespaceRE = regexp.MustCompile(`\s+`)

// IsNoiseLine reports whether a line is clearly a repeating
// header/footer/admin line.
func IsNoiseLine(line string) bool {
	s := strings.TrimSpace(line)
	if s == "" {
		return false
	}

	// Normalise whitespace to make matching robust.
	norm := whitespaceRE.ReplaceAllString(s, " ")
	if noiseLineRE.MatchString(norm) {
		return true
	}

	return tagging.IsBoilerplateLine(s)
}

// Clean is the light cleanup applied before chunking: it removes
// header/footer/noise lines and collapses blank runs, keeping at most
// two consecutive blank lines so paragraph breaks survive.
func Clean(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blankRun := 0

	for _, line := range lines {
		s := strings.TrimRight(line, " \t\r")

		if IsNoiseLine(s) {
			continue
		}

		if strings.TrimSpace(s) == "" {
			blankRun++
			if blankRun <= 2 {
				out = append(out, "")
			}
			continue
		}

		blankRun = 0
		out = append(out, s)
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// StripNoiseLines is the stronger cleanup used when deciding whether a
// section holds real content. It removes noise lines but keeps the
// remaining structure, again capping blank runs at two.
func StripNoiseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for _, ln := range lines {
		s := strings.TrimSpace(ln)
		if s == "" {
			kept = append(kept, "")
			continue
		}
		if IsNoiseLine(s) {
			continue
		}
		kept = append(kept, strings.TrimRight(ln, " \t\r"))
	}

	out := make([]string, 0, len(kept))
	blank := 0
	for _, ln := range kept {
		if strings.TrimSpace(ln) == "" {
			blank++
			if blank <= 2 {
				out = append(out, "")
			}
		} else {
			blank = 0
			out = append(out, ln)
		}
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}
