package tagging

import (
	"regexp"
	"strings"
)

// maxTopicIDLen caps topic ids; longer slugs are cut at the last
// underscore boundary inside the cap.
const maxTopicIDLen = 100

var (
	headingNumPrefixRE = regexp.MustCompile(`^[\d.]+\s*`)
	nonSlugRE          = regexp.MustCompile(`[^a-z0-9_]`)
	underscoreRunRE    = regexp.MustCompile(`_+`)
)

// TopicID derives a stable topic slug from a heading. The derivation is
// a pure function: the same heading always yields the same id.
//
//	"1.5 Bailout Gas Requirements" -> "bailout_gas_requirements"
//	"2 DIVING OPERATIONS"          -> "diving_operations"
//	""                             -> ""
func TopicID(heading string) string {
	if heading == "" {
		return ""
	}

	// Drop the heading number prefix ("1.5 ", "2.3.4 ").
	text := headingNumPrefixRE.ReplaceAllString(heading, "")

	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, " ", "_")
	text = nonSlugRE.ReplaceAllString(text, "")
	text = underscoreRunRE.ReplaceAllString(text, "_")
	text = strings.Trim(text, "_")

	if len(text) > maxTopicIDLen {
		text = text[:maxTopicIDLen]
		if idx := strings.LastIndex(text, "_"); idx >= 0 {
			text = text[:idx]
		}
	}

	return text
}
