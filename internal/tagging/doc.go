// Package tagging applies the static diving-operations ruleset to chunk
// text: document type, diving modes, physiology and gas hazards,
// emergency detection, systems and equipment, normative language,
// conflict qualifiers, and canonical unit extraction.
//
// All tagging is deterministic keyword/regex matching. The ruleset is
// compiled once at package init into ordered tables; declaration order
// determines first-match precedence, so overlapping keywords (e.g.
// "abort" vs "weather abort") resolve the same way on every run.
package tagging
