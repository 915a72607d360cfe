// Package textproc turns raw manual text into hierarchy-scoped sections.
//
// The pipeline is: Clean (noise filter) -> Split (structural parse +
// chunk assembly) -> Validate (drop empty, TOC-like and low-content
// sections). Everything here is pure text analysis: deterministic,
// side-effect free, and independent of storage and providers.
package textproc
