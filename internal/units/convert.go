// Package units canonicalises measurement units and supports
// tolerance-based cross-unit equivalence for conflict review.
package units

import "math"

// Canonical unit names, matching the tagger's unit extraction.
const (
	Meters    = "meters"
	Feet      = "feet"
	Bar       = "bar"
	Psi       = "psi"
	Ata       = "ata"
	Litres    = "litres"
	CubicFeet = "cubic_feet"
)

// pair is a directed (from, to) conversion key.
type pair struct {
	from string
	to   string
}

// conversions is a directed factor table. There is deliberately no
// transitive composition: converting between two units with no direct
// entry is unsupported even when a path exists via a third unit.
var conversions = map[pair]float64{
	// Distance
	{Meters, Feet}: 3.28084,
	{Feet, Meters}: 0.3048,

	// Pressure
	{Bar, Psi}: 14.5038,
	{Psi, Bar}: 0.0689476,
	{Bar, Ata}: 1.01972,
	{Ata, Bar}: 0.980665,
	{Psi, Ata}: 0.068046,
	{Ata, Psi}: 14.6959,

	// Volume
	{Litres, CubicFeet}: 0.0353147,
	{CubicFeet, Litres}: 28.3168,
}

// tolerances is the per-unit slack for fuzzy equivalence checks.
// Unlisted units compare with zero tolerance.
var tolerances = map[string]float64{
	Meters:    0.01, // 1cm
	Feet:      0.1,  // ~3cm
	Bar:       0.1,
	Psi:       1.0,
	Ata:       0.1,
	Litres:    0.1,
	CubicFeet: 0.01,
}

// Convert converts value from one canonical unit to another. A same-unit
// conversion returns the value unchanged. When no direct table entry
// exists, ok is false: unsupported conversion is a normal result callers
// must check, not an error.
func Convert(value float64, from, to string) (converted float64, ok bool) {
	if from == to {
		return value, true
	}
	factor, ok := conversions[pair{from: from, to: to}]
	if !ok {
		return 0, false
	}
	return value * factor, true
}

// Factor returns the directed conversion factor, if one exists.
func Factor(from, to string) (float64, bool) {
	f, ok := conversions[pair{from: from, to: to}]
	return f, ok
}

// WithinTolerance reports whether two values in (possibly different)
// units are equivalent within the target unit's tolerance. Example:
// 30 meters ~ 98.43 feet inside the 0.1ft tolerance. Unsupported
// conversions are never within tolerance.
func WithinTolerance(v1 float64, u1 string, v2 float64, u2 string) bool {
	converted, ok := Convert(v1, u1, u2)
	if !ok {
		return false
	}
	return math.Abs(converted-v2) <= tolerances[u2]
}
