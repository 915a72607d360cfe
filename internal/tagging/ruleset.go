package tagging

import (
	"regexp"

	"github.com/oceanic-labs/manualmind/internal/core/domain"
)

// rule maps one sub-label to its ordered trigger keywords. Keywords are
// matched case-insensitively as substrings.
type rule struct {
	label    string
	keywords []string
}

// documentTypeKeywords maps each document type to its trigger keywords.
// Detection walks the types in domain.DocTypePriority order, so a
// specific type always outranks a generic one sharing a keyword.
var documentTypeKeywords = map[domain.DocType][]string{
	domain.DocTypeClientSpec: {
		"client specification",
		"company standard",
		"project specification",
	},
	domain.DocTypeLegislation: {
		"act",
		"regulation",
		"law",
		"statutory",
	},
	domain.DocTypeStandard: {
		"imca",
		"norsok",
		"dmac",
		"iogp",
		"as2299",
		"iso",
		"standard",
	},
	domain.DocTypeGuidance: {
		"guidance",
		"recommended practice",
		"code of practice",
	},
	domain.DocTypeManual: {
		"diving operations manual",
		"daughter craft diving manual",
		"procedure",
		"operations manual",
		"tup manual",
	},
}

var documentTypeRules = buildDocumentTypeRules()

func buildDocumentTypeRules() []rule {
	rules := make([]rule, 0, len(domain.DocTypePriority))
	for _, dt := range domain.DocTypePriority {
		rules = append(rules, rule{label: string(dt), keywords: documentTypeKeywords[dt]})
	}
	return rules
}

// The remaining rulesets. Slice order is load-bearing: categories iterate
// sub-labels in declaration order and the first match wins, so a more
// specific label must precede a generic one that shares a keyword.
var (
	divingModeRules = []rule{
		{label: "air", keywords: []string{"air diving", "surface supplied air"}},
		{label: "nitrox", keywords: []string{"nitrox", "surface supplied nitrox", "enriched air"}},
		{label: "surdo2", keywords: []string{"surface decompression", "surdo2", "decompression on oxygen"}},
		{label: "tup", keywords: []string{"transfer under pressure", "tup"}},
		{label: "saturation", keywords: []string{"saturation diving", "sat diving"}},
		{label: "dp", keywords: []string{"dynamic positioning", "dp vessel"}},
	}

	physiologyRules = []rule{
		{label: "oxygen", keywords: []string{"oxygen", "ppo2", "hyperoxia", "cns", "otu", "esot"}},
		{label: "carbon_dioxide", keywords: []string{"carbon dioxide", "co2", "hypercapnia"}},
		{label: "nitrogen", keywords: []string{"nitrogen", "nitrogen narcosis", "narcosis"}},
		{label: "hypoxia", keywords: []string{"hypoxia", "low oxygen"}},
		{label: "barotrauma", keywords: []string{"barotrauma", "lung overexpansion"}},
		{label: "dcs", keywords: []string{"decompression sickness", "dcs", "the bends"}},
		{label: "age", keywords: []string{"arterial gas embolism", "age"}},
	}

	emergencyRules = []rule{
		{label: "bailout", keywords: []string{"bailout", "emergency gas", "loss of primary gas"}},
		{label: "medical", keywords: []string{"medical emergency", "injury", "illness", "first aid", "drabc"}},
		{label: "equipment_failure", keywords: []string{"equipment failure", "system failure", "loss of power", "malfunction"}},
		{label: "abort", keywords: []string{"abort", "terminate dive", "stop work"}},
		{label: "weather", keywords: []string{"weather abort", "environmental conditions", "sea state"}},
		{label: "rescue", keywords: []string{"rescue", "diver recovery"}},
	}

	systemsRules = []rule{
		{label: "chamber", keywords: []string{"ddc", "deck decompression chamber", "chamber", "medical lock", "inner lock", "outer lock"}},
		{label: "lars", keywords: []string{"lars", "launch and recovery system"}},
		{label: "umbilical", keywords: []string{"umbilical", "diver umbilical"}},
		{label: "bailout", keywords: []string{"bail-out bottle", "bailout bottle"}},
		{label: "breathing_interface", keywords: []string{"bib", "helmet", "mask"}},
		{label: "gas_supply", keywords: []string{"compressor", "air quad", "oxygen bank", "gas storage"}},
	}

	// Normative tiers in priority order: the most restrictive tier wins
	// even if a lower tier's keyword appears earlier in the text.
	normativeRules = []rule{
		{label: string(domain.NormativeProhibited), keywords: []string{"shall not", "must not", "not permitted"}},
		{label: string(domain.NormativeMandatory), keywords: []string{"shall", "must", "required", "mandatory"}},
		{label: string(domain.NormativeRecommended), keywords: []string{"should", "recommended"}},
	}

	qualifierRules = []rule{
		{label: string(domain.QualifierMinLimit), keywords: []string{"minimum", "at least", "not less than"}},
		{label: string(domain.QualifierMaxLimit), keywords: []string{"maximum", "no more than", "not greater than"}},
		{label: string(domain.QualifierLimit), keywords: []string{"limit", "threshold"}},
	}
)

// unitPattern pairs a compiled recogniser with its canonical unit name.
type unitPattern struct {
	re   *regexp.Regexp
	unit string
}

var unitPatterns = []unitPattern{
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(m|metres?|meters?)\b`), unit: "meters"},
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(ft|feet)\b`), unit: "feet"},
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(bar)\b`), unit: "bar"},
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(psi)\b`), unit: "psi"},
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(ata|atm)\b`), unit: "ata"},
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(l|litres?|liters?)\b`), unit: "litres"},
	{re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(cf|cu\.?\s*ft)\b`), unit: "cubic_feet"},
}

// boilerplatePatterns are anchored prefixes for admin lines, used by the
// noise filter during ingestion hygiene.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*document\s+no\s*:`),
	regexp.MustCompile(`(?i)^\s*rev\.?\s*no\s*:`),
	regexp.MustCompile(`(?i)^\s*date\s+issued\s*:`),
	regexp.MustCompile(`(?i)^\s*disclaimer\s*:`),
	regexp.MustCompile(`(?i)^\s*document\s+(owner|originator|approver)\s*:`),
	regexp.MustCompile(`(?i)^\s*page\s*:\s*\d+\s*of\s*\d+`),
}
