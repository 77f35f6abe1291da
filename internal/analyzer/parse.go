package analyzer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

// Defaults applied to a parsed response.
const (
	DefaultModelConfidence = 0.85
	excerptLogRunes        = 200
)

// ParseStatus tags a ParseResult.
type ParseStatus int

const (
	// Parsed means Analysis holds a usable model analysis.
	Parsed ParseStatus = iota
	// Malformed means Err describes why the response was rejected.
	Malformed
)

func (s ParseStatus) String() string {
	if s == Parsed {
		return "parsed"
	}
	return "malformed"
}

// ParseResult is the outcome of ParseResponse.
type ParseResult struct {
	Status   ParseStatus
	Analysis taxonomy.CampaignAnalysis
	Err      *MalformedResponseError
}

type responsePayload struct {
	CreativeFeatures    *taxonomy.CreativeFeatures    `json:"creative_features"`
	BusinessOutcomes    *taxonomy.BusinessOutcomes    `json:"business_outcomes"`
	CampaignComposition *taxonomy.CampaignComposition `json:"campaign_composition"`
	ConfidenceScore     json.RawMessage               `json:"confidence_score"`
	AnalysisSummary     json.RawMessage               `json:"analysis_summary"`
}

// ParseResponse extracts an analysis from raw model text. It locates the
// first balanced JSON object, which must carry both creative_features and
// business_outcomes. Missing composition is inferred from traits, a missing
// or zero confidence becomes 0.85 and a missing summary names the file.
func ParseResponse(raw string, traits taxonomy.Traits) ParseResult {
	obj, ok := firstJSONObject(raw)
	if !ok {
		return malformed(raw, "no JSON object found", nil)
	}

	var p responsePayload
	if err := json.Unmarshal([]byte(obj), &p); err != nil {
		return malformed(raw, "invalid JSON", err)
	}
	if p.CreativeFeatures == nil {
		return malformed(raw, "missing creative_features", nil)
	}
	if p.BusinessOutcomes == nil {
		return malformed(raw, "missing business_outcomes", nil)
	}

	a := taxonomy.CampaignAnalysis{
		CreativeFeatures: *p.CreativeFeatures,
		BusinessOutcomes: *p.BusinessOutcomes,
		ConfidenceScore:  parseConfidence(p.ConfidenceScore),
		AnalysisSummary:  parseSummary(p.AnalysisSummary),
		Source:           taxonomy.SourceModel,
	}
	if p.CampaignComposition != nil {
		a.CampaignComposition = *p.CampaignComposition
	} else {
		a.CampaignComposition = taxonomy.InferComposition(traits)
	}
	if a.AnalysisSummary == "" {
		a.AnalysisSummary = "AI analysis of " + traits.FileName
	}
	return ParseResult{Status: Parsed, Analysis: a}
}

func malformed(raw, reason string, err error) ParseResult {
	r := []rune(raw)
	if len(r) > excerptLogRunes {
		r = r[:excerptLogRunes]
	}
	return ParseResult{
		Status: Malformed,
		Err:    &MalformedResponseError{Reason: reason, Excerpt: string(r), Err: err},
	}
}

// parseConfidence accepts a number or numeric string. Zero, absent and
// unparseable values take the default. Values in [2, 100] are read as
// percentages; anything else is clamped to [0, 1], so 1.5 becomes 1.
func parseConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return DefaultModelConfidence
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return DefaultModelConfidence
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return DefaultModelConfidence
		}
		v = parsed
	}
	if v == 0 || math.IsNaN(v) {
		return DefaultModelConfidence
	}
	if v >= 2 && v <= 100 {
		v /= 100
	}
	return math.Max(0, math.Min(1, v))
}

func parseSummary(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

// firstJSONObject returns the first balanced {...} substring of s. Braces
// inside JSON strings are ignored.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
