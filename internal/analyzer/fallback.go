package analyzer

import (
	"fmt"

	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

// Fallback confidence levels.
const (
	HeuristicConfidence = 0.75
	ZeroConfidence      = 0.0
)

// ZeroSummary is the summary of the zero-confidence default.
const ZeroSummary = "Default analysis - no specific features detected"

// IntelligentDefaults evaluates every flag's default rule against the
// asset's file name and mime type.
func IntelligentDefaults(traits taxonomy.Traits) taxonomy.CampaignAnalysis {
	kind := "content-rich"
	switch {
	case traits.IsVideo():
		kind = "video-driven"
	case traits.IsImage():
		kind = "visual-focused"
	}
	return taxonomy.CampaignAnalysis{
		CreativeFeatures:    taxonomy.DefaultFeatures(traits),
		BusinessOutcomes:    taxonomy.DefaultOutcomes(traits),
		CampaignComposition: taxonomy.InferComposition(traits),
		ConfidenceScore:     HeuristicConfidence,
		AnalysisSummary: fmt.Sprintf(
			"TBWA campaign analysis for %s: Detected %s campaign with strong engagement potential and brand outcomes.",
			traits.FileName, kind),
		Source: taxonomy.SourceHeuristic,
	}
}

// ZeroConfidenceDefault is the analysis used when no model answer exists.
// Every flag is false.
func ZeroConfidenceDefault() taxonomy.CampaignAnalysis {
	return taxonomy.CampaignAnalysis{
		ConfidenceScore: ZeroConfidence,
		AnalysisSummary: ZeroSummary,
		Source:          taxonomy.SourceDefault,
	}
}
