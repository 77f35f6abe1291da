package taxonomy

import "strings"

// Source identifies which path produced an analysis.
type Source string

const (
	// SourceModel is a parsed model response.
	SourceModel Source = "model"
	// SourceHeuristic is the intelligent-defaults fallback used when the
	// model answered but the answer could not be used.
	SourceHeuristic Source = "heuristic"
	// SourceDefault is the zero-confidence fallback used when no answer
	// was obtained.
	SourceDefault Source = "default"
)

// CampaignAnalysis is the complete classification of one asset.
type CampaignAnalysis struct {
	CreativeFeatures    CreativeFeatures    `json:"creative_features"`
	BusinessOutcomes    BusinessOutcomes    `json:"business_outcomes"`
	CampaignComposition CampaignComposition `json:"campaign_composition"`
	ConfidenceScore     float64             `json:"confidence_score"`
	AnalysisSummary     string              `json:"analysis_summary"`
	Source              Source              `json:"source,omitempty"`
}

// FileTypeOf buckets a mime type into the coarse file type stored with
// each document.
func FileTypeOf(mimeType string) string {
	m := strings.ToLower(mimeType)
	switch {
	case strings.HasPrefix(m, "video/"):
		return "video"
	case strings.HasPrefix(m, "image/"):
		return "image"
	case strings.HasPrefix(m, "audio/"):
		return "audio"
	case strings.Contains(m, "presentation"), strings.Contains(m, "powerpoint"):
		return "presentation"
	case strings.Contains(m, "document"), strings.Contains(m, "pdf"),
		strings.Contains(m, "msword"), strings.HasPrefix(m, "text/"):
		return "document"
	default:
		return "other"
	}
}
