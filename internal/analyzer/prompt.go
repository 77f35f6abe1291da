package analyzer

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

// Classification call parameters.
const (
	Temperature     = 0.3
	MaxTokens       = 2000
	MaxExcerptRunes = 1000
)

// SystemPrompt frames the model as a creative analyst.
const SystemPrompt = `You are a creative analysis expert for advertising campaigns.
Analyze campaign files, detect their creative features and predict their business outcomes.
Return structured JSON with a boolean value for every feature and outcome.`

// Input describes the asset to analyze.
type Input struct {
	FileName string
	MimeType string
	// Content is optional extracted text.
	Content string
}

func (in Input) traits() taxonomy.Traits {
	return taxonomy.Traits{FileName: in.FileName, MimeType: in.MimeType}
}

// excerpt caps content at MaxExcerptRunes runes and marks it as partial.
func excerpt(content string) string {
	r := []rune(content)
	if len(r) > MaxExcerptRunes {
		r = r[:MaxExcerptRunes]
	}
	return string(r) + "..."
}

// BuildPrompt renders the user prompt. content is embedded as given; the
// caller is expected to have scrubbed it.
func BuildPrompt(fileName, mimeType, content string) string {
	var b strings.Builder

	b.WriteString("Analyze this campaign file and respond with a single JSON object.\n\n")
	fmt.Fprintf(&b, "File: %s\n", fileName)
	fmt.Fprintf(&b, "Type: %s\n", mimeType)
	if content != "" {
		fmt.Fprintf(&b, "Content excerpt:\n%s\n", excerpt(content))
	}

	b.WriteString("\nDetect these creative features. Key each one as \"<category>_<feature>\":\n")
	writeGroups(&b, taxonomy.FeatureCategories, taxonomy.Features())

	b.WriteString("\nPredict these business outcomes. Key each one as \"outcome_<category>_<outcome>\":\n")
	writeGroups(&b, taxonomy.OutcomeCategories, taxonomy.Outcomes())

	b.WriteString("\nCampaign composition flags: ")
	labels := make([]string, 0, taxonomy.NumCompositionFlags)
	for _, d := range taxonomy.Composition() {
		labels = append(labels, d.Label)
	}
	b.WriteString(strings.Join(labels, ", "))

	b.WriteString("\n\nRespond with JSON only, in this shape:\n")
	b.WriteString(`{"creative_features": {"content_value_proposition_clear": true, ...}, `)
	b.WriteString(`"business_outcomes": {"outcome_engagement_high_engagement": false, ...}, `)
	b.WriteString(`"campaign_composition": {"video_heavy": true, ...}, `)
	b.WriteString(`"confidence_score": 0.0-1.0, "analysis_summary": "one or two sentences"}`)
	b.WriteString("\n")
	return b.String()
}

func writeGroups(b *strings.Builder, order []taxonomy.Category, defs []taxonomy.Definition) {
	byCategory := make(map[taxonomy.Category][]string, len(order))
	for _, d := range defs {
		byCategory[d.Category] = append(byCategory[d.Category], d.Label)
	}
	for _, c := range order {
		fmt.Fprintf(b, "- %s: %s\n", c, strings.Join(byCategory[c], ", "))
	}
}
