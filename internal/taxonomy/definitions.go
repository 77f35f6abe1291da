package taxonomy

import "strings"

// Family sizes.
const (
	NumCreativeFeatures = 32
	NumBusinessOutcomes = 25
	NumCompositionFlags = 8
)

// Traits are the observable properties of an asset that heuristic rules
// are evaluated against.
type Traits struct {
	FileName string
	MimeType string
}

func (t Traits) mime() string { return strings.ToLower(t.MimeType) }

// IsVideo reports whether the asset has a video/* mime type.
func (t Traits) IsVideo() bool { return strings.HasPrefix(t.mime(), "video/") }

// IsImage reports whether the asset has an image/* mime type.
func (t Traits) IsImage() bool { return strings.HasPrefix(t.mime(), "image/") }

// IsPresentation reports whether the mime type names a presentation format.
func (t Traits) IsPresentation() bool { return strings.Contains(t.mime(), "presentation") }

// IsText reports whether the mime type names a document or text format.
func (t Traits) IsText() bool {
	m := t.mime()
	return strings.Contains(m, "document") || strings.Contains(m, "text")
}

// NameContains reports whether the lowercased file name contains any of the
// given fragments.
func (t Traits) NameContains(fragments ...string) bool {
	name := strings.ToLower(t.FileName)
	for _, f := range fragments {
		if strings.Contains(name, f) {
			return true
		}
	}
	return false
}

// Rule computes the heuristic value of a flag from asset traits.
type Rule func(Traits) bool

// Definition describes one flag.
type Definition struct {
	// Name is the wire and storage name, e.g. "design_motion_graphics".
	Name string
	// Label is the name without its family and category prefix.
	Label    string
	Category Category
	// Default is the rule used when no model analysis is available.
	Default Rule
}

func always(Traits) bool         { return true }
func never(Traits) bool          { return false }
func video(t Traits) bool        { return t.IsVideo() }
func presentation(t Traits) bool { return t.IsPresentation() }
func notVideo(t Traits) bool     { return !t.IsVideo() }
func videoOrImage(t Traits) bool { return t.IsVideo() || t.IsImage() }

func videoOrPresentation(t Traits) bool { return t.IsVideo() || t.IsPresentation() }

func nameHas(fragments ...string) Rule {
	return func(t Traits) bool { return t.NameContains(fragments...) }
}

func feature(c Category, label string, r Rule) Definition {
	return Definition{Name: string(c) + "_" + label, Label: label, Category: c, Default: r}
}

func outcome(c Category, label string, r Rule) Definition {
	return Definition{Name: "outcome_" + string(c) + "_" + label, Label: label, Category: c, Default: r}
}

func composition(label string, r Rule) Definition {
	return Definition{Name: label, Label: label, Category: CategoryComposition, Default: r}
}

var featureDefs = [NumCreativeFeatures]Definition{
	feature(CategoryContent, "value_proposition_clear", always),
	feature(CategoryContent, "urgency_messaging", video),
	feature(CategoryContent, "social_proof", presentation),
	feature(CategoryContent, "narrative_construction", video),
	feature(CategoryContent, "benefit_focused", always),
	feature(CategoryContent, "problem_solution_fit", videoOrPresentation),
	feature(CategoryContent, "emotional_hooks", videoOrImage),
	feature(CategoryContent, "credibility_indicators", presentation),

	feature(CategoryDesign, "visual_hierarchy", always),
	feature(CategoryDesign, "color_psychology", videoOrImage),
	feature(CategoryDesign, "typography_impact", notVideo),
	feature(CategoryDesign, "motion_graphics", video),
	feature(CategoryDesign, "brand_consistency", always),
	feature(CategoryDesign, "attention_grabbing", videoOrImage),
	feature(CategoryDesign, "accessibility", never),
	feature(CategoryDesign, "mobile_optimization", nameHas("mobile")),

	feature(CategoryMessaging, "action_oriented", always),
	feature(CategoryMessaging, "clarity", always),
	feature(CategoryMessaging, "personalization", never),
	feature(CategoryMessaging, "emotional_appeal", videoOrImage),
	feature(CategoryMessaging, "call_to_action", always),
	feature(CategoryMessaging, "simplicity", always),
	feature(CategoryMessaging, "relevance", always),

	feature(CategoryTargeting, "behavioral_precision", always),
	feature(CategoryTargeting, "demographic_alignment", always),
	feature(CategoryTargeting, "psychographic_matching", video),
	feature(CategoryTargeting, "lifecycle_stage", always),

	feature(CategoryChannel, "cross_platform", always),
	feature(CategoryChannel, "format_adaptation", always),
	feature(CategoryChannel, "timing_optimization", never),

	feature(CategoryDetected, "storytelling", video),
	feature(CategoryDetected, "emotional_appeal", videoOrImage),
}

var outcomeDefs = [NumBusinessOutcomes]Definition{
	outcome(CategoryEngagement, "high_engagement", videoOrImage),
	outcome(CategoryEngagement, "viral_potential", video),
	outcome(CategoryEngagement, "social_sharing", videoOrImage),
	outcome(CategoryEngagement, "time_spent", video),
	outcome(CategoryEngagement, "repeat_interaction", video),

	outcome(CategoryConversion, "direct_conversion", always),
	outcome(CategoryConversion, "lead_generation", presentation),
	outcome(CategoryConversion, "sales_lift", always),
	outcome(CategoryConversion, "purchase_intent", always),
	outcome(CategoryConversion, "funnel_progression", always),

	outcome(CategoryBrand, "brand_recall", videoOrImage),
	outcome(CategoryBrand, "brand_equity", always),
	outcome(CategoryBrand, "differentiation", always),
	outcome(CategoryBrand, "association", videoOrImage),
	outcome(CategoryBrand, "loyalty", video),

	outcome(CategoryEfficiency, "cost_per_acquisition", always),
	outcome(CategoryEfficiency, "media_optimization", always),
	outcome(CategoryEfficiency, "roi_improvement", always),
	outcome(CategoryEfficiency, "reach_efficiency", always),
	outcome(CategoryEfficiency, "frequency_optimization", never),

	outcome(CategoryBehavioral, "advocacy", video),
	outcome(CategoryBehavioral, "consideration", always),
	outcome(CategoryBehavioral, "preference_shift", videoOrImage),
	outcome(CategoryBehavioral, "usage_increase", always),
	outcome(CategoryBehavioral, "trial_adoption", always),
}

var compositionDefs = [NumCompositionFlags]Definition{
	composition("video_heavy", video),
	composition("image_rich", func(t Traits) bool { return t.IsImage() }),
	composition("text_focused", func(t Traits) bool { return t.IsText() }),
	composition("interactive_elements", nameHas("interactive", "demo")),
	composition("multi_format", always),
	composition("duration_short_form", nameHas("short", "15s", "30s")),
	composition("duration_long_form", nameHas("long", "60s", "90s")),
	composition("aspect_ratio_optimized", nameHas("mobile", "square", "story")),
}

// Features returns the creative feature definitions in table order.
func Features() []Definition { return append([]Definition(nil), featureDefs[:]...) }

// Outcomes returns the business outcome definitions in table order.
func Outcomes() []Definition { return append([]Definition(nil), outcomeDefs[:]...) }

// Composition returns the campaign composition definitions in table order.
func Composition() []Definition { return append([]Definition(nil), compositionDefs[:]...) }
