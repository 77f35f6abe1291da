package taxonomy

import "strings"

// Category groups related flags.
type Category string

// Creative feature categories.
const (
	CategoryContent   Category = "content"
	CategoryDesign    Category = "design"
	CategoryMessaging Category = "messaging"
	CategoryTargeting Category = "targeting"
	CategoryChannel   Category = "channel"
	CategoryDetected  Category = "detected"
	CategoryOther     Category = "other"
)

// Business outcome categories.
const (
	CategoryEngagement Category = "engagement"
	CategoryConversion Category = "conversion"
	CategoryBrand      Category = "brand"
	CategoryEfficiency Category = "efficiency"
	CategoryBehavioral Category = "behavioral"
	CategoryBusiness   Category = "business"
)

// CategoryComposition is the single category of campaign composition flags.
const CategoryComposition Category = "composition"

// FeatureCategories lists creative feature categories in prompt order.
var FeatureCategories = []Category{
	CategoryContent,
	CategoryDesign,
	CategoryMessaging,
	CategoryTargeting,
	CategoryChannel,
	CategoryDetected,
}

// OutcomeCategories lists business outcome categories in match order.
// CategoryOfOutcome depends on this order.
var OutcomeCategories = []Category{
	CategoryEngagement,
	CategoryConversion,
	CategoryBrand,
	CategoryEfficiency,
	CategoryBehavioral,
}

// CategoryOfFeature returns the category encoded in the leading token of a
// creative feature name, or CategoryOther when no known prefix matches.
func CategoryOfFeature(name string) Category {
	for _, c := range FeatureCategories {
		if strings.HasPrefix(name, string(c)+"_") {
			return c
		}
	}
	return CategoryOther
}

// CategoryOfOutcome returns the first outcome category whose name appears
// anywhere in the outcome name, or CategoryBusiness when none does.
func CategoryOfOutcome(name string) Category {
	for _, c := range OutcomeCategories {
		if strings.Contains(name, string(c)) {
			return c
		}
	}
	return CategoryBusiness
}
