// Package taxonomy defines the creative-feature, business-outcome and
// campaign-composition flag families used to describe a campaign asset.
//
// Each family is driven by one ordered definition table. The table is the
// only place a flag name, its category and its heuristic default rule are
// written down; prompt generation, fallback analysis, JSON encoding and the
// per-flag lookup rows all iterate it.
//
// Flag sets are fixed-size boolean arrays indexed in table order, so every
// value of CreativeFeatures carries all 32 features, BusinessOutcomes all 25
// outcomes and CampaignComposition all 8 composition flags.
package taxonomy
