// Package confidence scores how much trust to place in a synthetic
// campaign record, from its creative signals and predicted performance.
package confidence

import (
	"math"
	"math/rand/v2"
)

// signalCount is the fixed divisor for feature completeness. It is the
// number of creative signals, not the number of taxonomy features.
const signalCount = 6

// Bounds of the final score.
const (
	MinScore = 0.1
	MaxScore = 0.99
)

// maxJitter bounds the random perturbation added to the base score.
const maxJitter = 0.1

// CreativeSignals are the six boolean creative-analysis signals.
type CreativeSignals struct {
	HasLogo            bool `json:"has_logo"`
	HasProductShot     bool `json:"has_product_shot"`
	HasCallToAction    bool `json:"has_call_to_action"`
	IsMinimalist       bool `json:"is_minimalist"`
	UsesBoldTypography bool `json:"uses_bold_typography"`
	EmotionalAppeal    bool `json:"emotional_appeal"`
}

// Count returns the number of signals that are present.
func (s CreativeSignals) Count() int {
	n := 0
	for _, v := range []bool{
		s.HasLogo, s.HasProductShot, s.HasCallToAction,
		s.IsMinimalist, s.UsesBoldTypography, s.EmotionalAppeal,
	} {
		if v {
			n++
		}
	}
	return n
}

// Predictions are the performance figures the consistency term inspects.
type Predictions struct {
	ROI            float64
	CTR            float64
	EngagementRate float64
	BrandRecall    float64
}

// FeatureCompleteness is the share of creative signals present.
func FeatureCompleteness(s CreativeSignals) float64 {
	return float64(s.Count()) / signalCount
}

// PredictionConsistency awards 0.2 per prediction clearing its threshold,
// on top of a constant 0.2.
func PredictionConsistency(p Predictions) float64 {
	score := 0.2
	if p.ROI >= 1.5 {
		score += 0.2
	}
	if p.CTR >= 1.0 {
		score += 0.2
	}
	if p.EngagementRate >= 3.0 {
		score += 0.2
	}
	if p.BrandRecall >= 40 {
		score += 0.2
	}
	return score
}

// Score combines the two terms with an explicit jitter, clamps the result
// to [MinScore, MaxScore] and rounds it to two decimals.
func Score(s CreativeSignals, p Predictions, jitter float64) float64 {
	base := (FeatureCompleteness(s) + PredictionConsistency(p)) / 2
	v := math.Max(MinScore, math.Min(MaxScore, base+jitter))
	return math.Round(v*100) / 100
}

// Estimate is Score with a jitter drawn uniformly from [-0.1, 0.1).
func Estimate(s CreativeSignals, p Predictions, rng *rand.Rand) float64 {
	return Score(s, p, (rng.Float64()-0.5)*2*maxJitter)
}
