package confidence

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeatureCompleteness(t *testing.T) {
	assert.Equal(t, 0.0, FeatureCompleteness(CreativeSignals{}))
	assert.InDelta(t, 0.5, FeatureCompleteness(CreativeSignals{HasLogo: true, HasCallToAction: true, EmotionalAppeal: true}), 1e-9)
	assert.Equal(t, 1.0, FeatureCompleteness(CreativeSignals{
		HasLogo: true, HasProductShot: true, HasCallToAction: true,
		IsMinimalist: true, UsesBoldTypography: true, EmotionalAppeal: true,
	}))
}

func TestPredictionConsistency(t *testing.T) {
	assert.InDelta(t, 0.2, PredictionConsistency(Predictions{}), 1e-9)
	assert.InDelta(t, 1.0, PredictionConsistency(Predictions{ROI: 1.5, CTR: 1.0, EngagementRate: 3.0, BrandRecall: 40}), 1e-9)
	assert.InDelta(t, 0.6, PredictionConsistency(Predictions{ROI: 2.0, CTR: 0.9, EngagementRate: 3.5, BrandRecall: 39}), 1e-9)
}

func TestScore(t *testing.T) {
	s := CreativeSignals{HasLogo: true, HasCallToAction: true, EmotionalAppeal: true}
	p := Predictions{ROI: 2.0, CTR: 1.2, EngagementRate: 2.0, BrandRecall: 30}

	// (0.5 + 0.6) / 2 = 0.55
	assert.Equal(t, 0.55, Score(s, p, 0))
	assert.Equal(t, 0.6, Score(s, p, 0.05))
}

func TestScore_Clamped(t *testing.T) {
	all := CreativeSignals{
		HasLogo: true, HasProductShot: true, HasCallToAction: true,
		IsMinimalist: true, UsesBoldTypography: true, EmotionalAppeal: true,
	}
	strong := Predictions{ROI: 3, CTR: 2, EngagementRate: 5, BrandRecall: 80}

	assert.Equal(t, MaxScore, Score(all, strong, 0.1))
	assert.Equal(t, MinScore, Score(CreativeSignals{}, Predictions{}, -0.1))
}

func TestEstimate_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 500; i++ {
		s := CreativeSignals{
			HasLogo:         rng.IntN(2) == 0,
			HasProductShot:  rng.IntN(2) == 0,
			HasCallToAction: rng.IntN(2) == 0,
			IsMinimalist:    rng.IntN(2) == 0,
		}
		p := Predictions{ROI: rng.Float64() * 4, CTR: rng.Float64() * 3, EngagementRate: rng.Float64() * 8, BrandRecall: rng.Float64() * 90}

		got := Estimate(s, p, rng)
		assert.GreaterOrEqual(t, got, MinScore)
		assert.LessOrEqual(t, got, MaxScore)
		assert.InDelta(t, Score(s, p, 0), got, 0.11)
	}
}
