package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/secrets"
	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

func staticClassifier(raw string, err error) (Classifier, *[]Request) {
	var calls []Request
	return ClassifierFunc(func(_ context.Context, req Request) (string, error) {
		calls = append(calls, req)
		return raw, err
	}), &calls
}

func TestAnalyze_ModelResponse(t *testing.T) {
	c, calls := staticClassifier(`{"creative_features": {"messaging_clarity": true}, "business_outcomes": {}, "confidence_score": 0.9, "analysis_summary": "Clear copy."}`, nil)
	a := New(c)

	before := testutil.ToFloat64(AnalysesTotal.WithLabelValues(string(taxonomy.SourceModel)))
	got := a.Analyze(context.Background(), Input{FileName: "Brand_Ad.jpg", MimeType: "image/jpeg", Content: "Buy now"})

	assert.Equal(t, taxonomy.SourceModel, got.Source)
	assert.Equal(t, 0.9, got.ConfidenceScore)
	assert.Equal(t, "Clear copy.", got.AnalysisSummary)
	assert.Equal(t, before+1, testutil.ToFloat64(AnalysesTotal.WithLabelValues(string(taxonomy.SourceModel))))

	require.Len(t, *calls, 1)
	req := (*calls)[0]
	assert.Equal(t, SystemPrompt, req.System)
	assert.Equal(t, Temperature, req.Temperature)
	assert.Equal(t, MaxTokens, req.MaxTokens)
	assert.Contains(t, req.Prompt, "Brand_Ad.jpg")
	assert.Contains(t, req.Prompt, "Buy now...")
}

func TestAnalyze_MalformedUsesIntelligentDefaults(t *testing.T) {
	log := logging.NewTestLogger()
	c, _ := staticClassifier("Sorry, I can only describe this image in prose.", nil)
	a := New(c, WithLogger(log.Logger))

	in := Input{FileName: "Brand_Ad.jpg", MimeType: "image/jpeg"}
	got := a.Analyze(context.Background(), in)

	want := IntelligentDefaults(in.traits())
	assert.Equal(t, want, got)
	assert.Equal(t, HeuristicConfidence, got.ConfidenceScore)
	assert.Equal(t, taxonomy.SourceHeuristic, got.Source)

	color, _ := got.CreativeFeatures.Get("design_color_psychology")
	motion, _ := got.CreativeFeatures.Get("design_motion_graphics")
	recall, _ := got.BusinessOutcomes.Get("outcome_brand_brand_recall")
	assert.True(t, color)
	assert.False(t, motion)
	assert.True(t, recall)
	assert.Equal(t,
		"TBWA campaign analysis for Brand_Ad.jpg: Detected visual-focused campaign with strong engagement potential and brand outcomes.",
		got.AnalysisSummary)

	log.AssertLogged(t, zapcore.WarnLevel, "malformed classification response")
}

func TestAnalyze_ServiceFailureUsesZeroDefault(t *testing.T) {
	tests := []struct {
		name string
		c    Classifier
	}{
		{"call error", ClassifierFunc(func(context.Context, Request) (string, error) {
			return "", errors.New("connection refused")
		})},
		{"empty text", ClassifierFunc(func(context.Context, Request) (string, error) {
			return "  \n", nil
		})},
		{"no classifier", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := logging.NewTestLogger()
			a := New(tt.c, WithLogger(log.Logger))

			got := a.Analyze(context.Background(), Input{FileName: "x.mp4", MimeType: "video/mp4"})
			assert.Equal(t, ZeroConfidenceDefault(), got)
			assert.Zero(t, got.CreativeFeatures.Count())
			assert.Zero(t, got.BusinessOutcomes.Count())
			assert.Zero(t, got.CampaignComposition.Count())
			assert.Equal(t, 0.0, got.ConfidenceScore)
			assert.Equal(t, ZeroSummary, got.AnalysisSummary)

			log.AssertLogged(t, zapcore.WarnLevel, "classification failed")
		})
	}
}

func TestAnalyze_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(ClassifierFunc(func(ctx context.Context, _ Request) (string, error) {
		return "", ctx.Err()
	}))
	assert.Equal(t, taxonomy.SourceDefault, a.Analyze(ctx, Input{FileName: "a.png", MimeType: "image/png"}).Source)
}

type fakeScrubber struct{ seen string }

func (f *fakeScrubber) Scrub(content string) *secrets.Result {
	f.seen = content
	return &secrets.Result{
		Scrubbed: strings.ReplaceAll(content, "hunter2", secrets.DefaultRedaction),
		Findings: []secrets.Finding{{RuleID: "password"}},
		ByRule:   map[string]int{"password": 1},
	}
}

func TestAnalyze_ScrubsContent(t *testing.T) {
	c, calls := staticClassifier(`{"creative_features": {}, "business_outcomes": {}}`, nil)
	s := &fakeScrubber{}
	a := New(c, WithScrubber(s))

	a.Analyze(context.Background(), Input{FileName: "brief.txt", MimeType: "text/plain", Content: "login hunter2"})

	assert.Equal(t, "login hunter2", s.seen)
	require.Len(t, *calls, 1)
	assert.NotContains(t, (*calls)[0].Prompt, "hunter2")
	assert.Contains(t, (*calls)[0].Prompt, secrets.DefaultRedaction)
}

func TestAnalyze_EveryPathIsTotal(t *testing.T) {
	inputs := []string{
		`{"creative_features": {"content_social_proof": true}, "business_outcomes": {}}`,
		"not json",
		"",
	}
	for _, raw := range inputs {
		c, _ := staticClassifier(raw, nil)
		got := New(c).Analyze(context.Background(), Input{FileName: "f.mp4", MimeType: "video/mp4"})

		n := 0
		got.CreativeFeatures.Each(func(taxonomy.Definition, bool) { n++ })
		got.BusinessOutcomes.Each(func(taxonomy.Definition, bool) { n++ })
		got.CampaignComposition.Each(func(taxonomy.Definition, bool) { n++ })
		assert.Equal(t, 65, n)
		assert.GreaterOrEqual(t, got.ConfidenceScore, 0.0)
		assert.LessOrEqual(t, got.ConfidenceScore, 1.0)
		assert.NotEmpty(t, got.AnalysisSummary)
	}
}

func TestClassify_WrapsFailures(t *testing.T) {
	_, err := New(nil).classify(context.Background(), Input{FileName: "a.mp4"})
	var svcErr *ClassificationServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.ErrorIs(t, err, ErrNoClassifier)

	c, _ := staticClassifier("", nil)
	_, err = New(c).classify(context.Background(), Input{FileName: "a.mp4"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
