package analyzer

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/secrets"
	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

const instrumentationName = "github.com/fyrsmithlabs/creatived/internal/analyzer"

// Scrubber redacts secrets from content before it is sent to the model.
type Scrubber interface {
	Scrub(content string) *secrets.Result
}

// Analyzer produces campaign analyses.
type Analyzer struct {
	classifier Classifier
	scrubber   Scrubber
	logger     *logging.Logger
	tracer     trace.Tracer
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithScrubber sets the content scrubber.
func WithScrubber(s Scrubber) Option {
	return func(a *Analyzer) { a.scrubber = s }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// New returns an Analyzer. A nil classifier is allowed; every analysis is
// then the zero-confidence default.
func New(c Classifier, opts ...Option) *Analyzer {
	a := &Analyzer{
		classifier: c,
		logger:     logging.NewNop(),
		tracer:     otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HasClassifier reports whether a model is configured.
func (a *Analyzer) HasClassifier() bool { return a.classifier != nil }

// Analyze classifies one asset. It never fails; see the package
// documentation for the fallback order.
func (a *Analyzer) Analyze(ctx context.Context, in Input) taxonomy.CampaignAnalysis {
	ctx, span := a.tracer.Start(ctx, "analyzer.Analyze", trace.WithAttributes(
		attribute.String("file.name", in.FileName),
		attribute.String("file.mime_type", in.MimeType),
	))
	defer span.End()

	traits := in.traits()
	fields := []zap.Field{zap.String("file_name", in.FileName), zap.String("mime_type", in.MimeType)}

	raw, err := a.classify(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "classification failed")
		a.logger.Warn(ctx, "classification failed, using zero-confidence default",
			append(fields, zap.Error(err))...)
		return a.finish(span, ZeroConfidenceDefault())
	}

	res := ParseResponse(raw, traits)
	if res.Status == Malformed {
		span.AddEvent("malformed response", trace.WithAttributes(attribute.String("reason", res.Err.Reason)))
		a.logger.Warn(ctx, "malformed classification response, using intelligent defaults",
			append(fields, zap.Error(res.Err), zap.String("excerpt", res.Err.Excerpt))...)
		return a.finish(span, IntelligentDefaults(traits))
	}

	a.logger.Debug(ctx, "classification parsed",
		append(fields, zap.Float64("confidence", res.Analysis.ConfidenceScore))...)
	return a.finish(span, res.Analysis)
}

func (a *Analyzer) finish(span trace.Span, result taxonomy.CampaignAnalysis) taxonomy.CampaignAnalysis {
	span.SetAttributes(
		attribute.String("analysis.source", string(result.Source)),
		attribute.Float64("analysis.confidence", result.ConfidenceScore),
	)
	AnalysesTotal.WithLabelValues(string(result.Source)).Inc()
	return result
}

// classify performs the single model call. Every failure is returned as a
// *ClassificationServiceError.
func (a *Analyzer) classify(ctx context.Context, in Input) (string, error) {
	if a.classifier == nil {
		return "", &ClassificationServiceError{Err: ErrNoClassifier}
	}

	content := in.Content
	if content != "" && a.scrubber != nil {
		res := a.scrubber.Scrub(content)
		if res.HasFindings() {
			a.logger.Info(ctx, "redacted secrets from content",
				zap.String("file_name", in.FileName),
				zap.Strings("rules", res.RuleIDs()))
		}
		content = res.Scrubbed
	}

	req := Request{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(in.FileName, in.MimeType, content),
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}

	start := time.Now()
	raw, err := a.classifier.Classify(ctx, req)
	ClassificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", &ClassificationServiceError{Err: err}
	}
	if strings.TrimSpace(raw) == "" {
		return "", &ClassificationServiceError{Err: ErrEmptyResponse}
	}
	return raw, nil
}
