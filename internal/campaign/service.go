// Package campaign orchestrates document analysis: registration,
// de-duplication, classification, persistence and event publication.
package campaign

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/creatived/internal/analyzer"
	"github.com/fyrsmithlabs/creatived/internal/events"
	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/store"
	"github.com/fyrsmithlabs/creatived/internal/synth"
	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

const instrumentationName = "github.com/fyrsmithlabs/creatived/internal/campaign"

// ErrInvalidRequest is returned for requests missing required fields.
var ErrInvalidRequest = errors.New("invalid request")

// Store is the persistence the service needs.
type Store interface {
	RegisterDocument(ctx context.Context, doc store.Document) error
	HasAnalysis(ctx context.Context, documentID string) (bool, error)
	LatestAnalysis(ctx context.Context, documentID string) (*store.StoredAnalysis, error)
	Save(ctx context.Context, documentID string, analysis taxonomy.CampaignAnalysis) (string, error)
	InitSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	MissingTables(ctx context.Context) ([]string, error)
	Counts(ctx context.Context) (store.Counts, error)
	CampaignSummaries(ctx context.Context) ([]store.CampaignSummary, error)
	SaveCampaigns(ctx context.Context, campaigns []synth.Campaign) (int, error)
}

// Analyzer classifies assets. It never fails.
type Analyzer interface {
	Analyze(ctx context.Context, in analyzer.Input) taxonomy.CampaignAnalysis
	HasClassifier() bool
}

// Request asks for one document to be analyzed.
type Request struct {
	// DocumentID identifies the asset. One is generated when empty.
	DocumentID   string `json:"document_id"`
	FileName     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	Content      string `json:"content,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	ClientName   string `json:"client_name,omitempty"`
	// Force re-analyzes a document that already has an analysis.
	Force bool `json:"force,omitempty"`
}

// Result is the outcome of AnalyzeDocument.
type Result struct {
	DocumentID string                    `json:"document_id"`
	AnalysisID string                    `json:"analysis_id"`
	Analysis   taxonomy.CampaignAnalysis `json:"analysis"`
	// Skipped is set when an existing analysis was returned instead of
	// running a new one.
	Skipped bool `json:"skipped"`
}

// Service runs analyses against a store.
type Service struct {
	store     Store
	analyzer  Analyzer
	publisher events.Publisher
	logger    *logging.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher sets the event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service. Events are discarded unless a publisher is
// supplied.
func NewService(st Store, a Analyzer, opts ...Option) *Service {
	s := &Service{
		store:     st,
		analyzer:  a,
		publisher: events.NopPublisher{},
		logger:    logging.NewNop(),
		tracer:    otel.Tracer(instrumentationName),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (r *Request) validate() error {
	r.FileName = strings.TrimSpace(r.FileName)
	r.DocumentID = strings.TrimSpace(r.DocumentID)
	if r.FileName == "" {
		return fmt.Errorf("%w: filename is required", ErrInvalidRequest)
	}
	if r.Size < 0 {
		return fmt.Errorf("%w: size must not be negative", ErrInvalidRequest)
	}
	if r.DocumentID == "" {
		r.DocumentID = uuid.NewString()
	}
	return nil
}

// AnalyzeDocument registers the document, analyzes and stores it, then
// publishes a completion event. A document that already has an analysis is
// not re-analyzed unless req.Force is set; the stored analysis is returned
// with Skipped set. Publish failures are logged, not returned.
func (s *Service) AnalyzeDocument(ctx context.Context, req Request) (_ *Result, err error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	ctx = logging.WithDocumentID(ctx, req.DocumentID)
	ctx, span := s.tracer.Start(ctx, "campaign.AnalyzeDocument", trace.WithAttributes(
		attribute.String("document.id", req.DocumentID),
		attribute.Bool("force", req.Force),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "analyze document failed")
		}
		span.End()
	}()

	if err := s.store.RegisterDocument(ctx, store.Document{
		ID:           req.DocumentID,
		FileName:     req.FileName,
		MimeType:     req.MimeType,
		Size:         req.Size,
		CampaignName: req.CampaignName,
		ClientName:   req.ClientName,
	}); err != nil {
		return nil, fmt.Errorf("registering document: %w", err)
	}

	if !req.Force {
		has, err := s.store.HasAnalysis(ctx, req.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("checking existing analysis: %w", err)
		}
		if has {
			prev, err := s.store.LatestAnalysis(ctx, req.DocumentID)
			if err != nil {
				return nil, fmt.Errorf("loading existing analysis: %w", err)
			}
			s.logger.Info(ctx, "document already analyzed, skipping")
			span.SetAttributes(attribute.Bool("skipped", true))
			return &Result{
				DocumentID: req.DocumentID,
				AnalysisID: prev.ID,
				Analysis:   prev.Analysis,
				Skipped:    true,
			}, nil
		}
	}

	analysis := s.analyzer.Analyze(ctx, analyzer.Input{
		FileName: req.FileName,
		MimeType: req.MimeType,
		Content:  req.Content,
	})

	analysisID, err := s.store.Save(ctx, req.DocumentID, analysis)
	if err != nil {
		return nil, fmt.Errorf("saving analysis: %w", err)
	}

	s.logger.Info(ctx, "analysis stored",
		zap.String("analysis_id", analysisID),
		zap.String("source", string(analysis.Source)),
		zap.Float64("confidence", analysis.ConfidenceScore))

	evt := events.AnalysisCompleted{
		AnalysisID:      analysisID,
		DocumentID:      req.DocumentID,
		FileName:        req.FileName,
		MimeType:        req.MimeType,
		Source:          analysis.Source,
		ConfidenceScore: analysis.ConfidenceScore,
		FeatureCount:    analysis.CreativeFeatures.Count(),
		OutcomeCount:    analysis.BusinessOutcomes.Count(),
		CompletedAt:     s.now().UTC(),
	}
	if err := s.publisher.PublishAnalysisCompleted(ctx, evt); err != nil {
		s.logger.Warn(ctx, "failed to publish analysis event", zap.Error(err))
	}

	return &Result{
		DocumentID: req.DocumentID,
		AnalysisID: analysisID,
		Analysis:   analysis,
	}, nil
}

// Latest returns the newest stored analysis for documentID.
func (s *Service) Latest(ctx context.Context, documentID string) (*store.StoredAnalysis, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document id is required", ErrInvalidRequest)
	}
	return s.store.LatestAnalysis(ctx, documentID)
}

// Summaries returns per-campaign aggregates.
func (s *Service) Summaries(ctx context.Context) ([]store.CampaignSummary, error) {
	return s.store.CampaignSummaries(ctx)
}

// InitSchema creates missing tables.
func (s *Service) InitSchema(ctx context.Context) error {
	if err := s.store.InitSchema(ctx); err != nil {
		return err
	}
	s.logger.Info(ctx, "schema initialized")
	return nil
}

// Populate generates n synthetic campaigns from seed and stores them. It
// returns how many were inserted; campaigns already present are skipped.
func (s *Service) Populate(ctx context.Context, n int, seed uint64) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: count must be positive", ErrInvalidRequest)
	}
	gen := synth.NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
	inserted, err := s.store.SaveCampaigns(ctx, gen.Generate(n))
	if err != nil {
		return 0, fmt.Errorf("saving campaigns: %w", err)
	}
	s.logger.Info(ctx, "synthetic campaigns loaded",
		zap.Int("requested", n), zap.Int("inserted", inserted), zap.Uint64("seed", seed))
	return inserted, nil
}
