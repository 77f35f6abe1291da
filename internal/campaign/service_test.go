package campaign

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/creatived/internal/analyzer"
	"github.com/fyrsmithlabs/creatived/internal/events"
	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/store"
	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

const modelResponse = `{"creative_features": {"content_value_proposition_clear": true, "design_visual_hierarchy": true},
"business_outcomes": {"outcome_brand_brand_recall": true}, "confidence_score": 0.88, "analysis_summary": "Strong brand spot."}`

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.AnalysisCompleted
	err    error
}

func (p *recordingPublisher) PublishAnalysisCompleted(_ context.Context, evt events.AnalysisCompleted) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type countingClassifier struct {
	calls int
	raw   string
	err   error
}

func (c *countingClassifier) Classify(context.Context, analyzer.Request) (string, error) {
	c.calls++
	return c.raw, c.err
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := store.Open(context.Background(), store.Options{
		Dialect: store.SQLite,
		DSN:     filepath.Join(t.TempDir(), "campaign.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db, store.SQLite)
	require.NoError(t, st.InitSchema(context.Background()))
	return st
}

type fixture struct {
	svc        *Service
	store      *store.Store
	classifier *countingClassifier
	publisher  *recordingPublisher
	log        *logging.TestLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:      newTestStore(t),
		classifier: &countingClassifier{raw: modelResponse},
		publisher:  &recordingPublisher{},
		log:        logging.NewTestLogger(),
	}
	f.svc = NewService(f.store, analyzer.New(f.classifier),
		WithPublisher(f.publisher),
		WithLogger(f.log.Logger),
	)
	return f
}

func imageRequest() Request {
	return Request{
		DocumentID:   "doc-1",
		FileName:     "Brand_Ad.jpg",
		MimeType:     "image/jpeg",
		Size:         2048,
		Content:      "Buy now",
		CampaignName: "Spring Launch",
		ClientName:   "Acme",
	}
}

func TestAnalyzeDocument_StoresAndPublishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.AnalyzeDocument(ctx, imageRequest())
	require.NoError(t, err)

	assert.Equal(t, "doc-1", res.DocumentID)
	assert.NotEmpty(t, res.AnalysisID)
	assert.False(t, res.Skipped)
	assert.Equal(t, taxonomy.SourceModel, res.Analysis.Source)
	assert.Equal(t, 0.88, res.Analysis.ConfidenceScore)

	stored, err := f.store.LatestAnalysis(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, res.AnalysisID, stored.ID)
	assert.Equal(t, res.Analysis, stored.Analysis)

	require.Len(t, f.publisher.events, 1)
	evt := f.publisher.events[0]
	assert.Equal(t, res.AnalysisID, evt.AnalysisID)
	assert.Equal(t, "doc-1", evt.DocumentID)
	assert.Equal(t, 2, evt.FeatureCount)
	assert.Equal(t, 1, evt.OutcomeCount)
}

func TestAnalyzeDocument_SkipsAlreadyAnalyzed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.AnalyzeDocument(ctx, imageRequest())
	require.NoError(t, err)

	second, err := f.svc.AnalyzeDocument(ctx, imageRequest())
	require.NoError(t, err)

	assert.True(t, second.Skipped)
	assert.Equal(t, first.AnalysisID, second.AnalysisID)
	assert.Equal(t, first.Analysis, second.Analysis)
	assert.Equal(t, 1, f.classifier.calls)
	assert.Len(t, f.publisher.events, 1)
	f.log.AssertLogged(t, zapcore.InfoLevel, "document already analyzed, skipping")
}

func TestAnalyzeDocument_ForceReanalyzes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.AnalyzeDocument(ctx, imageRequest())
	require.NoError(t, err)

	req := imageRequest()
	req.Force = true
	second, err := f.svc.AnalyzeDocument(ctx, req)
	require.NoError(t, err)

	assert.False(t, second.Skipped)
	assert.NotEqual(t, first.AnalysisID, second.AnalysisID)
	assert.Equal(t, 2, f.classifier.calls)

	counts, err := f.store.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Documents)
	assert.Equal(t, int64(2), counts.Analyses)
}

func TestAnalyzeDocument_ClassifierFailureStoresDefault(t *testing.T) {
	f := newFixture(t)
	f.classifier.raw = ""
	f.classifier.err = errors.New("connection refused")

	res, err := f.svc.AnalyzeDocument(context.Background(), imageRequest())
	require.NoError(t, err)

	assert.Equal(t, taxonomy.SourceDefault, res.Analysis.Source)
	assert.Zero(t, res.Analysis.ConfidenceScore)

	has, err := f.store.HasAnalysis(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestAnalyzeDocument_PublishFailureIsLogged(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("nats: connection closed")

	res, err := f.svc.AnalyzeDocument(context.Background(), imageRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, res.AnalysisID)

	f.log.AssertLogged(t, zapcore.WarnLevel, "failed to publish analysis event")
}

func TestAnalyzeDocument_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AnalyzeDocument(context.Background(), Request{DocumentID: "doc-1", FileName: "  "})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.AnalyzeDocument(context.Background(), Request{FileName: "a.png", Size: -1})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, f.classifier.calls)
}

func TestAnalyzeDocument_GeneratesDocumentID(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.AnalyzeDocument(context.Background(), Request{FileName: "Deck.pptx", MimeType: "application/vnd.openxmlformats-officedocument.presentationml.presentation"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.DocumentID)
}

func TestAnalyzeDocument_StorageErrorPropagates(t *testing.T) {
	f := newFixture(t)
	// A store without schema fails on registration.
	db, err := store.Open(context.Background(), store.Options{Dialect: store.SQLite, DSN: filepath.Join(t.TempDir(), "empty.db")})
	require.NoError(t, err)
	defer db.Close()
	svc := NewService(store.New(db, store.SQLite), analyzer.New(f.classifier))

	_, err = svc.AnalyzeDocument(context.Background(), imageRequest())
	var se *store.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "register_document", se.Op)
}

func TestLatest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Latest(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = f.svc.Latest(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPopulateAndSummaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	n, err := f.svc.Populate(ctx, 20, 42)
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	summaries, err := f.svc.Summaries(ctx)
	require.NoError(t, err)
	var total int64
	for _, s := range summaries {
		total += s.TotalFiles
	}
	assert.Equal(t, int64(20), total)

	_, err = f.svc.Populate(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
