package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/creatived/internal/campaign"
	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/store"
	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

type fakeService struct {
	analyze   func(context.Context, campaign.Request) (*campaign.Result, error)
	latest    func(context.Context, string) (*store.StoredAnalysis, error)
	summaries []store.CampaignSummary
	status    *campaign.StatusReport
	statusErr error
	schemaErr error

	lastRequest campaign.Request
}

func (f *fakeService) AnalyzeDocument(ctx context.Context, req campaign.Request) (*campaign.Result, error) {
	f.lastRequest = req
	return f.analyze(ctx, req)
}

func (f *fakeService) Latest(ctx context.Context, id string) (*store.StoredAnalysis, error) {
	return f.latest(ctx, id)
}

func (f *fakeService) Summaries(context.Context) ([]store.CampaignSummary, error) {
	return f.summaries, nil
}

func (f *fakeService) Status(context.Context) (*campaign.StatusReport, error) {
	return f.status, f.statusErr
}

func (f *fakeService) InitSchema(context.Context) error { return f.schemaErr }

func newTestServer(t *testing.T, svc Service) (*Server, *logging.TestLogger) {
	t.Helper()
	logger := logging.NewTestLogger()
	srv, err := NewServer(svc, logger.Logger, &Config{Host: "localhost", Port: 0, BodyLimit: "1K"})
	require.NoError(t, err)
	return srv, logger
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServer_Validation(t *testing.T) {
	_, err := NewServer(nil, logging.NewNop(), nil)
	assert.Error(t, err)

	_, err = NewServer(&fakeService{}, nil, nil)
	assert.Error(t, err)

	srv, err := NewServer(&fakeService{}, logging.NewNop(), nil)
	require.NoError(t, err)
	assert.Equal(t, 9090, srv.config.Port)
}

func TestServer_Liveness(t *testing.T) {
	srv, _ := newTestServer(t, &fakeService{})

	rec := do(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_Analyze(t *testing.T) {
	svc := &fakeService{
		analyze: func(_ context.Context, req campaign.Request) (*campaign.Result, error) {
			return &campaign.Result{
				DocumentID: req.DocumentID,
				AnalysisID: "an-1",
				Analysis:   taxonomy.CampaignAnalysis{ConfidenceScore: 0.7},
			}, nil
		},
	}
	srv, _ := newTestServer(t, svc)

	rec := do(t, srv, http.MethodPost, "/api/v1/analyses",
		`{"document_id":"doc-1","filename":"spot.mp4","mime_type":"video/mp4","size":42,"campaign_name":"Spring"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got campaign.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "doc-1", got.DocumentID)
	assert.Equal(t, "an-1", got.AnalysisID)
	assert.InDelta(t, 0.7, got.Analysis.ConfidenceScore, 1e-9)

	assert.Equal(t, "spot.mp4", svc.lastRequest.FileName)
	assert.Equal(t, int64(42), svc.lastRequest.Size)
	assert.Equal(t, "Spring", svc.lastRequest.CampaignName)
}

func TestServer_AnalyzeSkipped(t *testing.T) {
	svc := &fakeService{
		analyze: func(_ context.Context, req campaign.Request) (*campaign.Result, error) {
			return &campaign.Result{DocumentID: req.DocumentID, AnalysisID: "old", Skipped: true}, nil
		},
	}
	srv, _ := newTestServer(t, svc)

	rec := do(t, srv, http.MethodPost, "/api/v1/analyses", `{"document_id":"doc-1","filename":"a.png"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"skipped":true`)
}

func TestServer_AnalyzeErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{
			name:     "malformed body",
			body:     `{"filename":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "invalid request",
			body:     `{"filename":""}`,
			err:      fmt.Errorf("%w: filename is required", campaign.ErrInvalidRequest),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "internal failure",
			body:     `{"filename":"a.png"}`,
			err:      errors.New("database is locked"),
			wantCode: http.StatusInternalServerError,
		},
		{
			name:     "body too large",
			body:     `{"filename":"a.png","content":"` + strings.Repeat("x", 2048) + `"}`,
			wantCode: http.StatusRequestEntityTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{
				analyze: func(context.Context, campaign.Request) (*campaign.Result, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return &campaign.Result{}, nil
				},
			}
			srv, _ := newTestServer(t, svc)

			rec := do(t, srv, http.MethodPost, "/api/v1/analyses", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, rec.Body.String(), "database is locked")
		})
	}
}

func TestServer_Latest(t *testing.T) {
	svc := &fakeService{
		latest: func(_ context.Context, id string) (*store.StoredAnalysis, error) {
			if id != "doc-1" {
				return nil, store.ErrNotFound
			}
			return &store.StoredAnalysis{ID: "an-1", DocumentID: id}, nil
		},
	}
	srv, _ := newTestServer(t, svc)

	rec := do(t, srv, http.MethodGet, "/api/v1/documents/doc-1/analysis", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"an-1"`)

	rec = do(t, srv, http.MethodGet, "/api/v1/documents/missing/analysis", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Campaigns(t *testing.T) {
	svc := &fakeService{}
	srv, _ := newTestServer(t, svc)

	rec := do(t, srv, http.MethodGet, "/api/v1/campaigns", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"campaigns":[]}`, rec.Body.String())

	svc.summaries = []store.CampaignSummary{{CampaignName: "Spring", ClientName: "Acme", TotalFiles: 3}}
	rec = do(t, srv, http.MethodGet, "/api/v1/campaigns", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got CampaignsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Campaigns, 1)
	assert.Equal(t, "Spring", got.Campaigns[0].CampaignName)
	assert.Equal(t, int64(3), got.Campaigns[0].TotalFiles)
}

func TestServer_Status(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		svc := &fakeService{status: &campaign.StatusReport{Status: campaign.StatusHealthy}}
		srv, _ := newTestServer(t, svc)

		rec := do(t, srv, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
	})

	t.Run("degraded is still 200", func(t *testing.T) {
		svc := &fakeService{status: &campaign.StatusReport{Status: campaign.StatusDegraded}}
		srv, _ := newTestServer(t, svc)

		rec := do(t, srv, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unhealthy", func(t *testing.T) {
		svc := &fakeService{statusErr: errors.New("connection refused")}
		srv, logger := newTestServer(t, svc)

		rec := do(t, srv, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
		logger.AssertLogged(t, zapcore.ErrorLevel, "status check failed")
	})
}

func TestServer_Maintenance(t *testing.T) {
	srv, _ := newTestServer(t, &fakeService{})
	rec := do(t, srv, http.MethodPost, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "schema initialized")

	srv, _ = newTestServer(t, &fakeService{schemaErr: errors.New("permission denied")})
	rec = do(t, srv, http.MethodPost, "/api/health", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}

func TestServer_RequestIDLogged(t *testing.T) {
	srv, logger := newTestServer(t, &fakeService{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(echo.HeaderXRequestID))
	logger.AssertField(t, "http request", "request.id", "req-123")
	logger.AssertField(t, "http request", "status", int64(http.StatusOK))
}

func TestServer_PrometheusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &fakeService{})

	rec := do(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
