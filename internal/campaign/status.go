package campaign

import (
	"context"
	"time"

	"github.com/fyrsmithlabs/creatived/internal/store"
)

// Status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// StatusReport describes database and classifier readiness.
type StatusReport struct {
	Status     string           `json:"status"`
	Database   DatabaseStatus   `json:"database"`
	Classifier ClassifierStatus `json:"classifier"`
	Counts     *store.Counts    `json:"counts,omitempty"`
	Error      string           `json:"error,omitempty"`
	CheckedAt  time.Time        `json:"checked_at"`
}

// DatabaseStatus reports connectivity and schema presence.
type DatabaseStatus struct {
	Connected     bool     `json:"connected"`
	MissingTables []string `json:"missing_tables,omitempty"`
}

// ClassifierStatus reports whether a model is configured.
type ClassifierStatus struct {
	Configured bool `json:"configured"`
}

// Status checks the database and classifier. The report is always
// returned; err is non-nil when the database cannot be reached or queried,
// in which case Status is unhealthy. Missing tables degrade the status.
func (s *Service) Status(ctx context.Context) (*StatusReport, error) {
	r := &StatusReport{
		Status:     StatusHealthy,
		Classifier: ClassifierStatus{Configured: s.analyzer.HasClassifier()},
		CheckedAt:  s.now().UTC(),
	}

	fail := func(err error) (*StatusReport, error) {
		r.Status = StatusUnhealthy
		r.Error = err.Error()
		return r, err
	}

	if err := s.store.Ping(ctx); err != nil {
		return fail(err)
	}
	r.Database.Connected = true

	missing, err := s.store.MissingTables(ctx)
	if err != nil {
		return fail(err)
	}
	r.Database.MissingTables = missing
	if len(missing) > 0 {
		r.Status = StatusDegraded
		return r, nil
	}

	counts, err := s.store.Counts(ctx)
	if err != nil {
		return fail(err)
	}
	r.Counts = &counts
	return r, nil
}
