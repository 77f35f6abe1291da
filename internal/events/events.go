// Package events publishes analysis lifecycle events.
//
// Completed analyses are announced as JSON on a NATS subject. Consumers
// must tolerate duplicates: the same document can be analyzed more than
// once, and each analysis carries its own ID.
package events

import (
	"context"
	"time"

	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

// DefaultSubject is the subject analysis events are published on.
const DefaultSubject = "creatived.analysis.completed"

// AnalysisCompleted is published after an analysis is stored.
type AnalysisCompleted struct {
	AnalysisID      string          `json:"analysis_id"`
	DocumentID      string          `json:"document_id"`
	FileName        string          `json:"filename"`
	MimeType        string          `json:"mime_type"`
	Source          taxonomy.Source `json:"source"`
	ConfidenceScore float64         `json:"confidence_score"`
	FeatureCount    int             `json:"creative_feature_count"`
	OutcomeCount    int             `json:"business_outcome_count"`
	CompletedAt     time.Time       `json:"completed_at"`
}

// Publisher delivers events.
type Publisher interface {
	PublishAnalysisCompleted(ctx context.Context, evt AnalysisCompleted) error
	Close() error
}

// NopPublisher discards events. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishAnalysisCompleted(context.Context, AnalysisCompleted) error { return nil }

func (NopPublisher) Close() error { return nil }
