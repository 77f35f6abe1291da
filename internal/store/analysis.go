package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/fyrsmithlabs/creatived/internal/taxonomy"
)

// Document is one registered campaign asset.
type Document struct {
	ID           string    `json:"document_id"`
	FileName     string    `json:"filename"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	CampaignName string    `json:"campaign_name,omitempty"`
	ClientName   string    `json:"client_name,omitempty"`
	FileType     string    `json:"file_type"`
	ProcessedAt  time.Time `json:"processed_at"`
}

// StoredAnalysis is a campaign_analysis row decoded back into an analysis.
type StoredAnalysis struct {
	ID         string                    `json:"id"`
	DocumentID string                    `json:"document_id"`
	Analysis   taxonomy.CampaignAnalysis `json:"analysis"`
	CreatedAt  time.Time                 `json:"analysis_timestamp"`
}

// RegisterDocument inserts doc unless a document with the same ID exists.
// An empty FileType is derived from the mime type.
func (s *Store) RegisterDocument(ctx context.Context, doc Document) (err error) {
	ctx, done := s.observe(ctx, "register_document")
	defer func() { done(err) }()

	if doc.ID == "" {
		return storageErr("register_document", TableDocuments, errors.New("document id is required"))
	}
	if doc.FileType == "" {
		doc.FileType = taxonomy.FileTypeOf(doc.MimeType)
	}
	if doc.ProcessedAt.IsZero() {
		doc.ProcessedAt = s.timestamp()
	}

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO campaign_documents
			(id, document_id, filename, mime_type, size, campaign_name, client_name, file_type, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (document_id) DO NOTHING`),
		uuid.NewString(), doc.ID, doc.FileName, doc.MimeType, doc.Size,
		nullString(doc.CampaignName), nullString(doc.ClientName), doc.FileType, doc.ProcessedAt.UTC(),
	)
	return storageErr("register_document", TableDocuments, err)
}

// Save writes analysis for documentID: one campaign_analysis row, one
// creative_features_lookup row per feature and one business_outcomes_lookup
// row per outcome, all in a single transaction. It returns the new
// analysis ID. The document must already be registered.
func (s *Store) Save(ctx context.Context, documentID string, analysis taxonomy.CampaignAnalysis) (_ string, err error) {
	ctx, done := s.observe(ctx, "save")
	defer func() { done(err) }()
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("document.id", documentID))

	features, err := json.Marshal(analysis.CreativeFeatures)
	if err != nil {
		return "", storageErr("save", TableAnalysis, fmt.Errorf("encoding creative features: %w", err))
	}
	outcomes, err := json.Marshal(analysis.BusinessOutcomes)
	if err != nil {
		return "", storageErr("save", TableAnalysis, fmt.Errorf("encoding business outcomes: %w", err))
	}
	composition, err := json.Marshal(analysis.CampaignComposition)
	if err != nil {
		return "", storageErr("save", TableAnalysis, fmt.Errorf("encoding campaign composition: %w", err))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", storageErr("save", "", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	// Version 7 IDs sort by creation order, breaking timestamp ties in
	// LatestAnalysis.
	id := uuid.Must(uuid.NewV7()).String()
	now := s.timestamp()

	_, err = tx.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO campaign_analysis
			(id, document_id, creative_features, business_outcomes, campaign_composition,
			 confidence_score, analysis_summary, source, analysis_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, documentID, string(features), string(outcomes), string(composition),
		analysis.ConfidenceScore, analysis.AnalysisSummary, string(analysis.Source), now,
	)
	if err != nil {
		return "", storageErr("save", TableAnalysis, err)
	}

	featureRows := make([][]any, 0, taxonomy.NumCreativeFeatures)
	analysis.CreativeFeatures.Each(func(d taxonomy.Definition, v bool) {
		featureRows = append(featureRows, []any{
			uuid.NewString(), id, documentID, string(d.Category), d.Name, v, now,
		})
	})
	if err := s.insertRows(ctx, tx, TableFeaturesLookup,
		[]string{"id", "analysis_id", "document_id", "feature_category", "feature_name", "feature_value", "created_at"},
		featureRows,
	); err != nil {
		return "", storageErr("save", TableFeaturesLookup, err)
	}

	outcomeRows := make([][]any, 0, taxonomy.NumBusinessOutcomes)
	analysis.BusinessOutcomes.Each(func(d taxonomy.Definition, v bool) {
		outcomeRows = append(outcomeRows, []any{
			uuid.NewString(), id, documentID, string(d.Category), d.Name, v, analysis.ConfidenceScore, now,
		})
	})
	if err := s.insertRows(ctx, tx, TableOutcomesLookup,
		[]string{"id", "analysis_id", "document_id", "outcome_category", "outcome_name", "outcome_value", "prediction_confidence", "created_at"},
		outcomeRows,
	); err != nil {
		return "", storageErr("save", TableOutcomesLookup, err)
	}

	if err := tx.Commit(); err != nil {
		return "", storageErr("save", "", err)
	}
	return id, nil
}

// HasAnalysis reports whether any analysis exists for documentID.
func (s *Store) HasAnalysis(ctx context.Context, documentID string) (_ bool, err error) {
	ctx, done := s.observe(ctx, "has_analysis")
	defer func() { done(err) }()

	var one int
	err = s.db.QueryRowContext(ctx, s.dialect.rebind(
		`SELECT 1 FROM campaign_analysis WHERE document_id = ? LIMIT 1`), documentID,
	).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, storageErr("has_analysis", TableAnalysis, err)
	}
	return true, nil
}

// LatestAnalysis returns the newest analysis for documentID, or
// ErrNotFound. Analyses saved at the same timestamp resolve to the one
// saved last.
func (s *Store) LatestAnalysis(ctx context.Context, documentID string) (_ *StoredAnalysis, err error) {
	ctx, done := s.observe(ctx, "latest_analysis")
	defer func() { done(err) }()

	var (
		out                             StoredAnalysis
		features, outcomes, composition string
		summary, source                 sql.NullString
	)
	err = s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT id, document_id, creative_features, business_outcomes, campaign_composition,
			confidence_score, analysis_summary, source, analysis_timestamp
		FROM campaign_analysis
		WHERE document_id = ?
		ORDER BY analysis_timestamp DESC, id DESC
		LIMIT 1`), documentID,
	).Scan(&out.ID, &out.DocumentID, &features, &outcomes, &composition,
		&out.Analysis.ConfidenceScore, &summary, &source, &out.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("latest_analysis", TableAnalysis, err)
	}

	if err := json.Unmarshal([]byte(features), &out.Analysis.CreativeFeatures); err != nil {
		return nil, storageErr("latest_analysis", TableAnalysis, fmt.Errorf("decoding creative features: %w", err))
	}
	if err := json.Unmarshal([]byte(outcomes), &out.Analysis.BusinessOutcomes); err != nil {
		return nil, storageErr("latest_analysis", TableAnalysis, fmt.Errorf("decoding business outcomes: %w", err))
	}
	if err := json.Unmarshal([]byte(composition), &out.Analysis.CampaignComposition); err != nil {
		return nil, storageErr("latest_analysis", TableAnalysis, fmt.Errorf("decoding campaign composition: %w", err))
	}
	out.Analysis.AnalysisSummary = summary.String
	out.Analysis.Source = taxonomy.Source(source.String)
	return &out, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
