package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/creatived/internal/synth"
)

// CampaignSummary aggregates the documents of one campaign and client.
type CampaignSummary struct {
	CampaignName      string   `json:"campaign_name"`
	ClientName        string   `json:"client_name"`
	TotalFiles        int64    `json:"total_files"`
	VideoCount        int64    `json:"video_count"`
	ImageCount        int64    `json:"image_count"`
	PresentationCount int64    `json:"presentation_count"`
	AvgConfidence     *float64 `json:"avg_confidence"`
}

// Counts are row totals for the status report.
type Counts struct {
	Documents int64 `json:"documents"`
	Analyses  int64 `json:"analyses"`
	Campaigns int64 `json:"campaigns"`
}

// SaveCampaigns loads synthetic campaigns in one transaction. Each campaign
// becomes a document, a creative_analysis row, a business_predictions row
// and a campaigns row. Campaigns whose document ID already exists are
// skipped. It returns the number inserted.
func (s *Store) SaveCampaigns(ctx context.Context, campaigns []synth.Campaign) (inserted int, err error) {
	ctx, done := s.observe(ctx, "save_campaigns")
	defer func() { done(err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, storageErr("save_campaigns", "", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmts := map[string]string{
		TableDocuments: `INSERT INTO campaign_documents
			(id, document_id, filename, mime_type, size, campaign_name, client_name, file_type, processed_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (document_id) DO NOTHING`,
		TableCreativeAnalysis: `INSERT INTO creative_analysis
			(id, document_id, has_logo, has_product_shot, has_call_to_action, is_minimalist,
			 uses_bold_typography, emotional_appeal, color_vibrancy, text_density, composition_score,
			 analysis_timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		TableBusinessPredictions: `INSERT INTO business_predictions
			(id, document_id, predicted_ctr, predicted_roi, predicted_engagement_rate,
			 predicted_conversion_rate, predicted_brand_recall, predicted_revenue_impact,
			 confidence_score, prediction_timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		TableCampaigns: `INSERT INTO campaigns
			(id, document_id, campaign_name, client_name, campaign_type, budget, start_date, end_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
	}
	prepared := make(map[string]*sql.Stmt, len(stmts))
	for table, q := range stmts {
		stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(q))
		if err != nil {
			return 0, storageErr("save_campaigns", table, err)
		}
		defer stmt.Close()
		prepared[table] = stmt
	}

	now := s.timestamp()
	for _, c := range campaigns {
		res, err := prepared[TableDocuments].ExecContext(ctx,
			uuid.NewString(), c.ID, c.FileName, c.MimeType, c.FileSize,
			c.Name, c.Client, c.FileType, now)
		if err != nil {
			return 0, storageErr("save_campaigns", TableDocuments, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			s.logger.Debug(ctx, "campaign document exists, skipping", zap.String("document_id", c.ID))
			continue
		}

		ca := c.Creative
		if _, err := prepared[TableCreativeAnalysis].ExecContext(ctx,
			uuid.NewString(), c.ID, ca.HasLogo, ca.HasProductShot, ca.HasCallToAction, ca.IsMinimalist,
			ca.UsesBoldTypography, ca.EmotionalAppeal, ca.ColorVibrancy, ca.TextDensity, ca.CompositionScore,
			now,
		); err != nil {
			return 0, storageErr("save_campaigns", TableCreativeAnalysis, err)
		}

		p := c.Predictions
		if _, err := prepared[TableBusinessPredictions].ExecContext(ctx,
			uuid.NewString(), c.ID, p.CTR, p.ROI, p.EngagementRate,
			p.ConversionRate, p.BrandRecall, p.RevenueImpact,
			c.Confidence, now,
		); err != nil {
			return 0, storageErr("save_campaigns", TableBusinessPredictions, err)
		}

		if _, err := prepared[TableCampaigns].ExecContext(ctx,
			uuid.NewString(), c.ID, c.Name, c.Client, c.Type, c.Budget, c.StartDate.UTC(), c.EndDate.UTC(),
		); err != nil {
			return 0, storageErr("save_campaigns", TableCampaigns, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, storageErr("save_campaigns", "", err)
	}
	return inserted, nil
}

// CampaignSummaries aggregates documents per campaign and client. The
// confidence of a document is the mean of its analyses, or its synthetic
// prediction confidence when it has none.
func (s *Store) CampaignSummaries(ctx context.Context) (_ []CampaignSummary, err error) {
	ctx, done := s.observe(ctx, "campaign_summaries")
	defer func() { done(err) }()

	rows, err := s.db.QueryContext(ctx, `
		SELECT
			cd.campaign_name,
			COALESCE(cd.client_name, ''),
			COUNT(*),
			SUM(CASE WHEN cd.file_type = 'video' THEN 1 ELSE 0 END),
			SUM(CASE WHEN cd.file_type = 'image' THEN 1 ELSE 0 END),
			SUM(CASE WHEN cd.file_type = 'presentation' THEN 1 ELSE 0 END),
			AVG(COALESCE(ca.confidence, bp.confidence))
		FROM campaign_documents cd
		LEFT JOIN (
			SELECT document_id, AVG(confidence_score) AS confidence
			FROM campaign_analysis GROUP BY document_id
		) ca ON ca.document_id = cd.document_id
		LEFT JOIN (
			SELECT document_id, AVG(confidence_score) AS confidence
			FROM business_predictions GROUP BY document_id
		) bp ON bp.document_id = cd.document_id
		WHERE cd.campaign_name IS NOT NULL
		GROUP BY cd.campaign_name, cd.client_name
		ORDER BY cd.campaign_name, COALESCE(cd.client_name, '')`)
	if err != nil {
		return nil, storageErr("campaign_summaries", TableDocuments, err)
	}
	defer rows.Close()

	var out []CampaignSummary
	for rows.Next() {
		var (
			cs  CampaignSummary
			avg sql.NullFloat64
		)
		if err := rows.Scan(&cs.CampaignName, &cs.ClientName, &cs.TotalFiles,
			&cs.VideoCount, &cs.ImageCount, &cs.PresentationCount, &avg); err != nil {
			return nil, storageErr("campaign_summaries", TableDocuments, err)
		}
		if avg.Valid {
			v := avg.Float64
			cs.AvgConfidence = &v
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("campaign_summaries", TableDocuments, err)
	}
	return out, nil
}

// Counts returns row totals.
func (s *Store) Counts(ctx context.Context) (_ Counts, err error) {
	ctx, done := s.observe(ctx, "counts")
	defer func() { done(err) }()

	var c Counts
	err = s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM campaign_documents),
			(SELECT COUNT(*) FROM campaign_analysis),
			(SELECT COUNT(DISTINCT campaign_name) FROM campaigns)`,
	).Scan(&c.Documents, &c.Analyses, &c.Campaigns)
	if err != nil {
		return Counts{}, storageErr("counts", "", err)
	}
	return c, nil
}
