package store

import (
	"context"
	"slices"
	"strings"
)

// Table names.
const (
	TableDocuments           = "campaign_documents"
	TableAnalysis            = "campaign_analysis"
	TableFeaturesLookup      = "creative_features_lookup"
	TableOutcomesLookup      = "business_outcomes_lookup"
	TableCreativeAnalysis    = "creative_analysis"
	TableBusinessPredictions = "business_predictions"
	TableCampaigns           = "campaigns"
)

// ExpectedTables lists every table InitSchema creates, in creation order.
var ExpectedTables = []string{
	TableDocuments,
	TableAnalysis,
	TableFeaturesLookup,
	TableOutcomesLookup,
	TableCreativeAnalysis,
	TableBusinessPredictions,
	TableCampaigns,
}

// schema is written with type placeholders filled per dialect.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS campaign_documents (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL UNIQUE,
		filename TEXT NOT NULL,
		mime_type TEXT,
		size {{bigint}},
		campaign_name TEXT,
		client_name TEXT,
		file_type TEXT,
		processed_at {{timestamp}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_campaign ON campaign_documents(campaign_name)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_client ON campaign_documents(client_name)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_file_type ON campaign_documents(file_type)`,

	`CREATE TABLE IF NOT EXISTS campaign_analysis (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL REFERENCES campaign_documents(document_id),
		creative_features TEXT NOT NULL,
		business_outcomes TEXT NOT NULL,
		campaign_composition TEXT NOT NULL,
		confidence_score {{float}} NOT NULL,
		analysis_summary TEXT,
		source TEXT,
		analysis_timestamp {{timestamp}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_document ON campaign_analysis(document_id, analysis_timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_analysis_confidence ON campaign_analysis(confidence_score)`,

	`CREATE TABLE IF NOT EXISTS creative_features_lookup (
		id TEXT PRIMARY KEY,
		analysis_id TEXT NOT NULL REFERENCES campaign_analysis(id),
		document_id TEXT NOT NULL REFERENCES campaign_documents(document_id),
		feature_category TEXT NOT NULL,
		feature_name TEXT NOT NULL,
		feature_value BOOLEAN NOT NULL,
		created_at {{timestamp}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_features_name ON creative_features_lookup(feature_name, feature_value)`,
	`CREATE INDEX IF NOT EXISTS idx_features_category ON creative_features_lookup(feature_category)`,

	`CREATE TABLE IF NOT EXISTS business_outcomes_lookup (
		id TEXT PRIMARY KEY,
		analysis_id TEXT NOT NULL REFERENCES campaign_analysis(id),
		document_id TEXT NOT NULL REFERENCES campaign_documents(document_id),
		outcome_category TEXT NOT NULL,
		outcome_name TEXT NOT NULL,
		outcome_value BOOLEAN NOT NULL,
		prediction_confidence {{float}} NOT NULL,
		created_at {{timestamp}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_name ON business_outcomes_lookup(outcome_name, outcome_value)`,
	`CREATE INDEX IF NOT EXISTS idx_outcomes_category ON business_outcomes_lookup(outcome_category)`,

	`CREATE TABLE IF NOT EXISTS creative_analysis (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL REFERENCES campaign_documents(document_id),
		has_logo BOOLEAN NOT NULL,
		has_product_shot BOOLEAN NOT NULL,
		has_call_to_action BOOLEAN NOT NULL,
		is_minimalist BOOLEAN NOT NULL,
		uses_bold_typography BOOLEAN NOT NULL,
		emotional_appeal BOOLEAN NOT NULL,
		color_vibrancy {{float}},
		text_density {{float}},
		composition_score {{float}},
		analysis_timestamp {{timestamp}} NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS business_predictions (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL REFERENCES campaign_documents(document_id),
		predicted_ctr {{float}},
		predicted_roi {{float}},
		predicted_engagement_rate {{float}},
		predicted_conversion_rate {{float}},
		predicted_brand_recall {{float}},
		predicted_revenue_impact {{bigint}},
		confidence_score {{float}},
		prediction_timestamp {{timestamp}} NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_document ON business_predictions(document_id)`,

	`CREATE TABLE IF NOT EXISTS campaigns (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL REFERENCES campaign_documents(document_id),
		campaign_name TEXT NOT NULL,
		client_name TEXT,
		campaign_type TEXT,
		budget {{bigint}},
		start_date {{timestamp}},
		end_date {{timestamp}},
		status TEXT NOT NULL DEFAULT 'Active'
	)`,
}

var columnTypes = map[Dialect]*strings.Replacer{
	SQLite: strings.NewReplacer(
		"{{bigint}}", "INTEGER",
		"{{float}}", "REAL",
		"{{timestamp}}", "TIMESTAMP",
	),
	Postgres: strings.NewReplacer(
		"{{bigint}}", "BIGINT",
		"{{float}}", "DOUBLE PRECISION",
		"{{timestamp}}", "TIMESTAMPTZ",
	),
}

// InitSchema creates all tables and indexes. It is idempotent.
func (s *Store) InitSchema(ctx context.Context) (err error) {
	ctx, done := s.observe(ctx, "init_schema")
	defer func() { done(err) }()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("init_schema", "", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	r := columnTypes[s.dialect]
	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, r.Replace(stmt)); err != nil {
			return storageErr("init_schema", "", err)
		}
	}
	return storageErr("init_schema", "", tx.Commit())
}

// MissingTables returns the expected tables that do not exist.
func (s *Store) MissingTables(ctx context.Context) (missing []string, err error) {
	ctx, done := s.observe(ctx, "missing_tables")
	defer func() { done(err) }()

	query := `SELECT name FROM sqlite_master WHERE type = 'table'`
	if s.dialect == Postgres {
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = current_schema()`
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("missing_tables", "", err)
	}
	defer rows.Close()

	var present []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, storageErr("missing_tables", "", err)
		}
		present = append(present, name)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("missing_tables", "", err)
	}

	for _, t := range ExpectedTables {
		if !slices.Contains(present, t) {
			missing = append(missing, t)
		}
	}
	return missing, nil
}
