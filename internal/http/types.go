package http

import "github.com/fyrsmithlabs/creatived/internal/store"

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// AnalyzeRequest is the body of POST /api/v1/analyses.
type AnalyzeRequest struct {
	DocumentID   string `json:"document_id"`
	FileName     string `json:"filename"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	Content      string `json:"content,omitempty"`
	CampaignName string `json:"campaign_name,omitempty"`
	ClientName   string `json:"client_name,omitempty"`
	Force        bool   `json:"force,omitempty"`
}

// MaintenanceResponse is returned by POST /api/health.
type MaintenanceResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// CampaignsResponse lists campaign summaries.
type CampaignsResponse struct {
	Campaigns []store.CampaignSummary `json:"campaigns"`
}
