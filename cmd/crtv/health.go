package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/creatived/internal/campaign"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check creatived server health",
		Long: `Check the health of a running creatived server.

Examples:
  crtv health
  crtv health --server http://localhost:8080`,
		Args: cobra.NoArgs,
		RunE: runHealth,
	}
}

func runHealth(cmd *cobra.Command, _ []string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	url := strings.TrimRight(serverURL, "/") + "/api/health"

	req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var report campaign.StatusReport
	if err := json.Unmarshal(body, &report); err != nil {
		return fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, body)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Status:     %s\n", report.Status)
	fmt.Fprintf(out, "Database:   connected=%t\n", report.Database.Connected)
	if len(report.Database.MissingTables) > 0 {
		fmt.Fprintf(out, "Missing:    %s\n", strings.Join(report.Database.MissingTables, ", "))
	}
	fmt.Fprintf(out, "Classifier: configured=%t\n", report.Classifier.Configured)
	if report.Counts != nil {
		fmt.Fprintf(out, "Documents:  %d\nAnalyses:   %d\nCampaigns:  %d\n",
			report.Counts.Documents, report.Counts.Analyses, report.Counts.Campaigns)
	}

	if report.Status == campaign.StatusUnhealthy || resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: %s", report.Error)
	}
	return nil
}
