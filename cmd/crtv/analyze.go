package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/h2non/filetype"
	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/creatived/internal/campaign"
)

// maxContentBytes bounds the text excerpt sent to the classifier.
const maxContentBytes = 16 * 1024

func newAnalyzeCmd() *cobra.Command {
	var (
		req      campaign.Request
		noSchema bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Classify a creative asset and store the analysis",
		Long: `Classify a creative asset and store the analysis.

The MIME type is sniffed from the file header and falls back to the file
extension. Text files have their content passed to the classifier.

Examples:
  # Analyze a video for a campaign
  crtv analyze spot.mp4 --campaign "Spring Launch" --client Acme

  # Re-run an existing analysis
  crtv analyze spot.mp4 --document-id doc-42 --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", path, err)
			}

			req.FileName = filepath.Base(path)
			req.MimeType = detectMimeType(path, data)
			req.Size = int64(len(data))
			if isText(req.MimeType) {
				req.Content = string(truncate(data, maxContentBytes))
			}

			ctx := cmd.Context()
			reg, err := openRegistry(ctx)
			if err != nil {
				return err
			}
			defer reg.Close()

			if !noSchema {
				if err := reg.Campaign().InitSchema(ctx); err != nil {
					return err
				}
			}

			res, err := reg.Campaign().AnalyzeDocument(ctx, req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVar(&req.DocumentID, "document-id", "", "document ID (generated when empty)")
	cmd.Flags().StringVar(&req.CampaignName, "campaign", "", "campaign name")
	cmd.Flags().StringVar(&req.ClientName, "client", "", "client name")
	cmd.Flags().BoolVar(&req.Force, "force", false, "re-analyze even if an analysis exists")
	cmd.Flags().BoolVar(&noSchema, "no-schema", false, "skip schema creation")
	return cmd
}

// detectMimeType sniffs the header, then falls back to the extension, then
// to application/octet-stream.
func detectMimeType(path string, data []byte) string {
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		if base, _, err := mime.ParseMediaType(t); err == nil {
			return base
		}
		return t
	}
	return "application/octet-stream"
}

func isText(mimeType string) bool {
	switch {
	case strings.HasPrefix(mimeType, "text/"):
		return true
	case mimeType == "application/json", mimeType == "application/xml":
		return true
	}
	return false
}

// truncate cuts b to at most n bytes without splitting a UTF-8 sequence.
func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}
