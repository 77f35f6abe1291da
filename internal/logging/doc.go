// Package logging wraps zap with context-aware helpers.
//
// Every Logger method takes a context and prepends the correlation fields
// found there: OpenTelemetry trace and span IDs, the HTTP request ID and
// the document being processed. Output goes to stdout, to an OpenTelemetry
// log provider, or both. Sensitive keys and value patterns are redacted by
// the stdout encoder, and levels below error are sampled.
//
//	logger, err := logging.NewLogger(cfg, nil)
//	ctx = logging.WithDocumentID(ctx, "campaign_042")
//	logger.Info(ctx, "analysis saved", zap.Float64("confidence", 0.75))
//
// Tests use NewTestLogger to observe entries.
package logging
