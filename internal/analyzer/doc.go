// Package analyzer classifies a campaign asset into the creative taxonomy.
//
// Analyze asks a hosted language model for a classification through the
// Classifier interface and always returns a complete analysis:
//
//   - a usable model response is returned as parsed (SourceModel);
//   - a response that arrived but cannot be used falls back to rule-based
//     Intelligent Defaults at confidence 0.75 (SourceHeuristic);
//   - a failed call, an empty response or a missing classifier yields the
//     Zero-Confidence Default (SourceDefault).
//
// Failures are logged and counted, never returned. The model is called
// once per analysis; there are no retries.
package analyzer
