// Package secrets redacts credentials from asset content before it leaves
// the process.
//
// Detection uses the gitleaks default rule set. Every detected secret value
// is replaced by the configured redaction string; findings keep the rule ID
// and line but never the value.
package secrets
