package secrets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// Finding describes one redacted secret. The secret itself is not kept.
type Finding struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Line        int    `json:"line"`
}

// Result is the outcome of scrubbing one piece of content.
type Result struct {
	Scrubbed string         `json:"-"`
	Findings []Finding      `json:"findings,omitempty"`
	ByRule   map[string]int `json:"by_rule,omitempty"`
}

// HasFindings reports whether anything was redacted.
func (r *Result) HasFindings() bool { return len(r.Findings) > 0 }

// RuleIDs returns the matched rule IDs, sorted.
func (r *Result) RuleIDs() []string {
	ids := make([]string, 0, len(r.ByRule))
	for id := range r.ByRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Scrubber redacts secrets using the gitleaks default rules.
type Scrubber struct {
	cfg *Config

	mu       sync.Mutex
	detector *detect.Detector
}

// New builds a Scrubber. A nil cfg uses DefaultConfig. A disabled config
// yields a Scrubber that returns content unchanged.
func New(cfg *Config) (*Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scrubber{cfg: cfg}
	if !cfg.Enabled {
		return s, nil
	}
	d, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("loading gitleaks rules: %w", err)
	}
	s.detector = d
	return s, nil
}

// Enabled reports whether the scrubber redacts anything.
func (s *Scrubber) Enabled() bool { return s.detector != nil }

// Scrub returns content with every detected secret replaced.
func (s *Scrubber) Scrub(content string) *Result {
	res := &Result{Scrubbed: content, ByRule: map[string]int{}}
	if s.detector == nil || content == "" {
		return res
	}

	s.mu.Lock()
	found := s.detector.DetectString(content)
	s.mu.Unlock()

	values := make([]string, 0, len(found))
	for _, f := range found {
		if f.Secret == "" || s.cfg.allowed(f.Secret) {
			continue
		}
		res.Findings = append(res.Findings, Finding{
			RuleID:      f.RuleID,
			Description: f.Description,
			Line:        f.StartLine,
		})
		res.ByRule[f.RuleID]++
		values = append(values, f.Secret)
	}

	// longest first so a secret containing another is replaced whole
	sort.Slice(values, func(i, j int) bool { return len(values[i]) > len(values[j]) })
	for _, v := range values {
		res.Scrubbed = strings.ReplaceAll(res.Scrubbed, v, s.cfg.RedactionString)
	}
	return res
}
