package secrets

import (
	"fmt"
	"regexp"
)

// DefaultRedaction replaces detected secrets.
const DefaultRedaction = "[REDACTED]"

// Config configures the scrubber.
type Config struct {
	Enabled bool `koanf:"enabled"`

	// RedactionString replaces each detected secret.
	RedactionString string `koanf:"redaction_string"`

	// AllowList holds patterns; a detected value matching any of them is
	// left in place.
	AllowList []string `koanf:"allow_list"`

	allow []*regexp.Regexp
}

// DefaultConfig returns an enabled configuration with no allow list.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		RedactionString: DefaultRedaction,
	}
}

// Validate fills defaults and compiles the allow list.
func (c *Config) Validate() error {
	if c.RedactionString == "" {
		c.RedactionString = DefaultRedaction
	}
	c.allow = make([]*regexp.Regexp, 0, len(c.AllowList))
	for i, p := range c.AllowList {
		re, err := regexp.Compile(p)
		if err != nil {
			return fmt.Errorf("allow_list %d: invalid pattern: %w", i, err)
		}
		c.allow = append(c.allow, re)
	}
	return nil
}

func (c *Config) allowed(value string) bool {
	for _, re := range c.allow {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
