// Package llm adapts a hosted chat model to the analyzer's Classifier
// interface using langchaingo. Azure OpenAI deployments and the OpenAI API
// are supported.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/creatived/internal/analyzer"
)

// Providers.
const (
	ProviderAzure  = "azure"
	ProviderOpenAI = "openai"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultRateLimit = 1.0
	defaultBurst     = 5
)

var (
	// ErrInvalidConfig is returned by New for unusable settings.
	ErrInvalidConfig = errors.New("invalid llm configuration")
	// ErrNoChoices is returned when the model answers without choices.
	ErrNoChoices = errors.New("model returned no choices")
)

// Config configures a Client.
type Config struct {
	Provider   string
	Endpoint   string
	APIKey     string `json:"-"`
	Deployment string
	APIVersion string
	Timeout    time.Duration
	RateLimit  float64 // requests per second
	Burst      int
}

// Validate checks required fields for the provider.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("%w: api key required", ErrInvalidConfig)
	}
	if c.Deployment == "" {
		return fmt.Errorf("%w: deployment required", ErrInvalidConfig)
	}
	switch c.Provider {
	case ProviderAzure:
		if c.Endpoint == "" {
			return fmt.Errorf("%w: endpoint required for azure", ErrInvalidConfig)
		}
	case ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, c.Provider)
	}
	return nil
}

// Generator is the slice of llms.Model the client needs.
type Generator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Client performs one rate-limited model call per classification. It does
// not retry; failures surface to the analyzer, which falls back.
type Client struct {
	model   Generator
	limiter *rate.Limiter
	timeout time.Duration
}

// New builds a Client backed by langchaingo's OpenAI driver.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []openai.Option{
		openai.WithModel(cfg.Deployment),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.Provider == ProviderAzure {
		opts = append(opts,
			openai.WithAPIType(openai.APITypeAzure),
			openai.WithBaseURL(cfg.Endpoint),
			openai.WithAPIVersion(cfg.APIVersion),
		)
	} else if cfg.Endpoint != "" {
		opts = append(opts, openai.WithBaseURL(cfg.Endpoint))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OpenAI client: %w", err)
	}
	return NewWithGenerator(model, cfg), nil
}

// NewWithGenerator wraps an existing model. Only the timeout and rate
// limit fields of cfg are used.
func NewWithGenerator(g Generator, cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}
	return &Client{
		model:   g,
		limiter: rate.NewLimiter(rate.Limit(limit), burst),
		timeout: timeout,
	}
}

// Classify sends the system and user prompts and returns the first
// choice's text.
func (c *Client) Classify(ctx context.Context, req analyzer.Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}
	resp, err := c.model.GenerateContent(ctx, messages,
		llms.WithTemperature(req.Temperature),
		llms.WithMaxTokens(req.MaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Content, nil
}

var _ analyzer.Classifier = (*Client)(nil)
