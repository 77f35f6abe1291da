package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/creatived/internal/analyzer"
	"github.com/fyrsmithlabs/creatived/internal/campaign"
	"github.com/fyrsmithlabs/creatived/internal/config"
	"github.com/fyrsmithlabs/creatived/internal/events"
	"github.com/fyrsmithlabs/creatived/internal/llm"
	"github.com/fyrsmithlabs/creatived/internal/logging"
	"github.com/fyrsmithlabs/creatived/internal/secrets"
	"github.com/fyrsmithlabs/creatived/internal/store"
)

// Registry provides access to the wired services.
type Registry interface {
	Campaign() *campaign.Service
	Store() *store.Store
	Scrubber() *secrets.Scrubber
	Publisher() events.Publisher
	// Close releases the publisher and the database.
	Close() error
}

// Options overrides parts of the wiring.
type Options struct {
	Logger *logging.Logger
	// Classifier replaces the configured language-model client.
	Classifier analyzer.Classifier
	// Publisher replaces the configured NATS publisher.
	Publisher events.Publisher
}

type registry struct {
	campaign  *campaign.Service
	store     *store.Store
	scrubber  *secrets.Scrubber
	publisher events.Publisher
	closers   []func() error
}

// Build wires every service from cfg. On error, anything already opened
// is closed.
func Build(ctx context.Context, cfg *config.Config, opts Options) (_ Registry, err error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	r := &registry{}
	defer func() {
		if err != nil {
			_ = r.Close()
		}
	}()

	dialect := store.Dialect(cfg.Database.Driver)
	db, err := store.Open(ctx, store.Options{
		Dialect:         dialect,
		DSN:             cfg.Database.DSN.Value(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return nil, err
	}
	r.closers = append(r.closers, db.Close)
	r.store = store.New(db, dialect, store.WithLogger(logger.Named("store")))

	r.scrubber, err = secrets.New(&cfg.Scrubber)
	if err != nil {
		return nil, fmt.Errorf("failed to create scrubber: %w", err)
	}

	classifier, err := newClassifier(cfg.Classifier, opts.Classifier)
	if err != nil {
		return nil, err
	}
	if classifier == nil {
		logger.Warn(ctx, "classifier not configured, analyses will use defaults")
	}

	r.publisher, err = newPublisher(cfg.Events, opts.Publisher, logger)
	if err != nil {
		return nil, err
	}
	// Publishers are closed before the database so in-flight events drain.
	r.closers = append([]func() error{r.publisher.Close}, r.closers...)

	a := analyzer.New(classifier,
		analyzer.WithScrubber(r.scrubber),
		analyzer.WithLogger(logger.Named("analyzer")),
	)
	r.campaign = campaign.NewService(r.store, a,
		campaign.WithPublisher(r.publisher),
		campaign.WithLogger(logger.Named("campaign")),
	)

	logger.Info(ctx, "services initialized",
		zap.String("database", string(dialect)),
		zap.Bool("classifier", classifier != nil),
		zap.Bool("scrubber", r.scrubber.Enabled()),
		zap.Bool("events", cfg.Events.Enabled() || opts.Publisher != nil),
	)
	return r, nil
}

// newClassifier returns nil when no classifier is available. The result
// is an untyped nil in that case so analyzer.New sees no classifier.
func newClassifier(cfg config.ClassifierConfig, override analyzer.Classifier) (analyzer.Classifier, error) {
	if override != nil {
		return override, nil
	}
	if !cfg.Configured() {
		return nil, nil
	}
	c, err := llm.New(llm.Config{
		Provider:   cfg.Provider,
		Endpoint:   cfg.Endpoint,
		APIKey:     cfg.APIKey.Value(),
		Deployment: cfg.Deployment,
		APIVersion: cfg.APIVersion,
		Timeout:    cfg.Timeout,
		RateLimit:  cfg.RateLimit,
		Burst:      cfg.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}
	return c, nil
}

func newPublisher(cfg config.EventsConfig, override events.Publisher, logger *logging.Logger) (events.Publisher, error) {
	if override != nil {
		return override, nil
	}
	if !cfg.Enabled() {
		return events.NopPublisher{}, nil
	}
	p, err := events.Connect(cfg.NATSURL, cfg.Subject, cfg.ConnectTimeout, logger.Named("events"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return p, nil
}

func (r *registry) Campaign() *campaign.Service { return r.campaign }
func (r *registry) Store() *store.Store         { return r.store }
func (r *registry) Scrubber() *secrets.Scrubber { return r.scrubber }
func (r *registry) Publisher() events.Publisher { return r.publisher }

func (r *registry) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
