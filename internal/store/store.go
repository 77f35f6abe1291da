package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/creatived/internal/logging"
)

const instrumentationName = "github.com/fyrsmithlabs/creatived/internal/store"

// Store persists documents, analyses and synthetic campaigns. It does not
// own the *sql.DB; the caller closes it.
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *logging.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps db, which must already be open for dialect.
func New(db *sql.DB, dialect Dialect, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect,
		logger:  logging.NewNop(),
		tracer:  otel.Tracer(instrumentationName),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the backend in use.
func (s *Store) Dialect() Dialect { return s.dialect }

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) (err error) {
	ctx, done := s.observe(ctx, "ping")
	defer func() { done(err) }()
	return storageErr("ping", "", s.db.PingContext(ctx))
}

// observe starts a span and a timer for op. The returned func records the
// outcome.
func (s *Store) observe(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "store."+op, trace.WithAttributes(
		attribute.String("db.system", string(s.dialect)),
	))
	start := time.Now()

	return ctx, func(err error) {
		OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil && !errors.Is(err, ErrNotFound) {
			OperationErrors.WithLabelValues(op).Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, op+" failed")
			s.logger.Error(ctx, "store operation failed", zap.String("op", op), zap.Error(err))
		}
		span.End()
	}
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertRows writes rows into table with one multi-row INSERT.
func (s *Store) insertRows(ctx context.Context, ex execer, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	q, args := buildInsert(table, columns, rows)
	_, err := ex.ExecContext(ctx, s.dialect.rebind(q), args...)
	return err
}

func buildInsert(table string, columns []string, rows [][]any) (string, []any) {
	group := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")

	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(group)
		args = append(args, row...)
	}
	return b.String(), args
}
