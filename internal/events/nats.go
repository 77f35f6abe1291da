package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/creatived/internal/logging"
)

// NATSPublisher publishes events on a NATS connection.
type NATSPublisher struct {
	nc      *nats.Conn
	subject string
	owned   bool
}

// NewNATSPublisher publishes on an existing connection, which the caller
// keeps ownership of. An empty subject means DefaultSubject.
func NewNATSPublisher(nc *nats.Conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{nc: nc, subject: subject}
}

// Connect dials url and returns a publisher that owns the connection.
func Connect(url, subject string, timeout time.Duration, logger *logging.Logger) (*NATSPublisher, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name("creatived"),
		nats.Timeout(timeout),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn(context.Background(), "nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info(context.Background(), "nats reconnected", zap.String("url", c.ConnectedUrlRedacted()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	p := NewNATSPublisher(nc, subject)
	p.owned = true
	return p, nil
}

// Subject returns the subject events are published on.
func (p *NATSPublisher) Subject() string { return p.subject }

// PublishAnalysisCompleted publishes evt as JSON. The analysis ID is set
// as Nats-Msg-Id for JetStream de-duplication, and the trace context from
// ctx is propagated in headers.
func (p *NATSPublisher) PublishAnalysisCompleted(ctx context.Context, evt AnalysisCompleted) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal analysis event: %w", err)
	}

	msg := nats.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, evt.AnalysisID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(http.Header(msg.Header)))

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish analysis event: %w", err)
	}
	return nil
}

// Close drains the connection if the publisher owns it.
func (p *NATSPublisher) Close() error {
	if !p.owned {
		return nil
	}
	if err := p.nc.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
		return fmt.Errorf("drain nats connection: %w", err)
	}
	return nil
}

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = NopPublisher{}
)
