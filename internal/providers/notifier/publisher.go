package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/logger"
	"github.com/tcgmarket/market-indexer/internal/messaging"
)

// Config holds the configuration for the NATS connection
type Config struct {
	URL            string
	SubjectPrefix  string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectionName string
}

type publisher struct {
	nc            adapter.NatsConn
	json          adapter.JSON
	subjectPrefix string
}

// NewPublisher connects to NATS and returns a snapshot publisher
func NewPublisher(cfg Config, dialer adapter.NatsDialer, json adapter.JSON) (messaging.Publisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ConnectionName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Error(err, zap.String("message", "Disconnected from NATS"))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("Reconnected to NATS", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := dialer.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &publisher{
		nc:            nc,
		json:          json,
		subjectPrefix: strings.TrimSuffix(cfg.SubjectPrefix, "."),
	}, nil
}

// PublishSnapshot publishes the event on {prefix}.{kind}
func (p *publisher) PublishSnapshot(ctx context.Context, event domain.SnapshotEvent) error {
	data, err := p.json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot event: %w", err)
	}

	subject := p.buildSubject(event.Kind)
	logger.DebugCtx(ctx, "Publishing snapshot event", zap.String("subject", subject), zap.String("runID", event.RunID))

	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish snapshot event: %w", err)
	}

	return nil
}

// buildSubject constructs the subject of a kind, e.g. market.snapshots.booster
func (p *publisher) buildSubject(kind domain.ItemKind) string {
	if p.subjectPrefix == "" {
		return kind.String()
	}
	return fmt.Sprintf("%s.%s", p.subjectPrefix, kind)
}

// Close flushes pending messages and closes the NATS connection
func (p *publisher) Close() {
	if p.nc == nil {
		return
	}

	if err := p.nc.Flush(); err != nil {
		logger.Warn("failed to flush NATS connection", zap.Error(err))
	}
	p.nc.Close()
}
