package messaging

import (
	"context"

	"github.com/tcgmarket/market-indexer/internal/domain"
)

// Publisher defines the interface for announcing published snapshots to a message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishSnapshot announces a snapshot that differs from its predecessor
	PublishSnapshot(ctx context.Context, event domain.SnapshotEvent) error
	// Close closes the connection
	Close()
}

// noopPublisher drops every event
type noopPublisher struct{}

// NewNoopPublisher returns a publisher used when no broker is configured
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishSnapshot(context.Context, domain.SnapshotEvent) error {
	return nil
}

func (noopPublisher) Close() {}
