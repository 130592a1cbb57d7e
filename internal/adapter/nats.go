package adapter

import (
	"github.com/nats-io/nats.go"
)

// NatsConn defines an interface for NATS connection operations to enable mocking
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsConn=MockNatsConn
type NatsConn interface {
	Publish(subject string, data []byte) error
	Flush() error
	Close()
	LastError() error
	ConnectedUrl() string
}

// NatsDialer defines an interface for creating NATS connections
//
//go:generate mockgen -source=nats.go -destination=../mocks/nats.go -package=mocks -mock_names=NatsDialer=MockNatsDialer
type NatsDialer interface {
	Connect(url string, options ...nats.Option) (NatsConn, error)
}

// RealNatsDialer implements NatsDialer using the nats package
type RealNatsDialer struct{}

// NewNatsDialer creates a new real NATS dialer
func NewNatsDialer() NatsDialer {
	return &RealNatsDialer{}
}

func (n *RealNatsDialer) Connect(url string, options ...nats.Option) (NatsConn, error) {
	nc, err := nats.Connect(url, options...)
	if err != nil {
		return nil, err
	}
	return nc, nil
}
