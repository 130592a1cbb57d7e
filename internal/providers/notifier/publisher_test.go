package notifier_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/mocks"
	"github.com/tcgmarket/market-indexer/internal/providers/notifier"
)

func TestPublisher_PublishSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dialer := mocks.NewMockNatsDialer(ctrl)
	conn := mocks.NewMockNatsConn(ctrl)

	dialer.EXPECT().Connect("nats://localhost:4222", gomock.Any()).Return(conn, nil)

	publisher, err := notifier.NewPublisher(notifier.Config{
		URL:            "nats://localhost:4222",
		SubjectPrefix:  "market.snapshots.",
		MaxReconnects:  3,
		ReconnectWait:  time.Second,
		ConnectionName: "test",
	}, dialer, adapter.NewJSON())
	require.NoError(t, err)

	event := domain.SnapshotEvent{
		Kind:    domain.ItemKindBooster,
		RunID:   "01HZX",
		Digest:  "0xabc",
		Owners:  2,
		Items:   3,
		ForSale: 1,
	}

	conn.EXPECT().
		Publish("market.snapshots.booster", gomock.Any()).
		DoAndReturn(func(_ string, data []byte) error {
			var decoded domain.SnapshotEvent
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, event.RunID, decoded.RunID)
			assert.Equal(t, event.Digest, decoded.Digest)
			assert.Equal(t, domain.ItemKindBooster, decoded.Kind)
			return nil
		})

	require.NoError(t, publisher.PublishSnapshot(context.Background(), event))

	conn.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("connection closed"))
	err = publisher.PublishSnapshot(context.Background(), event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish snapshot event")

	gomock.InOrder(
		conn.EXPECT().Flush().Return(nil),
		conn.EXPECT().Close(),
	)
	publisher.Close()
}

func TestNewPublisher_ConnectError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dialer := mocks.NewMockNatsDialer(ctrl)
	dialer.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(nil, errors.New("no servers available"))

	_, err := notifier.NewPublisher(notifier.Config{URL: "nats://localhost:4222"}, dialer, adapter.NewJSON())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to NATS")
}

func TestPublisher_PublishSnapshotMarshalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dialer := mocks.NewMockNatsDialer(ctrl)
	conn := mocks.NewMockNatsConn(ctrl)
	codec := mocks.NewMockJSON(ctrl)

	dialer.EXPECT().Connect(gomock.Any(), gomock.Any()).Return(conn, nil)
	codec.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("unsupported value"))

	publisher, err := notifier.NewPublisher(notifier.Config{URL: "nats://localhost:4222"}, dialer, codec)
	require.NoError(t, err)

	err = publisher.PublishSnapshot(context.Background(), domain.SnapshotEvent{Kind: domain.ItemKindCard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal snapshot event")
}
