package cache_test

import (
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/cache"
	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/mocks"
)

var boosterAddress = common.HexToAddress("0xB7A5bd0345EF1Cc5E66bf61BdeC17D2461fBd968")

func booster(owner string, tokenID int64, forSale bool) domain.Item {
	return domain.Item{
		Kind:          domain.ItemKindBooster,
		TokenID:       big.NewInt(tokenID),
		Owner:         owner,
		Name:          domain.BoosterName(big.NewInt(tokenID)),
		IsForSale:     forSale,
		Price:         big.NewInt(0),
		SourceAddress: boosterAddress,
	}
}

func TestBuilder_Move(t *testing.T) {
	b := cache.NewBuilder(domain.ItemKindBooster)

	b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x111", 7, false))
	b.Move("0x111", booster("0x222", 7, true))

	snapshot, err := b.Build(adapter.NewJSON(), adapter.NewJCS(), "run", time.Now())
	require.NoError(t, err)

	items, ok := snapshot.Items("0x111")
	require.True(t, ok)
	assert.Empty(t, items)

	items, ok = snapshot.Items("0x222")
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].TokenID.String())

	assert.Equal(t, []string{"0x111", "0x222"}, snapshot.Owners())
	assert.Equal(t, 1, snapshot.ItemCount())
	assert.Equal(t, 2, snapshot.OwnerCount())
}

func TestBuilder_AppendKeepsHistory(t *testing.T) {
	b := cache.NewBuilder(domain.ItemKindCard)

	b.Append(domain.Item{Kind: domain.ItemKindCard, TokenID: big.NewInt(5), Owner: "0xAAA"})
	b.Append(domain.Item{Kind: domain.ItemKindCard, TokenID: big.NewInt(5), Owner: "0xbbb"})

	snapshot, err := b.Build(adapter.NewJSON(), adapter.NewJCS(), "run", time.Now())
	require.NoError(t, err)

	items, ok := snapshot.Items("0xaaa")
	require.True(t, ok)
	assert.Len(t, items, 1)
	assert.Equal(t, "0xaaa", items[0].Owner)
	assert.Equal(t, 2, snapshot.ItemCount())
}

func TestBuilder_ForSaleDerivedFromOwnership(t *testing.T) {
	b := cache.NewBuilder(domain.ItemKindBooster)

	b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x111", 1, true))
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x111", 2, false))
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x333", 3, true))
	b.Move("0x111", booster("0x222", 1, true))

	snapshot, err := b.Build(adapter.NewJSON(), adapter.NewJCS(), "run", time.Now())
	require.NoError(t, err)

	forSale := snapshot.ForSale()
	require.Len(t, forSale, 2)
	assert.Equal(t, "3", forSale[0].TokenID.String())
	assert.Equal(t, "0x333", forSale[0].Owner)
	assert.Equal(t, "1", forSale[1].TokenID.String())
	assert.Equal(t, "0x222", forSale[1].Owner)

	for _, entry := range snapshot.Entries() {
		for _, item := range entry.Items {
			listed := false
			for _, f := range forSale {
				if f.Key() == item.Key() && f.Owner == entry.Owner {
					listed = true
				}
			}
			assert.Equal(t, item.IsForSale, listed)
		}
	}
}

func TestSnapshot_Find(t *testing.T) {
	b := cache.NewBuilder(domain.ItemKindBooster)
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x111", 1, false))
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x222", 2, false))

	snapshot, err := b.Build(adapter.NewJSON(), adapter.NewJCS(), "run", time.Now())
	require.NoError(t, err)

	item, ok := snapshot.Find(big.NewInt(2))
	require.True(t, ok)
	assert.Equal(t, "0x222", item.Owner)

	_, ok = snapshot.Find(big.NewInt(3))
	assert.False(t, ok)
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	b := cache.NewBuilder(domain.ItemKindBooster)
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x111", 1, true))

	snapshot, err := b.Build(adapter.NewJSON(), adapter.NewJCS(), "run", time.Now())
	require.NoError(t, err)

	items, _ := snapshot.Items("0x111")
	items[0].Name = "mutated"
	owners := snapshot.Owners()
	owners[0] = "mutated"

	items, _ = snapshot.Items("0x111")
	assert.Equal(t, "Booster #1", items[0].Name)
	assert.Equal(t, []string{"0x111"}, snapshot.Owners())
}

func TestSnapshot_Digest(t *testing.T) {
	build := func(forSale bool) *cache.Snapshot {
		b := cache.NewBuilder(domain.ItemKindBooster)
		b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x111", 1, forSale))
		snapshot, err := b.Build(adapter.NewJSON(), adapter.NewJCS(), "run", time.Now())
		require.NoError(t, err)
		return snapshot
	}

	a, b, c := build(false), build(false), build(true)
	assert.NotEmpty(t, a.Digest())
	assert.Equal(t, a.Digest(), b.Digest())
	assert.NotEqual(t, a.Digest(), c.Digest())
}

func TestBuilder_BuildCanonicalizationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	jcs := mocks.NewMockJCS(ctrl)
	jcs.EXPECT().Transform(gomock.Any()).Return(nil, errors.New("bad json"))

	_, err := cache.NewBuilder(domain.ItemKindCard).Build(adapter.NewJSON(), jcs, "run", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to canonicalize")
}

func TestBuilder_BuildMarshalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	codec := mocks.NewMockJSON(ctrl)
	codec.EXPECT().Marshal(gomock.Any()).Return(nil, errors.New("unsupported value"))
	jcs := mocks.NewMockJCS(ctrl)

	b := cache.NewBuilder(domain.ItemKindBooster)
	b.Append(booster("0xabc", 1, false))

	_, err := b.Build(codec, jcs, "run", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal ownership index")
}

func TestStore_Publish(t *testing.T) {
	store := cache.NewStore(adapter.NewJSON(), adapter.NewJCS())

	initialCards := store.Cards()
	require.NotNil(t, initialCards)
	assert.Equal(t, domain.ItemKindCard, initialCards.Kind())
	assert.Empty(t, initialCards.Owners())
	assert.Empty(t, store.Boosters().ForSale())
	assert.NotEmpty(t, initialCards.Digest())

	b := cache.NewBuilder(domain.ItemKindBooster)
	b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x111", 1, false))
	snapshot, err := store.Build(b, "run-1", time.Now())
	require.NoError(t, err)

	previous := store.Publish(snapshot)
	assert.Equal(t, domain.ItemKindBooster, previous.Kind())
	assert.Same(t, snapshot, store.Boosters())
	assert.Same(t, snapshot, store.Snapshot(domain.ItemKindBooster))
	assert.Same(t, initialCards, store.Snapshot(domain.ItemKindCard))
	assert.Equal(t, "run-1", store.Boosters().RunID())
}

func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	store := cache.NewStore(adapter.NewJSON(), adapter.NewJCS())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snapshot := store.Boosters()
				assert.Equal(t, snapshot.ItemCount(), len(snapshot.ForSale()))
			}
		}()
	}

	for pass := 1; pass <= 50; pass++ {
		b := cache.NewBuilder(domain.ItemKindBooster)
		for token := 1; token <= pass; token++ {
			b.Move(domain.ETHEREUM_ZERO_ADDRESS, booster("0x111", int64(token), true))
		}
		snapshot, err := store.Build(b, "run", time.Now())
		require.NoError(t, err)
		store.Publish(snapshot)
	}

	close(stop)
	wg.Wait()
	assert.Equal(t, 50, store.Boosters().ItemCount())
}
