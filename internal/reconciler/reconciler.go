package reconciler

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/cache"
	"github.com/tcgmarket/market-indexer/internal/catalog"
	"github.com/tcgmarket/market-indexer/internal/config"
	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/logger"
	"github.com/tcgmarket/market-indexer/internal/messaging"
	"github.com/tcgmarket/market-indexer/internal/providers/ethereum"
)

// Reconciler rebuilds the serving cache from the full transfer history of the marketplace contracts
//
//go:generate mockgen -source=reconciler.go -destination=../mocks/reconciler.go -package=mocks -mock_names=Reconciler=MockReconciler
type Reconciler interface {
	// SetCatalog replaces the catalog used to resolve card metadata
	SetCatalog(snapshot *catalog.Snapshot)

	// RunCardPass rebuilds and publishes the card snapshot
	// It returns domain.ErrPassInProgress when a card pass is already running
	RunCardPass(ctx context.Context) error

	// RunBoosterPass rebuilds and publishes the booster snapshot
	// It returns domain.ErrPassInProgress when a booster pass is already running
	RunBoosterPass(ctx context.Context) error

	// Status returns the status of both pass kinds
	Status() domain.ReconcilerStatus

	// Close stops the worker pool, waiting for running reads
	Close()
}

// Config holds the reconciler configuration
type Config struct {
	CardOwnershipMode config.CardOwnershipMode
	WorkerPoolSize    int
	WorkerQueueSize   int
}

type reconciler struct {
	client    ethereum.MarketplaceClient
	store     *cache.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	config    Config
	pool      pond.Pool

	catalog        atomic.Pointer[catalog.Snapshot]
	cardRunning    atomic.Bool
	boosterRunning atomic.Bool

	mu     sync.RWMutex
	status domain.ReconcilerStatus
}

// tokenState holds the per-token contract reads of one pass
type tokenState struct {
	sale  domain.SaleState
	image string
}

// passResult is what a successful build hands over for publishing
type passResult struct {
	snapshot *cache.Snapshot
	skipped  int
}

// tokenReader reads the state of one token of a contract
type tokenReader func(ctx context.Context, contract common.Address, tokenID *big.Int) (tokenState, error)

// New creates a reconciler writing into store
func New(client ethereum.MarketplaceClient, store *cache.Store, publisher messaging.Publisher, clock adapter.Clock, cfg Config) Reconciler {
	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = 1
	}
	if !cfg.CardOwnershipMode.Valid() {
		cfg.CardOwnershipMode = config.CardOwnershipCurrent
	}
	if publisher == nil {
		publisher = messaging.NewNoopPublisher()
	}

	opts := []pond.Option{}
	if cfg.WorkerQueueSize > 0 {
		opts = append(opts, pond.WithQueueSize(cfg.WorkerQueueSize))
	}

	r := &reconciler{
		client:    client,
		store:     store,
		publisher: publisher,
		clock:     clock,
		config:    cfg,
		pool:      pond.NewPool(cfg.WorkerPoolSize, opts...),
		status: domain.ReconcilerStatus{
			Cards:    domain.PassStatus{Kind: domain.ItemKindCard},
			Boosters: domain.PassStatus{Kind: domain.ItemKindBooster},
		},
	}
	r.catalog.Store(catalog.EmptySnapshot())
	return r
}

// SetCatalog replaces the catalog used to resolve card metadata
func (r *reconciler) SetCatalog(snapshot *catalog.Snapshot) {
	if snapshot == nil {
		snapshot = catalog.EmptySnapshot()
	}
	r.catalog.Store(snapshot)
}

// RunCardPass rebuilds and publishes the card snapshot
func (r *reconciler) RunCardPass(ctx context.Context) error {
	return r.run(ctx, domain.ItemKindCard, &r.cardRunning, r.buildCards)
}

// RunBoosterPass rebuilds and publishes the booster snapshot
func (r *reconciler) RunBoosterPass(ctx context.Context) error {
	return r.run(ctx, domain.ItemKindBooster, &r.boosterRunning, r.buildBoosters)
}

// Close stops the worker pool
func (r *reconciler) Close() {
	r.pool.StopAndWait()
}

// run executes one pass under the guard of its kind
// Nothing is published unless the whole build succeeds
func (r *reconciler) run(
	ctx context.Context,
	kind domain.ItemKind,
	guard *atomic.Bool,
	build func(ctx context.Context, builder *cache.Builder) (int, error),
) error {
	if !guard.CompareAndSwap(false, true) {
		return domain.ErrPassInProgress
	}
	defer guard.Store(false)

	runID := ulid.Make().String()
	ctx, log := logger.WithPass(ctx, logger.PassInfo{Kind: kind.String(), RunID: runID})

	startedAt := r.clock.Now()
	r.markStarted(kind, runID, startedAt)
	log.Debug("Reconciliation pass started")

	builder := cache.NewBuilder(kind)
	skipped, err := build(ctx, builder)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		err = fmt.Errorf("%s pass failed: %w", kind, err)
		r.markFailed(kind, err, r.clock.Since(startedAt))
		logger.ErrorCtx(ctx, err, zap.String("pass", kind.String()), zap.String("runID", runID))
		return err
	}

	snapshot, err := r.store.Build(builder, runID, startedAt)
	if err != nil {
		err = fmt.Errorf("%s pass failed to build snapshot: %w", kind, err)
		r.markFailed(kind, err, r.clock.Since(startedAt))
		logger.ErrorCtx(ctx, err, zap.String("pass", kind.String()), zap.String("runID", runID))
		return err
	}

	previous := r.store.Publish(snapshot)
	duration := r.clock.Since(startedAt)
	r.markSucceeded(kind, passResult{snapshot: snapshot, skipped: skipped}, duration)

	changed := previous == nil || previous.Digest() != snapshot.Digest()
	log.Info("Reconciliation pass published",
		zap.Int("owners", snapshot.OwnerCount()),
		zap.Int("items", snapshot.ItemCount()),
		zap.Int("forSale", len(snapshot.ForSale())),
		zap.Int("skipped", skipped),
		zap.Bool("changed", changed),
		zap.Duration("duration", duration))

	if changed {
		r.notify(ctx, snapshot)
	}

	return nil
}

// notify announces a changed snapshot, failures are logged only
func (r *reconciler) notify(ctx context.Context, snapshot *cache.Snapshot) {
	event := domain.SnapshotEvent{
		Kind:        snapshot.Kind(),
		RunID:       snapshot.RunID(),
		Digest:      snapshot.Digest(),
		Owners:      snapshot.OwnerCount(),
		Items:       snapshot.ItemCount(),
		ForSale:     len(snapshot.ForSale()),
		PublishedAt: r.clock.Now(),
	}
	if err := r.publisher.PublishSnapshot(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish snapshot event", zap.Error(err), zap.String("runID", event.RunID))
	}
}

// buildCards replays the transfers of every registered collection into builder
func (r *reconciler) buildCards(ctx context.Context, builder *cache.Builder) (int, error) {
	cards := r.catalog.Load()
	if cards.Len() == 0 {
		logger.WarnCtx(ctx, "Card catalog is empty, every card will be skipped")
	}

	total, err := r.client.TotalCollections(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read collection count: %w", err)
	}

	skipped := 0
	for i := uint64(0); i < total; i++ {
		address, err := r.client.Collection(ctx, i)
		if err != nil {
			return 0, fmt.Errorf("failed to read collection %d: %w", i, err)
		}

		events, err := r.client.TransferEvents(ctx, address)
		if err != nil {
			return 0, fmt.Errorf("failed to read transfers of collection %d: %w", i, err)
		}

		// Resolve catalog entries first so sale state is only read for indexable tokens
		resolved := make([]domain.TransferEvent, 0, len(events))
		for _, event := range events {
			index, ok := domain.CardIndex(event.TokenID)
			if ok {
				_, ok = cards.Lookup(index)
			}
			if !ok {
				skipped++
				logger.WarnCtx(ctx, "Card not found in catalog, skipping transfer",
					zap.Uint64("collectionId", i),
					zap.String("collectionAddress", address.Hex()),
					zap.String("tokenId", domain.FormatAmount(event.TokenID)),
					zap.String("txHash", event.TxHash))
				continue
			}
			resolved = append(resolved, event)
		}

		states, err := r.readTokens(ctx, address, resolved, r.readCard)
		if err != nil {
			return 0, fmt.Errorf("failed to read card state of collection %d: %w", i, err)
		}

		for _, event := range resolved {
			index, _ := domain.CardIndex(event.TokenID)
			card, _ := cards.Lookup(index)
			state := states[domain.FormatAmount(event.TokenID)]

			item := domain.Item{
				Kind:          domain.ItemKindCard,
				TokenID:       event.TokenID,
				Owner:         event.To,
				Name:          card.Name,
				Image:         card.ImageLarge,
				IsForSale:     state.sale.IsForSale,
				Price:         state.sale.Price,
				SourceIndex:   i,
				SourceAddress: address,
			}

			if r.config.CardOwnershipMode == config.CardOwnershipHistory {
				if event.To != domain.ETHEREUM_ZERO_ADDRESS {
					builder.Append(item)
				}
				continue
			}
			apply(builder, event, item)
		}
	}

	return skipped, nil
}

// buildBoosters replays the transfers of every registered booster contract into builder
func (r *reconciler) buildBoosters(ctx context.Context, builder *cache.Builder) (int, error) {
	total, err := r.client.TotalBoosters(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read booster count: %w", err)
	}

	for i := uint64(0); i < total; i++ {
		address, err := r.client.Booster(ctx, i)
		if err != nil {
			return 0, fmt.Errorf("failed to read booster contract %d: %w", i, err)
		}

		events, err := r.client.TransferEvents(ctx, address)
		if err != nil {
			return 0, fmt.Errorf("failed to read transfers of booster contract %d: %w", i, err)
		}

		states, err := r.readTokens(ctx, address, events, r.readBooster)
		if err != nil {
			return 0, fmt.Errorf("failed to read booster state of contract %d: %w", i, err)
		}

		for _, event := range events {
			state := states[domain.FormatAmount(event.TokenID)]
			apply(builder, event, domain.Item{
				Kind:          domain.ItemKindBooster,
				TokenID:       event.TokenID,
				Owner:         event.To,
				Name:          domain.BoosterName(event.TokenID),
				Image:         state.image,
				IsForSale:     state.sale.IsForSale,
				Price:         state.sale.Price,
				SourceIndex:   i,
				SourceAddress: address,
			})
		}
	}

	return 0, nil
}

// apply records a transfer in current-ownership form
// Burns only remove the token from its previous holder
func apply(builder *cache.Builder, event domain.TransferEvent, item domain.Item) {
	if event.To == domain.ETHEREUM_ZERO_ADDRESS {
		builder.Remove(event.From, item.Key())
		return
	}
	builder.Move(event.From, item)
}

func (r *reconciler) readCard(ctx context.Context, contract common.Address, tokenID *big.Int) (tokenState, error) {
	sale, err := r.client.CardSaleState(ctx, contract, tokenID)
	if err != nil {
		return tokenState{}, err
	}
	return tokenState{sale: sale}, nil
}

func (r *reconciler) readBooster(ctx context.Context, contract common.Address, tokenID *big.Int) (tokenState, error) {
	sale, err := r.client.BoosterSaleState(ctx, contract, tokenID)
	if err != nil {
		return tokenState{}, err
	}
	image, err := r.client.BoosterImage(ctx, contract, tokenID)
	if err != nil {
		return tokenState{}, err
	}
	return tokenState{sale: sale, image: image}, nil
}

// readTokens reads the state of every distinct token of events on the worker pool
// The reads are against the latest block, so one read per token serves every replayed transfer
func (r *reconciler) readTokens(ctx context.Context, contract common.Address, events []domain.TransferEvent, read tokenReader) (map[string]tokenState, error) {
	tokenIDs := make([]*big.Int, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, event := range events {
		key := domain.FormatAmount(event.TokenID)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		tokenIDs = append(tokenIDs, event.TokenID)
	}

	results := make([]tokenState, len(tokenIDs))
	group := r.pool.NewGroup()
	for idx, tokenID := range tokenIDs {
		group.SubmitErr(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			state, err := read(ctx, contract, tokenID)
			if err != nil {
				return fmt.Errorf("token %s: %w", tokenID.String(), err)
			}
			if state.sale.Price == nil {
				state.sale.Price = new(big.Int)
			}
			results[idx] = state
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	states := make(map[string]tokenState, len(tokenIDs))
	for idx, tokenID := range tokenIDs {
		states[domain.FormatAmount(tokenID)] = results[idx]
	}
	return states, nil
}
