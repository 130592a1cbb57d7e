package cache

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/domain"
	"github.com/tcgmarket/market-indexer/internal/logger"
)

// Store is the serving cache: one atomically swapped snapshot per item kind
// Readers load a snapshot and never observe a partially built index
type Store struct {
	codec    adapter.JSON
	jcs      adapter.JCS
	cards    atomic.Pointer[Snapshot]
	boosters atomic.Pointer[Snapshot]
}

// NewStore creates a store holding empty snapshots
func NewStore(codec adapter.JSON, jcs adapter.JCS) *Store {
	s := &Store{codec: codec, jcs: jcs}
	s.cards.Store(s.emptySnapshot(domain.ItemKindCard))
	s.boosters.Store(s.emptySnapshot(domain.ItemKindBooster))
	return s
}

func (s *Store) emptySnapshot(kind domain.ItemKind) *Snapshot {
	snapshot, err := NewBuilder(kind).Build(s.codec, s.jcs, "", time.Time{})
	if err != nil {
		logger.Warn("failed to digest empty snapshot", zap.String("kind", kind.String()), zap.Error(err))
		return &Snapshot{kind: kind, byOwner: map[string][]domain.Item{}, forSale: []domain.Item{}}
	}
	return snapshot
}

// Build freezes builder into a snapshot using the store encoders
func (s *Store) Build(builder *Builder, runID string, builtAt time.Time) (*Snapshot, error) {
	return builder.Build(s.codec, s.jcs, runID, builtAt)
}

// Cards returns the current card snapshot
func (s *Store) Cards() *Snapshot {
	return s.cards.Load()
}

// Boosters returns the current booster snapshot
func (s *Store) Boosters() *Snapshot {
	return s.boosters.Load()
}

// Snapshot returns the current snapshot of the kind
func (s *Store) Snapshot(kind domain.ItemKind) *Snapshot {
	if kind == domain.ItemKindBooster {
		return s.Boosters()
	}
	return s.Cards()
}

// Publish swaps in the snapshot for its kind and returns the replaced one
func (s *Store) Publish(snapshot *Snapshot) *Snapshot {
	if snapshot.Kind() == domain.ItemKindBooster {
		return s.boosters.Swap(snapshot)
	}
	return s.cards.Swap(snapshot)
}
