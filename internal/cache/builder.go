package cache

import (
	"time"

	"github.com/samber/lo"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/domain"
)

// Builder accumulates an ownership index during a pass
// A Builder is owned by a single pass and is not safe for concurrent use
type Builder struct {
	kind    domain.ItemKind
	owners  []string
	byOwner map[string][]domain.Item
}

// NewBuilder creates an empty builder for one item kind
func NewBuilder(kind domain.ItemKind) *Builder {
	return &Builder{
		kind:    kind,
		byOwner: make(map[string][]domain.Item),
	}
}

// Append adds the item to the end of its owner's list, registering the owner on first use
func (b *Builder) Append(item domain.Item) {
	owner := domain.NormalizeAddress(item.Owner)
	item.Owner = owner
	if _, ok := b.byOwner[owner]; !ok {
		b.owners = append(b.owners, owner)
	}
	b.byOwner[owner] = append(b.byOwner[owner], item)
}

// Remove drops every record of the token from owner's list
// The owner stays in the index, possibly with an empty list
func (b *Builder) Remove(owner string, key domain.TokenKey) {
	owner = domain.NormalizeAddress(owner)
	items, ok := b.byOwner[owner]
	if !ok {
		return
	}
	b.byOwner[owner] = lo.Filter(items, func(item domain.Item, _ int) bool {
		return item.Key() != key
	})
}

// Move records a transfer in current-ownership form: the token leaves from and is appended under item.Owner
// Mints (from is the zero address) only append
func (b *Builder) Move(from string, item domain.Item) {
	from = domain.NormalizeAddress(from)
	if from != "" && from != domain.ETHEREUM_ZERO_ADDRESS {
		b.Remove(from, item.Key())
	}
	b.Append(item)
}

// Build freezes the builder into a snapshot, the builder must not be used afterwards
// The for-sale list is derived from the final ownership index
func (b *Builder) Build(codec adapter.JSON, jcs adapter.JCS, runID string, builtAt time.Time) (*Snapshot, error) {
	digest, err := computeDigest(codec, jcs, b.owners, b.byOwner)
	if err != nil {
		return nil, err
	}

	forSale := make([]domain.Item, 0)
	for _, owner := range b.owners {
		forSale = append(forSale, lo.Filter(b.byOwner[owner], func(item domain.Item, _ int) bool {
			return item.IsForSale
		})...)
	}

	return &Snapshot{
		kind:    b.kind,
		runID:   runID,
		builtAt: builtAt,
		owners:  b.owners,
		byOwner: b.byOwner,
		forSale: forSale,
		digest:  digest,
	}, nil
}
