package cache

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"

	"github.com/tcgmarket/market-indexer/internal/adapter"
	"github.com/tcgmarket/market-indexer/internal/domain"
)

// OwnerItems is one entry of the ownership index
type OwnerItems struct {
	Owner string
	Items []domain.Item
}

// Snapshot is an immutable ownership index of one item kind plus its derived for-sale list
type Snapshot struct {
	kind    domain.ItemKind
	runID   string
	builtAt time.Time
	owners  []string
	byOwner map[string][]domain.Item
	forSale []domain.Item
	digest  string
}

// Kind returns the item kind the snapshot indexes
func (s *Snapshot) Kind() domain.ItemKind {
	return s.kind
}

// RunID returns the id of the pass that built the snapshot, empty for the initial snapshot
func (s *Snapshot) RunID() string {
	return s.runID
}

// BuiltAt returns the time the snapshot was built
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Digest returns the content digest of the ownership index
func (s *Snapshot) Digest() string {
	return s.digest
}

// Owners returns the owner addresses in first-seen order
func (s *Snapshot) Owners() []string {
	return append([]string{}, s.owners...)
}

// Items returns the items held by owner, matched case-insensitively
// The second return value is false when the owner never received an item
func (s *Snapshot) Items(owner string) ([]domain.Item, bool) {
	items, ok := s.byOwner[domain.NormalizeAddress(owner)]
	if !ok {
		return nil, false
	}
	return append([]domain.Item{}, items...), true
}

// Entries returns the whole ownership index in owner order
func (s *Snapshot) Entries() []OwnerItems {
	return lo.Map(s.owners, func(owner string, _ int) OwnerItems {
		return OwnerItems{Owner: owner, Items: append([]domain.Item{}, s.byOwner[owner]...)}
	})
}

// Find returns the first item with the token id, scanning owners in order
func (s *Snapshot) Find(tokenID *big.Int) (domain.Item, bool) {
	for _, owner := range s.owners {
		item, ok := lo.Find(s.byOwner[owner], func(item domain.Item) bool {
			return item.TokenID != nil && item.TokenID.Cmp(tokenID) == 0
		})
		if ok {
			return item, true
		}
	}
	return domain.Item{}, false
}

// ForSale returns the listed items, each carrying its owner
func (s *Snapshot) ForSale() []domain.Item {
	return append([]domain.Item{}, s.forSale...)
}

// ItemCount returns the number of records in the ownership index
func (s *Snapshot) ItemCount() int {
	return lo.SumBy(s.owners, func(owner string) int {
		return len(s.byOwner[owner])
	})
}

// OwnerCount returns the number of owners in the ownership index
func (s *Snapshot) OwnerCount() int {
	return len(s.owners)
}

type digestItem struct {
	Kind          string `json:"kind"`
	TokenID       string `json:"tokenId"`
	Name          string `json:"name"`
	Image         string `json:"image"`
	IsForSale     bool   `json:"isForSale"`
	Price         string `json:"price"`
	SourceIndex   uint64 `json:"sourceIndex"`
	SourceAddress string `json:"sourceAddress"`
}

type digestEntry struct {
	Owner string       `json:"owner"`
	Items []digestItem `json:"items"`
}

// computeDigest hashes the canonical JSON form of the ownership index
func computeDigest(codec adapter.JSON, jcs adapter.JCS, owners []string, byOwner map[string][]domain.Item) (string, error) {
	entries := lo.Map(owners, func(owner string, _ int) digestEntry {
		return digestEntry{
			Owner: owner,
			Items: lo.Map(byOwner[owner], func(item domain.Item, _ int) digestItem {
				return digestItem{
					Kind:          item.Kind.String(),
					TokenID:       domain.FormatAmount(item.TokenID),
					Name:          item.Name,
					Image:         item.Image,
					IsForSale:     item.IsForSale,
					Price:         domain.FormatAmount(item.Price),
					SourceIndex:   item.SourceIndex,
					SourceAddress: item.SourceAddress.Hex(),
				}
			}),
		}
	})

	raw, err := codec.Marshal(entries)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ownership index: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize ownership index: %w", err)
	}

	return crypto.Keccak256Hash(canonical).Hex(), nil
}
