package domain

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ItemKind represents the token family an item belongs to
type ItemKind string

const (
	ItemKindCard    ItemKind = "card"
	ItemKindBooster ItemKind = "booster"
)

// String returns the string representation of the ItemKind
func (k ItemKind) String() string {
	return string(k)
}

// Item represents a token held by one owner at the end of a reconciliation pass
type Item struct {
	Kind          ItemKind       // card or booster
	TokenID       *big.Int       // token id, unique per contract instance
	Owner         string         // lowercase owner address
	Name          string         // display name
	Image         string         // image URI
	IsForSale     bool           // listing state read from the contract
	Price         *big.Int       // listing price in wei
	SourceIndex   uint64         // index of the contract instance in the registry
	SourceAddress common.Address // address of the contract instance
}

// Key returns the identity of the token the item represents
func (i Item) Key() TokenKey {
	return NewTokenKey(i.SourceAddress, i.TokenID)
}

// TokenKey identifies a token across contract instances
type TokenKey struct {
	Contract common.Address
	TokenID  string
}

// NewTokenKey creates a new TokenKey
func NewTokenKey(contract common.Address, tokenID *big.Int) TokenKey {
	return TokenKey{Contract: contract, TokenID: FormatAmount(tokenID)}
}

// String returns the string representation of the TokenKey
func (k TokenKey) String() string {
	return fmt.Sprintf("%s:%s", k.Contract.Hex(), k.TokenID)
}

// TransferEvent represents a decoded ERC721 Transfer log
type TransferEvent struct {
	Contract    common.Address // emitting contract
	From        string         // lowercase sender address (zero address for mints)
	To          string         // lowercase recipient address (zero address for burns)
	TokenID     *big.Int       // transferred token id
	BlockNumber uint64         // block number
	LogIndex    uint           // log index in the block (for ordering)
	TxHash      string         // transaction hash
}

// IsMint returns true if the transfer created the token
func (e TransferEvent) IsMint() bool {
	return e.From == "" || e.From == ETHEREUM_ZERO_ADDRESS
}

// SaleState represents the listing state of a token as stored on-chain
type SaleState struct {
	IsForSale bool
	Price     *big.Int
}

// ContractRef identifies a contract instance registered in the registry
type ContractRef struct {
	Index   uint64
	Address common.Address
}

// CardIndex returns the catalog position of a card token (tokenId - 1)
// The second return value is false when the token id cannot map to a position
func CardIndex(tokenID *big.Int) (int, bool) {
	if tokenID == nil || tokenID.Sign() <= 0 {
		return 0, false
	}
	index := new(big.Int).Sub(tokenID, big.NewInt(1))
	if !index.IsInt64() || index.Int64() > math.MaxInt {
		return 0, false
	}
	return int(index.Int64()), true
}

// BoosterName returns the display name of a booster token
func BoosterName(tokenID *big.Int) string {
	return BOOSTER_NAME_PREFIX + FormatAmount(tokenID)
}

// ParseTokenID parses a decimal token id
func ParseTokenID(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, ErrInvalidTokenID
	}
	tokenID, ok := new(big.Int).SetString(value, 10)
	if !ok || tokenID.Sign() < 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTokenID, value)
	}
	return tokenID, nil
}

// FormatAmount renders a large integer as a decimal string, nil renders as "0"
func FormatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// NormalizeAddress normalizes an address to the lowercase form used as an ownership key
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// NormalizeAddresses normalizes a list of addresses in place
func NormalizeAddresses(addresses []string) []string {
	for i, address := range addresses {
		addresses[i] = NormalizeAddress(address)
	}
	return addresses
}

// AddressKey returns the ownership key of an on-chain address
func AddressKey(address common.Address) string {
	return strings.ToLower(address.Hex())
}

// SnapshotEvent announces that a pass published a changed snapshot
type SnapshotEvent struct {
	Kind        ItemKind  `json:"kind"`
	RunID       string    `json:"runId"`
	Digest      string    `json:"digest"`
	Owners      int       `json:"owners"`
	Items       int       `json:"items"`
	ForSale     int       `json:"forSale"`
	PublishedAt time.Time `json:"publishedAt"`
}
