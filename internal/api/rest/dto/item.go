package dto

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/samber/lo"

	"github.com/tcgmarket/market-indexer/internal/cache"
	"github.com/tcgmarket/market-indexer/internal/domain"
)

// CardResponse represents a card held by an owner
type CardResponse struct {
	TokenID           string `json:"tokenId"`
	Name              string `json:"name"`
	Image             string `json:"image"`
	IsForSale         bool   `json:"isForSale"`
	Price             string `json:"price"`
	CollectionID      string `json:"collectionId"`
	CollectionAddress string `json:"collectionAddress"`
}

// ForSaleCardResponse represents a listed card and its owner
type ForSaleCardResponse struct {
	CardResponse
	Owner string `json:"owner"`
}

// BoosterResponse represents a booster held by an owner
type BoosterResponse struct {
	TokenID        string `json:"tokenId"`
	Name           string `json:"name"`
	Image          string `json:"image"`
	IsForSale      bool   `json:"isForSale"`
	Price          string `json:"price"`
	BoosterID      string `json:"boosterId"`
	BoosterAddress string `json:"boosterAddress"`
}

// ForSaleBoosterResponse represents a listed booster and its owner
type ForSaleBoosterResponse struct {
	BoosterResponse
	Owner string `json:"owner"`
}

// OwnerEntry is one owner of an OwnerMapping
type OwnerEntry struct {
	Owner string
	Items interface{}
}

// OwnerMapping is a JSON object keyed by owner address that keeps the index order
type OwnerMapping []OwnerEntry

// MarshalJSON writes the entries as object members in order
func (m OwnerMapping) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Owner)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(entry.Items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ToCardResponse converts a card item to its response form
func ToCardResponse(item domain.Item) CardResponse {
	return CardResponse{
		TokenID:           domain.FormatAmount(item.TokenID),
		Name:              item.Name,
		Image:             item.Image,
		IsForSale:         item.IsForSale,
		Price:             domain.FormatAmount(item.Price),
		CollectionID:      strconv.FormatUint(item.SourceIndex, 10),
		CollectionAddress: item.SourceAddress.Hex(),
	}
}

// ToBoosterResponse converts a booster item to its response form
func ToBoosterResponse(item domain.Item) BoosterResponse {
	return BoosterResponse{
		TokenID:        domain.FormatAmount(item.TokenID),
		Name:           item.Name,
		Image:          item.Image,
		IsForSale:      item.IsForSale,
		Price:          domain.FormatAmount(item.Price),
		BoosterID:      strconv.FormatUint(item.SourceIndex, 10),
		BoosterAddress: item.SourceAddress.Hex(),
	}
}

// ToItemResponse converts an item according to its kind
func ToItemResponse(item domain.Item) interface{} {
	if item.Kind == domain.ItemKindBooster {
		return ToBoosterResponse(item)
	}
	return ToCardResponse(item)
}

// ToItemResponses converts items according to their kind, never returning nil
func ToItemResponses(items []domain.Item) []interface{} {
	return lo.Map(items, func(item domain.Item, _ int) interface{} {
		return ToItemResponse(item)
	})
}

// ToForSaleResponses converts listed items, each carrying its owner
func ToForSaleResponses(items []domain.Item) []interface{} {
	return lo.Map(items, func(item domain.Item, _ int) interface{} {
		if item.Kind == domain.ItemKindBooster {
			return ForSaleBoosterResponse{BoosterResponse: ToBoosterResponse(item), Owner: item.Owner}
		}
		return ForSaleCardResponse{CardResponse: ToCardResponse(item), Owner: item.Owner}
	})
}

// ToOwnerMapping converts the whole ownership index of a snapshot
func ToOwnerMapping(snapshot *cache.Snapshot) OwnerMapping {
	return lo.Map(snapshot.Entries(), func(entry cache.OwnerItems, _ int) OwnerEntry {
		return OwnerEntry{Owner: entry.Owner, Items: ToItemResponses(entry.Items)}
	})
}
