package rest

import (
	"math/big"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tcgmarket/market-indexer/internal/domain"
)

const (
	queryUserID    = "userId"
	queryCardID    = "cardId"
	queryBoosterID = "boosterId"
)

// ItemQuery selects what an item listing returns
// UserID takes precedence over TokenID, neither set selects the whole mapping
type ItemQuery struct {
	UserID  string
	TokenID *big.Int
}

// ParseItemQuery parses the userId and token id query parameters
// The token id is only parsed when no userId is given
func ParseItemQuery(c *gin.Context, tokenParam string) (ItemQuery, error) {
	userID := domain.NormalizeAddress(c.Query(queryUserID))
	if userID != "" {
		return ItemQuery{UserID: userID}, nil
	}

	raw := strings.TrimSpace(c.Query(tokenParam))
	if raw == "" {
		return ItemQuery{}, nil
	}

	tokenID, err := domain.ParseTokenID(raw)
	if err != nil {
		return ItemQuery{}, err
	}
	return ItemQuery{TokenID: tokenID}, nil
}
