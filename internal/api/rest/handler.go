package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tcgmarket/market-indexer/internal/api/rest/dto"
	"github.com/tcgmarket/market-indexer/internal/cache"
	"github.com/tcgmarket/market-indexer/internal/domain"
)

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// GetCards returns a user's cards, a single card or the whole ownership mapping
	// GET /api/cards?userId=<address>&cardId=<tokenId>
	GetCards(c *gin.Context)

	// GetCardsForSale returns the listed cards with their owners
	// GET /api/cards/for-sale
	GetCardsForSale(c *gin.Context)

	// GetOwners returns the addresses present in the card ownership index
	// GET /nft/all
	GetOwners(c *gin.Context)

	// GetUserCards returns the cards of one user
	// GET /nft/userID?userId=<address>
	GetUserCards(c *gin.Context)

	// GetBoosters returns a user's boosters, a single booster or the whole ownership mapping
	// GET /api/boosters?userId=<address>&boosterId=<tokenId>
	GetBoosters(c *gin.Context)

	// GetBoostersForSale returns the listed boosters with their owners
	// GET /api/boosters/for-sale
	GetBoostersForSale(c *gin.Context)

	// GetStatus returns the reconciliation status
	// GET /api/status
	GetStatus(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// StatusProvider reports the reconciliation status
type StatusProvider interface {
	Status() domain.ReconcilerStatus
}

// handler implements the Handler interface
type handler struct {
	store  *cache.Store
	status StatusProvider
}

// NewHandler creates a new REST API handler reading from store
func NewHandler(store *cache.Store, status StatusProvider) Handler {
	return &handler{
		store:  store,
		status: status,
	}
}

// itemMessages holds the kind-specific error messages of an item listing
type itemMessages struct {
	invalidID string
	notFound  string
}

var (
	cardMessages    = itemMessages{invalidID: "Invalid card ID", notFound: "Card not found"}
	boosterMessages = itemMessages{invalidID: "Invalid booster ID", notFound: "Booster not found"}
)

// GetCards returns a user's cards, a single card or the whole ownership mapping
func (h *handler) GetCards(c *gin.Context) {
	h.listItems(c, h.store.Cards(), queryCardID, cardMessages)
}

// GetCardsForSale returns the listed cards with their owners
func (h *handler) GetCardsForSale(c *gin.Context) {
	snapshot := h.store.Cards()
	respondSnapshot(c, snapshot, dto.ToForSaleResponses(snapshot.ForSale()))
}

// GetOwners returns the addresses present in the card ownership index
func (h *handler) GetOwners(c *gin.Context) {
	snapshot := h.store.Cards()
	respondSnapshot(c, snapshot, snapshot.Owners())
}

// GetUserCards returns the cards of one user
func (h *handler) GetUserCards(c *gin.Context) {
	userID := domain.NormalizeAddress(c.Query(queryUserID))
	if userID == "" {
		respondBadRequest(c, "User ID is required")
		return
	}

	snapshot := h.store.Cards()
	items, ok := snapshot.Items(userID)
	if !ok {
		respondNotFound(c, "User not found")
		return
	}

	respondSnapshot(c, snapshot, dto.ToItemResponses(items))
}

// GetBoosters returns a user's boosters, a single booster or the whole ownership mapping
func (h *handler) GetBoosters(c *gin.Context) {
	h.listItems(c, h.store.Boosters(), queryBoosterID, boosterMessages)
}

// GetBoostersForSale returns the listed boosters with their owners
func (h *handler) GetBoostersForSale(c *gin.Context) {
	snapshot := h.store.Boosters()
	respondSnapshot(c, snapshot, dto.ToForSaleResponses(snapshot.ForSale()))
}

// GetStatus returns the reconciliation status
func (h *handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToStatusResponse(h.status.Status()))
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}

// listItems serves one item kind from a single snapshot so every branch sees the same pass
func (h *handler) listItems(c *gin.Context, snapshot *cache.Snapshot, tokenParam string, messages itemMessages) {
	query, err := ParseItemQuery(c, tokenParam)
	if err != nil {
		respondBadRequest(c, messages.invalidID)
		return
	}

	switch {
	case query.UserID != "":
		items, ok := snapshot.Items(query.UserID)
		if !ok {
			respondNotFound(c, "User not found")
			return
		}
		respondSnapshot(c, snapshot, dto.ToItemResponses(items))

	case query.TokenID != nil:
		item, ok := snapshot.Find(query.TokenID)
		if !ok {
			respondNotFound(c, messages.notFound)
			return
		}
		respondSnapshot(c, snapshot, dto.ToItemResponse(item))

	default:
		respondSnapshot(c, snapshot, dto.ToOwnerMapping(snapshot))
	}
}
