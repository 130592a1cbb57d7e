package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no prefix)
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/cards", handler.GetCards)
		api.GET("/cards/for-sale", handler.GetCardsForSale)
		api.GET("/boosters", handler.GetBoosters)
		api.GET("/boosters/for-sale", handler.GetBoostersForSale)
		api.GET("/status", handler.GetStatus)
	}

	// Routes used by the legacy front-end
	nft := router.Group("/nft")
	{
		nft.GET("/all", handler.GetOwners)
		nft.GET("/userID", handler.GetUserCards)
	}

	router.NoRoute(func(c *gin.Context) {
		respondWithError(c, http.StatusNotFound, "Not found")
	})
}
