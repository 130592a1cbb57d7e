package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every error response
type errorResponse struct {
	Error string `json:"error"`
}

// respondWithError sends an error response
func respondWithError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, errorResponse{Error: message})
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, message)
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, http.StatusNotFound, message)
}
