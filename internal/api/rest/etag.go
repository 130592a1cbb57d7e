package rest

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tcgmarket/market-indexer/internal/cache"
)

// respondSnapshot sends a payload derived from snapshot, tagged with the snapshot digest
// A matching If-None-Match short-circuits to 304 Not Modified
func respondSnapshot(c *gin.Context, snapshot *cache.Snapshot, payload interface{}) {
	etag := `"` + snapshot.Digest() + `"`
	c.Header("ETag", etag)
	c.Header("Cache-Control", "no-cache")

	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}

	c.JSON(http.StatusOK, payload)
}

// etagMatches applies the weak comparison of If-None-Match
func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
