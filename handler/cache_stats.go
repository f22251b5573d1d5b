package handler

import (
	"net/http"

	"github.com/edison-alpha/intic-id-sub002/cache"
	"github.com/edison-alpha/intic-id-sub002/model"
	"github.com/edison-alpha/intic-id-sub002/response"
)

// CacheStats exposes the advisory hit/miss snapshot. Nothing load-bearing
// reads this.
func CacheStats(c *cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := make(model.CacheStats)
		for class, s := range c.Stats() {
			stats[class] = model.ClassStats{Hits: s.Hits, Misses: s.Misses}
		}

		response.SuccessResponse{
			Data:       &response.Data{CacheStats: stats},
			StatusCode: http.StatusOK,
		}.Send(w)
	}
}
