package handler

import (
	"context"
	"net/http"
	"time"

	"tokopos/internal/infra"
	"tokopos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Health returns a JSON health check response.
// Checks the local store and Redis connectivity, and reports the active
// persistence mode plus the backend circuit breaker state. Never exposes
// credentials or internals.
func Health(local *infra.LocalDB, rdb *redis.Client, selector repository.Selector, cb *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		localStatus := "connected"
		if _, _, err := local.Get(repository.CollectionProducts); err != nil {
			localStatus = "error"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		mode := "local"
		if selector() {
			mode = "remote"
		}

		status := http.StatusOK
		if localStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"local_db": localStatus,
			"redis":    redisStatus,
			"mode":     mode,
			"backend":  cb.State().String(),
		})
	}
}
