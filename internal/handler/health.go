package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health pings the two stores the catalog depends on: postgres for the
// inventory rows, redis for the token denylist and the cleanup queue.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}

		queue := "up"
		if rdb.Ping(ctx).Err() != nil {
			queue = "down"
		}

		status := http.StatusOK
		overall := "ok"
		if postgres == "down" || queue == "down" {
			status = http.StatusServiceUnavailable
			overall = "degraded"
		}

		c.JSON(status, gin.H{
			"status":   overall,
			"postgres": postgres,
			"redis":    queue,
		})
	}
}
