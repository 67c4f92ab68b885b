package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports whether the backing stores answer. Postgres and redis share
// a 3s ping budget; either failing turns the response into a 503.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "down"
		}

		redisState := "up"
		if rdb.Ping(ctx).Err() != nil {
			redisState = "down"
		}

		status := http.StatusOK
		if postgres == "down" || redisState == "down" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"postgres": postgres,
			"redis":    redisState,
		})
	}
}
