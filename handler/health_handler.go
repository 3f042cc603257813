package handler

import (
	"context"
	"time"

	"github.com/kriswind/everything-app/services"
	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness of the service and its backing stores.
func HealthHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	mongoStatus := "ok"
	if err := utils.PingMongo(ctx); err != nil {
		mongoStatus = "unreachable"
	}

	redisStatus := "not_configured"
	if services.TokenBlacklist != nil {
		redisStatus = "ok"
		if !services.TokenBlacklist.IsConnected() {
			redisStatus = "unreachable"
		}
	}

	utils.Success(c, gin.H{
		"status": "ok",
		"mongo":  mongoStatus,
		"redis":  redisStatus,
		"time":   time.Now().UTC(),
	})
}
