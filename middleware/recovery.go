package middleware

import (
	"log"
	"net/http"

	"github.com/kriswind/everything-app/utils"

	"github.com/gin-gonic/gin"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				utils.TrackError("panic", c.Request.URL.Path)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
