package middleware

import (
	"log"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func EnhancedRecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
				utils.TrackError("panic", "recovered")
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}
