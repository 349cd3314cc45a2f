package middleware

import "github.com/gin-gonic/gin"

// CacheControlMiddleware marks responses as publicly cacheable for the given
// number of seconds. Applied to the stats routes, whose aggregates only
// change when completion history does.
func CacheControlMiddleware(maxAge string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age="+maxAge)
		c.Next()
	}
}
