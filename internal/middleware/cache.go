package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CacheControl sets the Cache-Control header for every response of a route group.
func CacheControl(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// NoStore keeps live attempt state and admin data out of browser and proxy caches.
func NoStore() gin.HandlerFunc {
	return CacheControl("no-store")
}

// PublicMaxAge allows shared caching for maxAgeSeconds.
func PublicMaxAge(maxAgeSeconds int) gin.HandlerFunc {
	return CacheControl(fmt.Sprintf("public, max-age=%d", maxAgeSeconds))
}
