package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the client IP into the Gin context (key: "real_ip"),
// preferring CF-Connecting-IP, then the left-most X-Forwarded-For entry,
// then gin's own resolution.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.GetHeader("CF-Connecting-IP")
		if ip == "" {
			ip, _, _ = strings.Cut(c.GetHeader("X-Forwarded-For"), ",")
		}
		if parsed := net.ParseIP(strings.TrimSpace(ip)); parsed != nil {
			c.Set("real_ip", parsed.String())
		} else {
			c.Set("real_ip", c.ClientIP())
		}
		c.Next()
	}
}
