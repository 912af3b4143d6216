package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"screenly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware enforces per-IP rate limits by route class
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Redis being down should not take the API down with it
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType classifies a route into a limit class. Order placement
// and payment endpoints get the strictest budget since they hold seats.
func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.Contains(path, "/manager/"):
		return RateLimitTypeManager

	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth

	case strings.Contains(path, "/orders"):
		return RateLimitTypeOrder

	case strings.Contains(path, "/movies"),
		strings.Contains(path, "/sessions"),
		strings.Contains(path, "/theatres"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// getClientIP extracts the real client IP
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return ip
}
