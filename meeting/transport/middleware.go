package transport

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/time/rate"

	"github.com/imtaco/meet-embed/internal/errors"
	"github.com/imtaco/meet-embed/internal/jwt"
	"github.com/imtaco/meet-embed/internal/log"
)

const payloadKey = "jwtPayload"

func bearerToken(c *gin.Context) string {
	token := c.GetHeader("Authorization")
	if len(token) > 7 && strings.EqualFold(token[:7], "Bearer ") {
		return token[7:]
	}
	if token != "" {
		return token
	}
	// browsers cannot set headers on a websocket upgrade
	return c.Query("token")
}

// requireScope verifies the bearer token and checks it grants scope.
func requireScope(auth jwt.Auth, scope jwt.Scope, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := auth.Verify(bearerToken(c))
		if err != nil {
			reason := "invalid"
			if errors.Is(err, jwt.ErrNoToken) {
				reason = "missing"
			}
			authFailuresTotal.Add(c.Request.Context(), 1, metric.WithAttributes(attribute.String("reason", reason)))
			logger.Debug("reject token", log.String("path", c.FullPath()), log.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		if !payload.Scope.Allows(scope) {
			authFailuresTotal.Add(c.Request.Context(), 1, metric.WithAttributes(attribute.String("reason", "scope")))
			logger.Info("insufficient scope",
				log.String("hostId", payload.HostID),
				log.String("scope", string(payload.Scope)),
				log.String("required", string(scope)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   jwt.ErrForbidden.Error(),
			})
			return
		}
		c.Set(payloadKey, payload)
		c.Next()
	}
}

func hostID(c *gin.Context) string {
	if v, ok := c.Get(payloadKey); ok {
		if p, ok := v.(*jwt.Payload); ok {
			return p.HostID
		}
	}
	return ""
}

// rateLimit shares one token bucket across the routes it guards.
func rateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			rateLimitedTotal.Add(c.Request.Context(), 1)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "rate limited",
			})
			return
		}
		c.Next()
	}
}
