package api

import (
	"log/slog"
	"time"

	"github.com/UnknownOlympus/hermes/internal/auth"
	"github.com/gin-gonic/gin"
)

const riderIDKey = "rider_id"

// TokenVerifier resolves a bearer token to a rider id.
type TokenVerifier interface {
	RiderID(token string) (string, error)
}

// Identify stores the verified rider id in the gin context. Requests without a
// valid token continue anonymously; the dispatch service decides whether that is fatal.
func Identify(verifier TokenVerifier, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var riderID string
			riderID, err = verifier.RiderID(token)
			if err == nil {
				c.Set(riderIDKey, riderID)
			}
		}
		if err != nil {
			log.DebugContext(c.Request.Context(), "Request without a valid rider token", "error", err)
		}
		c.Next()
	}
}

// RequestLogger logs one line per request.
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.InfoContext(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
