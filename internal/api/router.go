package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// AllowedHeaders are the request headers browsers may send cross-origin.
var AllowedHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

// NewRouter builds the public API engine.
func NewRouter(h *Handler, verifier TokenVerifier, log *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:    AllowedHeaders,
		MaxAge:          12 * time.Hour,
	}))

	v1 := r.Group("/v1")
	v1.Use(Identify(verifier, log))
	{
		v1.POST("/drivers/nearest", h.Nearest)
	}

	return r
}
