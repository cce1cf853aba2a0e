package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes registers the API. history may be nil when the invocation log
// is disabled; the history routes then answer 503.
func SetupRoutes(router *gin.Engine, handler *Handler, history *HistoryHandler, allowedOrigins []string) {
	router.Use(corsMiddleware(allowedOrigins))

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)
		api.GET("/tools", handler.ListTools)
		api.POST("/tools/:name", handler.CallTool)

		if history != nil {
			api.GET("/invocations", history.ListInvocations)
			api.GET("/invocations/stats", history.InvocationStats)
		} else {
			api.GET("/invocations", historyDisabled)
			api.GET("/invocations/stats", historyDisabled)
		}
	}
}

func historyDisabled(c *gin.Context) {
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Invocation log is disabled"})
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}

	allowAll := len(allowedOrigins) == 0
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}

	return cors.New(cfg)
}
