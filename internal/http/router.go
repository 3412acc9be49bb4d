// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/http/handlers"
	"github.com/cow-planmate/Ai/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())
	r.Use(middleware.NewRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst).Limit())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/", middleware.InternalToken(deps.InternalToken))

	if deps.Chat != nil {
		h := handlers.NewChatHandler(deps.Chat)
		api.POST("/api/chatbot/generate", h.Generate)
	} else {
		api.POST("/api/chatbot/generate", unavailable("chat model"))
	}

	if deps.Schedule != nil {
		h := handlers.NewItineraryHandler(deps.Schedule)
		api.POST("/api/itinerary/auto-schedule", h.AutoSchedule)
	} else {
		api.POST("/api/itinerary/auto-schedule", unavailable("place search"))
	}
	api.POST("/api/itinerary/reconcile", handlers.Reconcile)

	if deps.Recommendation != nil {
		h := handlers.NewRecommendationHandler(deps.Recommendation)
		api.POST("/recommendations", h.Recommend)
	} else {
		api.POST("/recommendations", unavailable("weather"))
	}

	if deps.Pricing != nil {
		h := handlers.NewPriceHandler(deps.Pricing)
		api.POST("/price", h.Estimate)
	} else {
		api.POST("/price", unavailable("price estimator"))
	}

	return r
}

func unavailable(what string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": what + " is not configured"})
	}
}
