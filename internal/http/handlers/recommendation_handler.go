// README: Weather-based outfit recommendation handler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/modules/recommendation"
)

type RecommendationHandler struct {
	rec *recommendation.Service
}

func NewRecommendationHandler(svc *recommendation.Service) *RecommendationHandler {
	return &RecommendationHandler{rec: svc}
}

// Recommend handles POST /recommendations.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req recommendation.Request
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), recommendationTimeout)
	defer cancel()

	resp, err := h.rec.Recommend(ctx, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}
