// README: Trip cost estimation handler.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/modules/pricing"
)

type PriceHandler struct {
	pricing *pricing.Service
}

func NewPriceHandler(svc *pricing.Service) *PriceHandler {
	return &PriceHandler{pricing: svc}
}

// Estimate handles POST /price.
func (h *PriceHandler) Estimate(c *gin.Context) {
	var req pricing.Request
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), priceTimeout)
	defer cancel()

	resp, err := h.pricing.Estimate(ctx, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}
