// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/modules/plan"
	"github.com/cow-planmate/Ai/internal/modules/pricing"
	"github.com/cow-planmate/Ai/internal/modules/recommendation"
	"github.com/cow-planmate/Ai/internal/modules/schedule"
	"github.com/cow-planmate/Ai/internal/timeslot"
)

// Per-request deadlines. Chat and scheduling chain several outbound calls.
const (
	chatTimeout           = 60 * time.Second
	scheduleTimeout       = 60 * time.Second
	recommendationTimeout = 90 * time.Second
	priceTimeout          = 90 * time.Second
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// bindJSON decodes the body; decoding failures, including malformed times and
// dates inside the plan snapshot, are answered with 400 naming the problem.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json: "+err.Error())
		return false
	}
	return true
}

func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, schedule.ErrBadDays),
		errors.Is(err, schedule.ErrBadDestination),
		errors.Is(err, plan.ErrBadDate),
		errors.Is(err, plan.ErrUnresolved),
		errors.Is(err, timeslot.ErrBadTime),
		errors.Is(err, pricing.ErrBadHeadcount),
		errors.Is(err, recommendation.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, recommendation.ErrForecast):
		writeError(c, http.StatusInternalServerError, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
