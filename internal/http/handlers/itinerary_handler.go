// README: Itinerary handlers: multi-day auto-scheduling and pending-id reconciliation.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/modules/plan"
	"github.com/cow-planmate/Ai/internal/modules/schedule"
)

type ItineraryHandler struct {
	schedule *schedule.Service
}

func NewItineraryHandler(svc *schedule.Service) *ItineraryHandler {
	return &ItineraryHandler{schedule: svc}
}

type autoScheduleReq struct {
	Days        int          `json:"days"`
	StartDate   plan.Date    `json:"startDate"`
	Destination string       `json:"destination"`
	PlanContext plan.Context `json:"planContext"`
}

// AutoSchedule handles POST /api/itinerary/auto-schedule.
func (h *ItineraryHandler) AutoSchedule(c *gin.Context) {
	var req autoScheduleReq
	if !bindJSON(c, &req) {
		return
	}
	if req.StartDate == "" {
		writeError(c, http.StatusBadRequest, "missing startDate")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), scheduleTimeout)
	defer cancel()

	res, err := h.schedule.Generate(ctx, schedule.Request{
		Days:        req.Days,
		StartDate:   req.StartDate,
		Destination: req.Destination,
		PlanContext: req.PlanContext,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, res)
}

type reconcileReq struct {
	TimeTables  []plan.TimeTable  `json:"timeTables"`
	PlaceBlocks []plan.PlaceBlock `json:"placeBlocks"`
}

// Reconcile handles POST /api/itinerary/reconcile: pending TimeTable
// references are replaced by the persisted ids with the same date.
func Reconcile(c *gin.Context) {
	var req reconcileReq
	if !bindJSON(c, &req) {
		return
	}
	blocks, err := plan.ResolvePending(req.PlaceBlocks, req.TimeTables)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"placeBlocks": blocks})
}
