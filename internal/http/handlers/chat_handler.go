// README: Chatbot handler: one chat turn from the planner backend.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cow-planmate/Ai/internal/modules/aiusage"
	"github.com/cow-planmate/Ai/internal/modules/chat"
	"github.com/cow-planmate/Ai/internal/modules/plan"
)

type ChatHandler struct {
	chat *chat.Service
}

func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{chat: svc}
}

type chatReq struct {
	PlanID              int64        `json:"planId"`
	Message             string       `json:"message"`
	SystemPromptContext string       `json:"systemPromptContext"`
	PlanContext         plan.Context `json:"planContext"`
	PreviousPrompts     []chat.Turn  `json:"previousPrompts"`
}

// Generate handles POST /api/chatbot/generate.
func (h *ChatHandler) Generate(c *gin.Context) {
	var req chatReq
	if !bindJSON(c, &req) {
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	reply, err := h.chat.Generate(ctx, chat.Request{
		PlanID:              req.PlanID,
		Message:             req.Message,
		SystemPromptContext: req.SystemPromptContext,
		PlanContext:         req.PlanContext,
		PreviousPrompts:     req.PreviousPrompts,
	})
	if errors.Is(err, aiusage.ErrInsufficientTokens) {
		writeJSON(c, http.StatusTooManyRequests, reply)
		return
	}
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, reply)
}
