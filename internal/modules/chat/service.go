package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/cow-planmate/Ai/internal/ai"
	"github.com/cow-planmate/Ai/internal/modules/aiusage"
)

// Mode selects how the model is asked to answer.
type Mode string

const (
	// ModeTools offers the place-search tools and reads JSON text when none fire.
	ModeTools Mode = "tools"
	// ModeStructured asks for JSON matching the reply schema and offers no tools.
	ModeStructured Mode = "structured"
)

const historyLimit = 10

// HistoryStore persists conversation turns per plan.
type HistoryStore interface {
	Recent(ctx context.Context, planID int64, limit int) ([]Turn, error)
	Append(ctx context.Context, planID int64, t Turn) error
}

// Quota meters model calls per plan.
type Quota interface {
	UseToken(ctx context.Context, key string) error
}

type Options struct {
	Mode    Mode
	History HistoryStore
	Quota   Quota
}

// Service orchestrates one chat turn: prompt, model call, normalization.
type Service struct {
	llm     ai.LLMProvider
	search  BlockSearcher
	history HistoryStore
	quota   Quota
	mode    Mode
}

// NewService accepts a nil provider; every turn then gets the fixed
// "model unavailable" reply without any network call.
func NewService(llm ai.LLMProvider, searcher BlockSearcher, opts Options) *Service {
	if opts.Mode == "" {
		opts.Mode = ModeTools
	}
	return &Service{llm: llm, search: searcher, history: opts.History, quota: opts.Quota, mode: opts.Mode}
}

// Generate answers one chat turn. The only error it returns is
// aiusage.ErrInsufficientTokens (wrapped), alongside a reply explaining it.
func (s *Service) Generate(ctx context.Context, req Request) (Reply, error) {
	if s.llm == nil {
		return Message(msgUnavailable), nil
	}
	if s.quota != nil {
		if err := s.quota.UseToken(ctx, strconv.FormatInt(req.PlanID, 10)); err != nil {
			if errors.Is(err, aiusage.ErrInsufficientTokens) {
				return Message(msgQuota), fmt.Errorf("chat: plan %d: %w", req.PlanID, err)
			}
			log.Printf("[CHAT] quota check failed for plan %d, continuing: %v", req.PlanID, err)
		}
	}

	turns := req.PreviousPrompts
	if len(turns) == 0 && s.history != nil {
		recent, err := s.history.Recent(ctx, req.PlanID, historyLimit)
		if err != nil {
			log.Printf("[CHAT] load history for plan %d: %v", req.PlanID, err)
		}
		turns = recent
	}

	aiReq := ai.Request{Prompt: s.buildPrompt(req, turns)}
	switch s.mode {
	case ModeStructured:
		aiReq.ResponseSchema = replySchema()
	default:
		aiReq.Tools = toolSpecs()
	}

	resp, err := s.llm.Generate(ctx, aiReq)
	if err != nil {
		log.Printf("[CHAT] model call failed for plan %d: %v", req.PlanID, err)
		return callFailedReply(err), nil
	}

	var reply Reply
	handled := false
	if len(resp.ToolCalls) > 0 {
		reply, handled = s.runTools(ctx, req.PlanContext, resp.ToolCalls)
	}
	if !handled {
		reply = Normalize(resp.Text)
	}

	s.remember(ctx, req, reply)
	return reply, nil
}

func (s *Service) remember(ctx context.Context, req Request, reply Reply) {
	if s.history == nil {
		return
	}
	if err := s.history.Append(ctx, req.PlanID, Turn{User: req.Message, AI: reply.UserMessage}); err != nil {
		log.Printf("[CHAT] save history for plan %d: %v", req.PlanID, err)
	}
}

var dayPattern = regexp.MustCompile(`(\d+)일차`)

func (s *Service) buildPrompt(req Request, turns []Turn) string {
	var b strings.Builder
	b.WriteString(req.SystemPromptContext)
	b.WriteString("\n\n")

	if len(turns) > 0 {
		b.WriteString("### 이전 대화\n")
		for _, t := range turns {
			fmt.Fprintf(&b, "User: %s\nAI: %s\n", t.User, t.AI)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "현재 계획 정보:\n%s\n\n", req.PlanContext.Snapshot())

	if m := dayPattern.FindStringSubmatch(req.Message); m != nil {
		n, _ := strconv.Atoi(m[1])
		if tt, ok := req.PlanContext.TimeTableAt(n); ok {
			fmt.Fprintf(&b, "힌트: 사용자가 '%d일차'를 언급했습니다. 해당 timeTableId는 %d입니다.\n\n", n, tt.ID.Wire())
		}
	}

	if s.mode == ModeStructured {
		b.WriteString("응답은 userMessage, hasAction, actions 필드를 가진 JSON 객체로 작성하세요. target은 JSON 객체 문자열입니다.\n\n")
	}

	fmt.Fprintf(&b, "사용자 메시지: %s\n", req.Message)
	fmt.Fprintf(&b, "planId: %d\n", req.PlanID)
	return b.String()
}

// replySchema describes Reply for structured mode. target is a JSON string
// because Gemini rejects open-ended object schemas; Normalize repairs it.
func replySchema() *ai.Schema {
	return &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"userMessage": {Type: ai.TypeString},
			"hasAction":   {Type: ai.TypeBoolean},
			"actions": {
				Type: ai.TypeArray,
				Items: &ai.Schema{
					Type: ai.TypeObject,
					Properties: map[string]*ai.Schema{
						"action":     {Type: ai.TypeString, Enum: []string{"create", "update", "delete"}},
						"targetName": {Type: ai.TypeString, Enum: []string{"plan", "timeTable", "timeTablePlaceBlock"}},
						"target":     {Type: ai.TypeString, Description: "JSON object with the target's fields"},
					},
					Required: []string{"action", "targetName", "target"},
				},
			},
		},
		Required: []string{"userMessage", "hasAction", "actions"},
	}
}
