package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/cow-planmate/Ai/internal/ai"
	"github.com/cow-planmate/Ai/internal/modules/plan"
	"github.com/cow-planmate/Ai/internal/modules/search"
	"github.com/cow-planmate/Ai/internal/types"
)

const (
	ToolSearchPlace  = "search_and_create_place_block"
	ToolSearchPlaces = "search_multiple_place_blocks"
)

// BlockSearcher executes the place-search tools.
type BlockSearcher interface {
	CreateBlock(ctx context.Context, pc plan.Context, query string, timeTableID types.Identifier, d time.Duration) (plan.PlaceBlock, error)
	CreateBlocks(ctx context.Context, pc plan.Context, queries []string, timeTableID types.Identifier, d time.Duration) ([]plan.PlaceBlock, error)
}

func toolSpecs() []ai.Tool {
	timeTable := &ai.Schema{Type: ai.TypeInteger, Description: "추가할 타임테이블 ID (timeTableId)"}
	duration := &ai.Schema{Type: ai.TypeInteger, Description: "방문 시간(분), 기본 90"}
	return []ai.Tool{
		{
			Name:        ToolSearchPlace,
			Description: "단일 장소를 검색해 일정에 추가할 블록을 만든다. 예: \"명동 맛집 추가해줘\", \"경복궁 일정에 넣어줘\".",
			Parameters: &ai.Schema{
				Type: ai.TypeObject,
				Properties: map[string]*ai.Schema{
					"query":            {Type: ai.TypeString, Description: "검색할 장소 (예: \"명동 맛집\")"},
					"timeTableId":      timeTable,
					"duration_minutes": duration,
				},
				Required: []string{"query", "timeTableId"},
			},
		},
		{
			Name:        ToolSearchPlaces,
			Description: "여러 장소를 검색해 시간이 겹치지 않게 순서대로 배치한다. 예: \"명동 맛집 3곳 추가해줘\".",
			Parameters: &ai.Schema{
				Type: ai.TypeObject,
				Properties: map[string]*ai.Schema{
					"queries":          {Type: ai.TypeArray, Items: &ai.Schema{Type: ai.TypeString}, Description: "검색할 장소 목록"},
					"timeTableId":      timeTable,
					"duration_minutes": duration,
				},
				Required: []string{"queries", "timeTableId"},
			},
		},
	}
}

type toolArgs struct {
	query       string
	queries     []string
	timeTableID types.Identifier
	duration    time.Duration
	planContext plan.Context
}

// decodeToolArgs reads the model's arguments. The plan always comes from the
// request, whatever the model echoed back, and float ids become integers.
func decodeToolArgs(args map[string]any, pc plan.Context) (toolArgs, error) {
	out := toolArgs{planContext: pc}
	id, err := types.ParseIdentifier(args["timeTableId"])
	if err != nil {
		return out, fmt.Errorf("timeTableId: %w", err)
	}
	out.timeTableID = id
	if q, ok := args["query"].(string); ok {
		out.query = q
	}
	if list, ok := args["queries"].([]any); ok {
		for _, q := range list {
			if s, ok := q.(string); ok && s != "" {
				out.queries = append(out.queries, s)
			}
		}
	}
	if d, ok := args["duration_minutes"].(float64); ok && d > 0 {
		out.duration = time.Duration(d) * time.Minute
	}
	return out, nil
}

// runTools executes tool invocations in order. handled is false when no
// recognized invocation produced anything, so the caller falls back to text.
// A search with no result ends the turn with the not-found reply and discards
// any blocks gathered from earlier invocations.
func (s *Service) runTools(ctx context.Context, pc plan.Context, calls []ai.ToolCall) (reply Reply, handled bool) {
	var actions []plan.Action
	for _, call := range calls {
		if call.Name != ToolSearchPlace && call.Name != ToolSearchPlaces {
			log.Printf("[CHAT] ignoring unknown tool %q", call.Name)
			continue
		}
		args, err := decodeToolArgs(call.Args, pc)
		if err != nil {
			log.Printf("[CHAT] %s: bad arguments %v: %v", call.Name, call.Args, err)
			continue
		}

		switch call.Name {
		case ToolSearchPlace:
			block, err := s.search.CreateBlock(ctx, args.planContext, args.query, args.timeTableID, args.duration)
			if errors.Is(err, search.ErrNoPlaces) {
				return Message(msgPlaceNotFound), true
			}
			if err != nil {
				return callFailedReply(err), true
			}
			actions = append(actions, plan.CreateBlock(block))
		case ToolSearchPlaces:
			blocks, err := s.search.CreateBlocks(ctx, args.planContext, args.queries, args.timeTableID, args.duration)
			if errors.Is(err, search.ErrNoPlaces) {
				return Message(msgPlaceNotFound), true
			}
			if err != nil {
				return callFailedReply(err), true
			}
			for _, b := range blocks {
				actions = append(actions, plan.CreateBlock(b))
			}
		}
	}
	if len(actions) == 0 {
		return Reply{}, false
	}
	return NewReply(summaryMessage(actions), actions), true
}
