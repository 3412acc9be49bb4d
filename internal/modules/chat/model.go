// README: Chat request/reply types and the fixed user-facing messages.
package chat

import (
	"fmt"
	"strings"

	"github.com/cow-planmate/Ai/internal/modules/plan"
)

const (
	msgUnavailable   = "Gemini 모델이 설정되지 않았습니다. AI 서비스를 사용할 수 없습니다."
	msgPlaceNotFound = "죄송합니다. 요청하신 장소를 찾을 수 없어요. Google Places API 오류가 발생했거나 검색 결과가 없습니다."
	msgQuota         = "이번 달 AI 사용 한도를 모두 사용했어요. 다음 달에 다시 시도해주세요."
	msgAdded         = "요청하신 장소들을 일정에 추가했어요."
	targetNotFound   = "Target data not found"
)

// Reply is what the planner backend receives. HasAction is true iff Actions is non-empty.
type Reply struct {
	UserMessage string        `json:"userMessage"`
	HasAction   bool          `json:"hasAction"`
	Actions     []plan.Action `json:"actions"`
}

// NewReply keeps HasAction consistent with the actions it carries.
func NewReply(msg string, actions []plan.Action) Reply {
	if actions == nil {
		actions = []plan.Action{}
	}
	return Reply{UserMessage: msg, HasAction: len(actions) > 0, Actions: actions}
}

// Message is a reply with no actions.
func Message(msg string) Reply { return NewReply(msg, nil) }

func unparseableReply(raw string) Reply {
	return Message(fmt.Sprintf("AI 응답 전체 JSON 형식 오류. 원본: %s", raw))
}

func invalidReply(err error, sample string) Reply {
	return Message(fmt.Sprintf("AI 응답 형식에 문제가 있습니다. 오류: %v. \n\n🚨 원본 Target 데이터 (파싱 전): %s", err, sample))
}

func callFailedReply(err error) Reply {
	return Message(fmt.Sprintf("AI 챗봇 서비스 호출 중 오류 발생: %v", err))
}

// summaryMessage names up to three added places.
func summaryMessage(actions []plan.Action) string {
	var names []string
	for _, a := range actions {
		name, _ := a.Payload["placeName"].(string)
		if name == "" {
			name = "장소"
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return msgAdded
	}
	suffix := ""
	if len(names) > 3 {
		names, suffix = names[:3], "..."
	}
	return strings.Join(names, ", ") + suffix + " 일정을 추가했어요!"
}

// Turn is one earlier exchange in the conversation.
type Turn struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

// Request is a single chat turn from the planner backend.
type Request struct {
	PlanID              int64
	Message             string
	SystemPromptContext string
	PlanContext         plan.Context
	PreviousPrompts     []Turn
}
