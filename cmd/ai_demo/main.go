// README: Manual check of one chat turn against the configured model; prints the normalized reply.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cow-planmate/Ai/internal/ai"
	"github.com/cow-planmate/Ai/internal/config"
	"github.com/cow-planmate/Ai/internal/modules/chat"
	"github.com/cow-planmate/Ai/internal/modules/plan"
)

const demoPlan = `{
  "TravelName": "부산",
  "TimeTables": [{"timeTableId": 144, "date": "2025-11-22"}, {"timeTableId": 153, "date": "2025-11-23"}],
  "TimeTablePlaceBlocks": [
    {"blockId": 1, "placeName": "해운대 해수욕장", "placeCategoryId": 0, "timeTableId": 144,
     "blockStartTime": "10:00:00", "blockEndTime": "12:00:00"}
  ]
}`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	llm, closeLLM, err := ai.NewProvider(ctx, ai.Settings{
		Provider:    cfg.AI.Provider,
		GeminiKey:   cfg.AI.GeminiKey,
		GeminiModel: cfg.AI.GeminiModel,
		OpenAIKey:   cfg.AI.OpenAIKey,
		OpenAIModel: cfg.AI.OpenAIModel,
	})
	if err != nil {
		log.Fatalf("Failed to initialize AI provider: %v", err)
	}
	defer closeLLM()
	if llm == nil {
		log.Fatal("no model key configured (GEMINI_API_KEY or OPENAI_API_KEY)")
	}

	var pc plan.Context
	if err := json.Unmarshal([]byte(demoPlan), &pc); err != nil {
		log.Fatalf("demo plan: %v", err)
	}

	message := "1일차 저녁에 해운대 근처 회집 하나 넣어줘"
	if len(os.Args) > 1 {
		message = os.Args[1]
	}
	fmt.Printf("User: %s\n", message)

	// Structured mode needs no place search.
	svc := chat.NewService(llm, nil, chat.Options{Mode: chat.ModeStructured})
	reply, err := svc.Generate(ctx, chat.Request{PlanID: 1, Message: message, PlanContext: pc})
	if err != nil {
		log.Fatalf("Error generating reply: %v", err)
	}

	out, _ := json.MarshalIndent(reply, "", "  ")
	fmt.Printf("AI Reply: %s\n", reply.UserMessage)
	fmt.Printf("Normalized: %s\n", out)
}
