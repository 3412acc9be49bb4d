package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider    string // "gemini" or "openai"
	GeminiKey   string
	GeminiModel string
	OpenAIKey   string
	OpenAIModel string
}

// NewProvider returns the configured provider, or (nil, nil) when the selected
// provider has no key. The returned closer is always safe to call.
func NewProvider(ctx context.Context, s Settings) (LLMProvider, func(), error) {
	noop := func() {}
	switch s.Provider {
	case "", "gemini":
		p, err := NewGeminiProvider(ctx, s.GeminiKey, s.GeminiModel, DefaultGeneration)
		if errors.Is(err, ErrNoProvider) {
			log.Printf("[AI] GEMINI_API_KEY not set; chat features disabled")
			return nil, noop, nil
		}
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case "openai":
		p, err := NewOpenAIProvider(s.OpenAIKey, s.OpenAIModel, DefaultGeneration)
		if errors.Is(err, ErrNoProvider) {
			log.Printf("[AI] OPENAI_API_KEY not set; chat features disabled")
			return nil, noop, nil
		}
		if err != nil {
			return nil, noop, err
		}
		return p, noop, nil
	}
	return nil, noop, fmt.Errorf("ai: unknown provider %q", s.Provider)
}
