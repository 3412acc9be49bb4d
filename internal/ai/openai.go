package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	oaoption "github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIProvider implements LLMProvider on the chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
	gen    GenerationConfig
}

func NewOpenAIProvider(apiKey, model string, gen GenerationConfig, opts ...oaoption.RequestOption) (*OpenAIProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoProvider
	}
	if model == "" {
		model = defaultOpenAIModel
	}
	opts = append([]oaoption.RequestOption{oaoption.WithAPIKey(apiKey)}, opts...)
	return &OpenAIProvider{client: openai.NewClient(opts...), model: model, gen: gen}, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	prompt := req.Prompt
	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(p.model),
		Temperature:         openai.Float(float64(p.gen.Temperature)),
		TopP:                openai.Float(float64(p.gen.TopP)),
		MaxCompletionTokens: openai.Int(int64(p.gen.MaxOutputTokens)),
	}

	if len(req.Tools) > 0 {
		for _, t := range req.Tools {
			params.Tools = append(params.Tools, openai.ChatCompletionToolParam{
				Function: openai.FunctionDefinitionParam{
					Name:        t.Name,
					Description: openai.String(t.Description),
					Parameters:  openai.FunctionParameters(t.Parameters.JSONSchema()),
				},
			})
		}
	} else if req.ResponseSchema != nil || req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
		// JSON object mode requires the word "JSON" in the conversation.
		if req.ResponseSchema != nil {
			schema, err := json.Marshal(req.ResponseSchema.JSONSchema())
			if err != nil {
				return nil, fmt.Errorf("openai: marshal schema: %w", err)
			}
			prompt += "\n\nRespond with a single JSON object matching this JSON schema:\n" + string(schema)
		} else {
			prompt += "\n\nRespond with a single JSON object."
		}
	}
	params.Messages = []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openai: API returned empty choices array")
	}

	msg := completion.Choices[0].Message
	out := &Response{Text: msg.Content}
	for _, tc := range msg.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return nil, fmt.Errorf("openai: tool %s arguments: %w", tc.Function.Name, err)
			}
		}
		out.ToolCalls = append(out.ToolCalls, ToolCall{Name: tc.Function.Name, Args: args})
	}
	return out, nil
}
