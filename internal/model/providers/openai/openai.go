package openai

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/harunnryd/tsukai/internal/model/contract"

	"github.com/sashabaranov/go-openai"
)

type Provider struct {
	client *openai.Client
	model  string
}

// New also serves OpenAI-compatible endpoints (e.g. Ollama) via baseURL.
func New(apiKey, baseURL, model string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	}

	client := openai.NewClientWithConfig(cfg)
	return &Provider{client: client, model: model}
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) Generate(ctx context.Context, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error) {
	var messages []openai.ChatCompletionMessage
	for _, m := range conv {
		messages = append(messages, toChatMessages(m)...)
	}

	var toolParams []openai.Tool
	for _, t := range tools {
		params := t.Parameters
		if params == nil {
			params = map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			}
		}
		toolParams = append(toolParams, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}

	chatReq := openai.ChatCompletionRequest{
		Model:    cfg.Model,
		Messages: messages,
		Tools:    toolParams,
	}
	if cfg.Temperature > 0 {
		chatReq.Temperature = float32(cfg.Temperature)
	}
	if cfg.MaxOutputTokens > 0 {
		chatReq.MaxTokens = cfg.MaxOutputTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	choice := resp.Choices[0]
	result := &contract.ModelResponse{Text: choice.Message.Content}

	// One tool call per round trip; only the first is decoded.
	if len(choice.Message.ToolCalls) > 0 {
		tc := choice.Message.ToolCalls[0]
		id := tc.ID
		if id == "" {
			id = "call_1"
		}
		result.Invocation = &contract.ToolUse{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: []byte(tc.Function.Arguments),
		}
	}

	return result, nil
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	model := p.model
	if model == "" {
		model = string(openai.SmallEmbedding3)
	}

	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(model),
	}

	resp, err := p.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data returned")
	}

	return resp.Data[0].Embedding, nil
}

func toChatMessages(m contract.Message) []openai.ChatCompletionMessage {
	var out []openai.ChatCompletionMessage

	switch m.Role {
	case contract.RoleTool:
		for _, part := range m.Parts {
			if part.ToolResult == nil {
				continue
			}
			out = append(out, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    string(part.ToolResult.Content),
				ToolCallID: part.ToolResult.ToolUseID,
			})
		}

	case contract.RoleAssistant:
		msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}
		for _, part := range m.Parts {
			switch {
			case part.Text != "":
				msg.Content += part.Text
			case part.ToolUse != nil:
				msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
					ID:   part.ToolUse.ID,
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      part.ToolUse.Name,
						Arguments: string(part.ToolUse.Arguments),
					},
				})
			}
		}
		if msg.Content != "" || len(msg.ToolCalls) > 0 {
			out = append(out, msg)
		}

	default:
		content := ""
		for _, part := range m.Parts {
			content += part.Text
		}
		if content != "" {
			out = append(out, openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: content,
			})
		}
	}

	return out
}
