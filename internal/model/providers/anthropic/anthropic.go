package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/harunnryd/tsukai/internal/model/contract"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxOutputTokens = 1024

type Provider struct {
	client anthropic.Client
}

func New(apiKey string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return "anthropic"
}

func (p *Provider) Generate(ctx context.Context, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error) {
	var messages []anthropic.MessageParam
	for _, m := range conv {
		blocks := toBlocks(m)
		if len(blocks) == 0 {
			continue
		}
		switch m.Role {
		case contract.RoleAssistant:
			messages = append(messages, anthropic.NewAssistantMessage(blocks...))
		default:
			// Tool results travel as user-role blocks on this API.
			messages = append(messages, anthropic.NewUserMessage(blocks...))
		}
	}

	var toolParams []anthropic.ToolUnionParam
	for _, t := range tools {
		tool := anthropic.ToolParam{
			Name:        t.Name,
			Description: anthropic.String(t.Description),
			InputSchema: anthropic.ToolInputSchemaParam{Properties: map[string]interface{}{}},
		}
		if t.Parameters != nil {
			if props, ok := t.Parameters["properties"].(map[string]interface{}); ok {
				tool.InputSchema = anthropic.ToolInputSchemaParam{Properties: props}
			}
			tool.InputSchema.Required = requiredFields(t.Parameters)
		}
		toolParams = append(toolParams, anthropic.ToolUnionParam{OfTool: &tool})
	}

	maxTokens := int64(cfg.MaxOutputTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(cfg.Model),
		MaxTokens: maxTokens,
		Messages:  messages,
		Tools:     toolParams,
	}
	if cfg.Temperature > 0 {
		params.Temperature = anthropic.Float(cfg.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic request failed: %w", err)
	}

	resp := &contract.ModelResponse{}
	for _, block := range msg.Content {
		switch b := block.AsAny().(type) {
		case anthropic.TextBlock:
			resp.Text += b.Text
		case anthropic.ToolUseBlock:
			if resp.Invocation != nil {
				// One tool call per round trip; extras are dropped here.
				continue
			}
			inputJSON, _ := json.Marshal(b.Input)
			resp.Invocation = &contract.ToolUse{
				ID:        b.ID,
				Name:      b.Name,
				Arguments: inputJSON,
			}
		}
	}

	return resp, nil
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding not supported by anthropic provider")
}

func requiredFields(schema map[string]interface{}) []string {
	// Schemas built in Go use []string; schemas decoded from JSON use
	// []interface{}. Accept both.
	if required, ok := schema["required"].([]string); ok {
		return required
	}
	if required, ok := schema["required"].([]interface{}); ok {
		fields := make([]string, 0, len(required))
		for _, field := range required {
			if name, ok := field.(string); ok {
				fields = append(fields, name)
			}
		}
		return fields
	}
	return nil
}

func toBlocks(m contract.Message) []anthropic.ContentBlockParamUnion {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range m.Parts {
		switch {
		case part.Text != "":
			blocks = append(blocks, anthropic.NewTextBlock(part.Text))
		case part.ToolUse != nil:
			var inputValue any
			if len(part.ToolUse.Arguments) > 0 {
				if err := json.Unmarshal(part.ToolUse.Arguments, &inputValue); err != nil {
					inputValue = map[string]any{}
				}
			} else {
				inputValue = map[string]any{}
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(part.ToolUse.ID, inputValue, part.ToolUse.Name))
		case part.ToolResult != nil:
			blocks = append(blocks, anthropic.NewToolResultBlock(
				part.ToolResult.ToolUseID,
				string(part.ToolResult.Content),
				part.ToolResult.IsError,
			))
		}
	}
	return blocks
}
