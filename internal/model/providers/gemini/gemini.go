package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/harunnryd/tsukai/internal/model/contract"

	"github.com/oklog/ulid/v2"
	"google.golang.org/genai"
)

const defaultEmbeddingModel = "text-embedding-004"

type Provider struct {
	client *genai.Client
}

func New(apiKey string) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
	}
	return &Provider{client: client}, nil
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) Generate(ctx context.Context, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error) {
	var contents []*genai.Content
	for _, m := range conv {
		if c := toContent(m); c != nil {
			contents = append(contents, c)
		}
	}

	var toolParams []*genai.Tool
	if len(tools) > 0 {
		var decls []*genai.FunctionDeclaration
		for _, t := range tools {
			b, _ := json.Marshal(t.Parameters)
			var schema genai.Schema
			_ = json.Unmarshal(b, &schema)
			decls = append(decls, &genai.FunctionDeclaration{Name: t.Name, Description: t.Description, Parameters: &schema})
		}
		toolParams = append(toolParams, &genai.Tool{FunctionDeclarations: decls})
	}

	genCfg := &genai.GenerateContentConfig{Tools: toolParams}
	if cfg.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(cfg.Temperature))
	}
	if cfg.MaxOutputTokens > 0 {
		genCfg.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}

	resp, err := p.client.Models.GenerateContent(ctx, cfg.Model, contents, genCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}

	out := &contract.ModelResponse{}
	if resp == nil {
		return out, nil
	}

	// One tool call per round trip; only the first function call is decoded.
	if calls := resp.FunctionCalls(); len(calls) > 0 {
		fc := calls[0]
		argsJSON, _ := json.Marshal(fc.Args)
		id := fc.ID
		if id == "" {
			// This API omits call IDs; mint one so pairing stays checkable.
			id = ulid.Make().String()
		}
		out.Invocation = &contract.ToolUse{ID: id, Name: fc.Name, Arguments: argsJSON}
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				out.Text += part.Text
			}
		}
	}

	return out, nil
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.Models.EmbedContent(ctx, defaultEmbeddingModel, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("gemini embedding failed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini embedding returned empty result")
	}

	return resp.Embeddings[0].Values, nil
}

func toContent(m contract.Message) *genai.Content {
	switch m.Role {
	case contract.RoleTool:
		var parts []*genai.Part
		for _, part := range m.Parts {
			if part.ToolResult == nil {
				continue
			}
			var obj map[string]any
			if err := json.Unmarshal(part.ToolResult.Content, &obj); err != nil || obj == nil {
				obj = map[string]any{"result": string(part.ToolResult.Content)}
			}
			// This API pairs the response to the call by function name,
			// not by call ID.
			name := part.ToolResult.ToolName
			if name == "" {
				name = part.ToolResult.ToolUseID
			}
			parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				ID:       part.ToolResult.ToolUseID,
				Name:     name,
				Response: obj,
			}})
		}
		if len(parts) == 0 {
			return nil
		}
		return &genai.Content{Role: "function", Parts: parts}

	case contract.RoleAssistant:
		var parts []*genai.Part
		for _, part := range m.Parts {
			switch {
			case part.Text != "":
				parts = append(parts, &genai.Part{Text: part.Text})
			case part.ToolUse != nil:
				var args map[string]any
				_ = json.Unmarshal(part.ToolUse.Arguments, &args)
				parts = append(parts, &genai.Part{FunctionCall: &genai.FunctionCall{
					ID:   part.ToolUse.ID,
					Name: part.ToolUse.Name,
					Args: args,
				}})
			}
		}
		if len(parts) == 0 {
			return nil
		}
		return &genai.Content{Role: "model", Parts: parts}

	default:
		text := ""
		for _, part := range m.Parts {
			text += part.Text
		}
		if text == "" {
			return nil
		}
		return &genai.Content{Role: "user", Parts: []*genai.Part{{Text: text}}}
	}
}
