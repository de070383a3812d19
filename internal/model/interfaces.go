package model

import (
	"context"

	"github.com/harunnryd/tsukai/internal/model/contract"
)

// Client is the model boundary the orchestration loop talks to. One Client is
// bound to one model name and one sampling config.
type Client interface {
	Send(ctx context.Context, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error)
}

// Provider adapts one vendor SDK to the contract types.
type Provider interface {
	Generate(ctx context.Context, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error)
	Embed(ctx context.Context, text string) ([]float32, error)
	Name() string
}

// Router resolves configured model names to providers.
type Router interface {
	Send(ctx context.Context, model string, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error)
	Embedding(ctx context.Context, model string, text string) ([]float32, error)
	ListModels() []string
}
