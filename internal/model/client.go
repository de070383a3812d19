package model

import (
	"context"

	"github.com/harunnryd/tsukai/internal/model/contract"
)

// BoundClient binds a router to one model name and one sampling config,
// giving the orchestration loop the narrow Client surface it needs.
type BoundClient struct {
	router Router
	model  string
	cfg    contract.GenerateConfig
}

func NewBoundClient(router Router, model string, cfg contract.GenerateConfig) *BoundClient {
	return &BoundClient{
		router: router,
		model:  model,
		cfg:    cfg,
	}
}

func (c *BoundClient) Send(ctx context.Context, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error) {
	merged := c.cfg
	if cfg.Temperature != 0 {
		merged.Temperature = cfg.Temperature
	}
	if cfg.MaxOutputTokens != 0 {
		merged.MaxOutputTokens = cfg.MaxOutputTokens
	}
	return c.router.Send(ctx, c.model, conv, tools, merged)
}
