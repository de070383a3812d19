package model_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunnryd/tsukai/internal/model"
	"github.com/harunnryd/tsukai/internal/model/contract"
)

type captureRouter struct {
	lastModel string
	lastCfg   contract.GenerateConfig
	resp      *contract.ModelResponse
}

func (r *captureRouter) Send(ctx context.Context, m string, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error) {
	r.lastModel = m
	r.lastCfg = cfg
	if r.resp != nil {
		return r.resp, nil
	}
	return &contract.ModelResponse{Text: "ok"}, nil
}

func (r *captureRouter) Embedding(ctx context.Context, m string, text string) ([]float32, error) {
	return nil, nil
}

func (r *captureRouter) ListModels() []string { return nil }

func TestBoundClient_UsesBoundModelAndConfig(t *testing.T) {
	router := &captureRouter{}
	client := model.NewBoundClient(router, "gpt-4-turbo", contract.GenerateConfig{
		Temperature:     0.2,
		MaxOutputTokens: 512,
	})

	_, err := client.Send(context.Background(), contract.Conversation{contract.UserText("hi")}, nil, contract.GenerateConfig{})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4-turbo", router.lastModel)
	assert.Equal(t, 0.2, router.lastCfg.Temperature)
	assert.Equal(t, 512, router.lastCfg.MaxOutputTokens)
}

func TestBoundClient_PerCallOverrides(t *testing.T) {
	router := &captureRouter{}
	client := model.NewBoundClient(router, "gpt-4-turbo", contract.GenerateConfig{
		Temperature:     0.2,
		MaxOutputTokens: 512,
	})

	_, err := client.Send(context.Background(), nil, nil, contract.GenerateConfig{
		Temperature: 0.9,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.9, router.lastCfg.Temperature, "per-call temperature wins")
	assert.Equal(t, 512, router.lastCfg.MaxOutputTokens, "unset fields keep the bound value")
}
