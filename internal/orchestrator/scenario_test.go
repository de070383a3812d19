package orchestrator_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunnryd/tsukai/internal/model/contract"
	"github.com/harunnryd/tsukai/internal/orchestrator"
	"github.com/harunnryd/tsukai/internal/tool/builtin"
)

func TestRun_WeatherScenario(t *testing.T) {
	geocodeSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"name":"Las Vegas","country":"United States","latitude":36.17497,"longitude":-115.13722}]}`))
	}))
	defer geocodeSrv.Close()

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":31.4,"wind_speed_10m":12.3,"weather_code":0}}`))
	}))
	defer weatherSrv.Close()

	geocode := &builtin.GeocodeTool{
		Client:  &http.Client{Timeout: 5 * time.Second},
		BaseURL: geocodeSrv.URL,
	}
	weather := &builtin.WeatherTool{
		Client:  &http.Client{Timeout: 5 * time.Second},
		BaseURL: weatherSrv.URL,
	}

	client := &scriptedClient{script: []*contract.ModelResponse{
		{
			Text:       "I need coordinates first.",
			Invocation: toolUse("call-1", "get_lat_long", `{"place":"Las Vegas"}`),
		},
		{
			Invocation: toolUse("call-2", "get_weather", `{"latitude":36.17497,"longitude":-115.13722}`),
		},
		{Text: "It is 31.4 degrees in Las Vegas right now."},
	}}
	orch := orchestrator.New(client, newRunner(t, geocode, weather), 10, contract.GenerateConfig{})

	result, err := orch.Run(context.Background(), "What is the weather in Las Vegas?")
	require.NoError(t, err)

	assert.Equal(t, orchestrator.StopFinalAnswer, result.Stop)
	assert.Equal(t, "It is 31.4 degrees in Las Vegas right now.", result.Answer)
	assert.Equal(t, 3, result.ModelCalls)
	assert.Equal(t, 2, result.ToolCalls)
	assert.Empty(t, result.Conversation.UnresolvedToolUses())

	require.Len(t, result.Steps, 2)
	assert.Equal(t, "get_lat_long", result.Steps[0].Invocation.Name)
	assert.Contains(t, string(result.Steps[0].Output), "36.17497")
	assert.Equal(t, "get_weather", result.Steps[1].Invocation.Name)
	assert.Contains(t, string(result.Steps[1].Output), "31.4")
}

func TestRun_UnknownToolSelfCorrects(t *testing.T) {
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":18.0,"wind_speed_10m":4.2,"weather_code":2}}`))
	}))
	defer weatherSrv.Close()

	weather := &builtin.WeatherTool{
		Client:  &http.Client{Timeout: 5 * time.Second},
		BaseURL: weatherSrv.URL,
	}

	// The model first reaches for a tool that was never registered, reads
	// the error result, and falls back to one that exists.
	client := &scriptedClient{script: []*contract.ModelResponse{
		{Invocation: toolUse("call-1", "get_stock_price", `{"symbol":"OMET"}`)},
		{Invocation: toolUse("call-2", "get_weather", `{"latitude":51.5,"longitude":-0.12}`)},
		{Text: "I cannot look up stock prices, but the weather in London is 18 degrees."},
	}}
	orch := orchestrator.New(client, newRunner(t, weather), 10, contract.GenerateConfig{})

	result, err := orch.Run(context.Background(), "What is the OMET stock price?")
	require.NoError(t, err)

	assert.Equal(t, orchestrator.StopFinalAnswer, result.Stop)
	require.Len(t, result.Steps, 2)
	assert.True(t, result.Steps[0].IsError)
	assert.False(t, result.Steps[1].IsError)
	assert.Empty(t, result.Conversation.UnresolvedToolUses())

	// The error travels back to the model as a paired tool result.
	require.Len(t, client.conversations, 3)
	second := client.conversations[1]
	last := second[len(second)-1]
	require.NotEmpty(t, last.Parts)
	require.NotNil(t, last.Parts[0].ToolResult)
	assert.Equal(t, "call-1", last.Parts[0].ToolResult.ToolUseID)
	assert.True(t, last.Parts[0].ToolResult.IsError)
}
