package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harunnryd/tsukai/internal/config"
	"github.com/harunnryd/tsukai/internal/model"
)

func TestNewRouter_OllamaNeedsNoKey(t *testing.T) {
	router, err := model.NewRouter(config.ModelsConfig{
		Registry: []config.ModelRegistry{
			{Name: "local-llama", Provider: "ollama"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"local-llama"}, router.ListModels())
}

func TestNewRouter_SkipsBrokenEntries(t *testing.T) {
	// An openai entry without an API key cannot initialize; the router
	// keeps going with the rest of the registry.
	router, err := model.NewRouter(config.ModelsConfig{
		Registry: []config.ModelRegistry{
			{Name: "gpt-4-turbo", Provider: "openai"},
			{Name: "local-llama", Provider: "ollama"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"local-llama"}, router.ListModels())
}

func TestNewRouter_AllEntriesBrokenFails(t *testing.T) {
	_, err := model.NewRouter(config.ModelsConfig{
		Registry: []config.ModelRegistry{
			{Name: "gpt-4-turbo", Provider: "openai"},
		},
	})
	require.Error(t, err)
}

func TestNewRouter_UnknownProviderSkipped(t *testing.T) {
	router, err := model.NewRouter(config.ModelsConfig{
		Registry: []config.ModelRegistry{
			{Name: "mystery", Provider: "watsonx"},
			{Name: "local-llama", Provider: "ollama"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"local-llama"}, router.ListModels())
}

func TestListModels_Sorted(t *testing.T) {
	router, err := model.NewRouter(config.ModelsConfig{
		Registry: []config.ModelRegistry{
			{Name: "zephyr", Provider: "ollama"},
			{Name: "alpaca", Provider: "ollama"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"alpaca", "zephyr"}, router.ListModels())
}
