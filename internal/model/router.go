package model

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/harunnryd/tsukai/internal/config"
	tsukaiErrors "github.com/harunnryd/tsukai/internal/errors"
	"github.com/harunnryd/tsukai/internal/logger"
	"github.com/harunnryd/tsukai/internal/model/contract"
	anthropicProvider "github.com/harunnryd/tsukai/internal/model/providers/anthropic"
	geminiProvider "github.com/harunnryd/tsukai/internal/model/providers/gemini"
	openaiProvider "github.com/harunnryd/tsukai/internal/model/providers/openai"
)

// DefaultRouter implements Router
type DefaultRouter struct {
	cfg       config.ModelsConfig
	providers map[string]Provider
	mu        sync.RWMutex
}

// NewRouter creates a router from the configured model registry
func NewRouter(cfg config.ModelsConfig) (*DefaultRouter, error) {
	router := &DefaultRouter{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}

	for _, entry := range cfg.Registry {
		provider, err := createProvider(entry)
		if err != nil {
			slog.Warn("Failed to create provider", "provider", entry.Provider, "model", entry.Name, "error", err)
			continue
		}
		router.providers[entry.Name] = provider
		slog.Info("Provider initialized", "name", entry.Name, "type", entry.Provider)
	}

	if len(router.providers) == 0 && len(cfg.Registry) > 0 {
		return nil, tsukaiErrors.Internal("no providers initialized")
	}

	return router, nil
}

// Send routes one generation request to the provider registered for model.
// Errors out of here are infrastructure failures: the orchestration loop does
// not retry them, it surfaces them to the caller.
func (r *DefaultRouter) Send(ctx context.Context, model string, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error) {
	select {
	case <-ctx.Done():
		return nil, tsukaiErrors.Wrap(ctx.Err(), "model request cancelled")
	default:
	}

	provider, name, err := r.resolveProvider(model)
	if err != nil {
		return nil, err
	}

	sessionID := logger.GetSessionID(ctx)
	slog.Debug("Routing model request", "model", name, "session_id", sessionID)

	cfg.Model = name
	resp, err := provider.Generate(ctx, conv, tools, cfg)
	if err != nil {
		return nil, tsukaiErrors.Wrap(tsukaiErrors.MapProviderError(err), "model request failed")
	}
	return resp, nil
}

// Embedding routes an embedding request, falling back across registered
// providers when the requested one cannot embed.
func (r *DefaultRouter) Embedding(ctx context.Context, model string, text string) ([]float32, error) {
	var lastErr error
	for _, tryModel := range r.embeddingTryOrder(model) {
		select {
		case <-ctx.Done():
			return nil, tsukaiErrors.Wrap(ctx.Err(), "embedding request cancelled")
		default:
		}

		r.mu.RLock()
		provider, exists := r.providers[tryModel]
		r.mu.RUnlock()
		if !exists {
			continue
		}

		vec, err := provider.Embed(ctx, text)
		if err == nil {
			return vec, nil
		}
		if isEmbeddingUnsupported(err) {
			continue
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, tsukaiErrors.Wrap(tsukaiErrors.MapProviderError(lastErr), "embedding failed")
	}
	return nil, tsukaiErrors.NotFound("no embedding-capable model configured")
}

// ListModels returns all registered model names
func (r *DefaultRouter) ListModels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.providers))
	for name := range r.providers {
		models = append(models, name)
	}
	sort.Strings(models)
	return models
}

func (r *DefaultRouter) resolveProvider(model string) (Provider, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if provider, exists := r.providers[model]; exists {
		return provider, model, nil
	}

	if r.cfg.Fallback != "" && model != r.cfg.Fallback {
		if provider, exists := r.providers[r.cfg.Fallback]; exists {
			slog.Warn("Model not found, using fallback", "model", model, "fallback", r.cfg.Fallback)
			return provider, r.cfg.Fallback, nil
		}
	}

	return nil, "", tsukaiErrors.NotFound(fmt.Sprintf("model %s not found", model))
}

func (r *DefaultRouter) embeddingTryOrder(requested string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.providers)+2)
	order := make([]string, 0, len(r.providers)+2)
	appendUnique := func(name string) {
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		order = append(order, name)
	}

	appendUnique(requested)
	appendUnique(r.cfg.Embedding)
	appendUnique(r.cfg.Fallback)

	registered := make([]string, 0, len(r.providers))
	for name := range r.providers {
		registered = append(registered, name)
	}
	sort.Strings(registered)
	for _, name := range registered {
		appendUnique(name)
	}
	return order
}

func isEmbeddingUnsupported(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "embedding not supported") ||
		strings.Contains(msg, "not support embeddings")
}

func createProvider(entry config.ModelRegistry) (Provider, error) {
	switch entry.Provider {
	case "openai":
		baseURL := entry.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOpenAIBaseURL
		}
		if entry.APIKey == "" {
			return nil, tsukaiErrors.InvalidInput("API key required for OpenAI provider")
		}
		return openaiProvider.New(entry.APIKey, baseURL, entry.Name), nil

	case "ollama":
		baseURL := entry.BaseURL
		if baseURL == "" {
			baseURL = config.DefaultOllamaBaseURL
		}
		apiKey := entry.APIKey
		if apiKey == "" {
			apiKey = config.DefaultOllamaAPIKey
		}
		return openaiProvider.New(apiKey, baseURL, entry.Name), nil

	case "anthropic":
		if entry.APIKey == "" {
			return nil, tsukaiErrors.InvalidInput("API key required for Anthropic provider")
		}
		return anthropicProvider.New(entry.APIKey), nil

	case "gemini":
		if entry.APIKey == "" {
			return nil, tsukaiErrors.InvalidInput("API key required for Gemini provider")
		}
		return geminiProvider.New(entry.APIKey)

	default:
		return nil, tsukaiErrors.InvalidInput(fmt.Sprintf("unknown provider type: %s", entry.Provider))
	}
}
