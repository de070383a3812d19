package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/harunnryd/tsukai/internal/config"
	"github.com/harunnryd/tsukai/internal/docstore"
	"github.com/harunnryd/tsukai/internal/model"
	"github.com/harunnryd/tsukai/internal/model/contract"
	"github.com/harunnryd/tsukai/internal/orchestrator"
	"github.com/harunnryd/tsukai/internal/session"
	"github.com/harunnryd/tsukai/internal/tool"
	_ "github.com/harunnryd/tsukai/internal/tool/builtin"
)

const DefaultWorkspaceID = "default"

// Components holds the wired object graph one CLI invocation runs on.
type Components struct {
	Ctx          context.Context
	Cfg          *config.Config
	WorkspaceID  string
	Registry     *tool.Registry
	Runner       *tool.Runner
	Router       model.Router
	Orchestrator *orchestrator.Orchestrator
	Sessions     *session.Store
	Documents    *docstore.Index
}

func NewComponents(ctx context.Context, cfg *config.Config, workspaceID string) (*Components, error) {
	if workspaceID == "" {
		workspaceID = DefaultWorkspaceID
	}

	router, err := model.NewRouter(cfg.Models)
	if err != nil {
		return nil, fmt.Errorf("init model router: %w", err)
	}

	lockTimeout, err := config.DurationOrDefault(cfg.Session.LockTimeout, config.DefaultSessionLockTimeout)
	if err != nil {
		return nil, fmt.Errorf("parse session lock timeout: %w", err)
	}
	lockRetry, err := config.DurationOrDefault(cfg.Session.LockRetry, config.DefaultSessionLockRetry)
	if err != nil {
		return nil, fmt.Errorf("parse session lock retry: %w", err)
	}

	sessions, err := session.Open(workspaceID, cfg.Session.WorkspacePath, session.StoreConfig{
		LockTimeout: lockTimeout,
		LockRetry:   lockRetry,
	})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	var documents *docstore.Index
	if strings.TrimSpace(cfg.Tools.Documents.Path) != "" {
		documents, err = docstore.Open(docstore.Options{
			Path:       cfg.Tools.Documents.Path,
			Collection: cfg.Tools.Documents.Collection,
			Embedder: docstore.EmbedderFunc(func(ctx context.Context, text string) ([]float32, error) {
				return router.Embedding(ctx, cfg.Models.Embedding, text)
			}),
		})
		if err != nil {
			sessions.Close()
			return nil, fmt.Errorf("open document index: %w", err)
		}
	}

	registry, runner, err := buildTools(cfg, documents)
	if err != nil {
		sessions.Close()
		return nil, err
	}

	client := model.NewBoundClient(router, cfg.Models.Default, contract.GenerateConfig{
		Temperature:     cfg.Orchestrator.Temperature,
		MaxOutputTokens: cfg.Orchestrator.MaxOutputTokens,
	})
	orch := orchestrator.New(client, runner, cfg.Orchestrator.MaxIterations, contract.GenerateConfig{})

	slog.Info("Runtime ready",
		"workspace", workspaceID,
		"model", cfg.Models.Default,
		"tools", len(registry.Catalog()),
	)

	return &Components{
		Ctx:          ctx,
		Cfg:          cfg,
		WorkspaceID:  workspaceID,
		Registry:     registry,
		Runner:       runner,
		Router:       router,
		Orchestrator: orch,
		Sessions:     sessions,
		Documents:    documents,
	}, nil
}

func buildTools(cfg *config.Config, documents *docstore.Index) (*tool.Registry, *tool.Runner, error) {
	geocodeTimeout, err := config.DurationOrDefault(cfg.Tools.Geocode.Timeout, config.DefaultGeocodeToolTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("parse geocode timeout: %w", err)
	}
	weatherTimeout, err := config.DurationOrDefault(cfg.Tools.Weather.Timeout, config.DefaultWeatherToolTimeout)
	if err != nil {
		return nil, nil, fmt.Errorf("parse weather timeout: %w", err)
	}

	options := tool.BuiltinOptions{
		GeocodeBaseURL: cfg.Tools.Geocode.BaseURL,
		GeocodeTimeout: geocodeTimeout,
		WeatherBaseURL: cfg.Tools.Weather.BaseURL,
		WeatherTimeout: weatherTimeout,
		DocumentTopK:   cfg.Tools.Documents.TopK,
	}
	if documents != nil {
		options.DocumentIndex = documents
	}

	registry := tool.NewRegistry()
	if err := tool.LoadBuiltins(registry, options); err != nil {
		return nil, nil, fmt.Errorf("load builtin tools: %w", err)
	}
	return registry, tool.NewRunner(registry), nil
}

func (c *Components) Stop() {
	if c.Sessions != nil {
		c.Sessions.Close()
	}
}
