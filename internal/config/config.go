package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server       ServerConfig       `koanf:"server"`
	Models       ModelsConfig       `koanf:"models"`
	Orchestrator OrchestratorConfig `koanf:"orchestrator"`
	Tools        ToolsConfig        `koanf:"tools"`
	Session      SessionConfig      `koanf:"session"`
	Scheduler    SchedulerConfig    `koanf:"scheduler"`
	Notify       NotifyConfig       `koanf:"notify"`
}

type ServerConfig struct {
	LogLevel string `koanf:"log_level"`
}

type ModelsConfig struct {
	Default   string          `koanf:"default"`
	Fallback  string          `koanf:"fallback"`
	Embedding string          `koanf:"embedding"`
	Registry  []ModelRegistry `koanf:"registry"`
}

type ModelRegistry struct {
	Name     string `koanf:"name"`
	Provider string `koanf:"provider"`
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
}

type OrchestratorConfig struct {
	MaxIterations   int     `koanf:"max_iterations"`
	Temperature     float64 `koanf:"temperature"`
	MaxOutputTokens int     `koanf:"max_output_tokens"`
}

type ToolsConfig struct {
	Geocode   GeocodeToolConfig   `koanf:"geocode"`
	Weather   WeatherToolConfig   `koanf:"weather"`
	Documents DocumentsToolConfig `koanf:"documents"`
}

type GeocodeToolConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout string `koanf:"timeout"`
}

type WeatherToolConfig struct {
	BaseURL string `koanf:"base_url"`
	Timeout string `koanf:"timeout"`
}

type DocumentsToolConfig struct {
	Path       string `koanf:"path"`
	Collection string `koanf:"collection"`
	TopK       int    `koanf:"top_k"`
}

type SessionConfig struct {
	WorkspacePath string `koanf:"workspace_path"`
	LockTimeout   string `koanf:"lock_timeout"`
	LockRetry     string `koanf:"lock_retry"`
}

type SchedulerConfig struct {
	Entries []ScheduledPrompt `koanf:"entries"`
}

type ScheduledPrompt struct {
	Name     string `koanf:"name"`
	Schedule string `koanf:"schedule"` // cron spec, e.g. "0 8 * * *" or "@hourly"
	Prompt   string `koanf:"prompt"`
	Notifier string `koanf:"notifier"` // console, slack, telegram
}

type NotifyConfig struct {
	Slack    SlackNotifyConfig    `koanf:"slack"`
	Telegram TelegramNotifyConfig `koanf:"telegram"`
}

type SlackNotifyConfig struct {
	Token   string `koanf:"token"`
	Channel string `koanf:"channel"`
}

type TelegramNotifyConfig struct {
	Token  string `koanf:"token"`
	ChatID int64  `koanf:"chat_id"`
}

const (
	DefaultServerLogLevel = "info"

	DefaultModelDefault   = "gpt-4-turbo"
	DefaultModelFallback  = "claude-3-haiku"
	DefaultModelEmbedding = "nomic-embed-text"
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultOllamaBaseURL  = "http://localhost:11434/v1"
	DefaultOllamaAPIKey   = "ollama"

	DefaultOrchestratorMaxIterations   = 10
	DefaultOrchestratorTemperature     = 0.0
	DefaultOrchestratorMaxOutputTokens = 1024

	DefaultGeocodeToolBaseURL = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultGeocodeToolTimeout = "10s"
	DefaultWeatherToolBaseURL = "https://api.open-meteo.com/v1/forecast"
	DefaultWeatherToolTimeout = "10s"

	DefaultDocumentsCollection = "documents"
	DefaultDocumentsTopK       = 4

	DefaultSessionLockTimeout = "30s"
	DefaultSessionLockRetry   = "100ms"
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"server.log_level": DefaultServerLogLevel,
		"models.default":   DefaultModelDefault,
		"models.fallback":  DefaultModelFallback,
		"models.embedding": DefaultModelEmbedding,
		"models.registry": []ModelRegistry{
			{Name: DefaultModelDefault, Provider: "openai"},
			{Name: DefaultModelFallback, Provider: "anthropic"},
			{Name: "local-llama", Provider: "ollama", BaseURL: DefaultOllamaBaseURL},
		},
		"orchestrator.max_iterations":    DefaultOrchestratorMaxIterations,
		"orchestrator.temperature":       DefaultOrchestratorTemperature,
		"orchestrator.max_output_tokens": DefaultOrchestratorMaxOutputTokens,
		"tools.geocode.base_url":         DefaultGeocodeToolBaseURL,
		"tools.geocode.timeout":          DefaultGeocodeToolTimeout,
		"tools.weather.base_url":         DefaultWeatherToolBaseURL,
		"tools.weather.timeout":          DefaultWeatherToolTimeout,
		"tools.documents.collection":     DefaultDocumentsCollection,
		"tools.documents.top_k":          DefaultDocumentsTopK,
		"session.workspace_path":         filepath.Join(os.Getenv("HOME"), ".tsukai", "workspaces"),
		"session.lock_timeout":           DefaultSessionLockTimeout,
		"session.lock_retry":             DefaultSessionLockRetry,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".tsukai", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables
	k.Load(env.Provider("TSUKAI_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "TSUKAI_")), "_", ".", -1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	for i, m := range cfg.Models.Registry {
		if m.Provider == "" {
			cfg.Models.Registry[i].Provider = "openai"
		}
	}

	// Post-Process: Inject standard Env Vars if missing
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "openai" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "anthropic" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		for i, m := range cfg.Models.Registry {
			if m.Provider == "gemini" && m.APIKey == "" {
				cfg.Models.Registry[i].APIKey = key
			}
		}
	}

	return &cfg, nil
}
