package tool

import (
	"context"
	"fmt"
	"sort"
	"time"
)

const DefaultBuiltinHTTPTimeout = 10 * time.Second

// DocumentIndex is the retrieval backend the search_documents builtin talks
// to. Nil disables the tool.
type DocumentIndex interface {
	Search(ctx context.Context, query string, topK int) ([]DocumentMatch, error)
}

type DocumentMatch struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float32 `json:"score"`
}

// BuiltinOptions carries per-tool configuration into the factories.
type BuiltinOptions struct {
	GeocodeBaseURL string
	GeocodeTimeout time.Duration
	WeatherBaseURL string
	WeatherTimeout time.Duration
	DocumentIndex  DocumentIndex
	DocumentTopK   int
}

// BuiltinFactory builds one builtin tool. Returning a nil Tool (with nil
// error) means the builtin is disabled under the given options.
type BuiltinFactory func(options BuiltinOptions) (Tool, error)

var builtinFactories = map[string]BuiltinFactory{}

// RegisterBuiltin is called from init() in the builtin package.
func RegisterBuiltin(name string, factory BuiltinFactory) {
	if name == "" || factory == nil {
		panic("tool: invalid builtin registration")
	}
	if _, exists := builtinFactories[name]; exists {
		panic("tool: duplicate builtin " + name)
	}
	builtinFactories[name] = factory
}

// LoadBuiltins instantiates every registered builtin into the registry.
func LoadBuiltins(registry *Registry, options BuiltinOptions) error {
	names := make([]string, 0, len(builtinFactories))
	for name := range builtinFactories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t, err := builtinFactories[name](options)
		if err != nil {
			return fmt.Errorf("build builtin %s: %w", name, err)
		}
		if t == nil {
			continue
		}
		if err := registry.Register(t); err != nil {
			return fmt.Errorf("register builtin %s: %w", name, err)
		}
	}
	return nil
}
