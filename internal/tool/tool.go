package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	tsukaiErrors "github.com/harunnryd/tsukai/internal/errors"
	"github.com/harunnryd/tsukai/internal/model/contract"
)

// Tool represents an executable capability exposed to the model.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error)
}

// Registry holds the authoritative set of callable tools. It is populated at
// setup and read-only afterwards, so lookups need no locking.
type Registry struct {
	tools map[string]Tool
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool. Names are unique within a registry.
func (r *Registry) Register(t Tool) error {
	name := NormalizeToolName(t.Name())
	if name == "" {
		return tsukaiErrors.InvalidInput("empty tool name")
	}
	if _, exists := r.tools[name]; exists {
		return tsukaiErrors.DuplicateTool(fmt.Sprintf("tool %s already registered", name))
	}

	r.tools[name] = t
	return nil
}

// Resolve looks up a tool by name. Model-supplied names are untrusted, so a
// miss is an expected condition, not a programming error.
func (r *Registry) Resolve(name string) (Tool, error) {
	t, ok := r.tools[NormalizeToolName(name)]
	if !ok {
		return nil, tsukaiErrors.UnknownTool(fmt.Sprintf("tool %s is not registered", NormalizeToolName(name)))
	}
	return t, nil
}

// Catalog returns the tool definitions surfaced to the model, sorted by name.
func (r *Registry) Catalog() []contract.ToolDef {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]contract.ToolDef, 0, len(names))
	for _, name := range names {
		t := r.tools[name]
		defs = append(defs, contract.ToolDef{
			Name:        name,
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return defs
}

func NormalizeToolName(name string) string {
	return strings.TrimSpace(name)
}
