package tool_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tsukaiErrors "github.com/harunnryd/tsukai/internal/errors"
	"github.com/harunnryd/tsukai/internal/tool"
)

func newTestRunner(t *testing.T, tools ...tool.Tool) *tool.Runner {
	t.Helper()
	registry := tool.NewRegistry()
	for _, tl := range tools {
		require.NoError(t, registry.Register(tl))
	}
	return tool.NewRunner(registry)
}

func TestRunner_ExecuteSuccess(t *testing.T) {
	runner := newTestRunner(t, &stubTool{name: "echo", result: json.RawMessage(`{"ok":true}`)})

	out, err := runner.Execute(context.Background(), "echo", json.RawMessage(`{"value":"hi"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(out))
}

func TestRunner_UnknownTool(t *testing.T) {
	runner := newTestRunner(t)

	_, err := runner.Execute(context.Background(), "missing", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.True(t, tsukaiErrors.IsCategory(err, tsukaiErrors.ErrUnknownTool))
}

func TestRunner_ValidationRunsBeforeExecution(t *testing.T) {
	stub := &stubTool{name: "echo", panics: true}
	runner := newTestRunner(t, stub)

	_, err := runner.Execute(context.Background(), "echo", json.RawMessage(`{"bogus":1}`))
	require.Error(t, err)
	assert.True(t, tsukaiErrors.IsCategory(err, tsukaiErrors.ErrInvalidArguments),
		"invalid input must be rejected before the tool runs")
}

func TestRunner_ExecutionErrorWrapped(t *testing.T) {
	runner := newTestRunner(t, &stubTool{name: "echo", err: fmt.Errorf("backend down")})

	_, err := runner.Execute(context.Background(), "echo", json.RawMessage(`{"value":"hi"}`))
	require.Error(t, err)
	assert.True(t, tsukaiErrors.IsCategory(err, tsukaiErrors.ErrToolExecution))
	assert.Contains(t, err.Error(), "backend down")
}

func TestRunner_PanicRecovered(t *testing.T) {
	runner := newTestRunner(t, &stubTool{name: "echo", panics: true})

	out, err := runner.Execute(context.Background(), "echo", json.RawMessage(`{"value":"hi"}`))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, tsukaiErrors.IsCategory(err, tsukaiErrors.ErrToolExecution))
	assert.Contains(t, err.Error(), "panicked")
}

func TestRunner_CatalogMatchesRegistry(t *testing.T) {
	runner := newTestRunner(t, &stubTool{name: "b"}, &stubTool{name: "a"})

	defs := runner.Catalog()
	require.Len(t, defs, 2)
	assert.Equal(t, "a", defs[0].Name)
	assert.Equal(t, "b", defs[1].Name)
}
