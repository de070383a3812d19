package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	tsukaiErrors "github.com/harunnryd/tsukai/internal/errors"
	"github.com/harunnryd/tsukai/internal/logger"
	"github.com/harunnryd/tsukai/internal/model/contract"
)

// Runner handles the full tool lifecycle: resolve -> validate -> execute.
// Every error out of here carries a taxonomy category so the orchestration
// loop can decide whether to feed it back to the model or surface it.
type Runner struct {
	registry *Registry
}

func NewRunner(registry *Registry) *Runner {
	return &Runner{registry: registry}
}

func (r *Runner) Catalog() []contract.ToolDef {
	if r == nil || r.registry == nil {
		return nil
	}
	return r.registry.Catalog()
}

// Execute resolves and runs one invocation. Tool panics are recovered and
// reported as execution failures: a misbehaving tool must not take down the
// orchestration session.
func (r *Runner) Execute(ctx context.Context, toolName string, input json.RawMessage) (result json.RawMessage, err error) {
	t, resolveErr := r.registry.Resolve(toolName)
	if resolveErr != nil {
		return nil, resolveErr
	}
	resolvedName := NormalizeToolName(t.Name())

	if validateErr := ValidateInput(t.Parameters(), input); validateErr != nil {
		slog.Warn("Tool input validation failed", "tool", resolvedName, "error", validateErr)
		return nil, validateErr
	}

	start := time.Now()
	sessionID := logger.GetSessionID(ctx)
	slog.Info("Executing tool", "tool", resolvedName, "session_id", sessionID)

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("Tool panicked", "tool", resolvedName, "panic", rec, "session_id", sessionID)
			result = nil
			err = tsukaiErrors.ToolExecution(fmt.Sprintf("tool %s panicked: %v", resolvedName, rec))
		}
	}()

	result, execErr := t.Execute(ctx, input)

	duration := time.Since(start)
	if execErr != nil {
		slog.Error("Tool execution failed", "tool", resolvedName, "error", execErr, "duration", duration, "session_id", sessionID)
		return nil, tsukaiErrors.ToolExecution(fmt.Sprintf("tool %s: %v", resolvedName, execErr))
	}

	slog.Info("Tool execution success", "tool", resolvedName, "duration", duration, "session_id", sessionID)
	return result, nil
}
