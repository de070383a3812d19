package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/harunnryd/tsukai/internal/config"
	tsukaiErrors "github.com/harunnryd/tsukai/internal/errors"
	"github.com/harunnryd/tsukai/internal/logger"
	"github.com/harunnryd/tsukai/internal/model/contract"
)

// ModelClient is the upstream the loop blocks on each iteration. It returns
// either a final text answer or a request to invoke one tool.
type ModelClient interface {
	Send(ctx context.Context, conv contract.Conversation, tools []contract.ToolDef, cfg contract.GenerateConfig) (*contract.ModelResponse, error)
}

// ToolRunner executes one resolved invocation against the registry.
type ToolRunner interface {
	Execute(ctx context.Context, toolName string, input json.RawMessage) (json.RawMessage, error)
	Catalog() []contract.ToolDef
}

// Orchestrator drives the request/response cycle between the model and the
// tool registry for a single user question. One Orchestrator may serve many
// sequential queries; each Run owns its conversation and shares nothing with
// concurrent runs.
type Orchestrator struct {
	client        ModelClient
	runner        ToolRunner
	maxIterations int
	genCfg        contract.GenerateConfig
}

func New(client ModelClient, runner ToolRunner, maxIterations int, genCfg contract.GenerateConfig) *Orchestrator {
	if maxIterations <= 0 {
		maxIterations = config.DefaultOrchestratorMaxIterations
	}
	return &Orchestrator{
		client:        client,
		runner:        runner,
		maxIterations: maxIterations,
		genCfg:        genCfg,
	}
}

const malformedOutputHint = "Your last reply contained neither a final answer nor a tool invocation. " +
	"Reply with plain text to answer directly, or invoke exactly one of the provided tools."

// Run executes the loop until the model produces a final answer or the
// iteration budget is exhausted. The model is an unreliable upstream: unknown
// tools, bad arguments, failing tools, and malformed output are all fed back
// into the conversation so it can self-correct. Only infrastructure failures
// (provider unreachable, cancellation) return an error.
func (o *Orchestrator) Run(ctx context.Context, question string) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, tsukaiErrors.InvalidInput("question is empty")
	}

	conv := contract.Conversation{contract.UserText(question)}
	catalog := o.runner.Catalog()
	sessionID := logger.GetSessionID(ctx)

	result := &Result{}
	var lastUse *contract.ToolUse

	for i := 0; i < o.maxIterations; i++ {
		// Cooperative cancellation between iterations.
		if err := ctx.Err(); err != nil {
			return nil, tsukaiErrors.Wrap(err, "orchestration cancelled")
		}

		resp, err := o.client.Send(ctx, conv, catalog, o.genCfg)
		if err != nil {
			return nil, tsukaiErrors.Wrap(err, "model client")
		}
		result.ModelCalls++

		slog.Debug("Model responded",
			"iteration", i+1,
			"max", o.maxIterations,
			"has_invocation", resp.Invocation != nil,
			"session_id", sessionID,
		)

		if resp.IsFinalAnswer() {
			if strings.TrimSpace(resp.Text) == "" {
				// Neither answer nor invocation: remind the model of the
				// expected shape and spend another iteration.
				malformed := tsukaiErrors.MalformedModelOutput("empty response")
				slog.Warn("Malformed model output", "error", malformed, "session_id", sessionID)
				conv = append(conv, contract.UserText(malformedOutputHint))
				continue
			}

			conv = append(conv, contract.AssistantTurn(resp.Text, nil))
			result.Answer = resp.Text
			result.Stop = StopFinalAnswer
			result.Conversation = conv
			return result, nil
		}

		use := resp.Invocation
		if strings.TrimSpace(use.Name) == "" {
			conv = append(conv, contract.AssistantTurn(resp.Text, use))
			conv = append(conv, errorResult(use, tsukaiErrors.MalformedModelOutput("tool invocation is missing a name")))
			result.Steps = append(result.Steps, Step{Invocation: *use, IsError: true})
			lastUse = use
			continue
		}

		conv = append(conv, contract.AssistantTurn(resp.Text, use))

		step := Step{Invocation: *use}
		switch {
		case repeatsInvocation(use, lastUse):
			// Hardening against tool-call cycles: an immediate byte-identical
			// repeat is rejected without re-executing.
			err := tsukaiErrors.ToolExecution(fmt.Sprintf(
				"tool %s was just called with identical arguments; use the previous result or try something else", use.Name))
			conv = append(conv, errorResult(use, err))
			step.IsError = true

		default:
			out, execErr := o.runner.Execute(ctx, use.Name, use.Arguments)
			switch {
			case execErr == nil:
				conv = append(conv, contract.ToolResultMessage(contract.ToolResult{
					ToolUseID: use.ID,
					ToolName:  use.Name,
					Content:   out,
				}))
				step.Output = out
			case tsukaiErrors.Recoverable(execErr):
				conv = append(conv, errorResult(use, execErr))
				step.IsError = true
			default:
				return nil, execErr
			}
		}

		result.Steps = append(result.Steps, step)
		result.ToolCalls++
		lastUse = use
	}

	slog.Warn("Iteration budget exhausted", "iterations", o.maxIterations, "session_id", sessionID)
	result.Answer = conv.Text()
	result.Stop = StopIterationLimit
	result.Conversation = conv
	return result, nil
}

// errorResult synthesizes the tool-result message a rejected or failed
// invocation feeds back into the conversation.
func errorResult(use *contract.ToolUse, err error) contract.Message {
	payload, marshalErr := json.Marshal(map[string]string{"error": err.Error()})
	if marshalErr != nil {
		payload = []byte(`{"error":"tool failed"}`)
	}
	return contract.ToolResultMessage(contract.ToolResult{
		ToolUseID: use.ID,
		ToolName:  use.Name,
		IsError:   true,
		Content:   payload,
	})
}

func repeatsInvocation(use, last *contract.ToolUse) bool {
	if use == nil || last == nil {
		return false
	}
	if use.Name != last.Name {
		return false
	}
	return canonicalEqual(use.Arguments, last.Arguments)
}

// canonicalEqual compares two raw JSON argument objects by value, so key
// order and whitespace do not defeat repeat detection.
func canonicalEqual(a, b json.RawMessage) bool {
	var av, bv interface{}
	if err := json.Unmarshal(normalizeEmpty(a), &av); err != nil {
		return false
	}
	if err := json.Unmarshal(normalizeEmpty(b), &bv); err != nil {
		return false
	}
	return reflect.DeepEqual(av, bv)
}

func normalizeEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}
