package orchestrator

import (
	"encoding/json"

	"github.com/harunnryd/tsukai/internal/model/contract"
)

// StopCondition describes why the loop exited an iteration.
type StopCondition string

const (
	// StopToolUse - the model requested a tool; the loop continues.
	StopToolUse StopCondition = "tool_use"
	// StopFinalAnswer - the model produced a final text answer.
	StopFinalAnswer StopCondition = "final_answer"
	// StopIterationLimit - the iteration budget ran out before a final
	// answer. A normal business outcome, not a failure.
	StopIterationLimit StopCondition = "iteration_limit"
)

// Step records one tool invocation and its outcome, in order.
type Step struct {
	Invocation contract.ToolUse
	Output     json.RawMessage
	IsError    bool
}

// Result is the outcome of one orchestration run. When Stop is
// StopIterationLimit, Answer holds the best-effort partial text and
// Incomplete reports true - the caller decides how to present that.
type Result struct {
	Answer       string
	Stop         StopCondition
	ModelCalls   int
	ToolCalls    int
	Steps        []Step
	Conversation contract.Conversation
}

// Incomplete reports whether the run ended without a final answer.
func (r *Result) Incomplete() bool {
	return r.Stop == StopIterationLimit
}
