package contract

import (
	"encoding/json"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ToolUse is a structured request, emitted by the model, to invoke a named
// tool. Arguments is the raw JSON argument object exactly as the model
// produced it; validation happens against the registry, not here.
type ToolUse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult carries the outcome of a tool invocation back to the model.
// IsError marks rejected or failed invocations; Content then holds the
// error description the model can self-correct from. ToolName repeats the
// invoked tool's name for providers that pair results by function name
// rather than call ID.
type ToolResult struct {
	ToolUseID string          `json:"tool_use_id"`
	ToolName  string          `json:"tool_name,omitempty"`
	IsError   bool            `json:"is_error,omitempty"`
	Content   json.RawMessage `json:"content"`
}

// Part is one content part of a Message. Exactly one field is set.
type Part struct {
	Text       string      `json:"text,omitempty"`
	ToolUse    *ToolUse    `json:"tool_use,omitempty"`
	ToolResult *ToolResult `json:"tool_result,omitempty"`
}

type Message struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Conversation is the ordered message sequence owned by one orchestration
// session. It is passed by value between orchestration steps; nothing outside
// the owning session mutates it.
type Conversation []Message

func UserText(text string) Message {
	return Message{Role: RoleUser, Parts: []Part{{Text: text}}}
}

func AssistantTurn(text string, use *ToolUse) Message {
	msg := Message{Role: RoleAssistant}
	if text != "" {
		msg.Parts = append(msg.Parts, Part{Text: text})
	}
	if use != nil {
		msg.Parts = append(msg.Parts, Part{ToolUse: use})
	}
	return msg
}

func ToolResultMessage(result ToolResult) Message {
	return Message{Role: RoleTool, Parts: []Part{{ToolResult: &result}}}
}

// UnresolvedToolUses returns the IDs of tool-use parts that have no matching
// tool-result part later in the sequence. An empty result means the
// conversation is safe to send back to the model.
func (c Conversation) UnresolvedToolUses() []string {
	resolved := make(map[string]struct{})
	var order []string
	for _, msg := range c {
		for _, part := range msg.Parts {
			if part.ToolUse != nil {
				order = append(order, part.ToolUse.ID)
			}
			if part.ToolResult != nil {
				resolved[part.ToolResult.ToolUseID] = struct{}{}
			}
		}
	}

	var unresolved []string
	for _, id := range order {
		if _, ok := resolved[id]; !ok {
			unresolved = append(unresolved, id)
		}
	}
	return unresolved
}

// Text concatenates the plain-text parts of all assistant messages, oldest
// first. Used for the best-effort partial answer when the iteration budget
// runs out.
func (c Conversation) Text() string {
	out := ""
	for _, msg := range c {
		if msg.Role != RoleAssistant {
			continue
		}
		for _, part := range msg.Parts {
			if part.Text == "" {
				continue
			}
			if out != "" {
				out += "\n"
			}
			out += part.Text
		}
	}
	return out
}

// ToolDef describes one registry entry the way it is surfaced to the model.
type ToolDef struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// GenerateConfig carries the recognized sampling options. Zero values mean
// provider defaults.
type GenerateConfig struct {
	Model           string  `json:"model"`
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"max_output_tokens,omitempty"`
}

// ModelResponse is the tagged union decoded once at the provider boundary:
// leading free text plus at most one tool invocation. A nil Invocation is a
// final answer. Providers that emit several invocations in one turn have the
// extras discarded here - one tool call per round trip.
type ModelResponse struct {
	Text       string
	Invocation *ToolUse
}

func (r *ModelResponse) IsFinalAnswer() bool {
	return r.Invocation == nil
}
