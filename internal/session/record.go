package session

import (
	"github.com/harunnryd/tsukai/internal/model/contract"
)

// EntriesFromConversation flattens an orchestration conversation into
// transcript entries, one per content part.
func EntriesFromConversation(conv contract.Conversation) []Entry {
	var entries []Entry
	for _, msg := range conv {
		for _, part := range msg.Parts {
			switch {
			case part.ToolUse != nil:
				entries = append(entries, Entry{
					Role:       RoleAssistant,
					Content:    string(part.ToolUse.Arguments),
					ToolName:   part.ToolUse.Name,
					ToolCallID: part.ToolUse.ID,
				})
			case part.ToolResult != nil:
				entries = append(entries, Entry{
					Role:       RoleTool,
					Content:    string(part.ToolResult.Content),
					ToolName:   part.ToolResult.ToolName,
					ToolCallID: part.ToolResult.ToolUseID,
					IsError:    part.ToolResult.IsError,
				})
			case part.Text != "":
				entries = append(entries, Entry{
					Role:    roleFor(msg.Role),
					Content: part.Text,
				})
			}
		}
	}
	return entries
}

func roleFor(role string) Role {
	switch role {
	case contract.RoleAssistant:
		return RoleAssistant
	case contract.RoleTool:
		return RoleTool
	default:
		return RoleUser
	}
}
