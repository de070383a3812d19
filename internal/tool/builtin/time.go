package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	toolcore "github.com/harunnryd/tsukai/internal/tool"
)

func init() {
	toolcore.RegisterBuiltin("time", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		return &TimeTool{Now: time.Now}, nil
	})
}

// TimeTool reports the current time, optionally in a named IANA zone.
type TimeTool struct {
	Now func() time.Time
}

func (t *TimeTool) Name() string { return "time" }

func (t *TimeTool) Description() string {
	return "Get the current date and time, optionally in a specific timezone."
}

func (t *TimeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"timezone": map[string]interface{}{
				"type":        "string",
				"description": "IANA timezone name (for example: Asia/Jakarta). Defaults to UTC.",
			},
		},
	}
}

func (t *TimeTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args struct {
		Timezone string `json:"timezone"`
	}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &args); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
	}

	loc := time.UTC
	if zone := strings.TrimSpace(args.Timezone); zone != "" {
		resolved, err := time.LoadLocation(zone)
		if err != nil {
			return nil, fmt.Errorf("unknown timezone %q", zone)
		}
		loc = resolved
	}

	now := t.Now().In(loc)
	return json.Marshal(map[string]interface{}{
		"timezone": loc.String(),
		"rfc3339":  now.Format(time.RFC3339),
		"weekday":  now.Weekday().String(),
	})
}
