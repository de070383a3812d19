package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harunnryd/tsukai/internal/model/contract"
)

func TestFormatCatalog_Empty(t *testing.T) {
	f := NewTableFormatter()
	assert.Equal(t, "No tools registered", f.FormatCatalog(nil))
}

func TestFormatCatalog_ListsTools(t *testing.T) {
	f := NewTableFormatter()
	out := f.FormatCatalog([]contract.ToolDef{
		{
			Name:        "get_weather",
			Description: "Get the current weather for a latitude/longitude pair.",
			Parameters: map[string]interface{}{
				"type":     "object",
				"required": []string{"longitude", "latitude"},
			},
		},
	})

	assert.Contains(t, out, "get_weather")
	assert.Contains(t, out, "latitude, longitude", "required fields are sorted")
}

func TestFormatTool_IncludesSchema(t *testing.T) {
	f := NewTableFormatter()
	out := f.FormatTool(contract.ToolDef{
		Name:        "time",
		Description: "Get the current date and time.",
		Parameters: map[string]interface{}{
			"type": "object",
		},
	})

	assert.Contains(t, out, "time")
	assert.Contains(t, out, "object")
}

func TestRequiredFields_BothShapes(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, requiredFields(map[string]interface{}{
		"required": []string{"b", "a"},
	}))
	assert.Equal(t, []string{"a", "b"}, requiredFields(map[string]interface{}{
		"required": []interface{}{"b", "a"},
	}))
	assert.Nil(t, requiredFields(nil))
	assert.Nil(t, requiredFields(map[string]interface{}{}))
}
