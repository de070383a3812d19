package formatter

import (
	"encoding/json"
	"sort"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/harunnryd/tsukai/internal/model/contract"
)

type TableFormatter struct {
	headerStyle  lipgloss.Style
	cellStyle    lipgloss.Style
	oddRowStyle  lipgloss.Style
	evenRowStyle lipgloss.Style
	borderStyle  lipgloss.Style
}

func NewTableFormatter() *TableFormatter {
	purple := lipgloss.Color("99")
	gray := lipgloss.Color("245")
	lightGray := lipgloss.Color("241")

	return &TableFormatter{
		headerStyle: lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Align(lipgloss.Center).
			Padding(0, 1),
		cellStyle: lipgloss.NewStyle().
			Padding(0, 1),
		oddRowStyle: lipgloss.NewStyle().
			Foreground(gray).
			Padding(0, 1),
		evenRowStyle: lipgloss.NewStyle().
			Foreground(lightGray).
			Padding(0, 1),
		borderStyle: lipgloss.NewStyle().
			Foreground(purple),
	}
}

// FormatCatalog renders the registered tools as a table.
func (f *TableFormatter) FormatCatalog(defs []contract.ToolDef) string {
	if len(defs) == 0 {
		return "No tools registered"
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(f.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return f.headerStyle
			case row%2 == 0:
				return f.evenRowStyle
			default:
				return f.oddRowStyle
			}
		}).
		Headers("Name", "Description", "Required")

	for _, def := range defs {
		t.Row(
			def.Name,
			truncateString(def.Description, 50),
			strings.Join(requiredFields(def.Parameters), ", "),
		)
	}

	return t.String()
}

// FormatTool renders one tool definition, schema included.
func (f *TableFormatter) FormatTool(def contract.ToolDef) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(f.borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return f.headerStyle
			}
			return f.cellStyle
		})

	schema := ""
	if def.Parameters != nil {
		if data, err := json.MarshalIndent(def.Parameters, "", "  "); err == nil {
			schema = string(data)
		}
	}

	t.Row("Name", def.Name)
	t.Row("Description", truncateString(def.Description, 60))
	t.Row("Parameters", schema)

	return t.String()
}

func requiredFields(params map[string]interface{}) []string {
	if params == nil {
		return nil
	}
	raw, ok := params["required"]
	if !ok {
		return nil
	}

	var fields []string
	switch v := raw.(type) {
	case []string:
		fields = append(fields, v...)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				fields = append(fields, s)
			}
		}
	}
	sort.Strings(fields)
	return fields
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
