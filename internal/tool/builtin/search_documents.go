package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	toolcore "github.com/harunnryd/tsukai/internal/tool"
)

const defaultSearchTopK = 4

func init() {
	toolcore.RegisterBuiltin("search_documents", func(options toolcore.BuiltinOptions) (toolcore.Tool, error) {
		if options.DocumentIndex == nil {
			// No index configured; the tool stays out of the registry.
			return nil, nil
		}

		topK := options.DocumentTopK
		if topK <= 0 {
			topK = defaultSearchTopK
		}

		return &SearchDocumentsTool{
			Index:       options.DocumentIndex,
			DefaultTopK: topK,
		}, nil
	})
}

// SearchDocumentsTool answers retrieval queries against the workspace index.
type SearchDocumentsTool struct {
	Index       toolcore.DocumentIndex
	DefaultTopK int
}

func (t *SearchDocumentsTool) Name() string { return "search_documents" }

func (t *SearchDocumentsTool) Description() string {
	return "Search the indexed workspace documents for passages relevant to a query."
}

func (t *SearchDocumentsTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": "Free-text search query",
			},
			"top_k": map[string]interface{}{
				"type":        "integer",
				"description": "Maximum number of passages to return",
			},
		},
		"required": []string{"query"},
	}
}

func (t *SearchDocumentsTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var args struct {
		Query string `json:"query"`
		TopK  int    `json:"top_k"`
	}
	if err := json.Unmarshal(input, &args); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	query := strings.TrimSpace(args.Query)
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	topK := args.TopK
	if topK <= 0 {
		topK = t.DefaultTopK
	}

	matches, err := t.Index.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	return json.Marshal(map[string]interface{}{
		"query":   query,
		"matches": matches,
	})
}
