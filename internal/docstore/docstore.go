package docstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/philippgille/chromem-go"

	"github.com/harunnryd/tsukai/internal/tool"
)

const (
	maxDocumentBytes = 1 << 20
	chunkSize        = 2000
	chunkOverlap     = 200
)

// Embedder turns text into a vector. The model router satisfies this
// through EmbedderFunc.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// Index is a persistent vector index over plain-text workspace documents.
// It backs the search_documents tool.
type Index struct {
	db         *chromem.DB
	collection string
	embedder   Embedder
}

type Options struct {
	// Path is the directory holding the persisted vectors.
	Path       string
	Collection string
	Embedder   Embedder
}

func Open(opts Options) (*Index, error) {
	if opts.Embedder == nil {
		return nil, fmt.Errorf("docstore: embedder is required")
	}
	if strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("docstore: path is required")
	}
	collection := strings.TrimSpace(opts.Collection)
	if collection == "" {
		collection = "documents"
	}

	if err := os.MkdirAll(opts.Path, 0755); err != nil {
		return nil, fmt.Errorf("docstore: create dir: %w", err)
	}
	db, err := chromem.NewPersistentDB(opts.Path, false)
	if err != nil {
		return nil, fmt.Errorf("docstore: open vector db: %w", err)
	}

	return &Index{
		db:         db,
		collection: collection,
		embedder:   opts.Embedder,
	}, nil
}

// IngestDir walks a directory and indexes every text document it finds.
// Chunks are keyed by content hash, so re-ingesting unchanged files is an
// upsert of identical records.
func (idx *Index) IngestDir(ctx context.Context, dir string) (int, error) {
	indexed := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isTextFile(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if info.Size() > maxDocumentBytes {
			slog.Warn("Skipping oversized document", "path", path, "size", info.Size())
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		n, err := idx.ingestDocument(ctx, rel, string(data))
		if err != nil {
			return fmt.Errorf("index %s: %w", rel, err)
		}
		indexed += n
		return nil
	})
	return indexed, err
}

func (idx *Index) ingestDocument(ctx context.Context, name, content string) (int, error) {
	col, err := idx.db.GetOrCreateCollection(idx.collection, nil, nil)
	if err != nil {
		return 0, err
	}

	chunks := splitChunks(content)
	for i, chunk := range chunks {
		vector, err := idx.embedder.Embed(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("embed chunk %d: %w", i, err)
		}

		sum := sha256.Sum256([]byte(chunk))
		doc := chromem.Document{
			ID:        fmt.Sprintf("%s#%s", name, hex.EncodeToString(sum[:8])),
			Metadata:  map[string]string{"source": name},
			Embedding: vector,
			Content:   chunk,
		}
		if err := col.AddDocuments(ctx, []chromem.Document{doc}, 1); err != nil {
			return 0, err
		}
	}
	return len(chunks), nil
}

// Search implements tool.DocumentIndex.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]tool.DocumentMatch, error) {
	col := idx.db.GetCollection(idx.collection, nil)
	if col == nil {
		return []tool.DocumentMatch{}, nil
	}
	if count := col.Count(); count == 0 {
		return []tool.DocumentMatch{}, nil
	} else if topK > count {
		topK = count
	}

	vector, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	docs, err := col.QueryEmbedding(ctx, vector, topK, nil, nil)
	if err != nil {
		return nil, err
	}

	matches := make([]tool.DocumentMatch, 0, len(docs))
	for _, doc := range docs {
		matches = append(matches, tool.DocumentMatch{
			ID:      doc.ID,
			Content: doc.Content,
			Score:   doc.Similarity,
		})
	}
	return matches, nil
}

func isTextFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".markdown", ".rst", ".csv", ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func splitChunks(content string) []string {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	if len(content) <= chunkSize {
		return []string{content}
	}

	var chunks []string
	step := chunkSize - chunkOverlap
	for start := 0; start < len(content); start += step {
		end := start + chunkSize
		if end >= len(content) {
			chunks = append(chunks, content[start:])
			break
		}
		chunks = append(chunks, content[start:end])
	}
	return chunks
}
