package docstore

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps text onto a tiny deterministic vector so similarity
// search is stable without a model.
func fakeEmbedder() Embedder {
	return EmbedderFunc(func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, 8)
		for i, r := range text {
			vec[i%8] += float32(r)
		}
		// chromem expects normalized vectors for cosine similarity.
		var norm float32
		for _, v := range vec {
			norm += v * v
		}
		if norm > 0 {
			inv := float32(1 / math.Sqrt(float64(norm)))
			for i := range vec {
				vec[i] *= inv
			}
		}
		return vec, nil
	})
}

func TestOpen_RequiresEmbedderAndPath(t *testing.T) {
	_, err := Open(Options{Path: t.TempDir()})
	require.Error(t, err)

	_, err = Open(Options{Embedder: fakeEmbedder()})
	require.Error(t, err)
}

func TestIngestAndSearch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weather.md"), []byte("the forecast for tomorrow is sunny"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "launch.txt"), []byte("the product launch is on friday"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "binary.bin"), []byte{0x00, 0x01}, 0644))

	index, err := Open(Options{
		Path:     filepath.Join(t.TempDir(), "vectors"),
		Embedder: fakeEmbedder(),
	})
	require.NoError(t, err)

	chunks, err := index.IngestDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 2, chunks, "binary files are skipped")

	matches, err := index.Search(context.Background(), "the forecast for tomorrow is sunny", 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Contains(t, matches[0].ID, "weather.md")
	assert.Equal(t, "the forecast for tomorrow is sunny", matches[0].Content)
}

func TestSearch_EmptyIndex(t *testing.T) {
	index, err := Open(Options{
		Path:     filepath.Join(t.TempDir(), "vectors"),
		Embedder: fakeEmbedder(),
	})
	require.NoError(t, err)

	matches, err := index.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSplitChunks(t *testing.T) {
	assert.Nil(t, splitChunks("   "))
	assert.Equal(t, []string{"short"}, splitChunks("short"))

	long := make([]byte, chunkSize*2)
	for i := range long {
		long[i] = 'a'
	}
	chunks := splitChunks(string(long))
	require.GreaterOrEqual(t, len(chunks), 2)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), chunkSize)
	}
}
