package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/meghashyamc/docsearch/db/kvdb"
	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/finder"
	"github.com/stretchr/testify/require"
)

type memoryAdder struct {
	mu      sync.Mutex
	docs    map[string]string
	batches int
	failFor string
}

func newMemoryAdder() *memoryAdder {
	return &memoryAdder{docs: map[string]string{}}
}

func (a *memoryAdder) AddContents(_ context.Context, documents []searchdb.Document) (finder.BatchResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.batches++
	result := finder.BatchResult{}
	for _, doc := range documents {
		if doc.Name == a.failFor {
			return finder.BatchResult{}, errors.New("store unavailable")
		}
		if _, ok := a.docs[doc.Name]; ok {
			result.Rejected = append(result.Rejected, &finder.Error{Code: finder.CodeExists, Message: fmt.Sprintf("document %s already exists", doc.Name)})
			continue
		}
		a.docs[doc.Name] = doc.Content
		result.Added++
	}
	return result, nil
}

func writeTestFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
	}
}

func TestLoad(t *testing.T) {
	assert := require.New(t)
	root := t.TempDir()
	writeTestFiles(t, root, map[string]string{
		"rhyme.txt":             "Jack and Jill",
		"notes.md":              "# notes",
		"nested/ocean.txt":      "water everywhere",
		".hidden.txt":           "hidden",
		".git/config.txt":       "ignored",
		"image.png":             "binary",
		"skipme/skipped.txt":    "excluded",
		"nested/deep/UPPER.TXT": "upper case extension",
	})

	adder := newMemoryAdder()
	service := New(logger.New("error"), adder)

	summary, err := service.Load(context.Background(), root, []string{filepath.Join(root, "skipme")})
	assert.NoError(err)
	assert.Equal(Summary{Added: 4, Skipped: 0}, summary)
	assert.Equal(map[string]string{
		"rhyme": "Jack and Jill",
		"notes": "# notes",
		"ocean": "water everywhere",
		"UPPER": "upper case extension",
	}, adder.docs)
}

func TestLoadExcludesRelativeFolders(t *testing.T) {
	assert := require.New(t)
	root := t.TempDir()
	writeTestFiles(t, root, map[string]string{
		"kept.txt":          "kept",
		"drafts/draft.txt":  "draft",
		"notes/old/old.txt": "old",
		"notes/new.txt":     "new",
	})

	adder := newMemoryAdder()
	service := New(logger.New("error"), adder)

	summary, err := service.Load(context.Background(), root, []string{"drafts", "notes/old"})
	assert.NoError(err)
	assert.Equal(Summary{Added: 2}, summary)
	assert.Equal(map[string]string{"kept": "kept", "new": "new"}, adder.docs)
}

func TestLoadSkipsTakenNames(t *testing.T) {
	assert := require.New(t)
	root := t.TempDir()
	writeTestFiles(t, root, map[string]string{
		"a/rhyme.txt": "first",
		"b/rhyme.md":  "second",
		"ocean.txt":   "water",
	})

	adder := newMemoryAdder()
	service := New(logger.New("error"), adder)

	summary, err := service.Load(context.Background(), root, nil)
	assert.NoError(err)
	assert.Equal(Summary{Added: 2, Skipped: 1}, summary)
	assert.Equal("first", adder.docs["rhyme"])

	summary, err = service.Load(context.Background(), root, nil)
	assert.NoError(err)
	assert.Equal(Summary{Added: 0, Skipped: 3}, summary)
}

func TestLoadStopsOnUnexpectedFailure(t *testing.T) {
	assert := require.New(t)
	root := t.TempDir()
	writeTestFiles(t, root, map[string]string{"broken.txt": "x"})

	adder := newMemoryAdder()
	adder.failFor = "broken"
	service := New(logger.New("error"), adder)

	_, err := service.Load(context.Background(), root, nil)
	assert.Error(err)
	assert.Contains(err.Error(), "store unavailable")
}

func TestLoadMissingRoot(t *testing.T) {
	assert := require.New(t)
	service := New(logger.New("error"), newMemoryAdder())

	_, err := service.Load(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(err)
}

func TestLoadInBatches(t *testing.T) {
	assert := require.New(t)
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < searchdb.IndexingBatchSize+5; i++ {
		files[fmt.Sprintf("doc%03d.txt", i)] = fmt.Sprintf("content %d", i)
	}
	writeTestFiles(t, root, files)

	adder := newMemoryAdder()
	service := New(logger.New("error"), adder)

	summary, err := service.Load(context.Background(), root, nil)
	assert.NoError(err)
	assert.Equal(Summary{Added: searchdb.IndexingBatchSize + 5}, summary)
	assert.Equal(2, adder.batches)
	assert.Equal("content 42", adder.docs["doc042"])
}

func TestLoadWithRealFinder(t *testing.T) {
	assert := require.New(t)
	testLogger := logger.New("error")
	dir := t.TempDir()

	index, err := searchdb.New(testLogger, filepath.Join(dir, "test.bleve"))
	assert.NoError(err)
	t.Cleanup(func() { index.Close() })
	store, err := kvdb.New(testLogger, filepath.Join(dir, "test.db"))
	assert.NoError(err)
	t.Cleanup(func() { store.Close() })
	docFinder := finder.New(testLogger, index, store)

	root := t.TempDir()
	writeTestFiles(t, root, map[string]string{
		"rhyme.txt":      "Jack and Jill\nwent up the hill",
		"drafts/old.txt": "an old hill",
	})

	summary, err := New(testLogger, docFinder).Load(context.Background(), root, []string{filepath.Join(root, "drafts")})
	assert.NoError(err)
	assert.Equal(Summary{Added: 1}, summary)

	hits, err := docFinder.Find(context.Background(), "hill")
	assert.NoError(err)
	assert.Equal([]finder.SearchHit{{Name: "rhyme", Score: 1, Lines: []string{"went up the hill"}}}, hits)
}

func TestReadTextFileIsCapped(t *testing.T) {
	assert := require.New(t)
	path := filepath.Join(t.TempDir(), "big.txt")
	assert.NoError(os.WriteFile(path, []byte(strings.Repeat("a", maxFileSize+10)), 0644))

	content, err := readTextFile(path)
	assert.NoError(err)
	assert.Len(content, maxFileSize)
}

func TestDocumentName(t *testing.T) {
	assert := require.New(t)
	assert.Equal("rhyme", documentName("/docs/rhyme.txt"))
	assert.Equal("archive.tar", documentName("archive.tar.md"))
	assert.Equal("README", documentName("README"))
}
