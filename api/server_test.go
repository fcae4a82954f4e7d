package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/meghashyamc/docsearch/config"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T, assert *require.Assertions) *config.Config {
	t.Setenv("STORAGE_PATH", t.TempDir())
	cfg, err := config.Load("test")
	assert.NoError(err)
	return cfg
}

func setupTestServer(t *testing.T, assert *require.Assertions, cfg *config.Config) *server {
	s := &server{cfg: cfg, logger: logger.New("error")}
	assert.NoError(s.setupDependencies())
	t.Cleanup(s.closeDependencies)
	assert.NoError(s.setupValidator())
	s.setupRouter()
	return s
}

func newJSONRequest(method string, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLoadThenSearch(t *testing.T) {
	assert := require.New(t)
	cfg := loadTestConfig(t, assert)

	dir := t.TempDir()
	assert.NoError(os.WriteFile(filepath.Join(dir, "rhyme.txt"), []byte("Jack and Jill went up the hill\nto fetch a pail of water"), 0644))
	assert.NoError(os.WriteFile(filepath.Join(dir, "ocean.md"), []byte("water covers the planet"), 0644))

	assert.NoError(os.MkdirAll(filepath.Join(dir, "drafts"), 0755))
	assert.NoError(os.WriteFile(filepath.Join(dir, "drafts", "draft.txt"), []byte("a hill draft"), 0644))

	summary, err := Load(context.Background(), cfg, LoadOptions{Dir: dir, Exclude: []string{filepath.Join(dir, "drafts")}})
	assert.NoError(err)
	assert.Equal(2, summary.Added)

	s := setupTestServer(t, assert, cfg)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs?q=hill", nil))
	assert.Equal(http.StatusOK, w.Code)
	assert.JSONEq(`{
		"results": [{
			"name": "rhyme",
			"score": 1,
			"lines": ["Jack and Jill went up the hill"],
			"href": "http://example.com:8081/docs/rhyme"
		}],
		"totalCount": 1,
		"links": [{"rel": "self", "href": "http://example.com:8081/docs?q=hill&start=0&count=5"}]
	}`, w.Body.String())
}

func TestCreateThenGet(t *testing.T) {
	assert := require.New(t)
	s := setupTestServer(t, assert, loadTestConfig(t, assert))

	body, err := json.Marshal(map[string]string{"name": "notes", "content": "first line\nsecond line"})
	assert.NoError(err)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, newJSONRequest(http.MethodPost, "/docs", body))
	assert.Equal(http.StatusCreated, w.Code)
	assert.Equal("http://example.com:8081/docs/notes", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, newJSONRequest(http.MethodPost, "/docs", body))
	assert.Equal(http.StatusConflict, w.Code)
	assert.JSONEq(`{"code":"EXISTS","message":"document notes already exists"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/notes", nil))
	assert.Equal(http.StatusOK, w.Code)
	assert.JSONEq(`{
		"content": "first line\nsecond line",
		"links": [{"rel": "self", "href": "http://example.com:8081/docs/notes"}]
	}`, w.Body.String())

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/absent", nil))
	assert.Equal(http.StatusNotFound, w.Code)
	assert.JSONEq(`{"code":"NOT_FOUND","message":"doc absent not found"}`, w.Body.String())

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/completions?text=the+sec", nil))
	assert.Equal(http.StatusOK, w.Code)
	assert.JSONEq(`["second"]`, w.Body.String())
}

func TestRunStopsWhenContextIsCancelled(t *testing.T) {
	assert := require.New(t)
	cfg := loadTestConfig(t, assert)
	cfg.SetPort("0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(Run(ctx, cfg, LoadOptions{}))
}
