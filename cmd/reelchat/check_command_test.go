package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeCheckConfig(t *testing.T, tmdbURL, llmURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := fmt.Sprintf(`[tmdb]
api_key = "tmdb-test-key"
base_url = %q

[llm]
api_key = "llm-test-key"
base_url = %q
model = "test/model"
`, tmdbURL, llmURL)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func newProviderServers(t *testing.T, llmContent string) (tmdb, llm *httptest.Server) {
	t.Helper()
	tmdb = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/genre/movie/list" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"genres": [{"id": 878, "name": "Science Fiction"}]}`)
	}))
	t.Cleanup(tmdb.Close)

	llm = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices": [{"message": {"role": "assistant", "content": %q}}]}`, llmContent)
	}))
	t.Cleanup(llm.Close)
	return tmdb, llm
}

func TestCheckReportsHealthyProviders(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmdb, llm := newProviderServers(t, `{"ok":true}`)
	configPath := writeCheckConfig(t, tmdb.URL, llm.URL)

	out, err := runCLI(t, []string{"check", "--config", configPath})
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "catalog: ok")
	requireContains(t, out, "llm: ok")
}

func TestCheckFailsOnBadModelResponse(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	tmdb, llm := newProviderServers(t, `{"ok":false}`)
	configPath := writeCheckConfig(t, tmdb.URL, llm.URL)

	out, err := runCLI(t, []string{"check", "--config", configPath})
	if err == nil {
		t.Fatalf("expected failure, output:\n%s", out)
	}
	requireContains(t, out, "catalog: ok")
	requireContains(t, out, "llm: FAILED")
}
