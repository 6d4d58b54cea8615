package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolateEnv keeps tests away from the user's config and state dirs.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("SHOPFRONT_CONFIG", "")
	t.Setenv("SHOPFRONT_FORMAT", "")
	t.Setenv("SHOPFRONT_CATALOG_ENDPOINT", "")
}

// catalogJSON returns 25 products with ids 1..25; ids 4, 9, 15 and 20 are shirts.
func catalogJSON() []byte {
	shirts := map[int]bool{4: true, 9: true, 15: true, 20: true}
	var xs []map[string]any
	for id := 1; id <= 25; id++ {
		title := fmt.Sprintf("Gadget %d", id)
		if shirts[id] {
			title = fmt.Sprintf("Cotton T-Shirt %d", id)
		}
		xs = append(xs, map[string]any{
			"id":          id,
			"title":       title,
			"price":       float64(id) + 0.5,
			"image":       fmt.Sprintf("https://img.example/%d.jpg", id),
			"description": "desc",
			"category":    "misc",
			"rating":      map[string]any{"rate": 4.1, "count": 10},
		})
	}
	b, _ := json.Marshal(xs)
	return b
}

func newCatalogServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	body := catalogJSON()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func mustData(t *testing.T, args ...string) map[string]any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	require.NoError(t, err, "shopfront %v\nstderr:\n%s", args, stderr)

	var env map[string]any
	require.NoError(t, json.Unmarshal(stdout, &env), "stdout:\n%s", stdout)
	data, ok := env["data"].(map[string]any)
	require.True(t, ok, "expected data envelope, got %v", env)
	return data
}

func itemIDs(t *testing.T, data map[string]any) []int {
	t.Helper()
	items, ok := data["items"].([]any)
	require.True(t, ok, "items: %#v", data["items"])
	out := make([]int, 0, len(items))
	for _, it := range items {
		m := it.(map[string]any)
		out = append(out, int(m["id"].(float64)))
	}
	return out
}

func TestProductsList_PagesExcludeDenylistedIDs(t *testing.T) {
	isolateEnv(t)
	srv, hits := newCatalogServer(t)

	data := mustData(t, "--endpoint", srv.URL, "products", "list")
	require.Equal(t, float64(23), data["total"])
	require.Equal(t, float64(3), data["totalPages"])
	require.Equal(t, []int{3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, itemIDs(t, data))
	require.Equal(t, srv.URL, data["source"])

	data = mustData(t, "--endpoint", srv.URL, "products", "list", "--page", "3")
	require.Equal(t, []int{23, 24, 25}, itemIDs(t, data))

	data = mustData(t, "--endpoint", srv.URL, "products", "list", "--page", "4")
	require.Empty(t, itemIDs(t, data))

	require.Equal(t, int32(3), atomic.LoadInt32(hits))
}

func TestProductsList_QueryIsCaseInsensitive(t *testing.T) {
	isolateEnv(t)
	srv, _ := newCatalogServer(t)

	data := mustData(t, "--endpoint", srv.URL, "products", "list", "--query", "shirt")
	require.Equal(t, float64(4), data["total"])
	require.Equal(t, float64(1), data["page"])
	require.Equal(t, []int{4, 9, 15, 20}, itemIDs(t, data))

	data = mustData(t, "--endpoint", srv.URL, "products", "list", "--query", "no such thing")
	require.Equal(t, float64(0), data["total"])
	require.Equal(t, float64(0), data["totalPages"])
}

func TestProductsList_RejectsPageZero(t *testing.T) {
	isolateEnv(t)
	srv, hits := newCatalogServer(t)

	_, stderr, err := runCLI(t, []string{"--endpoint", srv.URL, "products", "list", "--page", "0"})
	require.Error(t, err)
	require.Contains(t, string(stderr), "invalid --page 0")
	require.Zero(t, atomic.LoadInt32(hits))
}

func TestProductsList_HugePageIsEmpty(t *testing.T) {
	isolateEnv(t)
	srv, _ := newCatalogServer(t)

	for _, page := range []string{"9223372036854775807", "922337203685477582"} {
		data := mustData(t, "--endpoint", srv.URL, "products", "list", "--page", page)
		require.Empty(t, itemIDs(t, data), "page %s", page)
		require.Equal(t, float64(3), data["totalPages"])
	}
}

func TestProductsList_FetchFailure(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	stdout, stderr, err := runCLI(t, []string{"--endpoint", srv.URL, "products", "list"})
	require.Error(t, err)
	require.Empty(t, stdout)
	require.Contains(t, string(stderr), "500")
}

func TestProductsList_EDN(t *testing.T) {
	isolateEnv(t)
	srv, _ := newCatalogServer(t)

	stdout, stderr, err := runCLI(t, []string{"--endpoint", srv.URL, "--format", "edn", "products", "list", "--query", "shirt"})
	require.NoError(t, err, "stderr:\n%s", stderr)
	out := string(stdout)
	require.True(t, strings.HasPrefix(out, "{"), out)
	require.Contains(t, out, ":total-pages 1")
	require.Contains(t, out, `"Cotton T-Shirt 4"`)
}

func TestProductsSnapshot_ThenListOffline(t *testing.T) {
	isolateEnv(t)
	srv, _ := newCatalogServer(t)
	dbPath := filepath.Join(t.TempDir(), "nested", "catalog.db")

	snap := mustData(t, "--endpoint", srv.URL, "products", "snapshot", "--db", dbPath)
	require.NotEmpty(t, snap["id"])
	require.Equal(t, float64(23), snap["products"])
	require.Equal(t, srv.URL, snap["endpoint"])

	srv.Close()

	data := mustData(t, "products", "list", "--db", dbPath, "--query", "SHIRT")
	require.Equal(t, []int{4, 9, 15, 20}, itemIDs(t, data))
	require.Equal(t, dbPath, data["source"])
}

func TestProductsSnapshot_RequiresDB(t *testing.T) {
	isolateEnv(t)
	_, _, err := runCLI(t, []string{"products", "snapshot"})
	require.Error(t, err)
}

func TestProductsList_MissingSnapshot(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "empty.db")
	_, stderr, err := runCLI(t, []string{"products", "list", "--db", dbPath})
	require.Error(t, err)
	require.Contains(t, string(stderr), "no snapshot")
	_, statErr := os.Stat(dbPath)
	require.True(t, os.IsNotExist(statErr), "listing must not create %s", dbPath)
}

func TestLogging_WritesToConfiguredFile(t *testing.T) {
	isolateEnv(t)
	srv, _ := newCatalogServer(t)
	logPath := filepath.Join(t.TempDir(), "logs", "shopfront.log")

	mustData(t, "--endpoint", srv.URL, "--log-file", logPath, "--log-level", "debug", "products", "list")

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(b), `"msg":"products listed"`)
}
