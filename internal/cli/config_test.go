package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestConfigShow_Defaults(t *testing.T) {
	isolateEnv(t)

	data := mustData(t, "config", "show")
	require.Equal(t, "", data["file"])

	cfg := data["config"].(map[string]any)
	cat := cfg["catalog"].(map[string]any)
	require.Equal(t, "https://fakestoreapi.com/products", cat["endpoint"])
	require.Equal(t, []any{float64(1), float64(2)}, cat["excludedIds"])
	require.Equal(t, "auto", cfg["tui"].(map[string]any)["theme"])
	require.Equal(t, true, cfg["tui"].(map[string]any)["mouse"])
}

func TestConfigShow_Precedence(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, `
catalog:
  endpoint: https://file.example/products
  excluded_ids: [7]
tui:
  theme: light
  mouse: false
`)

	data := mustData(t, "--config", path, "config", "show")
	require.Equal(t, path, data["file"])
	cfg := data["config"].(map[string]any)
	require.Equal(t, "https://file.example/products", cfg["catalog"].(map[string]any)["endpoint"])
	require.Equal(t, []any{float64(7)}, cfg["catalog"].(map[string]any)["excludedIds"])
	require.Equal(t, "light", cfg["tui"].(map[string]any)["theme"])
	require.Equal(t, false, cfg["tui"].(map[string]any)["mouse"])

	t.Setenv("SHOPFRONT_CATALOG_ENDPOINT", "https://env.example/products")
	data = mustData(t, "--config", path, "config", "show")
	require.Equal(t, "https://env.example/products", data["config"].(map[string]any)["catalog"].(map[string]any)["endpoint"])

	data = mustData(t, "--config", path, "--endpoint", "https://flag.example/products", "config", "show")
	require.Equal(t, "https://flag.example/products", data["config"].(map[string]any)["catalog"].(map[string]any)["endpoint"])
}

func TestConfig_ConfigEnvVar(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "tui:\n  theme: dark\n")
	t.Setenv("SHOPFRONT_CONFIG", path)

	data := mustData(t, "config", "show")
	require.Equal(t, path, data["file"])
	require.Equal(t, "dark", data["config"].(map[string]any)["tui"].(map[string]any)["theme"])
}

func TestConfig_InvalidThemeFails(t *testing.T) {
	isolateEnv(t)
	path := writeConfig(t, "tui:\n  theme: neon\n")

	_, stderr, err := runCLI(t, []string{"--config", path, "config", "show"})
	require.Error(t, err)
	require.Contains(t, string(stderr), "tui.theme")
}

func TestConfig_MissingExplicitFileFails(t *testing.T) {
	isolateEnv(t)
	_, _, err := runCLI(t, []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "config", "show"})
	require.Error(t, err)
}

func TestConfig_BadLogLevelFails(t *testing.T) {
	isolateEnv(t)
	_, stderr, err := runCLI(t, []string{"--log-level", "loud", "config", "show"})
	require.Error(t, err)
	require.Contains(t, string(stderr), "log level")
}
