// internal/config/loader_test.go
//
// Loader tests: YAML parsing, env-override precedence, and defaults.
//
// Run: go test ./internal/config -v

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
http:
  listen_addr: ":8080"

database:
  host: "127.0.0.1"
  user: "prepdesk"
  password: "fromyaml"
  name: "prepdesk"

session:
  key: "0123456789abcdef0123456789abcdef"
`

// writeRoot lays out a throwaway <root>/conf/global.yaml and points the
// loader at it.
func writeRoot(t *testing.T, yaml string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "conf"), 0o755); err != nil {
		t.Fatalf("mkdir conf: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "conf", "global.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write global.yaml: %v", err)
	}
	t.Setenv("PREPDESK_ROOT", root)
	return root
}

func TestLoadAppliesDefaults(t *testing.T) {
	root := writeRoot(t, testYAML)

	cfg, err := Load(context.Background(), nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("port: want %d, got %d", DefaultDBPort, cfg.Database.Port)
	}
	if cfg.Database.PoolSize != DefaultPoolSize {
		t.Errorf("pool size: want %d, got %d", DefaultPoolSize, cfg.Database.PoolSize)
	}
	if cfg.Session.CookieName != DefaultCookieName {
		t.Errorf("cookie name: want %q, got %q", DefaultCookieName, cfg.Session.CookieName)
	}
	if cfg.HTTP.BaseURL != "http://localhost:8080" {
		t.Errorf("base url: want derived localhost origin, got %q", cfg.HTTP.BaseURL)
	}
	if cfg.Paths.Root != root {
		t.Errorf("root: want %q, got %q", root, cfg.Paths.Root)
	}
	if got := Get(); got == nil || got.Database.Password != "fromyaml" {
		t.Errorf("Get() should return the cached config, got %+v", got)
	}
}

func TestLoadEnvOverridesWinOverYAML(t *testing.T) {
	writeRoot(t, testYAML)

	// Double-underscore maps to a nested key; the PREPDESK_ prefix must
	// be stripped or the override never reaches the tree.
	t.Setenv("PREPDESK_DATABASE__PASSWORD", "fromenv")
	t.Setenv("PREPDESK_DATABASE__POOL_SIZE", "25")
	t.Setenv("PREPDESK_HTTP__LISTEN_ADDR", ":9090")

	cfg, err := Load(context.Background(), nil)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Database.Password != "fromenv" {
		t.Errorf("password: env override must win over yaml, got %q", cfg.Database.Password)
	}
	if cfg.Database.PoolSize != 25 {
		t.Errorf("pool size: env override must win over default, got %d", cfg.Database.PoolSize)
	}
	if cfg.HTTP.ListenAddr != ":9090" {
		t.Errorf("listen addr: env override must win over yaml, got %q", cfg.HTTP.ListenAddr)
	}
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	writeRoot(t, `
http:
  listen_addr: ":8080"

database:
  host: "127.0.0.1"
`)

	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatalf("Load must fail when required fields are missing")
	}
}
