// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `conf/.env` dotenv file.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `PREPDESK_`, where `__` maps to “.”
     (e.g., `PREPDESK_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, the tree is unmarshalled into strongly-typed structs.
Secret references (`vault:mount/path#key`) are resolved through the
optional Vault client, defaults are applied, and the result is
validated, enriched with the runtime root path, and cached in an
`atomic.Pointer` for lock-free reads via `Get()`.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, secret resolution,
    and validation failures.
  • INFO  span  — final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.
*/
package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/prepdesk/prepdesk/internal/vault"
)

// Defaults applied after unmarshal when the operator leaves a field
// unset.  The pool size is deliberately small and fixed; every request
// borrows one connection per query.
const (
	DefaultDBPort     = 3306
	DefaultPoolSize   = 10
	DefaultCookieName = "userId"
)

var current atomic.Pointer[Config]

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves PREPDESK_ROOT or climbs directories until
// conf/global.yaml is found.  Falls back to executable heuristic for the
// production layout (<root>/bin/web).
func rootDir() string {
	if r := os.Getenv("PREPDESK_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves secrets, validates, and
// caches Config.  The secrets client may be nil when no Vault is
// configured; `vault:` references then fail validation loudly instead of
// slipping an unresolved URI into a DSN.
func Load(ctx context.Context, secrets *vault.Client) (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}
	zap.S().Debugw("config yaml loaded", "file", yamlPath)

	// Env overrides: PREPDESK_HTTP__LISTEN_ADDR → http.listen_addr
	// The prefix must be stripped here; koanf hands the callback the
	// full variable name, and an unstripped key never matches the tree.
	if err := k.Load(env.Provider("PREPDESK_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "PREPDESK_")
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	// Resolve vault: references before validation so the validator only
	// ever sees final values.
	if err := resolveSecrets(ctx, secrets, &cfg); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	applyDefaults(&cfg)

	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"db_host", cfg.Database.Host,
		"db_pool", cfg.Database.PoolSize,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// resolveSecrets replaces every `vault:`-prefixed field with the value
// fetched from the KV store.  Only the two secret-bearing fields are
// eligible; everything else stays literal.
func resolveSecrets(ctx context.Context, secrets *vault.Client, cfg *Config) error {
	for _, f := range []*string{&cfg.Database.Password, &cfg.Session.Key} {
		resolved, err := vault.ResolveString(ctx, secrets, *f)
		if err != nil {
			return err
		}
		*f = resolved
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.PoolSize == 0 {
		cfg.Database.PoolSize = DefaultPoolSize
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = DefaultCookieName
	}
	if cfg.HTTP.BaseURL == "" {
		cfg.HTTP.BaseURL = "http://localhost" + portSuffix(cfg.HTTP.ListenAddr)
	}
}

// portSuffix returns ":8080" for ":8080" or "0.0.0.0:8080"; empty when
// the listen address carries no port.
func portSuffix(addr string) string {
	if i := strings.LastIndexByte(addr, ':'); i != -1 {
		return addr[i:]
	}
	return ""
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config { return current.Load() }
