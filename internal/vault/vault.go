// internal/vault/vault.go
//
// Vault client wrapper for Prepdesk.
//
// Context
// -------
// Secrets never live in `conf/global.yaml`.  The database password and
// the session-cookie signing key are stored in a KV-v2 mount and the
// config file carries only references of the form:
//
//	vault:secret/prepdesk/prod#db_password
//
// `ResolveString` turns such a reference into the literal value during
// config load.  Literal values pass through untouched, so development
// setups work without a Vault server at all.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vaultapi "github.com/hashicorp/vault/api"
)

// Prefix marks a config value as a Vault reference.
const Prefix = "vault:"

// cacheTTL bounds how long a fetched secret is reused.  Config is loaded
// once at boot, so this mostly protects repeated references to the same
// secret path.
const cacheTTL = 5 * time.Minute

// Client is safe for concurrent use.  Construct once at startup and
// inject it; the zero value is invalid.
type Client struct {
	api *vaultapi.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // "mount/path#key" → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client from the standard VAULT_* environment.
func New() (*Client, error) {
	cfg := vaultapi.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	api, err := vaultapi.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		api.SetToken(tok)
	}

	return &Client{api: api, cache: make(map[string]cached)}, nil
}

// GetKV fetches a single key from a KV-v2 secret, caching the result for
// a short TTL.
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("vault: secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	c.cacheMu.RLock()
	if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
		c.cacheMu.RUnlock()
		return cv.val, nil
	}
	c.cacheMu.RUnlock()

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s is not a string", canonical)
	}

	c.cacheMu.Lock()
	c.cache[canonical] = cached{val: sval, exp: time.Now().Add(cacheTTL)}
	c.cacheMu.Unlock()

	return sval, nil
}

// ResolveString maps a `vault:mount/path#key` reference to its secret
// value.  Non-references are returned unchanged.  A reference with a nil
// client is a configuration error.
func ResolveString(ctx context.Context, c *Client, val string) (string, error) {
	if !strings.HasPrefix(val, Prefix) {
		return val, nil
	}
	if c == nil {
		return "", fmt.Errorf("vault reference %q but no Vault client configured", val)
	}

	ref := strings.TrimPrefix(val, Prefix)
	path, key, ok := strings.Cut(ref, "#")
	if !ok {
		return "", fmt.Errorf("malformed vault reference %q (want vault:mount/path#key)", val)
	}
	return c.GetKV(ctx, path, key)
}

func splitMount(p string) (mount, rel string) {
	parts := strings.SplitN(p, "/", 2)
	mount = parts[0]
	if len(parts) == 2 {
		rel = parts[1]
	}
	return
}
