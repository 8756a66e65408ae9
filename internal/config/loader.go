// internal/config/loader.go
//
// Configuration loader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file at `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `MNLY_`, where `__` maps to “.”
     (e.g., `MNLY_HTTP__LISTEN_ADDR → http.listen_addr`).

After merging, every string of the form `vault:<mount>/<path>#<key>` is
swapped for the secret it names, the tree is unmarshalled into typed
structs, defaults are filled, the result is validated, enriched with the
runtime root path, and cached in an `atomic.Pointer` for lock-free reads.

Instrumentation
---------------
  • DEBUG spans: root discovery, YAML read, secret resolution.
  • ERROR spans: YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span : final “config loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • The Vault client is only dialled when at least one value needs it.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/rokibulislampro/mnly-server/internal/vault"
)

const (
	envPrefix   = "MNLY_"
	vaultPrefix = "vault:"
)

var current atomic.Pointer[Config]

// SecretResolver reads one key of a KV-v2 secret.  *vault.Client satisfies
// it; tests pass a map-backed fake.
type SecretResolver interface {
	GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error)
}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves MNLY_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("MNLY_ROOT"); r != "" {
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

// RootDir exposes the resolved root so main can place logs beside conf/.
func RootDir() string { return rootDir() }

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, resolves Vault references through
// a lazily-built Vault client, validates, and caches Config.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, nil)
}

// LoadWith is Load with an explicit secret resolver.  A nil resolver dials
// Vault on first use.
func LoadWith(ctx context.Context, secrets SecretResolver) (*Config, error) {
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

	// Env overrides: MNLY_HTTP__LISTEN_ADDR → http.listen_addr
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	if err := resolveSecrets(ctx, k, secrets); err != nil {
		zap.S().Errorw("config secret resolution failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
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
		"force_https", cfg.HTTP.ForceHTTPS,
		"database_driver", cfg.Database.Driver,
		"origins", len(cfg.CORS.AllowedOrigins),
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

/*──────────────────────────── secrets ─────────────────────────────────────*/

// resolveSecrets replaces every `vault:` string in k with its secret value.
func resolveSecrets(ctx context.Context, k *koanf.Koanf, secrets SecretResolver) error {
	refs := map[string]string{}
	for key, val := range k.All() {
		if s, ok := val.(string); ok && strings.HasPrefix(s, vaultPrefix) {
			refs[key] = strings.TrimPrefix(s, vaultPrefix)
		}
	}
	if len(refs) == 0 {
		return nil
	}

	if secrets == nil {
		cli, err := vault.New(ctx, zap.S().Infof)
		if err != nil {
			return err
		}
		secrets = cli
	}

	keys := make([]string, 0, len(refs))
	for key := range refs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		path, field, ok := strings.Cut(refs[key], "#")
		if !ok || path == "" || field == "" {
			return fmt.Errorf("config %s: vault reference must look like vault:<path>#<key>", key)
		}
		val, err := secrets.GetKV(ctx, path, field, 0)
		if err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
		if err := k.Set(key, val); err != nil {
			return fmt.Errorf("config %s: %w", key, err)
		}
		zap.S().Debugw("config secret resolved", "key", key, "path", path)
	}
	return nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

// applyDefaults fills optional tunables left empty by YAML and env.
func applyDefaults(c *Config) {
	if c.HTTP.ReadTimeout == 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout == 0 {
		c.HTTP.WriteTimeout = 60 * time.Second
	}
	if c.HTTP.IdleTimeout == 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.Mail.From == "" {
		c.Mail.From = c.Mail.Username
	}
	if c.Media.ProductFolder == "" {
		c.Media.ProductFolder = "products"
	}
	if c.Media.ReviewFolder == "" {
		c.Media.ReviewFolder = "reviews"
	}
	if c.Limits.MaxUploadMB == 0 {
		c.Limits.MaxUploadMB = 32
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// DSN fills the `{user}` and `{password}` placeholders of the URI template.
// Mongo URIs need percent-encoded credentials; MySQL DSNs take them raw.
func (d Database) DSN() string {
	user, pass := d.User, d.Password
	if d.Driver == "mongo" {
		user, pass = url.QueryEscape(user), url.QueryEscape(pass)
	}
	return strings.NewReplacer("{user}", user, "{password}", pass).Replace(d.URI)
}

func Get() *Config { return current.Load() }
