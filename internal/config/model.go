// internal/config/model.go
//
// Typed configuration model for the MNLY server.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `MNLY_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"   validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// CORS lists the storefront origins allowed to send credentialed requests.
type CORS struct {
	AllowedOrigins []string `koanf:"allowed_origins" validate:"required,min=1,dive,origin"`
}

//
// Database section
//

// Database selects the gateway backend.
//
// The *template* (`URI`) is kept in YAML so operators can tweak host or
// flags without touching Vault.  The `{user}` and `{password}` placeholders
// are filled from `User` and `Password`, which usually come from Vault or
// the environment.
type Database struct {
	Driver   string `koanf:"driver"   validate:"required,oneof=mongo mysql memory"`
	URI      string `koanf:"uri"      validate:"required_unless=Driver memory"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"     validate:"required_if=Driver mongo"`
}

// Auth holds the token signing secret.
type Auth struct {
	TokenSecret string `koanf:"token_secret" validate:"required,min=16"`
}

// Mail configures the SMTP relay used for order notifications.
type Mail struct {
	Host         string `koanf:"host"          validate:"required,hostname"`
	Port         int    `koanf:"port"          validate:"required,min=1,max=65535"`
	Username     string `koanf:"username"      validate:"required"`
	Password     string `koanf:"password"      validate:"required"`
	From         string `koanf:"from"          validate:"omitempty,email"`
	AdminAddress string `koanf:"admin_address" validate:"required,email"`
}

// Media configures the image host.
type Media struct {
	CloudName     string `koanf:"cloud_name"     validate:"required"`
	APIKey        string `koanf:"api_key"        validate:"required"`
	APISecret     string `koanf:"api_secret"     validate:"required"`
	ProductFolder string `koanf:"product_folder"`
	ReviewFolder  string `koanf:"review_folder"`
}

// Limits bounds public write traffic and multipart payloads.
type Limits struct {
	OrdersPerMinute int      `koanf:"orders_per_minute" validate:"min=0"`
	Burst           int      `koanf:"burst"             validate:"min=0"`
	MaxUploadMB     int64    `koanf:"max_upload_mb"     validate:"min=1"`
	// TrustedProxies are the edge addresses (IPs or CIDRs) whose
	// X-Forwarded-For header names the client.  Empty trusts nobody.
	TrustedProxies  []string `koanf:"trusted_proxies"   validate:"omitempty,dive,cidr|ip"`
}

// GeoIP points at an optional GeoLite2-City database.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

// Log controls the minimum level written by the zap cores.
type Log struct {
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // MNLY_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	CORS     CORS     `koanf:"cors"`
	Database Database `koanf:"database"`
	Auth     Auth     `koanf:"auth"`
	Mail     Mail     `koanf:"mail"`
	Media    Media    `koanf:"media"`
	Limits   Limits   `koanf:"limits"`
	GeoIP    GeoIP    `koanf:"geoip"`
	Log      Log      `koanf:"log"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
