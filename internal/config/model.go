// internal/config/model.go
//
// Typed configuration model for Prepdesk.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                       – dotenv values,
//   • `conf/global.yaml`                         – primary static file,
//   • `PREPDESK_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *after* unmarshalling, so validation and the
// rest of the app only ever see plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml`
//     tags unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.

package config

//
// HTTP section
//

// HTTP holds web-server tunables.  BaseURL is the origin the session
// accessor dials for identity resolution; it defaults to the listen
// address on localhost.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	BaseURL    string `koanf:"base_url"    validate:"omitempty,url"`
}

//
// Database section
//

// Database holds the MySQL connection settings for the credential store.
// Password may be a literal or a `vault:mount/path#key` reference.
type Database struct {
	Host     string `koanf:"host"      validate:"required"`
	Port     int    `koanf:"port"      validate:"omitempty,min=1,max=65535"`
	User     string `koanf:"user"      validate:"required"`
	Password string `koanf:"password"  validate:"required"`
	Name     string `koanf:"name"      validate:"required"`
	PoolSize int    `koanf:"pool_size" validate:"omitempty,min=1"`
}

//
// Session section
//

// Session configures cookie issuance.  Key signs the session cookie
// value; it may be a `vault:` reference like Database.Password.
type Session struct {
	CookieName string `koanf:"cookie_name"`
	Key        string `koanf:"key" validate:"required,min=16"`
}

//
// Geo section (optional)
//

// Geo points at a local GeoLite2-City database used to annotate the
// login audit log.  Empty path disables the lookup.
type Geo struct {
	CityDB string `koanf:"city_db"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or PREPDESK_ROOT override) so later code
// can build absolute file paths.
type Paths struct {
	Root string // PREPDESK_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP     HTTP     `koanf:"http"`
	Database Database `koanf:"database"`
	Session  Session  `koanf:"session"`
	Geo      Geo      `koanf:"geo"`
	Paths    Paths    `koanf:"-"` // not loaded from config files
}
