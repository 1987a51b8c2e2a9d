// Package config loads onboardqr settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, DB_* and
// REDIS_* environment variables, command-line flags (applied by the CLI).
// A missing config file is not an error.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zones must load on hosts without zoneinfo

	"github.com/BurntSushi/toml"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/layout"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "pgsql"
	DriverSQLite   = "sqlite"
)

// Supported cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Database Database      `toml:"database"`
	Cache    Cache         `toml:"cache"`
	Render   Render        `toml:"render"`
	Limits   layout.Limits `toml:"limits"`
	Tenants  Tenants       `toml:"tenants"`
}

// Database configures the data fetcher.
type Database struct {
	Driver   string `toml:"driver"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`

	// Central is the database holding domains and tenants.
	Central string `toml:"central"`
	// TenantPrefix is prepended to a tenant id to name its database.
	TenantPrefix string `toml:"tenant_prefix"`

	Timezone string `toml:"timezone"`

	// SQLiteDir holds one <database>.db file per logical database.
	SQLiteDir string `toml:"sqlite_dir"`

	ConnectAttempts int           `toml:"connect_attempts"`
	ConnectDelay    time.Duration `toml:"connect_delay"`
	QueryTimeout    time.Duration `toml:"query_timeout"`

	// ExcludedEmailDomains are personal mail providers that never belong
	// to a staff account.
	ExcludedEmailDomains []string `toml:"excluded_email_domains"`
}

// Cache configures snapshot caching.
type Cache struct {
	Backend       string        `toml:"backend"`
	Dir           string        `toml:"dir"`
	TTL           time.Duration `toml:"ttl"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
}

// Render configures document generation.
type Render struct {
	Language    string `toml:"language"`
	Company     string `toml:"company"`
	SupportURL  string `toml:"support_url"`
	ManualImage string `toml:"manual_image"`
	VideoURL    string `toml:"video_url"`
	OutputDir   string `toml:"output_dir"`
	Timezone    string `toml:"timezone"`
}

// Tenants maps tenant database ids to central ids where they differ,
// e.g. "summercamp-2025" = "summercamp".
type Tenants struct {
	Aliases map[string]string `toml:"aliases"`
}

// CentralID returns the id a tenant has in the central database.
func (t Tenants) CentralID(id string) string {
	if alias, ok := t.Aliases[id]; ok {
		return alias
	}
	return id
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: Database{
			Driver:          DriverMySQL,
			Host:            "localhost",
			Port:            3306,
			Central:         "central-mc",
			TenantPrefix:    "tenant-",
			Timezone:        "Europe/Brussels",
			ConnectAttempts: 3,
			ConnectDelay:    2 * time.Second,
			QueryTimeout:    30 * time.Second,
			ExcludedEmailDomains: []string{
				"gmail.com", "hotmail.com", "outlook.com",
				"yahoo.com", "live.com", "msn.com",
			},
		},
		Cache: Cache{
			Backend: CacheFile,
			TTL:     10 * time.Minute,
		},
		Render: Render{
			Language:    "en",
			Company:     "anyKrowd NV",
			ManualImage: "TOPUPMANUAL.png",
			VideoURL:    "https://youtu.be/S1DzBHeu9Rg",
			OutputDir:   ".",
			Timezone:    "Europe/Brussels",
		},
		Limits: layout.DefaultLimits(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/onboardqr/config.toml (or the
// platform equivalent).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "onboardqr.toml"
	}
	return filepath.Join(dir, "onboardqr", "config.toml")
}

// Load reads path on top of the defaults and applies the environment.
// An empty path means [DefaultPath]. A missing file is ignored; unknown
// keys are rejected so typos do not silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, errs.Wrap(errs.ErrCodeConfig, err, "read %s", path)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			sort.Strings(keys)
			return Config{}, errs.New(errs.ErrCodeConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.Limits.SetDefaults()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_HOST", &c.Database.Host)
	str("DB_USER", &c.Database.User)
	str("DB_PASS", &c.Database.Password)
	str("REDIS_ADDR", &c.Cache.RedisAddr)
	str("REDIS_PASSWORD", &c.Cache.RedisPassword)

	if v, ok := lookup("DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errs.Wrap(errs.ErrCodeConfig, err, "DB_PORT must be a number")
		}
		c.Database.Port = port
	}
	return nil
}

// Validate checks the configuration for values the tool cannot work with.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
		if c.Database.Host == "" {
			return errs.New(errs.ErrCodeConfig, "database.host is required for %s", c.Database.Driver)
		}
	case DriverSQLite:
		if c.Database.SQLiteDir == "" {
			return errs.New(errs.ErrCodeConfig, "database.sqlite_dir is required for sqlite")
		}
	default:
		return errs.New(errs.ErrCodeConfig, "unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.Central == "" {
		return errs.New(errs.ErrCodeConfig, "database.central cannot be empty")
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errs.New(errs.ErrCodeConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errs.New(errs.ErrCodeConfig, "unsupported cache backend %q", c.Cache.Backend)
	}

	for _, tz := range []string{c.Database.Timezone, c.Render.Timezone} {
		if _, err := time.LoadLocation(tz); err != nil {
			return errs.Wrap(errs.ErrCodeConfig, err, "invalid timezone %q", tz)
		}
	}
	if err := errs.ValidateSupportURL(c.Render.SupportURL); err != nil {
		return err
	}
	if err := c.Limits.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeConfig, err, "invalid limits")
	}
	return nil
}

// Location returns the render timezone. Validate guarantees it loads.
func (r Render) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// String renders a redacted summary for debug logs.
func (d Database) String() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("sqlite dir=%s", d.SQLiteDir)
	}
	return fmt.Sprintf("%s %s@%s:%d", d.Driver, d.User, d.Host, d.Port)
}
