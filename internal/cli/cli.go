// Package cli implements the onboardqr command-line interface.
//
// The commands wrap [pipeline.Runner]: generate runs the whole pipeline
// against the databases, fetch saves a snapshot, and render and plan work
// offline from a saved snapshot. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Fetch a tenant and write its onboarding PDF
//   - fetch: Save a tenant snapshot as JSON
//   - render: Write a PDF from a saved snapshot
//   - plan: Print the page plan of a saved snapshot
//   - tenants: List tenants matching a query
//   - cache: Manage the snapshot cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so the runner, the data fetcher and the
// assembler share them.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
//
// [pipeline.Runner]: github.com/KaiDries/OnboardingQR/pkg/pipeline#Runner
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/KaiDries/OnboardingQR/pkg/buildinfo"
	"github.com/KaiDries/OnboardingQR/pkg/cache"
	"github.com/KaiDries/OnboardingQR/pkg/config"
	"github.com/KaiDries/OnboardingQR/pkg/observability"
	"github.com/KaiDries/OnboardingQR/pkg/pipeline"
	"github.com/KaiDries/OnboardingQR/pkg/store"
	"github.com/KaiDries/OnboardingQR/pkg/store/sqlstore"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "onboardqr"

	// tenantSearchLimit caps the partial matches offered after a miss.
	tenantSearchLimit = 20
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Set from the global flags.
	configPath  string
	verbose     bool
	metricsFile string

	// Loaded in the persistent pre-run.
	cfg     config.Config
	metrics *observability.Metrics
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "onboardqr prints onboarding QR documents for event tenants",
		Long: `onboardqr builds the onboarding PDF for a tenant: an overview of every
configuration, one detail page with QR codes per configuration and a
top-up manual after every top-up station.`,
		Version:            buildinfo.Version,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  c.preRun,
		PersistentPostRunE: c.postRun,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.tenantsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts selects the collaborators of a runner.
type runnerOpts struct {
	noCache bool
	offline bool // render from a snapshot: no database
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, o runnerOpts) (*pipeline.Runner, error) {
	logger := loggerFromContext(ctx)

	var st store.Store
	if !o.offline {
		s, err := sqlstore.New(sqlstore.OptionsFromConfig(c.cfg.Database, logger))
		if err != nil {
			return nil, err
		}
		logger.Debug("data fetcher ready", "database", c.cfg.Database)
		st = s
	}

	ch, err := c.newCache(ctx, o.noCache || o.offline)
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.Database.Driver)
	return pipeline.NewRunner(st, ch, keyer, logger), nil
}

// newCache opens the configured cache backend. An unavailable Redis
// server only disables caching.
func (c *CLI) newCache(ctx context.Context, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.cfg.Cache.RedisAddr,
			Password: c.cfg.Cache.RedisPassword,
			DB:       c.cfg.Cache.RedisDB,
		})
		if err != nil {
			loggerFromContext(ctx).Warn("redis unavailable, caching disabled", "addr", c.cfg.Cache.RedisAddr, "err", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/onboardqr/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions fills pipeline options from the configuration. Command
// flags are applied on top.
func (c *CLI) baseOptions(ctx context.Context) pipeline.Options {
	return pipeline.Options{
		Database:       c.cfg.Database.Driver + "/" + c.cfg.Database.Host,
		ExcludeDomains: c.cfg.Database.ExcludedEmailDomains,
		CacheTTL:       c.cfg.Cache.TTL,
		Language:       c.cfg.Render.Language,
		Company:        c.cfg.Render.Company,
		SupportURL:     c.cfg.Render.SupportURL,
		ManualImage:    c.cfg.Render.ManualImage,
		VideoURL:       c.cfg.Render.VideoURL,
		OutputDir:      c.cfg.Render.OutputDir,
		Limits:         c.cfg.Limits,
		Location:       c.cfg.Render.Location(),
		Logger:         loggerFromContext(ctx),
	}
}

