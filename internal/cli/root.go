package cli

import (
	"github.com/spf13/cobra"

	"github.com/KaiDries/OnboardingQR/pkg/config"
	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/observability"
)

// preRun applies the global flags before any command runs: the log
// level, then the config, then the metrics hooks. Shell completion runs
// on the built-in defaults.
func (c *CLI) preRun(cmd *cobra.Command, _ []string) error {
	level := LogInfo
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))

	if skipsConfig(cmd) {
		c.cfg = config.Default()
		return nil
	}

	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", c.configOrDefault(), "database", cfg.Database, "cache", cfg.Cache.Backend)

	if c.metricsFile != "" {
		c.metrics = observability.NewMetrics()
		observability.SetPipelineHooks(c.metrics)
		observability.SetCacheHooks(c.metrics)
		observability.SetQueryHooks(c.metrics)
	}
	return nil
}

// postRun writes the metrics textfile. It only runs after a successful
// command; failed runs are reported through the exit code.
func (c *CLI) postRun(_ *cobra.Command, _ []string) error {
	if c.metrics == nil {
		return nil
	}
	defer observability.Reset()
	if err := c.metrics.WriteTextfile(c.metricsFile); err != nil {
		return errs.Wrap(errs.ErrCodeOutput, err, "write metrics to %s", c.metricsFile)
	}
	c.Logger.Debug("wrote metrics", "path", c.metricsFile)
	return nil
}

func (c *CLI) configOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.DefaultPath()
}

// skipsConfig reports whether cmd runs without loading the config file.
func skipsConfig(cmd *cobra.Command) bool {
	for p := cmd; p != nil; p = p.Parent() {
		switch p.Name() {
		case "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}
