package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaiDries/OnboardingQR/pkg/cache"
	"github.com/KaiDries/OnboardingQR/pkg/config"
	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the snapshot cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Drop every cached snapshot and tenant search",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := newPrinter(cmd.OutOrStdout())

			if c.cfg.Cache.Backend == config.CacheNone {
				out.info("Caching is disabled")
				return nil
			}
			ch, err := c.newCache(ctx, false)
			if err != nil {
				return errs.Wrap(errs.ErrCodeConfig, err, "open cache")
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				out.info("Cache is empty")
				return nil
			}
			count, err := clearer.Clear(ctx)
			if err != nil {
				return err
			}

			out.success("Cleared %d cached entries", count)
			if fc, ok := ch.(*cache.FileCache); ok {
				out.detail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
