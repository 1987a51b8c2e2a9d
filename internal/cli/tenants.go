package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// tenantsCommand creates the tenants command, which lists partial
// matches for a query.
func (c *CLI) tenantsCommand() *cobra.Command {
	var limit int
	var noCache bool

	cmd := &cobra.Command{
		Use:   "tenants <query>",
		Short: "List tenants whose id or domain contains a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, runnerOpts{noCache: noCache})
			if err != nil {
				return err
			}
			defer runner.Close()

			tenants, hit, err := runner.SearchTenants(ctx, args[0], limit)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("searched tenants", "query", args[0], "matches", len(tenants), "cached", hit)

			out := newPrinter(cmd.OutOrStdout())
			if len(tenants) == 0 {
				out.warning("No tenant matches %q", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), tenantTable(tenants))
			if limit > 0 && len(tenants) == limit {
				out.detail("showing the first %d, raise --limit for more", limit)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", tenantSearchLimit, "maximum matches (0 for all)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the cache")
	return cmd
}
