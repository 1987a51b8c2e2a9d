package cli

import (
	"github.com/spf13/cobra"
)

// renderCommand creates the render command, which draws a PDF from a
// saved snapshot without touching the databases.
func (c *CLI) renderCommand() *cobra.Command {
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "render <snapshot.json>",
		Short: "Render the onboarding PDF from a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			variant, snap, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}
			logger := loggerFromContext(ctx)
			logger.Info("loaded snapshot", "path", args[0], "tenant", snap.Tenant.ID, "variant", variant)

			runner, err := c.newRunner(ctx, runnerOpts{offline: true})
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.baseOptions(ctx)
			opts.Tenant = snap.Tenant.ID
			opts.Variant = variant
			rf.apply(&opts)

			spin := c.spinner(ctx, cmd, "Rendering "+snapshotLabel(variant, snap)+"...")
			defer spin.Stop()

			prog := newProgress(logger, "render")
			result, err := runner.Generate(ctx, snap, opts)
			if err != nil {
				return err
			}
			prog.done("rendered document", "pages", result.Stats.Pages)

			spin.Stop()
			newPrinter(cmd.OutOrStdout()).summary(result)
			return nil
		},
	}

	rf.register(cmd)
	return cmd
}
