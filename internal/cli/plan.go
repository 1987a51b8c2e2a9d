package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/KaiDries/OnboardingQR/pkg/layout"
)

// planCommand creates the plan command, which prints the page sequence
// of a saved snapshot.
func (c *CLI) planCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <snapshot.json>",
		Short: "Print the page plan of a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			variant, snap, err := loadSnapshot(args[0])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, runnerOpts{offline: true})
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.baseOptions(ctx)
			opts.Variant = variant
			plan := runner.Plan(ctx, snap, opts)

			w := cmd.OutOrStdout()
			out := newPrinter(w)
			out.info("%s", snapshotLabel(variant, snap))
			fmt.Fprintln(w, planTable(plan, snap.Records))
			out.keyValue("pages", strconv.Itoa(plan.Total()))
			out.keyValue("details", strconv.Itoa(plan.Count(layout.KindDetail)))
			out.keyValue("manuals", strconv.Itoa(plan.Count(layout.KindManual)))
			out.keyValue("currencies", currencyPlacement(plan))
			return nil
		},
	}
}

func currencyPlacement(plan layout.Plan) string {
	if plan.SeparateCurrencies {
		return "own page"
	}
	return "on overview"
}
