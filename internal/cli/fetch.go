package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	snapio "github.com/KaiDries/OnboardingQR/pkg/io"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// fetchCommand creates the fetch command, which saves a snapshot for
// offline rendering.
func (c *CLI) fetchCommand() *cobra.Command {
	var ff fetchFlags
	var output string

	cmd := &cobra.Command{
		Use:   "fetch <tenant>",
		Short: "Save the data of a tenant as a snapshot",
		Long: `Fetch everything a document needs for a tenant and save it as JSON.

The snapshot can be rendered later without database access:
  onboardqr fetch summercamp -o summercamp.json
  onboardqr render summercamp.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := ""
			if len(args) == 1 {
				slug = args[0]
			}
			if slug == "" && ff.tenantID == "" {
				return errs.New(errs.ErrCodeInvalidInput, "give a tenant or --tenant-id")
			}

			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, runnerOpts{noCache: ff.noCache})
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := c.baseOptions(ctx)
			ff.apply(&opts, slug)
			if err := opts.ValidateForFetch(); err != nil {
				return err
			}

			tenant, err := c.resolveTenant(ctx, cmd, runner, opts)
			if err != nil {
				return err
			}
			opts.CentralID = c.cfg.Tenants.CentralID(tenant.ID)

			prog := newProgress(opts.Logger, "fetch")
			snap, hit, err := runner.FetchWithCacheInfo(ctx, tenant, opts)
			if err != nil {
				return err
			}
			prog.done("fetched records", "tenant", tenant.ID, "count", len(snap.Records), "cached", hit)

			if output == "" {
				return snapio.WriteJSON(cmd.OutOrStdout(), opts.Variant, snap)
			}
			if err := snapio.ExportJSON(output, opts.Variant, snap); err != nil {
				return errs.Wrap(errs.ErrCodeOutput, err, "write snapshot")
			}

			out := newPrinter(cmd.OutOrStdout())
			out.success("Saved %d records of %s", len(snap.Records), tenant.ID)
			out.file(output)
			if snap.Matches != nil {
				out.detail("%d unmatched user(s)", len(snap.ImportRows))
			}
			return nil
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file (stdout if empty)")
	return cmd
}

// loadSnapshot reads a snapshot file written by fetch.
func loadSnapshot(path string) (onboarding.Variant, *onboarding.Snapshot, error) {
	v, snap, err := snapio.ImportJSON(path)
	if err != nil {
		return "", nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read snapshot %s", path)
	}
	return v, snap, nil
}

// snapshotLabel describes a snapshot in one line.
func snapshotLabel(v onboarding.Variant, snap *onboarding.Snapshot) string {
	return fmt.Sprintf("%s (%s, %d records, fetched %s)",
		snap.Tenant.ID, v, len(snap.Records), snap.FetchedAt.Format("02/01/2006 15:04"))
}
