package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
	"github.com/KaiDries/OnboardingQR/pkg/pipeline"
)

// fetchFlags are the flags of commands that read from the databases.
type fetchFlags struct {
	variant  string // app or guest
	tenantID string // manual setup: tenant id, skips the lookup
	domain   string // manual setup: tenant domain
	noCache  bool   // disable the snapshot cache
	refresh  bool   // fetch even when a cached snapshot exists
}

func (f *fetchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.variant, "variant", string(pipeline.DefaultVariant), "document variant: app or guest")
	cmd.Flags().StringVar(&f.tenantID, "tenant-id", "", "tenant id for a manual setup (requires --domain)")
	cmd.Flags().StringVar(&f.domain, "domain", "", "tenant domain, overrides the one on record")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the snapshot cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "refetch even when a cached snapshot exists")
}

func (f *fetchFlags) apply(opts *pipeline.Options, slug string) {
	opts.Tenant = slug
	opts.Variant = onboarding.Variant(f.variant)
	opts.TenantID = f.tenantID
	opts.Domain = f.domain
	opts.Refresh = f.refresh
}

// renderFlags are the flags of commands that write a document.
type renderFlags struct {
	lang        string
	supportURL  string
	manualImage string
	videoURL    string
	outputDir   string
	allowEmpty  bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.lang, "lang", "", "page language: en or nl (default from config)")
	cmd.Flags().StringVar(&f.supportURL, "support-url", "", "WhatsApp support link shown as a QR on detail pages")
	cmd.Flags().StringVar(&f.manualImage, "manual-image", "", "top-up manual image (default from config)")
	cmd.Flags().StringVar(&f.videoURL, "video-url", "", "instruction video linked from manual pages")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "d", "", "directory for the PDF and the import file")
	cmd.Flags().BoolVar(&f.allowEmpty, "allow-empty", false, "write an overview-only document for a tenant without records")
}

func (f *renderFlags) apply(opts *pipeline.Options) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&opts.Language, f.lang)
	set(&opts.SupportURL, f.supportURL)
	set(&opts.ManualImage, f.manualImage)
	set(&opts.VideoURL, f.videoURL)
	set(&opts.OutputDir, f.outputDir)
	opts.AllowEmpty = f.allowEmpty
}

// generateCommand creates the generate command: the full pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var ff fetchFlags
	var rf renderFlags

	cmd := &cobra.Command{
		Use:   "generate <tenant>",
		Short: "Generate the onboarding PDF for a tenant",
		Long: `Generate the onboarding PDF for a tenant.

The tenant is looked up by its exact id. Without an exact match the
partial matches are offered in a picker (on a terminal) or listed.

Examples:
  onboardqr generate summercamp
  onboardqr generate summercamp --variant guest --lang nl
  onboardqr generate --tenant-id popup --domain popup.anykrowd.app`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := ""
			if len(args) == 1 {
				slug = args[0]
			}
			if slug == "" && ff.tenantID == "" {
				return errs.New(errs.ErrCodeInvalidInput, "give a tenant or --tenant-id")
			}
			return c.runGenerate(cmd, slug, &ff, &rf)
		},
	}

	ff.register(cmd)
	rf.register(cmd)
	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, slug string, ff *fetchFlags, rf *renderFlags) error {
	ctx := cmd.Context()
	out := newPrinter(cmd.OutOrStdout())

	runner, err := c.newRunner(ctx, runnerOpts{noCache: ff.noCache})
	if err != nil {
		return err
	}
	defer runner.Close()

	opts := c.baseOptions(ctx)
	ff.apply(&opts, slug)
	rf.apply(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	tenant, err := c.resolveTenant(ctx, cmd, runner, opts)
	if err != nil {
		return err
	}
	opts.CentralID = c.cfg.Tenants.CentralID(tenant.ID)

	spin := c.spinner(ctx, cmd, fmt.Sprintf("Fetching %s...", tenant.ID))
	defer spin.Stop()

	prog := newProgress(opts.Logger, "fetch")
	snap, hit, err := runner.FetchWithCacheInfo(ctx, tenant, opts)
	if err != nil {
		return err
	}
	fetchTime := prog.elapsed()
	prog.done("fetched records", "tenant", tenant.ID, "count", len(snap.Records), "cached", hit)

	spin.Update(fmt.Sprintf("Rendering %d records...", len(snap.Records)))
	prog = newProgress(opts.Logger, "render")
	result, err := runner.Generate(ctx, snap, opts)
	if err != nil {
		return err
	}
	result.Stats.FetchTime = fetchTime
	result.CacheInfo.SnapshotHit = hit
	prog.done("rendered document", "pages", result.Stats.Pages)

	spin.Stop()
	out.summary(result)
	return nil
}

// resolveTenant resolves the tenant, falling back to the partial matches
// when the slug is not an exact tenant id.
func (c *CLI) resolveTenant(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, opts pipeline.Options) (onboarding.Tenant, error) {
	tenant, err := runner.ResolveTenant(ctx, opts)
	if !errs.Is(err, errs.ErrCodeTenantNotFound) {
		return tenant, err
	}

	matches, _, serr := runner.SearchTenants(ctx, opts.Tenant, tenantSearchLimit)
	if serr != nil || len(matches) == 0 {
		return onboarding.Tenant{}, err
	}

	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		fmt.Fprintln(cmd.ErrOrStderr(), tenantTable(matches))
		return onboarding.Tenant{}, errs.New(errs.ErrCodeTenantNotFound,
			"no tenant %q; %d partial match(es) listed above", opts.Tenant, len(matches))
	}

	picked, err := pickTenant(ctx, opts.Tenant, matches, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return onboarding.Tenant{}, err
	}
	if opts.Domain != "" {
		picked.Domain = opts.Domain
	}
	loggerFromContext(ctx).Info("selected tenant", "tenant", picked.ID, "domain", picked.Domain)
	return picked, nil
}

// spinner starts a spinner on stderr when it is a terminal and logging
// is not verbose. Otherwise the returned spinner draws nothing.
func (c *CLI) spinner(ctx context.Context, cmd *cobra.Command, message string) *Spinner {
	if c.verbose || !isTerminal(os.Stderr) {
		return newSpinner(ctx, io.Discard, message)
	}
	return newSpinner(ctx, cmd.ErrOrStderr(), message).Start()
}
