package pipeline

import (
	"context"
	"path/filepath"
	"time"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/i18n"
	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/observability"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
	"github.com/KaiDries/OnboardingQR/pkg/render"
)

// Plan computes the page sequence for a snapshot.
func (r *Runner) Plan(ctx context.Context, snap *onboarding.Snapshot, opts Options) layout.Plan {
	limits := opts.Limits
	limits.SetDefaults()
	plan := layout.Build(snap.Records, limits)
	observability.Pipeline().OnPlanComplete(ctx, string(opts.Variant), plan.Total())
	return plan
}

// Render draws the planned pages. The document is not written.
func (r *Runner) Render(ctx context.Context, snap *onboarding.Snapshot, plan layout.Plan, opts Options, runID string) (*render.Report, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	catalog, err := r.catalog(opts.Language)
	if err != nil {
		return nil, err
	}

	rc := render.Context{
		Variant:     opts.Variant,
		Snapshot:    snap,
		Tenant:      snap.Tenant.ID,
		Catalog:     catalog,
		Company:     opts.Company,
		SupportURL:  opts.SupportURL,
		ManualImage: opts.ManualImage,
		VideoURL:    opts.VideoURL,
		Limits:      opts.Limits,
		GeneratedAt: time.Now(),
		Location:    opts.Location,
		RunID:       runID,
	}
	return render.NewAssembler(render.WithLogger(opts.Logger)).Assemble(ctx, plan, rc)
}

// Generate plans and renders snap, then writes the PDF and, when users
// are missing, the import file into the output directory.
func (r *Runner) Generate(ctx context.Context, snap *onboarding.Snapshot, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no snapshot to render")
	}
	if err := requireRecords(snap, opts); err != nil {
		return nil, err
	}

	result := &Result{
		Tenant:   snap.Tenant,
		Snapshot: snap,
		RunID:    newRunID(),
	}
	result.Stats.Records = len(snap.Records)
	for _, m := range snap.Matches {
		switch {
		case !m.Found():
			result.Stats.Unmatched++
		case m.Ambiguous():
			result.Stats.Ambiguous++
		}
	}

	// Stage 2: Plan
	planStart := time.Now()
	result.Plan = r.Plan(ctx, snap, opts)
	result.Stats.PlanTime = time.Since(planStart)

	opts.Logger.Debug("planned document",
		"pages", result.Plan.Total(),
		"separate_currencies", result.Plan.SeparateCurrencies,
		"manuals", result.Plan.Count(layout.KindManual))

	// Stage 3: Render
	renderStart := time.Now()
	report, err := r.Render(ctx, snap, result.Plan, opts, result.RunID)
	if err != nil {
		return nil, err
	}
	result.Report = report
	result.Stats.Pages = report.Document.Pages()
	result.Stats.FailedPages = len(report.Failed())

	result.OutputPath = opts.OutputPath(snap.Tenant.ID)
	if err := report.Document.WriteFile(result.OutputPath); err != nil {
		return nil, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered document",
		"path", result.OutputPath,
		"pages", result.Stats.Pages,
		"failed", result.Stats.FailedPages,
		"duration", result.Stats.RenderTime)

	if opts.Variant == onboarding.VariantGuest && len(snap.ImportRows) > 0 {
		result.ImportPath = filepath.Join(opts.OutputDir, onboarding.ImportFileName)
		if err := onboarding.ExportImportCSV(result.ImportPath, snap.ImportRows); err != nil {
			return nil, errs.Wrap(errs.ErrCodeOutput, err, "write import file")
		}
		opts.Logger.Info("wrote import file", "path", result.ImportPath, "users", len(snap.ImportRows))
	}
	return result, nil
}

func (r *Runner) catalog(lang string) (i18n.Catalog, error) {
	if r.Bundle == nil {
		b, err := i18n.Load()
		if err != nil {
			return i18n.Catalog{}, errs.Wrap(errs.ErrCodeInternal, err, "load translations")
		}
		r.Bundle = b
	}
	return r.Bundle.Catalog(lang), nil
}
