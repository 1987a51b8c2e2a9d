package render

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-pdf/fpdf"

	"github.com/KaiDries/OnboardingQR/pkg/buildinfo"
	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/observability"
)

// PageOutcome records how one page went.
type PageOutcome struct {
	Ordinal  int
	Kind     layout.Kind
	Duration time.Duration
	Err      error // set when the page shows the error block
	Notice   error // set when the page drew a fallback for a missing asset
}

// Report is the result of assembling a document.
type Report struct {
	Pages    []PageOutcome
	Document *Document
	Duration time.Duration
}

// Failed returns the pages that were replaced by an error block.
func (r *Report) Failed() []PageOutcome {
	var failed []PageOutcome
	for _, p := range r.Pages {
		if p.Err != nil {
			failed = append(failed, p)
		}
	}
	return failed
}

// Notices returns the pages that drew a fallback instead of an asset.
func (r *Report) Notices() []PageOutcome {
	var notices []PageOutcome
	for _, p := range r.Pages {
		if p.Notice != nil {
			notices = append(notices, p)
		}
	}
	return notices
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger for page failures and progress.
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRenderer replaces the page renderer.
func WithRenderer(r *Renderer) Option {
	return func(a *Assembler) {
		if r != nil {
			a.renderer = r
		}
	}
}

// Assembler turns a page plan into one PDF document.
type Assembler struct {
	renderer *Renderer
	logger   *log.Logger
}

// NewAssembler creates an assembler with the default renderer and a
// discarding logger unless options say otherwise.
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		renderer: NewRenderer(nil),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble renders every planned page in ordinal order. Page failures
// are recovered and reported in the result; the returned error is only
// set when the document itself cannot be produced or ctx is done.
func (a *Assembler) Assemble(ctx context.Context, plan layout.Plan, rc Context) (report *Report, err error) {
	start := time.Now()
	hooks := observability.Pipeline()
	defer func() {
		pages := 0
		if report != nil {
			pages = len(report.Pages)
		}
		hooks.OnRenderComplete(ctx, string(rc.Variant), pages, time.Since(start), err)
	}()

	if rc.Snapshot == nil {
		return nil, errs.New(errs.ErrCodeInternal, "render: no snapshot")
	}
	if plan.Total() == 0 {
		return nil, errs.New(errs.ErrCodeInternal, "render: empty page plan")
	}
	rc.Limits.SetDefaults()
	if err := rc.Limits.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "render limits")
	}
	if rc.GeneratedAt.IsZero() {
		rc.GeneratedAt = time.Now()
	}

	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetTitle(fmt.Sprintf("Onboarding %s - %s", rc.Variant, rc.Tenant), true)
	pdf.SetAuthor(rc.Company, true)
	pdf.SetCreator(buildinfo.Creator(), true)
	pdf.SetSubject("run "+rc.RunID, true)
	pdf.SetCreationDate(rc.GeneratedAt)
	if err := pdf.Error(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "create canvas")
	}

	c := newCanvas(pdf)
	report = &Report{Pages: make([]PageOutcome, 0, plan.Total())}

	for _, p := range plan.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageStart := time.Now()
		pc := rc.pageContext(p, plan)
		pdf.AddPage()
		c.begin(p.Ordinal)

		notice, pageErr := a.page(c, pc)
		if notice != nil {
			a.logger.Warn("page drew a fallback", "page", p.Ordinal, "kind", p.Kind, "err", notice)
		}
		if pageErr != nil {
			a.logger.Error("page failed", "page", p.Ordinal, "kind", p.Kind, "err", pageErr)
			pdf.ClearError()
			a.renderer.errorBlock(c, pc, pageErr)
		}
		a.renderer.footer(c, pc)
		a.logger.Debug("page rendered", "page", p.Ordinal, "kind", p.Kind, "images", c.images())

		d := time.Since(pageStart)
		hooks.OnPageRendered(ctx, p.Kind.String(), d, pageErr)
		report.Pages = append(report.Pages, PageOutcome{
			Ordinal:  p.Ordinal,
			Kind:     p.Kind,
			Duration: d,
			Err:      pageErr,
			Notice:   notice,
		})
	}

	if err := pdf.Error(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "finalize document")
	}
	report.Document = &Document{pdf: pdf}
	report.Duration = time.Since(start)
	return report, nil
}

// page renders one page, turning panics and sticky fpdf errors into an
// error. An ASSET_MISSING error from the renderer means the page drew its
// fallback and is returned as a notice.
func (a *Assembler) page(c *Canvas, pc PageContext) (notice, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
		if err != nil {
			err = errs.Wrap(errs.ErrCodeRender, err, "%s page %d", pc.Page.Kind, pc.Page.Ordinal)
		}
	}()

	if err := a.renderer.Page(c, pc); err != nil {
		if !errs.Is(err, errs.ErrCodeAssetMissing) {
			return nil, err
		}
		notice = err
	}
	return notice, c.pdf.Error()
}
