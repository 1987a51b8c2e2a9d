// Package pipeline provides the onboarding document pipeline.
//
// This package implements the fetch → plan → render pipeline used by
// every CLI command. Keeping it here means generate, fetch, render and
// plan all behave the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Fetch: resolve the tenant and gather a [onboarding.Snapshot] from
//     the data fetcher, once, before anything is drawn
//  2. Plan: compute the page sequence with [layout.Build]
//  3. Render: draw the pages and write the PDF (and, for guest documents,
//     the import file of unmatched users)
//
// # Usage
//
//	runner := pipeline.NewRunner(st, c, nil, logger)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Tenant:  "summercamp",
//	    Variant: onboarding.VariantGuest,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.OutputPath)
//
// Run individual stages:
//
//	tenant, err := runner.ResolveTenant(ctx, opts)
//	snap, hit, err := runner.FetchWithCacheInfo(ctx, tenant, opts)
//	result, err := runner.Generate(ctx, snap, opts)
//
// [onboarding.Snapshot]: github.com/KaiDries/OnboardingQR/pkg/onboarding#Snapshot
// [layout.Build]: github.com/KaiDries/OnboardingQR/pkg/layout#Build
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
	"github.com/KaiDries/OnboardingQR/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultVariant is the document template used when none is given.
	DefaultVariant = onboarding.VariantApplication

	// DefaultLanguage is the page language.
	DefaultLanguage = "en"

	// DefaultOutputDir is where documents are written.
	DefaultOutputDir = "."
)

// OutputFileName returns the deterministic document name for a variant
// and tenant, e.g. onboarding_app_summercamp_all.pdf.
func OutputFileName(v onboarding.Variant, tenant string) string {
	return errs.SanitizeFilename(fmt.Sprintf("onboarding_%s_%s_all.pdf", v.Token(), tenant))
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	// Fetch options
	Tenant    string             `json:"tenant"`               // slug typed by the operator
	TenantID  string             `json:"tenant_id,omitempty"`  // manual setup: skip the lookup
	Domain    string             `json:"domain,omitempty"`     // manual setup: tenant domain
	CentralID string             `json:"central_id,omitempty"` // tenant id in the central database
	Variant   onboarding.Variant `json:"variant"`
	Refresh   bool               `json:"refresh,omitempty"`

	// Cache key inputs
	Database       string        `json:"database,omitempty"`
	ExcludeDomains []string      `json:"exclude_domains,omitempty"`
	CacheTTL       time.Duration `json:"cache_ttl,omitempty"`

	// Render options
	Language    string         `json:"language,omitempty"`
	Company     string         `json:"company,omitempty"`
	SupportURL  string         `json:"support_url,omitempty"`
	ManualImage string         `json:"manual_image,omitempty"`
	VideoURL    string         `json:"video_url,omitempty"`
	OutputDir   string         `json:"output_dir,omitempty"`
	Limits      layout.Limits  `json:"limits"`
	AllowEmpty  bool           `json:"allow_empty,omitempty"`
	Location    *time.Location `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Tenant   onboarding.Tenant
	Snapshot *onboarding.Snapshot
	Plan     layout.Plan
	Report   *render.Report

	// OutputPath is the written PDF; ImportPath the written import file,
	// empty when nothing was unmatched.
	OutputPath string
	ImportPath string

	// RunID identifies the run in the document subject and the logs.
	RunID string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records     int
	Pages       int
	FailedPages int
	Unmatched   int
	Ambiguous   int
	FetchTime   time.Duration
	PlanTime    time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	SnapshotHit bool // Whether the snapshot came from cache
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForFetch(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForFetch checks the fields needed to resolve and fetch a tenant.
func (o *Options) ValidateForFetch() error {
	if o.TenantID == "" {
		if err := errs.ValidateTenantSlug(o.Tenant); err != nil {
			return err
		}
	} else if err := errs.ValidateTenantSlug(o.TenantID); err != nil {
		return err
	}
	if o.TenantID != "" && o.Domain == "" {
		return errs.New(errs.ErrCodeInvalidInput, "a manual tenant id needs a domain")
	}
	if err := o.setVariant(); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForRender checks the fields needed to draw and write a document.
func (o *Options) ValidateForRender() error {
	if err := o.setVariant(); err != nil {
		return err
	}
	if o.Language == "" {
		o.Language = DefaultLanguage
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if err := errs.ValidateSupportURL(o.SupportURL); err != nil {
		return err
	}
	o.Limits.SetDefaults()
	if err := o.Limits.Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid limits")
	}
	o.setLogger()
	return nil
}

func (o *Options) setVariant() error {
	v, ok := onboarding.ParseVariant(string(o.Variant))
	if !ok {
		return errs.New(errs.ErrCodeInvalidVariant, "unknown variant %q (must be app or guest)", o.Variant)
	}
	o.Variant = v
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// centralID returns the id used for the tenant settings lookup.
func (o *Options) centralID(tenant onboarding.Tenant) string {
	if o.CentralID != "" {
		return o.CentralID
	}
	return tenant.ID
}

// OutputPath returns where the document for tenant is written.
func (o *Options) OutputPath(tenant string) string {
	return filepath.Join(o.OutputDir, OutputFileName(o.Variant, tenant))
}
