package render

import (
	"strings"
	"time"

	"github.com/KaiDries/OnboardingQR/pkg/i18n"
	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// DateTimeLayout is how every date on the pages is printed.
const DateTimeLayout = "02/01/2006 15:04"

// Context is everything a document needs that is the same on every page.
type Context struct {
	Variant  onboarding.Variant
	Snapshot *onboarding.Snapshot

	// Tenant is the display name printed in headers and footers.
	Tenant  string
	Catalog i18n.Catalog

	Company    string
	SupportURL string // empty disables the support block

	ManualImage string
	VideoURL    string

	Limits      layout.Limits
	GeneratedAt time.Time
	Location    *time.Location

	// RunID ends up in the document subject.
	RunID string
}

// Domain returns the tenant domain QR codes point to.
func (c *Context) Domain() string {
	if c.Snapshot == nil {
		return ""
	}
	return c.Snapshot.Tenant.Domain
}

// Records returns the planned records.
func (c *Context) Records() []onboarding.Record {
	if c.Snapshot == nil {
		return nil
	}
	return c.Snapshot.Records
}

// Theme returns the variant styling.
func (c *Context) Theme() Theme { return ThemeFor(c.Variant) }

// T translates key with the document catalog.
func (c *Context) T(key string, args ...any) string { return c.Catalog.T(key, args...) }

// or returns s, or the localized "not specified" placeholder when s is
// empty.
func (c *Context) or(s string) string {
	if strings.TrimSpace(s) == "" {
		return c.T("not_specified")
	}
	return s
}

func (c *Context) formatTime(t *time.Time) string {
	if t == nil {
		return c.T("not_specified")
	}
	if c.Location != nil {
		return t.In(c.Location).Format(DateTimeLayout)
	}
	return t.Format(DateTimeLayout)
}

// PageContext is the per-page view of a [Context].
type PageContext struct {
	*Context

	Page  layout.Page
	Total int

	// SeparateCurrencies is set when the currency table has its own page.
	SeparateCurrencies bool

	// Record and Match are set for detail and manual pages.
	Record   onboarding.Record
	Match    onboarding.Match
	HasMatch bool
}

// pageContext resolves a planned page against the document context.
func (c *Context) pageContext(p layout.Page, plan layout.Plan) PageContext {
	pc := PageContext{
		Context:            c,
		Page:               p,
		Total:              plan.Total(),
		SeparateCurrencies: plan.SeparateCurrencies,
	}
	records := c.Records()
	if p.Record >= 0 && p.Record < len(records) {
		pc.Record = records[p.Record]
		if c.Snapshot != nil {
			pc.Match, pc.HasMatch = c.Snapshot.Match(pc.Record)
		}
	}
	return pc
}
