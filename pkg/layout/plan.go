// Package layout plans the page sequence of an onboarding document and
// holds the pure geometry rules the renderer applies.
//
// Planning happens before any drawing because every footer shows the
// final page total. [Plan] is therefore a pure function of the records
// and the limits: same input, same page sequence.
package layout

import (
	"fmt"

	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// Kind is the type of a planned page.
type Kind int

const (
	KindOverview Kind = iota
	KindCurrencies
	KindDetail
	KindManual
)

func (k Kind) String() string {
	switch k {
	case KindOverview:
		return "overview"
	case KindCurrencies:
		return "currencies"
	case KindDetail:
		return "detail"
	case KindManual:
		return "manual"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Default limits.
const (
	DefaultCurrencyPageThreshold = 15
	DefaultMaxCurrencyRows       = 7
	DefaultOverviewItemCap       = 25

	// MaxCurrencyRowsLimit is the most currency rows that fit below the
	// overview table header.
	MaxCurrencyRowsLimit = 25
)

// Limits are the layout thresholds. They are configuration, not law.
type Limits struct {
	// CurrencyPageThreshold is the record count above which the currency
	// table moves from the overview to its own page.
	CurrencyPageThreshold int `toml:"currency_page_threshold"`

	// MaxCurrencyRows caps the currency table. Extra currencies are
	// omitted without notice.
	MaxCurrencyRows int `toml:"max_currency_rows"`

	// OverviewItemCap caps the overview listing; the rest is summarized.
	OverviewItemCap int `toml:"overview_item_cap"`
}

// SetDefaults fills zero fields with the default limits.
func (l *Limits) SetDefaults() {
	if l.CurrencyPageThreshold == 0 {
		l.CurrencyPageThreshold = DefaultCurrencyPageThreshold
	}
	if l.MaxCurrencyRows == 0 {
		l.MaxCurrencyRows = DefaultMaxCurrencyRows
	}
	if l.OverviewItemCap == 0 {
		l.OverviewItemCap = DefaultOverviewItemCap
	}
}

// Validate rejects negative limits and currency tables that do not fit
// on a page.
func (l Limits) Validate() error {
	if l.CurrencyPageThreshold < 0 || l.MaxCurrencyRows < 0 || l.OverviewItemCap < 0 {
		return fmt.Errorf("layout limits must not be negative: %+v", l)
	}
	if l.MaxCurrencyRows > MaxCurrencyRowsLimit {
		return fmt.Errorf("max_currency_rows %d exceeds %d", l.MaxCurrencyRows, MaxCurrencyRowsLimit)
	}
	return nil
}

// DefaultLimits returns the limits with all defaults applied.
func DefaultLimits() Limits {
	var l Limits
	l.SetDefaults()
	return l
}

// Page describes one page of the document.
type Page struct {
	Ordinal int  `json:"ordinal"` // 1-based
	Kind    Kind `json:"kind"`

	// Record indexes the planned records for detail and manual pages and
	// is -1 otherwise.
	Record int `json:"record"`
}

// Plan is the ordered page sequence of one document.
type Plan struct {
	Pages              []Page
	SeparateCurrencies bool
}

// Total returns the page count shown in every footer.
func (p Plan) Total() int { return len(p.Pages) }

// Kinds returns the page kinds in ordinal order.
func (p Plan) Kinds() []Kind {
	kinds := make([]Kind, len(p.Pages))
	for i, pg := range p.Pages {
		kinds[i] = pg.Kind
	}
	return kinds
}

// Count returns how many pages of the given kind were planned.
func (p Plan) Count(k Kind) int {
	n := 0
	for _, pg := range p.Pages {
		if pg.Kind == k {
			n++
		}
	}
	return n
}

// NeedsCurrencyPage reports whether n records push the currency table to
// its own page.
func NeedsCurrencyPage(n int, l Limits) bool {
	return n > l.CurrencyPageThreshold
}

// TotalPages computes the page count without building the plan:
// 1 overview, 1 currencies page above the threshold, one detail page per
// record and one manual page per top-up record.
func TotalPages(records []onboarding.Record, l Limits) int {
	total := 1 + len(records)
	if NeedsCurrencyPage(len(records), l) {
		total++
	}
	for _, r := range records {
		if r.HasTopUp() {
			total++
		}
	}
	return total
}

// Build plans the document: the overview, the currencies page when
// needed, then per record in input order its detail page immediately
// followed by its manual page when the record is a top-up station.
// Zero limits fall back to the defaults.
func Build(records []onboarding.Record, l Limits) Plan {
	l.SetDefaults()

	p := Plan{
		Pages:              make([]Page, 0, TotalPages(records, l)),
		SeparateCurrencies: NeedsCurrencyPage(len(records), l),
	}
	add := func(k Kind, rec int) {
		p.Pages = append(p.Pages, Page{Ordinal: len(p.Pages) + 1, Kind: k, Record: rec})
	}

	add(KindOverview, -1)
	if p.SeparateCurrencies {
		add(KindCurrencies, -1)
	}
	for i, r := range records {
		add(KindDetail, i)
		if r.HasTopUp() {
			add(KindManual, i)
		}
	}
	return p
}
