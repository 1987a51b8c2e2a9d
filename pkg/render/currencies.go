package render

import (
	"strconv"
	"strings"

	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// Currency table geometry.
const (
	currencyTableWidth  = 400
	currencyColumnWidth = 80
	currencyHeadingGap  = 25
	currencyHeaderGap   = 15
	currencyRowHeight   = 12
	currencyLegendGap   = 5
	currencyBottom      = layout.PageHeight - 120 // lowest legend baseline
	currencyNameLen     = 20
)

var currencyHeaders = []string{"cur_name", "cur_rate", "cur_weight", "cur_staff", "cur_client"}

// CurrencyRows returns the currencies the table shows: ascending by
// burning weight, at most limit rows. The rest is dropped silently.
func CurrencyRows(cs []onboarding.Currency, limit int) []onboarding.Currency {
	rows := onboarding.SortCurrencies(cs)
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func (r *Renderer) currencies(c *Canvas, pc PageContext) error {
	r.header(c, pc, 120, 32, 18, 40, 70,
		pc.T("currencies_title"),
		pc.T("overview_client", strings.ToUpper(pc.Tenant)))
	r.currencyTable(c, pc, 150)
	return nil
}

// currencyNotice returns the text shown instead of the table, if any.
func currencyNotice(pc PageContext) string {
	switch {
	case pc.Snapshot.CurrenciesUnavailable:
		return pc.T("currencies_unavailable")
	case len(pc.Snapshot.Currencies) == 0:
		return pc.T("currencies_empty")
	}
	return ""
}

// currencyBlockHeight is the distance from the currency heading to the
// last baseline currencyTable draws.
func currencyBlockHeight(pc PageContext) float64 {
	if currencyNotice(pc) != "" {
		return currencyHeadingGap
	}
	rows := len(CurrencyRows(pc.Snapshot.Currencies, pc.Limits.MaxCurrencyRows))
	return currencyHeadingGap + currencyHeaderGap + float64(rows)*currencyRowHeight + currencyLegendGap
}

// currencyTable draws the currency section with its heading at y and
// returns the baseline below it. Callers leave currencyBlockHeight below
// y, so every capped row is drawn.
func (r *Renderer) currencyTable(c *Canvas, pc PageContext, y float64) float64 {
	c.font("B", 14)
	c.textColor(pc.Theme().Primary)
	c.pageCentered(y, pc.T("currencies_heading"))

	if notice := currencyNotice(pc); notice != "" {
		y += currencyHeadingGap
		c.font("", 10)
		c.textColor(colorMuted)
		c.pageCentered(y, notice)
		return y
	}

	x := layout.CenterX(currencyTableWidth)
	y += currencyHeadingGap
	c.font("B", 9)
	c.textColor(colorBlack)
	for i, key := range currencyHeaders {
		c.text(x+float64(i)*currencyColumnWidth, y, pc.T(key))
	}
	c.line(x, y+5, x+currencyTableWidth, y+5, 1, colorRule)
	y += currencyHeaderGap

	c.font("", 8)
	for _, cur := range CurrencyRows(pc.Snapshot.Currencies, pc.Limits.MaxCurrencyRows) {
		cells := []string{
			truncate(cur.Name, currencyNameLen),
			cur.ExchangeRate.StringFixed(2),
			cur.BurningWeight.String(),
			strconv.Itoa(cur.StaffOrder),
			strconv.Itoa(cur.ClientOrder),
		}
		for i, cell := range cells {
			c.text(x+float64(i)*currencyColumnWidth, y, cell)
		}
		y += currencyRowHeight
	}

	y += currencyLegendGap
	c.font("I", 7)
	c.textColor(colorMuted)
	c.pageCentered(y, pc.T("currencies_legend"))
	return y
}
