package render

import (
	"strings"

	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// Overview geometry.
const (
	overviewBand       = 70
	overviewRowHeight  = 18
	overviewRowCompact = 14 // when the currency table shares the page
	overviewMoreGap    = 10
	overviewBottom     = layout.PageHeight - 80
	currencyGap        = 40
)

func (r *Renderer) overview(c *Canvas, pc PageContext) error {
	th := pc.Theme()
	tenant := strings.ToUpper(pc.Tenant)
	client := pc.T("overview_client", tenant)
	if pc.Variant == onboarding.VariantApplication {
		client = pc.T("overview_client_app", tenant)
	}

	c.band(overviewBand, th.Primary)
	c.textColor(colorWhite)
	c.font("B", 18)
	c.pageCentered(30, pc.T("overview_title"))
	c.font("B", 12)
	c.pageCentered(50, client)

	records := pc.Records()
	y := 90.0
	if len(records) > 0 {
		y = r.eventBlock(c, pc, y)
	}

	y += 40
	c.font("B", 18)
	c.textColor(th.Primary)
	c.pageCentered(y, pc.T("total_configurations", len(records)))

	y = r.overviewTable(c, pc, y+50)

	if pc.SeparateCurrencies {
		y += 30
		c.font("B", 14)
		c.textColor(th.Primary)
		c.pageCentered(y, pc.T("currencies_heading"))
		c.font("I", 12)
		c.textColor(colorMuted)
		c.pageCentered(y+20, pc.T("currencies_separate"))
	} else {
		r.currencyTable(c, pc, y+currencyGap)
	}

	hint := pc.T("hint_next_pages")
	if pc.SeparateCurrencies {
		hint = pc.T("hint_currencies_page")
	}
	c.font("I", 11)
	c.textColor(th.Primary)
	c.pageCentered(layout.PageHeight-70, hint)
	return nil
}

// eventBlock draws the event name, its times and the refund window.
func (r *Renderer) eventBlock(c *Canvas, pc PageContext, y float64) float64 {
	snap := pc.Snapshot

	y += 30
	c.font("B", 26)
	c.textColor(pc.Theme().Primary)
	c.pageCentered(y, pc.T("overview_event", pc.or(snap.EventName())))

	switch {
	case snap.EventUnavailable:
		y += 35
		c.font("I", 12)
		c.textColor(colorMuted)
		c.pageCentered(y, pc.T("event_unavailable"))
	case snap.Event != nil:
		y += 35
		c.font("B", 16)
		c.textColor(colorBlack)
		c.pageCentered(y, pc.T("event_start", pc.formatTime(snap.Event.Start))+"  |  "+pc.T("event_end", pc.formatTime(snap.Event.End)))
	}

	switch {
	case snap.RefundUnavailable:
		y += 30
		c.font("I", 12)
		c.textColor(colorMuted)
		c.pageCentered(y, pc.T("refund_unavailable"))
		y += 10
	case snap.Refund.Visible():
		y += 30
		c.font("B", 14)
		c.textColor(colorRefund)
		c.pageCentered(y, pc.T("refund_start", pc.formatTime(snap.Refund.Start))+"  |  "+pc.T("refund_end", pc.formatTime(snap.Refund.End)))
		y += 10
	}
	return y
}

// overviewTable lists the records until the item cap or the bottom of
// the page is reached and summarizes the rest. When the currency table
// follows on the same page, rows stop early enough to leave it room.
func (r *Renderer) overviewTable(c *Canvas, pc PageContext, y float64) float64 {
	pitch, limit := float64(overviewRowHeight), float64(overviewBottom)
	if !pc.SeparateCurrencies {
		pitch = overviewRowCompact
		limit = currencyBottom - currencyGap - currencyBlockHeight(pc) - pitch - overviewMoreGap
	}

	table := pc.Theme().Table
	x := layout.CenterX(table.Width)

	c.font("B", 10)
	c.textColor(colorBlack)
	for _, col := range table.Columns {
		c.text(x+col.Offset, y, pc.T(col.Header))
	}
	c.line(x, y+5, x+table.Width, y+5, 1, colorRule)
	y += 20

	records := pc.Records()
	drawn := 0
	c.font("", 9)
	for _, rec := range records {
		if drawn >= pc.Limits.OverviewItemCap || y > limit {
			break
		}
		for _, col := range table.Columns {
			value, color := r.overviewCell(pc, rec, col.Header)
			c.textColor(color)
			c.text(x+col.Offset, y, truncate(value, col.MaxLen))
		}
		y += pitch
		drawn++
	}

	if rest := len(records) - drawn; rest > 0 {
		c.font("I", 9)
		c.textColor(colorMuted)
		c.pageCentered(y+overviewMoreGap, pc.T("more_items", rest))
		y += overviewMoreGap
	}
	return y
}

func (r *Renderer) overviewCell(pc PageContext, rec onboarding.Record, column string) (string, Color) {
	orNone := func(s string) string {
		if s == "" {
			return pc.T("none")
		}
		return s
	}

	switch column {
	case colName:
		return pc.or(rec.Name), colorBlack
	case colUser:
		if m, ok := pc.Snapshot.Match(rec); ok && m.Found() {
			return m.User.Email, colorBlack
		}
		return pc.T("no_user"), colorBlack
	case colRoles:
		return orNone(rec.Roles), colorBlack
	case colPayment:
		return orNone(rec.PaymentMethods), colorBlack
	case colLocation:
		return orNone(rec.Location), colorBlack
	case colStatus:
		return r.status(pc, rec)
	}
	return "", colorBlack
}

func (r *Renderer) status(pc PageContext, rec onboarding.Record) (string, Color) {
	if pc.Variant == onboarding.VariantGuest {
		if m, ok := pc.Snapshot.Match(rec); ok && m.Found() {
			return pc.T("status_ok"), colorStatusOK
		}
		return pc.T("status_missing"), colorStatusMiss
	}
	if rec.HasTopUp() {
		return pc.T("status_topup"), colorStatusTopUp
	}
	return pc.T("status_ok"), colorStatusOK
}
