package render

import (
	"fmt"

	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/qr"
)

var (
	applicationSteps = []string{
		"app_step_1", "app_step_2", "app_step_3", "app_step_4",
		"app_step_5", "app_step_6", "app_step_7",
	}
	guestSteps = []string{
		"guest_step_1", "guest_step_2", "guest_step_3", "guest_step_4", "guest_step_5",
	}
)

// Application detail geometry.
const (
	appQRSize   = 200
	appQRTop    = 200
	appInfoX    = 280
	appInfoTop  = 250
	appInfoLine = 25
	appInfoLen  = 45
)

func (r *Renderer) detailHeader(c *Canvas, pc PageContext) {
	r.header(c, pc, 120, 32, 18, 40, 65, pc.T("detail_title"), pc.or(pc.Record.Name))
}

func (r *Renderer) applicationDetail(c *Canvas, pc PageContext) error {
	primary := pc.Theme().Primary
	rec := pc.Record
	r.detailHeader(c, pc)

	c.font("B", 20)
	c.textColor(primary)
	c.pageCentered(150, pc.T("device_configuration"))
	c.line(layout.PageWidth/2-80, 155, layout.PageWidth/2+80, 155, 2, primary)

	qrRect := layout.Rect{X: 50, Y: appQRTop, W: appQRSize, H: appQRSize}
	c.strokeRect(layout.Rect{X: qrRect.X - 10, Y: qrRect.Y - 10, W: appQRSize + 20, H: appQRSize + 20}, 4, primary)
	if err := r.qrCode(c, pc, "onboarding", r.onboardingURL(pc), qrRect); err != nil {
		return fmt.Errorf("onboarding qr: %w", err)
	}

	lines := []string{
		pc.T("info_event", pc.or(rec.Event)),
		pc.T("info_location", pc.or(rec.Location)),
		pc.T("info_sales", pc.or(rec.Sales)),
	}
	if rec.Roles == "" {
		lines = append(lines, pc.T("no_roles"))
	} else {
		lines = append(lines, pc.T("info_roles", rec.Roles))
	}
	if !rec.IsTopUpStation() {
		lines = append(lines, pc.T("info_payment", pc.or(rec.PaymentMethods)))
	}

	c.font("B", 12)
	c.textColor(colorBlack)
	y := float64(appInfoTop)
	for _, line := range lines {
		c.text(appInfoX, y, truncate(line, appInfoLen))
		y += appInfoLine
	}

	r.instructions(c, pc, qrRect.Bottom()+90, 50, 25, applicationSteps)
	return r.supportBlock(c, pc)
}

// Guest detail geometry.
const (
	guestQRSize    = 140
	guestQRTop     = 200
	guestQRBorder  = 6
	guestInfoTop   = 210
	guestLabelGap  = 18
	guestEntryGap  = 28
	guestValueLen  = 28
	guestInfoGap   = 20
	guestQRGap     = 40
	guestLeftQRX   = 70
	guestRightQRX  = layout.PageWidth - 210
	guestUserLineY = layout.PageHeight - 45
)

func (r *Renderer) guestDetail(c *Canvas, pc PageContext) error {
	primary := pc.Theme().Primary
	r.detailHeader(c, pc)
	c.line(50, 120, layout.PageWidth-50, 120, 3, primary)

	left := layout.Rect{X: guestLeftQRX, Y: guestQRTop, W: guestQRSize, H: guestQRSize}
	right := layout.Rect{X: guestRightQRX, Y: guestQRTop, W: guestQRSize, H: guestQRSize}
	for _, q := range []layout.Rect{left, right} {
		border := layout.Rect{
			X: q.X - guestQRBorder,
			Y: q.Y - guestQRBorder,
			W: q.W + 2*guestQRBorder,
			H: q.H + 2*guestQRBorder,
		}
		c.strokeRect(border, 2, primary)
	}

	if err := r.qrCode(c, pc, "onboarding", r.onboardingURL(pc), left); err != nil {
		return fmt.Errorf("onboarding qr: %w", err)
	}
	matched := pc.HasMatch && pc.Match.Found() && pc.Match.User.QRCode != ""
	if matched {
		if err := r.qrCode(c, pc, "user", pc.Match.User.QRCode, right); err != nil {
			return fmt.Errorf("user qr: %w", err)
		}
	} else {
		r.placeholder(c, right, pc.T("no_user_qr_1"), pc.T("no_user_qr_2"))
	}

	c.font("B", 11)
	c.textColor(colorBlack)
	labelY := left.Bottom() + 20
	c.centered(left.X+left.W/2, labelY, pc.T("onboarding_qr"))
	c.centered(right.X+right.W/2, labelY, pc.T("user_qr"))

	infoBottom := r.guestInfo(c, pc, (left.X+left.W+right.X)/2)

	top := layout.InstructionsTop(infoBottom, left.Bottom(), guestInfoGap, guestQRGap)
	y := r.instructions(c, pc, top, 35, 24, guestSteps)

	y += 10
	c.font("B", 13)
	c.textColor(primary)
	c.text(70, y, pc.T("tip_label"))
	c.font("", 12)
	c.textColor(colorBlack)
	c.text(70, y+22, pc.T("tip_line_1"))
	c.text(70, y+40, pc.T("tip_line_2"))

	if err := r.supportBlock(c, pc); err != nil {
		return err
	}

	if pc.HasMatch && pc.Match.Found() {
		c.font("B", 12)
		c.textColor(colorBlack)
		c.text(50, guestUserLineY, pc.T("user_email", pc.Match.User.Email))
	}
	return nil
}

// guestInfo draws the label/value pairs centred on cx between the two
// QR codes and returns where the next entry would start.
func (r *Renderer) guestInfo(c *Canvas, pc PageContext, cx float64) float64 {
	rec := pc.Record
	type entry struct {
		label, value string
		size         float64
	}
	roles := rec.Roles
	if roles == "" {
		roles = pc.T("no_roles")
	}
	entries := []entry{
		{pc.T("label_event"), pc.or(rec.Event), 12},
		{pc.T("label_location"), pc.or(rec.Location), 12},
		{pc.T("label_menu"), pc.or(rec.Sales), 12},
		{pc.T("label_roles"), roles, 12},
	}
	if !rec.IsTopUpStation() {
		entries = append(entries, entry{pc.T("label_payment"), pc.or(rec.PaymentMethods), 11})
	}

	primary := pc.Theme().Primary
	y := float64(guestInfoTop)
	for _, e := range entries {
		c.font("B", 13)
		c.textColor(primary)
		c.centered(cx, y, e.label)
		c.font("", e.size)
		c.textColor(colorBlack)
		c.centered(cx, y+guestLabelGap, truncate(e.value, guestValueLen))
		y += guestLabelGap + guestEntryGap
	}
	return y
}

func (r *Renderer) onboardingURL(pc PageContext) string {
	if pc.Record.QRCode == "" {
		return ""
	}
	return qr.OnboardingURL(pc.Domain(), pc.Record.QRCode)
}
