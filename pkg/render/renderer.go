package render

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/KaiDries/OnboardingQR/pkg/layout"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
	"github.com/KaiDries/OnboardingQR/pkg/qr"
)

// qrPixelsPerPoint is the raster resolution of generated QR codes.
const qrPixelsPerPoint = 4

// Renderer draws single pages. It is not safe for concurrent use.
type Renderer struct {
	qr     *qr.Encoder
	manual *manualAsset
}

// NewRenderer creates a renderer. A nil encoder gets the default one.
func NewRenderer(enc *qr.Encoder) *Renderer {
	if enc == nil {
		enc = qr.New()
	}
	return &Renderer{qr: enc}
}

// Page draws the content of one planned page. The footer is drawn by
// the assembler.
func (r *Renderer) Page(c *Canvas, pc PageContext) error {
	switch pc.Page.Kind {
	case layout.KindOverview:
		return r.overview(c, pc)
	case layout.KindCurrencies:
		return r.currencies(c, pc)
	case layout.KindDetail:
		if pc.Variant == onboarding.VariantGuest {
			return r.guestDetail(c, pc)
		}
		return r.applicationDetail(c, pc)
	case layout.KindManual:
		return r.manualPage(c, pc)
	}
	return fmt.Errorf("unknown page kind %s", pc.Page.Kind)
}

// header draws a band with a title and a subtitle.
func (r *Renderer) header(c *Canvas, pc PageContext, height, titleSize, subSize, titleY, subY float64, title, sub string) {
	c.band(height, pc.Theme().Primary)
	c.textColor(colorWhite)
	c.font("B", titleSize)
	c.pageCentered(titleY, title)
	c.font("", subSize)
	c.pageCentered(subY, sub)
}

// qrCode renders content into rect. Empty content draws the "not
// specified" placeholder instead.
func (r *Renderer) qrCode(c *Canvas, pc PageContext, prefix, content string, rect layout.Rect) error {
	if content == "" {
		r.placeholder(c, rect, pc.T("not_specified"), "")
		return nil
	}
	data, err := r.qr.EncodePNG(content, int(rect.W*qrPixelsPerPoint))
	if err != nil {
		return err
	}
	return c.png(prefix, data, rect)
}

// placeholder fills rect in grey with up to two centred lines.
func (r *Renderer) placeholder(c *Canvas, rect layout.Rect, line1, line2 string) {
	c.fillRect(rect, colorRule)
	c.textColor(colorFaint)
	c.font("", 10)
	cx, cy := rect.X+rect.W/2, rect.Y+rect.H/2
	c.centered(cx, cy, line1)
	if line2 != "" {
		c.centered(cx, cy+15, line2)
	}
}

// instructions draws an underlined heading and numbered steps starting
// at top. It returns the baseline below the last step.
func (r *Renderer) instructions(c *Canvas, pc PageContext, top, stepGap, stepSpacing float64, steps []string) float64 {
	primary := pc.Theme().Primary
	c.font("B", 20)
	c.textColor(primary)
	c.pageCentered(top, pc.T("installation_instructions"))
	c.line(layout.PageWidth/2-90, top+5, layout.PageWidth/2+90, top+5, 2, primary)

	c.font("", 14)
	c.textColor(colorBlack)
	y := top + stepGap
	for _, key := range steps {
		c.text(70, y, pc.T(key))
		y += stepSpacing
	}
	return y
}

// Support block geometry.
const (
	supportQRSize  = 80
	supportPadding = 8
	supportRadius  = 8
)

// supportBlock draws the WhatsApp contact QR in the lower right corner
// and the two-line caption on the left. Nothing is drawn without a
// support link.
func (r *Renderer) supportBlock(c *Canvas, pc PageContext) error {
	if pc.SupportURL == "" {
		return nil
	}
	h := layout.PageHeight

	c.font("B", 12)
	c.textColor(pc.Theme().Primary)
	c.text(50, h-70, pc.T("support_line_1"))
	c.font("", 11)
	c.textColor(colorBlack)
	c.text(50, h-55, pc.T("support_line_2"))

	qrRect := layout.Rect{X: layout.PageWidth - 110, Y: h - 130, W: supportQRSize, H: supportQRSize}
	frame := layout.Rect{
		X: qrRect.X - supportPadding,
		Y: qrRect.Y - supportPadding,
		W: supportQRSize + 2*supportPadding,
		H: supportQRSize + 2*supportPadding,
	}
	c.roundedBox(frame, supportRadius, colorSupport)
	c.fillRect(layout.Rect{X: frame.X + 3, Y: frame.Y + 3, W: frame.W - 6, H: frame.H - 6}, colorWhite)
	if err := r.qrCode(c, pc, "support", pc.SupportURL, qrRect); err != nil {
		return fmt.Errorf("support qr: %w", err)
	}

	bar := layout.Rect{X: frame.X, Y: frame.Bottom() + 5, W: frame.W, H: 15}
	c.fillRect(bar, colorSupport)
	c.font("B", 9)
	c.textColor(colorWhite)
	c.centered(bar.X+bar.W/2, bar.Y+11, pc.T("scan_with_camera"))
	return nil
}

// footer draws the page number and the generation line.
func (r *Renderer) footer(c *Canvas, pc PageContext) {
	h := layout.PageHeight
	c.font("", 10)
	c.textColor(colorMuted)
	generated := pc.GeneratedAt
	if pc.Location != nil {
		generated = generated.In(pc.Location)
	}
	c.pageCentered(h-30, pc.T("footer", pc.Company, generated.Format(DateTimeLayout), strings.ToUpper(pc.Tenant)))

	c.font("", 9)
	c.textColor(colorFaint)
	c.text(20, h-15, pc.T("page_of", pc.Page.Ordinal, pc.Total))
}

// errorBlock replaces the content of a page that failed to render.
func (r *Renderer) errorBlock(c *Canvas, pc PageContext, err error) {
	h := layout.PageHeight
	c.font("B", 20)
	c.textColor(colorErrorText)
	c.pageCentered(h/2-60, pc.T("page_error_title"))

	box := layout.Rect{X: 50, Y: h/2 - 30, W: layout.PageWidth - 100, H: 60}
	c.box(box, 1, colorErrorFill, colorErrorEdge)
	c.font("", 10)
	c.textColor(colorErrorText)
	c.pageCentered(box.Y+25, truncate(pc.T("page_error_detail", pc.Page.Kind, pc.Page.Ordinal, err), 95))
	c.font("I", 10)
	c.textColor(colorMuted)
	c.pageCentered(box.Y+42, pc.T("page_error_hint"))
}

// manualAsset is the decoded manual image, shared by all manual pages.
type manualAsset struct {
	path    string
	size    layout.Size
	png     []byte
	missing bool
	err     error
}

func loadManual(path string) *manualAsset {
	a := &manualAsset{path: path}
	if path == "" {
		a.missing = true
		return a
	}
	img, err := imaging.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		a.missing = true
		return a
	case err != nil:
		a.err = err
		return a
	}
	b := img.Bounds()
	a.size = layout.Size{W: float64(b.Dx()), H: float64(b.Dy())}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		a.err = err
		return a
	}
	a.png = buf.Bytes()
	return a
}

// manualImage loads the manual image on first use.
func (r *Renderer) manualImage(path string) *manualAsset {
	if r.manual == nil || r.manual.path != path {
		r.manual = loadManual(path)
	}
	return r.manual
}
