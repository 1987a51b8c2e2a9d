package render

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/KaiDries/OnboardingQR/pkg/layout"
)

const fontFamily = "Helvetica"

// Canvas wraps the fpdf handle with top-down drawing helpers. Images are
// handed to fpdf as they are drawn; the canvas only numbers them per page.
type Canvas struct {
	pdf *fpdf.Fpdf
	tr  func(string) string

	page int
	seq  int
}

func newCanvas(pdf *fpdf.Fpdf) *Canvas {
	return &Canvas{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// PDF exposes the underlying document.
func (c *Canvas) PDF() *fpdf.Fpdf { return c.pdf }

// begin starts numbering images for a new page.
func (c *Canvas) begin(ordinal int) {
	c.page = ordinal
	c.seq = 0
}

// images returns how many per-page images the current page drew.
func (c *Canvas) images() int { return c.seq }

func (c *Canvas) font(style string, size float64) {
	c.pdf.SetFont(fontFamily, style, size)
}

func (c *Canvas) textColor(col Color) { c.pdf.SetTextColor(col.R, col.G, col.B) }
func (c *Canvas) fillColor(col Color) { c.pdf.SetFillColor(col.R, col.G, col.B) }
func (c *Canvas) drawColor(col Color) { c.pdf.SetDrawColor(col.R, col.G, col.B) }

// text draws s with its baseline at y.
func (c *Canvas) text(x, y float64, s string) {
	c.pdf.Text(x, y, c.tr(s))
}

// centered draws s centred on cx.
func (c *Canvas) centered(cx, y float64, s string) {
	s = c.tr(s)
	c.pdf.Text(cx-c.pdf.GetStringWidth(s)/2, y, s)
}

// pageCentered draws s centred on the page.
func (c *Canvas) pageCentered(y float64, s string) {
	c.centered(layout.PageWidth/2, y, s)
}

func (c *Canvas) line(x1, y1, x2, y2, width float64, col Color) {
	c.pdf.SetLineWidth(width)
	c.drawColor(col)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *Canvas) fillRect(r layout.Rect, col Color) {
	c.fillColor(col)
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
}

func (c *Canvas) strokeRect(r layout.Rect, width float64, col Color) {
	c.pdf.SetLineWidth(width)
	c.drawColor(col)
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "D")
}

func (c *Canvas) box(r layout.Rect, width float64, fill, stroke Color) {
	c.pdf.SetLineWidth(width)
	c.fillColor(fill)
	c.drawColor(stroke)
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "FD")
}

func (c *Canvas) roundedBox(r layout.Rect, radius float64, fill Color) {
	c.fillColor(fill)
	c.pdf.RoundedRect(r.X, r.Y, r.W, r.H, radius, "1234", "F")
}

// band fills a full-width header band of height h in col.
func (c *Canvas) band(h float64, col Color) {
	c.fillRect(layout.Rect{W: layout.PageWidth, H: h}, col)
}

// png registers PNG bytes for the current page and draws them into r.
func (c *Canvas) png(prefix string, data []byte, r layout.Rect) error {
	name := fmt.Sprintf("%s-p%d-%d", prefix, c.page, c.seq)
	c.seq++

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if err := c.pdf.Error(); err != nil {
		return fmt.Errorf("register image %s: %w", name, err)
	}
	c.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
	return c.pdf.Error()
}

// shared draws an image registered once for the whole document.
func (c *Canvas) shared(name string, data []byte, r layout.Rect) error {
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if c.pdf.GetImageInfo(name) == nil {
		c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		if err := c.pdf.Error(); err != nil {
			return fmt.Errorf("register image %s: %w", name, err)
		}
	}
	c.pdf.ImageOptions(name, r.X, r.Y, r.W, r.H, false, opts, 0, "")
	return c.pdf.Error()
}
