package render

import (
	"fmt"
	"path/filepath"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/layout"
)

// Manual page geometry.
const (
	manualDivider   = 130
	manualMargin    = 40
	manualImageGap  = 30
	manualVideoGap  = 10
	manualImagePad  = 10
	manualErrorLen  = 60
	manualFooterTop = layout.PageHeight - 60

	videoQRSize     = 120
	videoPadding    = 8
	videoBarHeight  = 30
	videoBlockTotal = 192 // frame, bar and caption baseline
)

// ManualImageBox is the area the manual image is fitted into. It leaves
// room for the video block above the footer.
func ManualImageBox() layout.Rect {
	top := float64(manualDivider + manualImageGap)
	bottom := manualFooterTop - videoBlockTotal - manualVideoGap - manualImagePad
	return layout.Rect{
		X: manualMargin,
		Y: top,
		W: layout.PageWidth - 2*manualMargin,
		H: bottom - top,
	}
}

// videoTop places the video block centred between the framed image and
// the footer.
func videoTop(imageBottom float64) float64 {
	return layout.CenterIn(imageBottom, manualFooterTop, videoBlockTotal)
}

func (r *Renderer) manualPage(c *Canvas, pc PageContext) error {
	primary := pc.Theme().Primary
	r.header(c, pc, 120, 28, 16, 35, 60, pc.T("manual_title"), pc.or(pc.Record.Name))
	c.line(30, manualDivider, layout.PageWidth-30, manualDivider, 2, primary)

	asset := r.manualImage(pc.ManualImage)
	switch {
	case asset.missing:
		r.manualMissing(c, pc)
		return errs.New(errs.ErrCodeAssetMissing, "manual image %q not found", pc.ManualImage)
	case asset.err != nil:
		r.manualDecodeError(c, pc, asset.err)
		return errs.Wrap(errs.ErrCodeAssetMissing, asset.err, "manual image %q unreadable", pc.ManualImage)
	}

	placed, _ := layout.ScaleToFit(asset.size, ManualImageBox(), layout.MinImageScale, layout.MaxImageScale)
	bg := layout.Rect{
		X: placed.X - manualImagePad,
		Y: placed.Y - manualImagePad,
		W: placed.W + 2*manualImagePad,
		H: placed.H + 2*manualImagePad,
	}
	c.box(bg, 1, colorImageBG, colorImageEdge)
	if err := c.shared("manual", asset.png, placed); err != nil {
		return fmt.Errorf("manual image: %w", err)
	}

	return r.videoBlock(c, pc, videoTop(bg.Bottom()))
}

// videoBlock draws the framed video QR with the red "watch online" bar
// and its caption, starting at top.
func (r *Renderer) videoBlock(c *Canvas, pc PageContext, top float64) error {
	cx := layout.PageWidth / 2
	if pc.VideoURL == "" {
		c.font("", 11)
		c.textColor(colorMuted)
		c.centered(cx, top+videoBlockTotal/2, pc.T("video_unavailable"))
		return nil
	}

	frameW := float64(videoQRSize + 2*videoPadding)
	frame := layout.Rect{X: cx - frameW/2, Y: top, W: frameW, H: frameW}
	c.box(frame, 1, colorWhite, colorFrame)
	qrRect := layout.Rect{X: frame.X + videoPadding, Y: top + videoPadding, W: videoQRSize, H: videoQRSize}
	if err := r.qrCode(c, pc, "video", pc.VideoURL, qrRect); err != nil {
		return fmt.Errorf("video qr: %w", err)
	}

	bar := layout.Rect{X: frame.X, Y: qrRect.Bottom() + 13, W: frameW, H: videoBarHeight}
	c.box(bar, 1, colorVideo, colorVideoEdge)
	c.font("B", 14)
	c.textColor(colorWhite)
	c.centered(cx, bar.Y+bar.H-8, pc.T("watch_online"))

	c.font("", 11)
	c.textColor(colorMuted)
	c.centered(cx, bar.Bottom()+18, pc.T("scan_for_video"))
	return nil
}

// manualMissing is the fallback notice for a manual image that is not on
// disk.
func (r *Renderer) manualMissing(c *Canvas, pc PageContext) {
	h := layout.PageHeight
	name := filepath.Base(pc.ManualImage)
	if pc.ManualImage == "" {
		name = pc.T("not_specified")
	}

	c.font("B", 24)
	c.textColor(colorErrorText)
	c.pageCentered(h/2-50, pc.T("manual_missing", name))

	c.font("", 16)
	c.textColor(colorBlack)
	c.pageCentered(h/2, pc.T("error_file", pc.ManualImage))
	c.pageCentered(h/2+25, pc.T("manual_missing_check"))
	c.pageCentered(h/2+50, pc.T("manual_missing_contact"))

	box := layout.Rect{X: layout.CenterX(400), Y: h/2 + 80, W: 400, H: 120}
	c.strokeRect(box, 2, colorErrorText)
	c.font("B", 12)
	c.textColor(colorErrorText)
	c.text(box.X+20, box.Y+30, pc.T("troubleshooting"))
	c.font("", 10)
	c.textColor(colorBlack)
	for i, line := range []string{
		pc.T("troubleshoot_1", name),
		pc.T("troubleshoot_2"),
		pc.T("troubleshoot_3"),
		pc.T("troubleshoot_4"),
	} {
		c.text(box.X+20, box.Y+50+float64(i)*15, line)
	}
}

// manualDecodeError is shown when the image exists but cannot be read.
func (r *Renderer) manualDecodeError(c *Canvas, pc PageContext, err error) {
	h := layout.PageHeight

	c.font("B", 20)
	c.textColor(colorErrorText)
	c.pageCentered(h/2-80, pc.T("manual_error_title"))

	c.font("", 12)
	c.textColor(colorBlack)
	c.pageCentered(h/2-40, pc.T("manual_error_detail", truncate(err.Error(), manualErrorLen+3)))
	c.pageCentered(h/2-20, pc.T("manual_error_line"))
	c.pageCentered(h/2, pc.T("manual_error_contact"))

	box := layout.Rect{X: 50, Y: h/2 + 20, W: layout.PageWidth - 100, H: 60}
	c.box(box, 1, colorErrorFill, colorErrorEdge)
	c.font("", 10)
	c.textColor(colorErrorText)
	c.pageCentered(box.Y+30, pc.T("error_details"))
	c.pageCentered(box.Y+45, pc.T("error_file", pc.ManualImage))
}
