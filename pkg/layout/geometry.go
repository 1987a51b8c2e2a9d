package layout

import "math"

// All geometry uses PDF points with the origin at the top-left corner,
// y growing downwards.

// A4 portrait page size in points.
const (
	PageWidth  = 595.27
	PageHeight = 841.89
)

// Size is a width and height pair.
type Size struct {
	W, H float64
}

// Rect is a positioned box.
type Rect struct {
	X, Y, W, H float64
}

// Bottom returns the y coordinate of the lower edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Manual image scale bounds.
const (
	MinImageScale = 0.6
	MaxImageScale = 1.8
)

// ScaleToFit places an image of size img inside box, preserving the
// aspect ratio. The scale is min(box.W/img.W, box.H/img.H) clamped to
// [minScale, maxScale] so small images are not blown up into pixels and
// large ones stay legible. When the clamped image would still run out of
// the box, the fit wins over the minimum scale.
// The result is centred horizontally and top-aligned in the box.
func ScaleToFit(img Size, box Rect, minScale, maxScale float64) (Rect, float64) {
	if img.W <= 0 || img.H <= 0 || box.W <= 0 || box.H <= 0 {
		return Rect{X: box.X, Y: box.Y}, 0
	}
	scaleW := box.W / img.W
	scaleH := box.H / img.H

	scale := math.Min(scaleW, scaleH)
	scale = math.Max(scale, minScale)
	scale = math.Min(scale, maxScale)

	if img.W*scale > box.W || img.H*scale > box.H {
		scale = math.Min(scaleW, scaleH)
	}

	w, h := img.W*scale, img.H*scale
	return Rect{X: box.X + (box.W-w)/2, Y: box.Y, W: w, H: h}, scale
}

// InstructionsTop returns where a block that follows both an information
// column and a row of QR codes may start: below whichever ends lower,
// keeping infoGap below the text and qrGap below the codes.
func InstructionsTop(infoBottom, qrBottom, infoGap, qrGap float64) float64 {
	return math.Max(infoBottom+infoGap, qrBottom+qrGap)
}

// CenterIn returns the top coordinate that vertically centres a block of
// the given height between top and bottom. If the gap is too small the
// block starts at top.
func CenterIn(top, bottom, height float64) float64 {
	gap := bottom - top
	if gap <= height {
		return top
	}
	return top + (gap-height)/2
}

// CenterX returns the x coordinate that horizontally centres a block of
// width w on the page.
func CenterX(w float64) float64 {
	return (PageWidth - w) / 2
}
