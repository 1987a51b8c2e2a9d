// Package qr turns URLs and opaque tokens into QR code images for print.
package qr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

// Level is the error correction level.
type Level = qrcode.RecoveryLevel

// Error correction levels, lowest first. Low keeps the modules large,
// which scans best at small print sizes.
const (
	Low     = qrcode.Low
	Medium  = qrcode.Medium
	High    = qrcode.High
	Highest = qrcode.Highest
)

// DefaultQuietZone is the white border in modules.
const DefaultQuietZone = 4

// ErrEmptyContent is returned when there is nothing to encode.
var ErrEmptyContent = errors.New("qr: empty content")

// Encoder renders QR codes. The zero value is not usable; use [New].
type Encoder struct {
	level      Level
	quietZone  int
	foreground color.Color
	background color.Color
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithLevel sets the error correction level.
func WithLevel(l Level) Option {
	return func(e *Encoder) { e.level = l }
}

// WithQuietZone sets the border width in modules. Negative values are
// treated as zero.
func WithQuietZone(modules int) Option {
	return func(e *Encoder) { e.quietZone = max(modules, 0) }
}

// WithColors sets the module and background colors.
func WithColors(fg, bg color.Color) Option {
	return func(e *Encoder) { e.foreground, e.background = fg, bg }
}

// New creates an encoder with low error correction and a four module
// quiet zone.
func New(opts ...Option) *Encoder {
	e := &Encoder{
		level:      Low,
		quietZone:  DefaultQuietZone,
		foreground: color.Black,
		background: color.White,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode renders content as a px by px image including the quiet zone.
func (e *Encoder) Encode(content string, px int) (image.Image, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if px <= 0 {
		return nil, fmt.Errorf("qr: invalid size %d", px)
	}

	code, err := qrcode.New(content, e.level)
	if err != nil {
		return nil, fmt.Errorf("qr: encode: %w", err)
	}
	code.DisableBorder = true
	code.ForegroundColor = e.foreground
	code.BackgroundColor = e.background

	modules := len(code.Bitmap())
	span := modules + 2*e.quietZone
	modulePx := max(px/span, 1)

	symbol := code.Image(-modulePx)
	canvas := imaging.New(span*modulePx, span*modulePx, e.background)
	canvas = imaging.Paste(canvas, symbol, image.Pt(e.quietZone*modulePx, e.quietZone*modulePx))

	if canvas.Bounds().Dx() == px {
		return canvas, nil
	}
	return imaging.Resize(canvas, px, px, imaging.NearestNeighbor), nil
}

// EncodePNG renders content like [Encoder.Encode] and returns PNG bytes.
func (e *Encoder) EncodePNG(content string, px int) ([]byte, error) {
	img, err := e.Encode(content, px)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("qr: png: %w", err)
	}
	return buf.Bytes(), nil
}

// OnboardingURL builds the sign-up URL an onboarding QR code points to.
func OnboardingURL(domain, code string) string {
	return fmt.Sprintf("https://%s/?onboardingQrCode=%s#/auth/signuphome", domain, code)
}
