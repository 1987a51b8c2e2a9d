package render

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
)

// Document is an assembled PDF. It is serialized once, on the first
// write; later writes reuse the bytes.
type Document struct {
	pdf  *fpdf.Fpdf
	data []byte
}

// Pages returns the number of pages in the document.
func (d *Document) Pages() int { return d.pdf.PageCount() }

// Bytes serializes the document.
func (d *Document) Bytes() ([]byte, error) {
	if d.data != nil {
		return d.data, nil
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, errs.Wrap(errs.ErrCodeOutput, err, "serialize pdf")
	}
	d.data = buf.Bytes()
	return d.data, nil
}

// Write writes the PDF to w.
func (d *Document) Write(w io.Writer) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errs.Wrap(errs.ErrCodeOutput, err, "write pdf")
	}
	return nil
}

// WriteFile writes the PDF to path through a temporary file in the same
// directory.
func (d *Document) WriteFile(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(errs.ErrCodeOutput, err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, ".onboarding-*.pdf")
	if err != nil {
		return errs.Wrap(errs.ErrCodeOutput, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errs.Wrap(errs.ErrCodeOutput, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeOutput, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errs.Wrap(errs.ErrCodeOutput, err, "write %s", path)
	}
	return nil
}
