package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// FormatVersion is the snapshot file version written by this package.
const FormatVersion = 1

type envelope struct {
	Version  int                  `json:"version"`
	Variant  onboarding.Variant   `json:"variant"`
	Snapshot *onboarding.Snapshot `json:"snapshot"`
}

// WriteJSON encodes a snapshot for variant and writes it to w.
func WriteJSON(w io.Writer, variant onboarding.Variant, s *onboarding.Snapshot) error {
	if s == nil {
		return fmt.Errorf("encode: nil snapshot")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope{Version: FormatVersion, Variant: variant, Snapshot: s}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a snapshot file at path.
func ExportJSON(path string, variant onboarding.Variant, s *onboarding.Snapshot) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(tmp, variant, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
