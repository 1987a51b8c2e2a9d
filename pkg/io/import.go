package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// ReadJSON decodes a snapshot file from r and returns its variant and
// snapshot.
//
// ReadJSON returns an error if the JSON is malformed, the version is not
// [FormatVersion], the variant is unknown or the snapshot has no tenant.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (onboarding.Variant, *onboarding.Snapshot, error) {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return "", nil, fmt.Errorf("decode: %w", err)
	}
	if env.Version != FormatVersion {
		return "", nil, fmt.Errorf("unsupported snapshot version %d", env.Version)
	}
	variant, ok := onboarding.ParseVariant(string(env.Variant))
	if !ok {
		return "", nil, fmt.Errorf("unknown variant %q", env.Variant)
	}
	if env.Snapshot == nil || env.Snapshot.Tenant.ID == "" {
		return "", nil, fmt.Errorf("snapshot has no tenant")
	}
	return variant, env.Snapshot, nil
}

// ImportJSON reads the snapshot file at path.
func ImportJSON(path string) (onboarding.Variant, *onboarding.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
