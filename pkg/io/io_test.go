package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

func sampleSnapshot() *onboarding.Snapshot {
	start := time.Date(2025, 7, 4, 14, 0, 0, 0, time.UTC)
	return &onboarding.Snapshot{
		Tenant: onboarding.Tenant{ID: "summercamp", Domain: "summercamp.anykrowd.app"},
		Records: []onboarding.Record{
			{ID: 1, Name: "Bar 1 | Jan Peeters", QRCode: "a1b2", Roles: "sales", PaymentMethods: "CARD, CASH"},
			{ID: 2, Name: "Topup | Els Maes", QRCode: "c3d4", Roles: "top_up"},
		},
		Matches: map[string]onboarding.Match{
			"Bar 1 | Jan Peeters": {
				User:       &onboarding.User{FirstName: "Jan", LastName: "Peeters", Email: "janpeeters@summercamp.be", QRCode: "u1"},
				Candidates: 1,
			},
		},
		Currencies: []onboarding.Currency{
			{Name: "Token", ExchangeRate: decimal.RequireFromString("2.50"), BurningWeight: decimal.NewFromInt(1)},
		},
		Event:     &onboarding.Event{Name: "Summercamp", Start: &start},
		FetchedAt: start,
	}
}

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, onboarding.VariantGuest, sampleSnapshot()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	variant, got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if variant != onboarding.VariantGuest {
		t.Errorf("variant = %q, want guest", variant)
	}
	if len(got.Records) != 2 || got.Records[1].Roles != "top_up" {
		t.Errorf("records = %+v", got.Records)
	}
	m, ok := got.Matches["Bar 1 | Jan Peeters"]
	if !ok || !m.Found() || m.User.Email != "janpeeters@summercamp.be" {
		t.Errorf("match = %+v", m)
	}
	if !got.Currencies[0].ExchangeRate.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("exchange rate = %s", got.Currencies[0].ExchangeRate)
	}
	if got.Event == nil || got.Event.Start == nil || !got.Event.Start.Equal(*sampleSnapshot().Event.Start) {
		t.Errorf("event = %+v", got.Event)
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summercamp.json")
	if err := ExportJSON(path, onboarding.VariantApplication, sampleSnapshot()); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	variant, s, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if variant != onboarding.VariantApplication || s.Tenant.ID != "summercamp" {
		t.Errorf("got %q / %q", variant, s.Tenant.ID)
	}
}

func TestReadJSONRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"malformed", `{`, "decode"},
		{"version", `{"version": 2, "variant": "guest", "snapshot": {"tenant": {"id": "x"}}}`, "version"},
		{"variant", `{"version": 1, "variant": "kiosk", "snapshot": {"tenant": {"id": "x"}}}`, "variant"},
		{"no snapshot", `{"version": 1, "variant": "guest"}`, "tenant"},
		{"no tenant", `{"version": 1, "variant": "guest", "snapshot": {"records": []}}`, "tenant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, _, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
