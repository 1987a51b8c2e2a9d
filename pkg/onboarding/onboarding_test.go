package onboarding

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestRecordHasTopUp(t *testing.T) {
	tests := []struct {
		roles string
		want  bool
	}{
		{"top_up", true},
		{"TOPUP", true},
		{"sales, Top-Up", true},
		{"sales, entrance", false},
		{"", false},
		{"top up", false},
	}

	for _, tt := range tests {
		t.Run(tt.roles, func(t *testing.T) {
			r := Record{Roles: tt.roles}
			if got := r.HasTopUp(); got != tt.want {
				t.Errorf("HasTopUp(%q) = %v, want %v", tt.roles, got, tt.want)
			}
		})
	}
}

func TestRecordIsTopUpStation(t *testing.T) {
	if !(Record{Roles: "TOP_UP, sales"}).IsTopUpStation() {
		t.Error("TOP_UP should suppress payment methods")
	}
	if (Record{Roles: "topup"}).IsTopUpStation() {
		t.Error("only the canonical top_up tag suppresses payment methods")
	}
}

func TestSortCurrencies(t *testing.T) {
	in := []Currency{
		{Name: "drink", BurningWeight: decimal.NewFromInt(3)},
		{Name: "food", BurningWeight: decimal.RequireFromString("1.5")},
		{Name: "crew", BurningWeight: decimal.Zero},
		{Name: "vip", BurningWeight: decimal.NewFromInt(3)},
	}

	got := SortCurrencies(in)
	want := []string{"crew", "food", "drink", "vip"}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, got[i].Name, name)
		}
	}
	if in[0].Name != "drink" {
		t.Error("SortCurrencies must not reorder its input")
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in    string
		want  Variant
		valid bool
	}{
		{"app", VariantApplication, true},
		{"Application", VariantApplication, true},
		{"", VariantApplication, true},
		{"guest", VariantGuest, true},
		{"kiosk", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseVariant(tt.in)
		if got != tt.want || ok != tt.valid {
			t.Errorf("ParseVariant(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.valid)
		}
	}
	if VariantGuest.Token() != "guest" || VariantApplication.Token() != "app" {
		t.Error("unexpected variant tokens")
	}
}

func TestRefundWindowVisible(t *testing.T) {
	var nilWindow *RefundWindow
	if nilWindow.Visible() {
		t.Error("nil window should be hidden")
	}
	if (&RefundWindow{Enabled: false}).Visible() {
		t.Error("disabled window should be hidden")
	}
	if (&RefundWindow{Enabled: true}).Visible() {
		t.Error("window without times should be hidden")
	}
}
