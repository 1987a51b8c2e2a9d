package layout

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

func records(n int, topUp ...int) []onboarding.Record {
	rs := make([]onboarding.Record, n)
	for i := range rs {
		rs[i] = onboarding.Record{Name: fmt.Sprintf("station %d", i+1), Roles: "sales"}
	}
	for _, i := range topUp {
		rs[i].Roles = "top_up, sales"
	}
	return rs
}

func TestBuildTotals(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		topUp    []int
		want     int
		separate bool
	}{
		{"empty", 0, nil, 1, false},
		{"one record", 1, nil, 2, false},
		{"fifteen embeds currencies", 15, nil, 16, false},
		{"sixteen splits currencies", 16, nil, 18, true},
		{"top-up adds manual", 3, []int{1}, 5, false},
		{"split and manuals", 20, []int{0, 19}, 1 + 1 + 20 + 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := records(tt.n, tt.topUp...)
			p := Build(rs, Limits{})

			if p.Total() != tt.want {
				t.Errorf("Total() = %d, want %d", p.Total(), tt.want)
			}
			if got := TotalPages(rs, DefaultLimits()); got != tt.want {
				t.Errorf("TotalPages() = %d, want %d", got, tt.want)
			}
			if p.SeparateCurrencies != tt.separate {
				t.Errorf("SeparateCurrencies = %v, want %v", p.SeparateCurrencies, tt.separate)
			}
			if p.Count(KindCurrencies) != map[bool]int{true: 1, false: 0}[tt.separate] {
				t.Errorf("currencies pages = %d", p.Count(KindCurrencies))
			}
		})
	}
}

func TestBuildOrdinals(t *testing.T) {
	p := Build(records(17, 2, 16), Limits{})

	for i, pg := range p.Pages {
		if pg.Ordinal != i+1 {
			t.Fatalf("page %d has ordinal %d", i, pg.Ordinal)
		}
	}
	if p.Pages[0].Kind != KindOverview {
		t.Errorf("first page = %v, want overview", p.Pages[0].Kind)
	}
	if p.Pages[1].Kind != KindCurrencies {
		t.Errorf("second page = %v, want currencies", p.Pages[1].Kind)
	}
	for i, pg := range p.Pages {
		if pg.Kind != KindManual {
			continue
		}
		prev := p.Pages[i-1]
		if prev.Kind != KindDetail || prev.Record != pg.Record {
			t.Errorf("manual page %d does not follow its detail page (prev %+v)", pg.Ordinal, prev)
		}
	}
}

func TestBuildManualPlacement(t *testing.T) {
	rs := []onboarding.Record{
		{Name: "bar", Roles: "sales"},
		{Name: "cash desk", Roles: "TOP-UP"},
		{Name: "gate", Roles: "entrance"},
	}

	got := Build(rs, Limits{}).Kinds()
	want := []Kind{KindOverview, KindDetail, KindDetail, KindManual, KindDetail}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Kinds() = %v, want %v", got, want)
	}
}

func TestBuildDeterministic(t *testing.T) {
	rs := records(30, 3, 4, 29)
	a := Build(rs, Limits{})
	b := Build(rs, Limits{})

	if !reflect.DeepEqual(a, b) {
		t.Error("two plans of the same records differ")
	}
}

func TestBuildCustomThreshold(t *testing.T) {
	p := Build(records(5), Limits{CurrencyPageThreshold: 4})
	if !p.SeparateCurrencies || p.Total() != 7 {
		t.Errorf("threshold 4 with 5 records: separate=%v total=%d", p.SeparateCurrencies, p.Total())
	}
}

func TestLimitsValidate(t *testing.T) {
	if err := DefaultLimits().Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
	tests := []struct {
		name   string
		limits Limits
	}{
		{"negative", Limits{MaxCurrencyRows: -1}},
		{"too many currency rows", Limits{MaxCurrencyRows: MaxCurrencyRowsLimit + 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.limits.Validate(); err == nil {
				t.Errorf("%+v should be rejected", tt.limits)
			}
		})
	}
	if err := (Limits{MaxCurrencyRows: MaxCurrencyRowsLimit}).Validate(); err != nil {
		t.Errorf("limit itself rejected: %v", err)
	}
}

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{
		KindOverview:   "overview",
		KindCurrencies: "currencies",
		KindDetail:     "detail",
		KindManual:     "manual",
		Kind(9):        "kind(9)",
	} {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(k), k.String(), want)
		}
	}
}
