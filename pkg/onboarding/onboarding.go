// Package onboarding holds the data model shared by the fetcher, the
// planner and the renderer.
//
// Everything here is plain data. Records are immutable once fetched: the
// renderer reads them, nothing writes them back.
package onboarding

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is one onboarding configuration: a staff member or a station
// that receives its own QR code and detail page.
type Record struct {
	ID             int64  `json:"id,omitempty"`
	Name           string `json:"name"`
	QRCode         string `json:"qr_code"`
	Location       string `json:"location,omitempty"`
	Sales          string `json:"sales,omitempty"`
	Event          string `json:"event,omitempty"`
	Roles          string `json:"roles,omitempty"`
	PaymentMethods string `json:"payment_methods,omitempty"`
}

var topUpTags = []string{"topup", "top_up", "top-up"}

// HasTopUp reports whether the role tags mark a top-up capable station.
// Any casing of "topup", "top_up" or "top-up" counts.
func (r Record) HasTopUp() bool {
	roles := strings.ToLower(r.Roles)
	for _, tag := range topUpTags {
		if strings.Contains(roles, tag) {
			return true
		}
	}
	return false
}

// IsTopUpStation reports whether payment methods should be hidden on the
// detail page. Only the canonical top_up tag suppresses them.
func (r Record) IsTopUpStation() bool {
	return strings.Contains(strings.ToLower(r.Roles), TagTopUp)
}

// User is a tenant user with an RFID tag that carries a QR token.
type User struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	QRCode    string `json:"qr_code"`
}

// LocalPart returns the part of the email before the @.
func (u User) LocalPart() string {
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// Currency is a tenant currency shown in client apps.
type Currency struct {
	Name          string          `json:"name"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	BurningWeight decimal.Decimal `json:"burning_weight"`
	StaffOrder    int             `json:"staff_order"`
	ClientOrder   int             `json:"client_order"`
}

// SortCurrencies returns a copy of cs ordered by ascending burning weight.
// Equal weights keep their input order.
func SortCurrencies(cs []Currency) []Currency {
	out := slices.Clone(cs)
	slices.SortStableFunc(out, func(a, b Currency) int {
		return a.BurningWeight.Cmp(b.BurningWeight)
	})
	return out
}

// Tenant is a resolved tenant: its id in the central database and the
// domain its apps are served from.
type Tenant struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
}

// Event holds the event times shown on the overview page.
type Event struct {
	Name  string     `json:"name"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// RefundWindow is the refund scheduler configuration of a tenant.
type RefundWindow struct {
	Enabled bool       `json:"enabled"`
	Start   *time.Time `json:"start,omitempty"`
	End     *time.Time `json:"end,omitempty"`
}

// Visible reports whether the overview should show the window.
func (w *RefundWindow) Visible() bool {
	return w != nil && w.Enabled && (w.Start != nil || w.End != nil)
}

// Variant selects the document template.
type Variant string

const (
	VariantApplication Variant = "application"
	VariantGuest       Variant = "guest"
)

// Token is the short form used in output file names.
func (v Variant) Token() string {
	if v == VariantGuest {
		return "guest"
	}
	return "app"
}

// ParseVariant accepts the long and short spellings of a variant.
func ParseVariant(s string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "application", "app", "":
		return VariantApplication, true
	case "guest":
		return VariantGuest, true
	}
	return "", false
}

// Snapshot is everything a document needs, gathered once before planning.
type Snapshot struct {
	Tenant  Tenant   `json:"tenant"`
	Records []Record `json:"records"`

	// Matches is keyed by record name and only filled for guest documents.
	Matches map[string]Match `json:"matches,omitempty"`

	Currencies            []Currency `json:"currencies"`
	CurrenciesUnavailable bool       `json:"currencies_unavailable,omitempty"`

	Event            *Event `json:"event,omitempty"`
	EventUnavailable bool   `json:"event_unavailable,omitempty"`

	Refund            *RefundWindow `json:"refund,omitempty"`
	RefundUnavailable bool          `json:"refund_unavailable,omitempty"`

	ImportRows []ImportRow `json:"import_rows,omitempty"`
	FetchedAt  time.Time   `json:"fetched_at"`
}

// EventName returns the event of the first record, which the overview
// uses as the document's event.
func (s *Snapshot) EventName() string {
	if len(s.Records) == 0 {
		return ""
	}
	return s.Records[0].Event
}

// Match returns the user match for a record, if any was looked up.
func (s *Snapshot) Match(r Record) (Match, bool) {
	m, ok := s.Matches[r.Name]
	return m, ok
}

