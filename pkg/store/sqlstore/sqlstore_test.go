package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/shopspring/decimal"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/retry"
	"github.com/KaiDries/OnboardingQR/pkg/store"
)

const centralSchema = `
CREATE TABLE domains (id INTEGER PRIMARY KEY, tenant_id TEXT NOT NULL, domain TEXT NOT NULL);
CREATE TABLE tenants (id TEXT PRIMARY KEY, data TEXT);

INSERT INTO domains (tenant_id, domain) VALUES
	('summercamp', 'summercamp.anykrowd.app'),
	('summercamp-2025', 'sc25.anykrowd.app'),
	('rockfest', 'rockfest.anykrowd.app');

INSERT INTO tenants (id, data) VALUES
	('summercamp', '{"enable_refund_scheduler": "true", "refund_start_datetime": "2025-07-04T10:00:00Z", "refund_end_datetime": "2025-07-06T22:00:00.000000Z"}'),
	('rockfest', '{"enable_refund_scheduler": false}'),
	('empty', NULL);
`

const tenantSchema = `
CREATE TABLE locations (id INTEGER PRIMARY KEY, name TEXT);
CREATE TABLE sale_catalogues (id INTEGER PRIMARY KEY, name TEXT);
CREATE TABLE events (id INTEGER PRIMARY KEY, name TEXT, start_datetime TEXT, end_datetime TEXT);
CREATE TABLE onboardings (
	id INTEGER PRIMARY KEY, name TEXT, qr_code TEXT,
	location_id INTEGER, sale_catalogue_id INTEGER, event_id INTEGER, deleted_at TEXT
);
CREATE TABLE roles (id INTEGER PRIMARY KEY, rights TEXT, deleted_at TEXT);
CREATE TABLE roleables (role_id INTEGER, roleable_id INTEGER, roleable_type TEXT);
CREATE TABLE users (id INTEGER PRIMARY KEY, firstname TEXT, lastname TEXT, email TEXT);
CREATE TABLE rfid_tags (id INTEGER PRIMARY KEY, qr_code TEXT);
CREATE TABLE user_rfid_tags (user_id INTEGER, rfid_tag_id INTEGER);
CREATE TABLE currencies (
	id INTEGER PRIMARY KEY, name TEXT, exchange_rate TEXT, burning_weight TEXT,
	staffx_order INTEGER, clientx_order INTEGER, show_in_clientx INTEGER
);

INSERT INTO locations VALUES (1, 'Main stage');
INSERT INTO sale_catalogues VALUES (1, 'Drinks');
INSERT INTO events VALUES (1, 'Summercamp 2025', '2025-07-04 14:00:00', '2025-07-06 23:30:00');

INSERT INTO onboardings VALUES
	(1, 'Bar 1 | Jan Peeters', 'qr-bar1', 1, 1, 1, NULL),
	(2, 'Topup | Els Maes', 'qr-topup', 1, NULL, 1, NULL),
	(3, 'Entrance', 'qr-entrance', NULL, NULL, 1, NULL),
	(4, 'Old bar', 'qr-old', 1, 1, 1, '2024-01-01 00:00:00');

INSERT INTO roles VALUES
	(1, '{"sales_manager": true, "card_transactions": true, "cash_transactions": 1}', NULL),
	(2, '{"top_up": "true", "qr_transactions": true, "rfid_transactions": true}', NULL),
	(3, '{"entrance": true}', NULL),
	(4, 'not json', NULL),
	(5, '{"top_up": true}', '2024-01-01 00:00:00');

INSERT INTO roleables VALUES
	(1, 1, 'App\Models\Tenant\Onboarding'),
	(2, 2, 'App\Models\Tenant\Onboarding'),
	(1, 2, 'App\Models\Tenant\Onboarding'),
	(3, 3, 'App\Models\Tenant\Onboarding'),
	(4, 3, 'App\Models\Tenant\Onboarding'),
	(5, 3, 'App\Models\Tenant\Onboarding'),
	(2, 1, 'App\Models\Tenant\User');

INSERT INTO users VALUES
	(1, 'Jan', 'Peeters', 'janpeeters@summercamp.be'),
	(2, 'Jan', 'Peeters', 'janpeeters@gmail.com'),
	(3, 'Jan', 'Peeters', 'janpeeters2@summercamp.be'),
	(4, 'Jan', 'Peeters', 'janpeeters3@summercamp.be'),
	(5, 'Els', 'Maes', 'elsmaes@summercamp.be');

INSERT INTO rfid_tags VALUES (1, 'tag-1'), (2, 'tag-2'), (3, 'tag-3'), (4, ''), (5, NULL);
INSERT INTO user_rfid_tags VALUES (1, 1), (2, 2), (3, 3), (4, 4), (5, 5);

INSERT INTO currencies VALUES
	(1, 'Voucher', '0', '3', 3, 3, 1),
	(2, 'Token', '2.50', '1', 1, 1, 1),
	(3, 'Hidden', '1', '0', 0, 0, 0),
	(4, 'Euro', '1', '2', 2, 2, 1);
`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	exec(t, filepath.Join(dir, "central-mc.db"), centralSchema)
	exec(t, filepath.Join(dir, "tenant-summercamp.db"), tenantSchema)

	loc, err := time.LoadLocation("Europe/Brussels")
	if err != nil {
		t.Fatal(err)
	}
	s, err := New(Options{
		Driver:               "sqlite",
		SQLiteDir:            dir,
		Location:             loc,
		Retry:                retry.Policy{Attempts: 1},
		ExcludedEmailDomains: []string{"gmail.com", "@hotmail.com"},
		Logger:               log.New(io.Discard),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func exec(t *testing.T, path, script string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if _, err := db.Exec(script); err != nil {
		t.Fatalf("apply schema to %s: %v", path, err)
	}
}

func TestFindTenant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tenant, err := s.FindTenant(ctx, "summercamp")
	if err != nil {
		t.Fatalf("FindTenant: %v", err)
	}
	if tenant.Domain != "summercamp.anykrowd.app" {
		t.Errorf("Domain = %q", tenant.Domain)
	}

	_, err = s.FindTenant(ctx, "summer")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("partial slug: err = %v, want ErrNotFound", err)
	}
}

func TestSearchTenants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"summer", 0, []string{"summercamp", "summercamp-2025"}},
		{"SUMMER", 1, []string{"summercamp"}},
		{"rockfest.anykrowd", 0, []string{"rockfest"}},
		{"nothing", 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := s.SearchTenants(ctx, tt.query, tt.limit)
			if err != nil {
				t.Fatalf("SearchTenants: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tenants, want %d: %+v", len(got), len(tt.want), got)
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Errorf("tenant[%d] = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestOnboardings(t *testing.T) {
	s := newTestStore(t)

	records, err := s.Onboardings(context.Background(), "summercamp")
	if err != nil {
		t.Fatalf("Onboardings: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3 (deleted onboarding excluded): %+v", len(records), records)
	}

	tests := []struct {
		name, roles, payments, location, sales string
	}{
		{"Bar 1 | Jan Peeters", "sales", "CARD, CASH", "Main stage", "Drinks"},
		{"Topup | Els Maes", "top_up, sales", "CARD, CASH, QR, RFID", "Main stage", ""},
		{"Entrance", "entrance", "", "", ""},
	}
	for i, tt := range tests {
		r := records[i]
		if r.Name != tt.name {
			t.Errorf("record[%d].Name = %q, want %q", i, r.Name, tt.name)
		}
		if r.Roles != tt.roles {
			t.Errorf("%s: Roles = %q, want %q", tt.name, r.Roles, tt.roles)
		}
		if r.PaymentMethods != tt.payments {
			t.Errorf("%s: PaymentMethods = %q, want %q", tt.name, r.PaymentMethods, tt.payments)
		}
		if r.Location != tt.location || r.Sales != tt.sales {
			t.Errorf("%s: location/sales = %q/%q", tt.name, r.Location, r.Sales)
		}
		if r.Event != "Summercamp 2025" {
			t.Errorf("%s: Event = %q", tt.name, r.Event)
		}
	}
	if !records[1].HasTopUp() {
		t.Error("top-up onboarding should report HasTopUp")
	}
}

func TestFindUsers(t *testing.T) {
	s := newTestStore(t)

	users, err := s.FindUsers(context.Background(), "summercamp", "janpeeters")
	if err != nil {
		t.Fatalf("FindUsers: %v", err)
	}
	// gmail is excluded, janpeeters3 has an empty QR tag.
	want := []string{"janpeeters2@summercamp.be", "janpeeters@summercamp.be"}
	if len(users) != len(want) {
		t.Fatalf("got %d users, want %d: %+v", len(users), len(want), users)
	}
	for i, email := range want {
		if users[i].Email != email {
			t.Errorf("users[%d] = %q, want %q", i, users[i].Email, email)
		}
	}
	if users[1].QRCode != "tag-1" || users[1].FirstName != "Jan" {
		t.Errorf("user = %+v", users[1])
	}

	none, err := s.FindUsers(context.Background(), "summercamp", "elsmaes")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("user without QR tag returned: %+v", none)
	}
}

func TestEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e, err := s.Event(ctx, "summercamp", "Summercamp 2025")
	if err != nil {
		t.Fatalf("Event: %v", err)
	}
	if e.Start == nil || e.End == nil {
		t.Fatalf("event times missing: %+v", e)
	}
	if got := e.Start.Format("02/01/2006 15:04"); got != "04/07/2025 14:00" {
		t.Errorf("start = %s", got)
	}

	if _, err := s.Event(ctx, "summercamp", "Wintercamp"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown event: err = %v, want ErrNotFound", err)
	}
}

func TestCurrencies(t *testing.T) {
	s := newTestStore(t)

	cs, err := s.Currencies(context.Background(), "summercamp")
	if err != nil {
		t.Fatalf("Currencies: %v", err)
	}
	want := []string{"Token", "Euro", "Voucher"}
	if len(cs) != len(want) {
		t.Fatalf("got %d currencies, want %d", len(cs), len(want))
	}
	for i, name := range want {
		if cs[i].Name != name {
			t.Errorf("currency[%d] = %q, want %q", i, cs[i].Name, name)
		}
	}
	if !cs[0].ExchangeRate.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("Token rate = %s", cs[0].ExchangeRate)
	}
	if cs[2].StaffOrder != 3 || cs[2].ClientOrder != 3 {
		t.Errorf("Voucher orders = %d/%d", cs[2].StaffOrder, cs[2].ClientOrder)
	}
}

func TestRefundWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w, err := s.RefundWindow(ctx, "summercamp")
	if err != nil {
		t.Fatalf("RefundWindow: %v", err)
	}
	if !w.Visible() {
		t.Fatalf("window should be visible: %+v", w)
	}
	// 10:00 UTC is 12:00 in Brussels summer time.
	if got := w.Start.Format("02/01/2006 15:04"); got != "04/07/2025 12:00" {
		t.Errorf("start = %s", got)
	}
	if got := w.End.Format("02/01/2006 15:04"); got != "07/07/2025 00:00" {
		t.Errorf("end = %s", got)
	}

	off, err := s.RefundWindow(ctx, "rockfest")
	if err != nil {
		t.Fatal(err)
	}
	if off.Enabled || off.Visible() {
		t.Errorf("rockfest window = %+v, want disabled", off)
	}

	empty, err := s.RefundWindow(ctx, "empty")
	if err != nil {
		t.Fatal(err)
	}
	if empty.Visible() {
		t.Error("NULL settings should give an invisible window")
	}

	if _, err := s.RefundWindow(ctx, "unknown"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown tenant: err = %v, want ErrNotFound", err)
	}
}

func TestMissingDatabase(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Onboardings(context.Background(), "nosuchtenant")
	if err == nil {
		t.Fatal("expected error for a missing tenant database")
	}
	if !errs.Is(err, errs.ErrCodeDatabase) {
		t.Errorf("code = %v, want %v", errs.GetCode(err), errs.ErrCodeDatabase)
	}
}

func TestNewRejectsDriver(t *testing.T) {
	_, err := New(Options{Driver: "oracle"})
	if !errs.Is(err, errs.ErrCodeConfig) {
		t.Errorf("err = %v, want CONFIG error", err)
	}
}
