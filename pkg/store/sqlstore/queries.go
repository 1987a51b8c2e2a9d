package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
	"github.com/KaiDries/OnboardingQR/pkg/store"
)

// onboardingRoleable is the morph type under which roles are attached
// to onboardings.
const onboardingRoleable = `App\Models\Tenant\Onboarding`

// =============================================================================
// Central database
// =============================================================================

func (s *Store) FindTenant(ctx context.Context, slug string) (onboarding.Tenant, error) {
	var tenants []onboarding.Tenant
	err := s.query(ctx, s.opts.Central, "find_tenant",
		`SELECT tenant_id, domain FROM domains WHERE tenant_id = ? LIMIT 1`,
		[]any{slug}, func(rows *sql.Rows) error {
			var t onboarding.Tenant
			if err := rows.Scan(&t.ID, &t.Domain); err != nil {
				return err
			}
			tenants = append(tenants, t)
			return nil
		})
	if err != nil {
		return onboarding.Tenant{}, err
	}
	if len(tenants) == 0 {
		return onboarding.Tenant{}, fmt.Errorf("tenant %q: %w", slug, store.ErrNotFound)
	}
	return tenants[0], nil
}

func (s *Store) SearchTenants(ctx context.Context, query string, limit int) ([]onboarding.Tenant, error) {
	q := fmt.Sprintf(`SELECT tenant_id, domain FROM domains
		WHERE tenant_id %[1]s ? OR domain %[1]s ?
		ORDER BY tenant_id`, s.dialect.like)
	pattern := "%" + query + "%"
	args := []any{pattern, pattern}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	var tenants []onboarding.Tenant
	err := s.query(ctx, s.opts.Central, "search_tenants", q, args, func(rows *sql.Rows) error {
		var t onboarding.Tenant
		if err := rows.Scan(&t.ID, &t.Domain); err != nil {
			return err
		}
		tenants = append(tenants, t)
		return nil
	})
	return tenants, err
}

func (s *Store) RefundWindow(ctx context.Context, centralID string) (*onboarding.RefundWindow, error) {
	var (
		found bool
		data  rawJSON
	)
	err := s.query(ctx, s.opts.Central, "refund_window",
		`SELECT data FROM tenants WHERE id = ?`,
		[]any{centralID}, func(rows *sql.Rows) error {
			found = true
			return rows.Scan(&data)
		})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("tenant settings %q: %w", centralID, store.ErrNotFound)
	}
	if len(data) == 0 {
		return &onboarding.RefundWindow{}, nil
	}

	var settings tenantSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("decode tenant settings %q: %w", centralID, err)
	}
	w := &onboarding.RefundWindow{Enabled: settings.refundEnabled()}
	loc := s.opts.location()
	if w.Start, err = parseTime(settings.RefundStart, loc); err != nil {
		s.logger.Warn("ignoring refund start", "tenant", centralID, "err", err)
	}
	if w.End, err = parseTime(settings.RefundEnd, loc); err != nil {
		s.logger.Warn("ignoring refund end", "tenant", centralID, "err", err)
	}
	return w, nil
}

// =============================================================================
// Tenant database
// =============================================================================

// Onboardings returns one record per onboarding. An onboarding linked to
// several roles yields several joined rows; their rights are merged.
func (s *Store) Onboardings(ctx context.Context, tenantID string) ([]onboarding.Record, error) {
	const q = `SELECT o.id, o.name, o.qr_code, l.name, sc.name, e.name, r.rights
		FROM onboardings o
		LEFT JOIN locations l ON o.location_id = l.id
		LEFT JOIN sale_catalogues sc ON o.sale_catalogue_id = sc.id
		LEFT JOIN events e ON o.event_id = e.id
		LEFT JOIN roleables rbl ON rbl.roleable_type = ? AND rbl.roleable_id = o.id
		LEFT JOIN roles r ON rbl.role_id = r.id AND r.deleted_at IS NULL
		WHERE o.deleted_at IS NULL
		ORDER BY o.id`

	var (
		records []onboarding.Record
		rights  []onboarding.Rights
	)
	index := make(map[int64]int)
	err := s.query(ctx, s.TenantDatabase(tenantID), "onboardings", q,
		[]any{onboardingRoleable}, func(rows *sql.Rows) error {
			var (
				id                     int64
				name, code             sql.NullString
				location, sales, event sql.NullString
				raw                    rawJSON
			)
			if err := rows.Scan(&id, &name, &code, &location, &sales, &event, &raw); err != nil {
				return err
			}

			i, seen := index[id]
			if !seen {
				i = len(records)
				index[id] = i
				records = append(records, onboarding.Record{
					ID:       id,
					Name:     strings.TrimSpace(name.String),
					QRCode:   code.String,
					Location: location.String,
					Sales:    sales.String,
					Event:    event.String,
				})
				rights = append(rights, onboarding.Rights{})
			}

			r, err := onboarding.ParseRights(raw)
			if err != nil {
				s.logger.Warn("ignoring invalid role rights", "onboarding", id, "err", err)
				return nil
			}
			rights[i] = rights[i].Merge(r)
			return nil
		})
	if err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Roles = rights[i].Roles()
		records[i].PaymentMethods = rights[i].PaymentMethods()
	}
	return records, nil
}

func (s *Store) FindUsers(ctx context.Context, tenantID, localPart string) ([]onboarding.User, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `SELECT u.firstname, u.lastname, u.email, rt.qr_code
		FROM users u
		INNER JOIN user_rfid_tags urt ON u.id = urt.user_id
		INNER JOIN rfid_tags rt ON urt.rfid_tag_id = rt.id
		WHERE u.email %s ?`, s.dialect.like)
	args := []any{"%" + localPart + "%"}
	for _, domain := range s.opts.ExcludedEmailDomains {
		fmt.Fprintf(&b, " AND u.email NOT %s ?", s.dialect.like)
		args = append(args, "%@"+strings.TrimPrefix(domain, "@"))
	}
	b.WriteString(" AND rt.qr_code IS NOT NULL AND rt.qr_code <> '' ORDER BY u.email")

	var users []onboarding.User
	err := s.query(ctx, s.TenantDatabase(tenantID), "find_users", b.String(), args, func(rows *sql.Rows) error {
		var first, last sql.NullString
		var u onboarding.User
		if err := rows.Scan(&first, &last, &u.Email, &u.QRCode); err != nil {
			return err
		}
		u.FirstName, u.LastName = first.String, last.String
		users = append(users, u)
		return nil
	})
	return users, err
}

func (s *Store) Event(ctx context.Context, tenantID, name string) (*onboarding.Event, error) {
	var event *onboarding.Event
	loc := s.opts.location()
	err := s.query(ctx, s.TenantDatabase(tenantID), "event",
		`SELECT name, start_datetime, end_datetime FROM events WHERE name = ? LIMIT 1`,
		[]any{name}, func(rows *sql.Rows) error {
			start, end := timeValue{loc: loc}, timeValue{loc: loc}
			e := &onboarding.Event{}
			if err := rows.Scan(&e.Name, &start, &end); err != nil {
				return err
			}
			e.Start, e.End = start.t, end.t
			event = e
			return nil
		})
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("event %q: %w", name, store.ErrNotFound)
	}
	return event, nil
}

func (s *Store) Currencies(ctx context.Context, tenantID string) ([]onboarding.Currency, error) {
	q := fmt.Sprintf(`SELECT name, exchange_rate, burning_weight, staffx_order, clientx_order
		FROM currencies
		WHERE show_in_clientx = %s
		ORDER BY burning_weight ASC`, s.dialect.truthy)

	var currencies []onboarding.Currency
	err := s.query(ctx, s.TenantDatabase(tenantID), "currencies", q, nil, func(rows *sql.Rows) error {
		var (
			name          sql.NullString
			rate, weight  decimal.NullDecimal
			staff, client sql.NullInt64
		)
		if err := rows.Scan(&name, &rate, &weight, &staff, &client); err != nil {
			return err
		}
		currencies = append(currencies, onboarding.Currency{
			Name:          name.String,
			ExchangeRate:  rate.Decimal,
			BurningWeight: weight.Decimal,
			StaffOrder:    int(staff.Int64),
			ClientOrder:   int(client.Int64),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return onboarding.SortCurrencies(currencies), nil
}
