// Package store defines the data fetcher that reads tenants, onboarding
// records and their surroundings from the platform databases.
//
// The platform keeps one central database (domains, tenants) and one
// database per tenant. Implementations hide that split: callers pass a
// tenant id and the store picks the database. See package sqlstore for
// the database/sql implementation.
package store

import (
	"context"
	"errors"

	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
)

// ErrNotFound is returned when a tenant, event or tenant settings row
// does not exist.
var ErrNotFound = errors.New("not found")

// Store is the data fetcher. Every method honours ctx; none of them
// retries a failed query, only connection setup is retried.
type Store interface {
	// FindTenant resolves a slug by exact tenant id.
	FindTenant(ctx context.Context, slug string) (onboarding.Tenant, error)

	// SearchTenants returns tenants whose id or domain contains query,
	// ordered by id. A non-positive limit returns all matches.
	SearchTenants(ctx context.Context, query string, limit int) ([]onboarding.Tenant, error)

	// Onboardings returns the tenant's active onboarding records with
	// their roles and payment methods resolved.
	Onboardings(ctx context.Context, tenantID string) ([]onboarding.Record, error)

	// FindUsers returns users carrying a QR-enabled RFID tag whose email
	// contains localPart, ordered by email.
	FindUsers(ctx context.Context, tenantID, localPart string) ([]onboarding.User, error)

	// Event returns the event called name.
	Event(ctx context.Context, tenantID, name string) (*onboarding.Event, error)

	// Currencies returns the currencies visible in client apps ordered by
	// burning weight.
	Currencies(ctx context.Context, tenantID string) ([]onboarding.Currency, error)

	// RefundWindow reads the refund scheduler settings stored for a
	// tenant in the central database.
	RefundWindow(ctx context.Context, centralID string) (*onboarding.RefundWindow, error)

	Close() error
}
