package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/KaiDries/OnboardingQR/pkg/cache"
	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/i18n"
	snapio "github.com/KaiDries/OnboardingQR/pkg/io"
	"github.com/KaiDries/OnboardingQR/pkg/observability"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
	"github.com/KaiDries/OnboardingQR/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its collaborators: it doesn't keep
// results between runs. It is not meant for concurrent use; a run is
// strictly sequential.
type Runner struct {
	Store  store.Store
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Bundle holds the page translations. Loaded on first use when nil.
	Bundle *i18n.Bundle
}

// NewRunner creates a runner around a data fetcher.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The store may be nil for runs that only render saved snapshots.
func NewRunner(st store.Store, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Store:  st,
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete fetch → plan → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Fetch
	fetchStart := time.Now()
	tenant, err := r.ResolveTenant(ctx, opts)
	if err != nil {
		return nil, err
	}
	snap, hit, err := r.FetchWithCacheInfo(ctx, tenant, opts)
	if err != nil {
		return nil, err
	}
	fetchTime := time.Since(fetchStart)

	r.Logger.Info("fetched records",
		"tenant", tenant.ID,
		"count", len(snap.Records),
		"cached", hit,
		"duration", fetchTime)

	// Stages 2 and 3: Plan and Render
	result, err := r.Generate(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.FetchTime = fetchTime
	result.CacheInfo.SnapshotHit = hit
	return result, nil
}

// ResolveTenant turns the options into a tenant. A manual tenant id and
// domain skip the lookup; otherwise the slug must match a tenant id
// exactly. A miss is reported as TENANT_NOT_FOUND so callers can fall
// back to [Runner.SearchTenants].
func (r *Runner) ResolveTenant(ctx context.Context, opts Options) (onboarding.Tenant, error) {
	if err := opts.ValidateForFetch(); err != nil {
		return onboarding.Tenant{}, err
	}
	if opts.TenantID != "" {
		return onboarding.Tenant{ID: opts.TenantID, Domain: opts.Domain}, nil
	}
	if err := r.requireStore(); err != nil {
		return onboarding.Tenant{}, err
	}

	tenant, err := r.Store.FindTenant(ctx, opts.Tenant)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return onboarding.Tenant{}, errs.Wrap(errs.ErrCodeTenantNotFound, err, "no tenant with id %q", opts.Tenant)
	case err != nil:
		return onboarding.Tenant{}, err
	}
	if opts.Domain != "" {
		tenant.Domain = opts.Domain
	}
	return tenant, nil
}

// SearchTenants lists partial matches for query and reports whether they
// came from the cache.
func (r *Runner) SearchTenants(ctx context.Context, query string, limit int) ([]onboarding.Tenant, bool, error) {
	if err := r.requireStore(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.TenantsKey(fmt.Sprintf("%s|%d", query, limit))
	hooks := observability.Cache()

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var tenants []onboarding.Tenant
		if err := json.Unmarshal(data, &tenants); err == nil {
			hooks.OnCacheHit(ctx, cache.KeyType(key))
			return tenants, true, nil
		}
	}
	hooks.OnCacheMiss(ctx, cache.KeyType(key))

	tenants, err := r.Store.SearchTenants(ctx, query, limit)
	if err != nil {
		return nil, false, err
	}
	if data, err := json.Marshal(tenants); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLTenants); err == nil {
			hooks.OnCacheSet(ctx, cache.KeyType(key), len(data))
		}
	}
	return tenants, false, nil
}

// FetchWithCacheInfo gathers the snapshot for tenant through the cache
// and reports whether it was a hit. Refresh skips the lookup but still
// stores the fresh snapshot.
func (r *Runner) FetchWithCacheInfo(ctx context.Context, tenant onboarding.Tenant, opts Options) (*onboarding.Snapshot, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFetch(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.SnapshotKey(tenant.ID, cache.SnapshotKeyOpts{
		Variant:        string(opts.Variant),
		Database:       opts.Database,
		ExcludeDomains: opts.ExcludeDomains,
	})
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if snap, ok := r.cachedSnapshot(ctx, key, opts.Variant); ok {
			hooks.OnCacheHit(ctx, cache.KeyType(key))
			opts.Logger.Debug("snapshot from cache", "tenant", tenant.ID, "fetched_at", snap.FetchedAt)
			return snap, true, nil
		}
		hooks.OnCacheMiss(ctx, cache.KeyType(key))
	}

	snap, err := r.Fetch(ctx, tenant, opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := snapio.WriteJSON(&buf, opts.Variant, snap); err == nil {
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = cache.TTLSnapshot
		}
		if err := r.Cache.Set(ctx, key, buf.Bytes(), ttl); err != nil {
			opts.Logger.Warn("cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, cache.KeyType(key), buf.Len())
		}
	}
	return snap, false, nil
}

func (r *Runner) cachedSnapshot(ctx context.Context, key string, variant onboarding.Variant) (*onboarding.Snapshot, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		return nil, false
	}
	v, snap, err := snapio.ReadJSON(bytes.NewReader(data))
	if err != nil || v != variant {
		return nil, false
	}
	return snap, true
}

// Close releases the cache and the data fetcher.
func (r *Runner) Close() error {
	var errList []error
	if r.Cache != nil {
		errList = append(errList, r.Cache.Close())
	}
	if r.Store != nil {
		errList = append(errList, r.Store.Close())
	}
	return errors.Join(errList...)
}

// newRunID returns the id embedded in the document subject.
func newRunID() string { return uuid.NewString() }

func (r *Runner) requireStore() error {
	if r.Store == nil {
		return errs.New(errs.ErrCodeConfig, "no database configured")
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
