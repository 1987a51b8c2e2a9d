package pipeline

import (
	"context"
	"errors"
	"time"

	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/observability"
	"github.com/KaiDries/OnboardingQR/pkg/onboarding"
	"github.com/KaiDries/OnboardingQR/pkg/store"
)

// Fetch gathers everything a document needs for tenant straight from the
// data fetcher. Only the onboarding records are required: currencies,
// the event and the refund window are marked unavailable or left empty
// when their lookup fails, and guest documents get best-effort user
// matches.
func (r *Runner) Fetch(ctx context.Context, tenant onboarding.Tenant, opts Options) (snap *onboarding.Snapshot, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForFetch(); err != nil {
		return nil, err
	}
	if err := r.requireStore(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnFetchStart(ctx, tenant.ID)
	defer func() {
		records := 0
		if snap != nil {
			records = len(snap.Records)
		}
		hooks.OnFetchComplete(ctx, tenant.ID, records, time.Since(start), err)
	}()

	records, err := r.Store.Onboardings(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	snap = &onboarding.Snapshot{
		Tenant:    tenant,
		Records:   records,
		FetchedAt: time.Now(),
	}
	if len(records) == 0 {
		logger.Warn("no onboarding records", "tenant", tenant.ID)
	}

	currencies, err := r.Store.Currencies(ctx, tenant.ID)
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case err != nil:
		logger.Warn("currencies unavailable", "tenant", tenant.ID, "err", err)
		snap.CurrenciesUnavailable = true
	default:
		snap.Currencies = currencies
	}

	if name := snap.EventName(); name != "" {
		event, err := r.Store.Event(ctx, tenant.ID, name)
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.Is(err, store.ErrNotFound):
			logger.Debug("event not found", "event", name)
		case err != nil:
			logger.Warn("event details unavailable", "event", name, "err", err)
			snap.EventUnavailable = true
		default:
			snap.Event = event
		}
	}

	centralID := opts.centralID(tenant)
	refund, err := r.Store.RefundWindow(ctx, centralID)
	switch {
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.Is(err, store.ErrNotFound):
		logger.Debug("no tenant settings", "central_id", centralID)
	case err != nil:
		logger.Warn("refund window unavailable", "central_id", centralID, "err", err)
		snap.RefundUnavailable = true
	default:
		snap.Refund = refund
	}

	if opts.Variant == onboarding.VariantGuest {
		matches, rows, err := onboarding.MatchUsers(ctx, r.Store, tenant, records, logger)
		if err != nil {
			return nil, err
		}
		snap.Matches = matches
		snap.ImportRows = rows
	}
	return snap, nil
}

// requireRecords rejects an empty snapshot unless the options allow it.
func requireRecords(snap *onboarding.Snapshot, opts Options) error {
	if len(snap.Records) == 0 && !opts.AllowEmpty {
		return errs.New(errs.ErrCodeNoRecords, "tenant %s has no onboarding records", snap.Tenant.ID)
	}
	return nil
}
