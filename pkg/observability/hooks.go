// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the registered hooks; main decides which
// backend receives them. The default hooks do nothing, so packages can
// call them unconditionally and tests need no setup.
//
// # Usage
//
// Register hooks at application startup:
//
//	m := observability.NewMetrics()
//	observability.SetPipelineHooks(m)
//	observability.SetQueryHooks(m)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnFetchStart(ctx, tenant)
//	// ... query the tenant database ...
//	observability.Pipeline().OnFetchComplete(ctx, tenant, len(records), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the fetch -> plan -> render pipeline.
type PipelineHooks interface {
	// Fetch events
	OnFetchStart(ctx context.Context, tenant string)
	OnFetchComplete(ctx context.Context, tenant string, records int, duration time.Duration, err error)

	// Plan events
	OnPlanComplete(ctx context.Context, variant string, pages int)

	// Render events
	OnPageRendered(ctx context.Context, kind string, duration time.Duration, err error)
	OnRenderComplete(ctx context.Context, variant string, pages int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Query Hooks
// =============================================================================

// QueryHooks receives events from the SQL data fetcher.
type QueryHooks interface {
	// OnQuery records a finished query against a logical database.
	OnQuery(ctx context.Context, database, query string, duration time.Duration, err error)

	// OnConnectRetry records a failed connection attempt that will be retried.
	OnConnectRetry(ctx context.Context, database string, attempt int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnFetchStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnFetchComplete(context.Context, string, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnPlanComplete(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnPageRendered(context.Context, string, time.Duration, error)        {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopQueryHooks is a no-op implementation of QueryHooks.
type NoopQueryHooks struct{}

func (NoopQueryHooks) OnQuery(context.Context, string, string, time.Duration, error) {}
func (NoopQueryHooks) OnConnectRetry(context.Context, string, int, error)            {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	queryHooks    QueryHooks    = NoopQueryHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetQueryHooks registers custom query hooks.
func SetQueryHooks(h QueryHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		queryHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Query returns the registered query hooks.
func Query() QueryHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return queryHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	queryHooks = NoopQueryHooks{}
}
