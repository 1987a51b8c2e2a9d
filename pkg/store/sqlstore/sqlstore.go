// Package sqlstore implements [store.Store] on database/sql.
//
// MySQL (the production platform), PostgreSQL and SQLite are supported.
// Each logical database (the central one and one per tenant) gets its
// own *sql.DB, opened on first use and verified with a ping. Connection
// setup is retried with exponential backoff; queries are not.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/KaiDries/OnboardingQR/pkg/config"
	errs "github.com/KaiDries/OnboardingQR/pkg/errors"
	"github.com/KaiDries/OnboardingQR/pkg/observability"
	"github.com/KaiDries/OnboardingQR/pkg/retry"
	"github.com/KaiDries/OnboardingQR/pkg/store"
)

// Options configures a Store.
type Options struct {
	Driver   string // mysql, pgsql or sqlite
	Host     string
	Port     int
	User     string
	Password string

	Central      string // central database name, e.g. "central-mc"
	TenantPrefix string // tenant database name prefix, e.g. "tenant-"
	SQLiteDir    string

	// Location interprets timestamps stored without a zone.
	Location *time.Location

	Retry        retry.Policy
	QueryTimeout time.Duration

	// ExcludedEmailDomains are skipped when matching users.
	ExcludedEmailDomains []string

	Logger *log.Logger
}

// OptionsFromConfig maps the [database] config section to Options.
func OptionsFromConfig(c config.Database, logger *log.Logger) Options {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		loc = time.Local
	}
	return Options{
		Driver:               c.Driver,
		Host:                 c.Host,
		Port:                 c.Port,
		User:                 c.User,
		Password:             c.Password,
		Central:              c.Central,
		TenantPrefix:         c.TenantPrefix,
		SQLiteDir:            c.SQLiteDir,
		Location:             loc,
		Retry:                retry.Policy{Attempts: c.ConnectAttempts, Delay: c.ConnectDelay},
		QueryTimeout:         c.QueryTimeout,
		ExcludedEmailDomains: c.ExcludedEmailDomains,
		Logger:               logger,
	}
}

func (o Options) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

// Store is a [store.Store] backed by database/sql.
type Store struct {
	opts    Options
	dialect dialect
	logger  *log.Logger

	mu  sync.Mutex
	dbs map[string]*sql.DB
}

// New validates opts and returns a Store. No connection is made until
// the first query.
func New(opts Options) (*Store, error) {
	d, err := lookupDialect(opts.Driver)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeConfig, err, "database driver")
	}
	if opts.Central == "" {
		opts.Central = "central-mc"
	}
	if opts.TenantPrefix == "" {
		opts.TenantPrefix = "tenant-"
	}
	if opts.Retry.Attempts <= 0 {
		opts.Retry = retry.Default
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Store{
		opts:    opts,
		dialect: d,
		logger:  logger,
		dbs:     make(map[string]*sql.DB),
	}, nil
}

// TenantDatabase returns the database name for a tenant id.
func (s *Store) TenantDatabase(tenantID string) string {
	return s.opts.TenantPrefix + tenantID
}

// db returns the pool for database, connecting on first use.
func (s *Store) db(ctx context.Context, database string) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.dbs[database]; ok {
		return db, nil
	}

	policy := s.opts.Retry
	policy.OnRetry = func(attempt int, err error) {
		s.logger.Warn("connection failed, retrying", "database", database, "attempt", attempt, "err", err)
		observability.Query().OnConnectRetry(ctx, database, attempt, err)
	}

	var db *sql.DB
	err := retry.Do(ctx, policy, func() error {
		conn, err := s.dialect.open(s.opts, database)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return retry.Retryable(err)
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return retry.Retryable(err)
		}
		db = conn
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeDatabase, err, "connect to %s", database)
	}

	s.logger.Debug("connected", "driver", s.dialect.name, "database", database)
	s.dbs[database] = db
	return db, nil
}

// query runs a statement against database and hands every row to scan.
// name identifies the query in logs and metrics.
func (s *Store) query(ctx context.Context, database, name, query string, args []any, scan func(*sql.Rows) error) (err error) {
	db, err := s.db(ctx, database)
	if err != nil {
		return err
	}
	if s.opts.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		d := time.Since(start)
		observability.Query().OnQuery(ctx, database, name, d, err)
		s.logger.Debug("query", "name", name, "database", database, "duration", d, "err", err)
	}()

	rows, err := db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return s.queryError(ctx, err, name, database)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return errs.Wrap(errs.ErrCodeDatabase, err, "scan %s", name)
		}
	}
	if err := rows.Err(); err != nil {
		return s.queryError(ctx, err, name, database)
	}
	return nil
}

func (s *Store) queryError(ctx context.Context, err error, name, database string) error {
	if ctx.Err() != nil {
		return errs.Wrap(errs.ErrCodeTimeout, err, "%s on %s", name, database)
	}
	return errs.Wrap(errs.ErrCodeDatabase, err, "%s on %s", name, database)
}

// Close closes every open pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errList []error
	for name, db := range s.dbs {
		if err := db.Close(); err != nil {
			errList = append(errList, fmt.Errorf("close %s: %w", name, err))
		}
		delete(s.dbs, name)
	}
	return errors.Join(errList...)
}

var _ store.Store = (*Store)(nil)
