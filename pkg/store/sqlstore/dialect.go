package sqlstore

import (
	"database/sql"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// dialect captures the differences between the supported databases.
// Queries are written with '?' placeholders and rebound per dialect.
type dialect struct {
	name string

	// placeholder is the prefix for numbered placeholders, or '?' for
	// anonymous ones.
	placeholder byte

	// like is the case-insensitive pattern operator.
	like string

	// truthy is the literal matching a true boolean column.
	truthy string

	open func(o Options, database string) (*sql.DB, error)
}

var dialects = map[string]dialect{
	"mysql": {
		name:        "mysql",
		placeholder: '?',
		like:        "LIKE",
		truthy:      "1",
		open:        openMySQL,
	},
	"pgsql": {
		name:        "pgsql",
		placeholder: '$',
		like:        "ILIKE",
		truthy:      "TRUE",
		open:        openPostgres,
	},
	"sqlite": {
		name:        "sqlite",
		placeholder: '?',
		like:        "LIKE",
		truthy:      "1",
		open:        openSQLite,
	},
}

func lookupDialect(driver string) (dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return dialect{}, fmt.Errorf("unsupported driver %q", driver)
	}
	return d, nil
}

// rebind rewrites '?' placeholders into the dialect's numbered form.
// Doubled '??' is left alone.
func (d dialect) rebind(query string) string {
	if d.placeholder == '?' {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 1
	for i := 0; i < len(query); i++ {
		c := query[i]
		if c != '?' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(query) && query[i+1] == '?' {
			b.WriteString("??")
			i++
			continue
		}
		b.WriteByte(d.placeholder)
		b.WriteString(strconv.Itoa(n))
		n++
	}
	return b.String()
}

func openMySQL(o Options, database string) (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = o.User
	cfg.Passwd = o.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
	cfg.DBName = database
	cfg.ParseTime = true
	cfg.Loc = o.location()
	cfg.Timeout = 10 * time.Second

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(4)
	return db, nil
}

func openPostgres(o Options, database string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig("")
	if err != nil {
		return nil, err
	}
	cfg.Host = o.Host
	cfg.Port = uint16(o.Port)
	cfg.User = o.User
	cfg.Password = o.Password
	cfg.Database = database
	cfg.ConnectTimeout = 10 * time.Second
	if cfg.RuntimeParams == nil {
		cfg.RuntimeParams = map[string]string{}
	}
	cfg.RuntimeParams["timezone"] = o.location().String()

	db := stdlib.OpenDB(*cfg)
	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(4)
	return db, nil
}

// openSQLite opens <dir>/<database>.db. The file must already exist.
func openSQLite(o Options, database string) (*sql.DB, error) {
	path := filepath.Join(o.SQLiteDir, database+".db")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("database file %s: %w", path, fs.ErrNotExist)
		}
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
