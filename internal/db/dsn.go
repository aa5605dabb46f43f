package db

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pooling/timeout parameters injected into the connection URL when the
// caller has not set them. Timeouts are milliseconds, pool_timeout is
// seconds, matching the upstream connection-string convention.
var dsnDefaults = map[string]string{
	"connection_limit":                    "5",
	"pool_timeout":                        "10",
	"schema":                              "public",
	"statement_timeout":                   "30000",
	"idle_in_transaction_session_timeout": "60000",
}

// BuildDSN augments a base connection URL with default pooling and timeout
// query parameters. Parameters already present are left untouched. An empty
// or unparseable base is returned unchanged so the caller sees the original
// problem instead of a half-built URL.
func BuildDSN(base string) string {
	if base == "" {
		return base
	}

	u, err := url.Parse(base)
	if err != nil {
		return base
	}

	q := u.Query()
	for key, value := range dsnDefaults {
		if !q.Has(key) {
			q.Set(key, value)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// PoolConfig translates a DSN produced by BuildDSN into a pgxpool
// configuration. connection_limit, pool_timeout and schema are not server
// parameters, so they are stripped from the URL and mapped onto the pool
// config; statement_timeout and idle_in_transaction_session_timeout pass
// through as session runtime parameters.
func PoolConfig(dsn string) (*pgxpool.Config, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	q := u.Query()
	connLimit := popInt(q, "connection_limit")
	poolTimeout := popInt(q, "pool_timeout")
	schema := pop(q, "schema")
	u.RawQuery = q.Encode()

	cfg, err := pgxpool.ParseConfig(u.String())
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	// Simple protocol keeps PgBouncer-style poolers happy.
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	cfg.ConnConfig.RuntimeParams["application_name"] = "luminari-backend"
	if schema != "" {
		cfg.ConnConfig.RuntimeParams["search_path"] = schema
	}
	if connLimit > 0 {
		cfg.MaxConns = int32(connLimit)
	}
	if poolTimeout > 0 {
		cfg.ConnConfig.ConnectTimeout = time.Duration(poolTimeout) * time.Second
	}
	cfg.MinConns = 0
	cfg.MaxConnLifetime = time.Hour

	return cfg, nil
}

func pop(q url.Values, key string) string {
	v := q.Get(key)
	q.Del(key)
	return v
}

func popInt(q url.Values, key string) int {
	v := pop(q, key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
