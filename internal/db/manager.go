// Package db owns the shared PostgreSQL handle: connection-string
// assembly, the environment-sensitive pool lifecycle, and the retry
// discipline for transient statement-cache conflicts.
package db

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Manager maintains the process-wide database handle. The pool is created
// lazily on first Get and reused for the life of the process; only Close
// tears it down. In production mode Close resets the server-side statement
// cache before releasing the pool, matching per-invocation deployments
// where pooled connections outlive the process.
type Manager struct {
	dsn        string
	production bool
	logger     *zap.Logger

	mu   sync.Mutex
	pool *pgxpool.Pool
}

// NewManager returns a Manager for the given base connection URL. The URL
// is augmented with default pooling parameters via BuildDSN on first use.
func NewManager(databaseURL string, production bool, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{dsn: databaseURL, production: production, logger: logger}
}

// Get returns the shared pool, creating it on first call. Creation is
// serialized; request handlers only ever read the cached handle.
func (m *Manager) Get(ctx context.Context) (*pgxpool.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool != nil {
		return m.pool, nil
	}

	cfg, err := PoolConfig(BuildDSN(m.dsn))
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	m.pool = pool
	m.logger.Info("database pool created",
		zap.Bool("production", m.production),
		zap.Int32("max_conns", cfg.MaxConns))

	return m.pool, nil
}

// ResetStatementCache issues DEALLOCATE ALL on the shared handle. Used as
// the recovery step for prepared-statement conflicts; callers treat its
// failure as best effort.
func (m *Manager) ResetStatementCache(ctx context.Context) error {
	m.mu.Lock()
	pool := m.pool
	m.mu.Unlock()

	if pool == nil {
		return fmt.Errorf("no database pool to reset")
	}
	_, err := pool.Exec(ctx, "DEALLOCATE ALL")
	return err
}

// Close releases the database handle. Safe to call when Get never ran, and
// idempotent. Wired to process termination signals in main.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pool == nil {
		return
	}

	if m.production {
		if _, err := m.pool.Exec(ctx, "DEALLOCATE ALL"); err != nil {
			m.logger.Warn("statement cache reset on shutdown failed", zap.Error(err))
		}
	}

	m.pool.Close()
	m.pool = nil
	m.logger.Info("database pool closed")
}
