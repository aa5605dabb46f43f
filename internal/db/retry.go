package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Policy bounds WithRetry. The delay doubles after every failed attempt:
// BaseDelay, 2*BaseDelay, 4*BaseDelay, ...
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration

	// Retryable decides whether an error is worth another attempt.
	// Defaults to retrying everything except "no rows" and context errors.
	Retryable func(error) bool

	// sleep is a seam for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultPolicy matches the store-wide retry discipline: three attempts,
// one second base backoff.
var DefaultPolicy = Policy{MaxAttempts: 3, BaseDelay: time.Second}

// defaultRetryable treats a missing row and a dead context as permanent.
func defaultRetryable(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// StatementCacheResetter clears the server-side prepared statement cache.
// Manager implements it.
type StatementCacheResetter interface {
	ResetStatementCache(ctx context.Context) error
}

// WithRetry runs op up to MaxAttempts times with exponential backoff. A
// success returns immediately. A prepared-statement conflict triggers a
// best-effort cache reset before the next attempt; the reset's own failure
// is logged and swallowed. The last error is returned unchanged once the
// attempt budget is spent.
func WithRetry[T any](ctx context.Context, logger *zap.Logger, p Policy, cache StatementCacheResetter, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if logger == nil {
		logger = zap.NewNop()
	}
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultPolicy.MaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultPolicy.BaseDelay
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = defaultRetryable
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	delay := p.BaseDelay
	var lastErr error

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if cache != nil && IsPreparedStatementConflict(err) {
			if resetErr := cache.ResetStatementCache(ctx); resetErr != nil {
				logger.Warn("statement cache reset failed", zap.Error(resetErr))
			} else {
				logger.Info("statement cache reset after prepared statement conflict")
			}
		}

		if attempt == p.MaxAttempts || !retryable(err) {
			break
		}

		logger.Warn("database operation failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}

	return zero, lastErr
}

// IsPreparedStatementConflict reports whether err is the transient
// "prepared statement already exists" condition caused by statement-cache
// reuse across pooled connections (SQLSTATE 42P05).
func IsPreparedStatementConflict(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42P05" {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "prepared statement") && strings.Contains(msg, "already exists")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
