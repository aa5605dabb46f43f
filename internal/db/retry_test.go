package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResetter struct {
	calls int
	err   error
}

func (f *fakeResetter) ResetStatementCache(ctx context.Context) error {
	f.calls++
	return f.err
}

// testPolicy records backoff delays instead of sleeping.
func testPolicy(delays *[]time.Duration) Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		sleep: func(ctx context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return nil
		},
	}
}

func TestWithRetry_SuccessOnFirstAttempt(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	attempts := 0

	got, err := WithRetry(context.Background(), nil, testPolicy(&delays), nil, func(ctx context.Context) (int, error) {
		attempts++
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
}

func TestWithRetry_FailTwiceThenSucceed(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	attempts := 0

	got, err := WithRetry(context.Background(), nil, testPolicy(&delays), nil, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient failure")
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestWithRetry_ExhaustsAttemptsAndReturnsLastError(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	attempts := 0
	terminal := errors.New("connection refused")

	_, err := WithRetry(context.Background(), nil, testPolicy(&delays), nil, func(ctx context.Context) (int, error) {
		attempts++
		return 0, terminal
	})

	assert.Same(t, terminal, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, delays)
}

func TestWithRetry_PreparedStatementConflictResetsCache(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	resetter := &fakeResetter{}
	attempts := 0

	got, err := WithRetry(context.Background(), nil, testPolicy(&delays), resetter, func(ctx context.Context) (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New(`ERROR: prepared statement "stmt_1" already exists (SQLSTATE 42P05)`)
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 1, resetter.calls)
}

func TestWithRetry_ResetFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	resetter := &fakeResetter{err: errors.New("reset failed")}
	attempts := 0

	got, err := WithRetry(context.Background(), nil, testPolicy(&delays), resetter, func(ctx context.Context) (int, error) {
		attempts++
		if attempts == 1 {
			return 0, errors.New(`prepared statement "s1" already exists`)
		}
		return 1, nil
	})

	// the failed cleanup never escalates
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, resetter.calls)
}

func TestWithRetry_NoRowsIsNotRetried(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	attempts := 0

	_, err := WithRetry(context.Background(), nil, testPolicy(&delays), nil, func(ctx context.Context) (int, error) {
		attempts++
		return 0, pgx.ErrNoRows
	})

	assert.ErrorIs(t, err, pgx.ErrNoRows)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, delays)
}

func TestIsPreparedStatementConflict(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPreparedStatementConflict(errors.New(`prepared statement "lrupsc_1_0" already exists`)))
	assert.False(t, IsPreparedStatementConflict(errors.New("connection refused")))
	assert.False(t, IsPreparedStatementConflict(nil))
}
