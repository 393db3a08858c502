package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func stubNewPool(t *testing.T, fn func(context.Context, string) (*pgxpool.Pool, error)) {
	t.Helper()
	old := newPool
	newPool = fn
	t.Cleanup(func() { newPool = old })
}

func TestConnectDbWithRetry_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	stubPool := &pgxpool.Pool{}
	stubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return stubPool, nil
	})

	pool, err := connectDbWithRetry(context.Background(), "dsn", 5, time.Millisecond)
	require.NoError(t, err)
	require.Same(t, stubPool, pool)
	require.Equal(t, 3, calls)
}

func TestConnectDbWithRetry_ExhaustsRetries(t *testing.T) {
	stubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		return nil, errors.New("connection refused")
	})

	pool, err := connectDbWithRetry(context.Background(), "dsn", 3, time.Millisecond)
	require.Error(t, err)
	require.Nil(t, pool)
	require.Contains(t, err.Error(), "after 3 attempts")
}

func TestConnectDbWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stubNewPool(t, func(context.Context, string) (*pgxpool.Pool, error) {
		cancel()
		return nil, errors.New("connection refused")
	})

	pool, err := connectDbWithRetry(ctx, "dsn", 5, 50*time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, pool)
}
