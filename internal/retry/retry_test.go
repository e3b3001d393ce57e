package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "08006"}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	calls := 0
	boom := &pgconn.PgError{Code: "23505"}
	err := Do(context.Background(), 5, time.Millisecond, func(ctx context.Context) error {
		calls++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoGivesUpAfterAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), 2, time.Millisecond, func(ctx context.Context) error {
		calls++
		return &pgconn.PgError{Code: "57P01"}
	})

	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, 3, time.Second, func(ctx context.Context) error {
		return &pgconn.PgError{Code: "08000"}
	})
	assert.ErrorIs(t, err, context.Canceled)
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr, "last attempt error is kept")
}

func TestDoBacksOffBetweenAttempts(t *testing.T) {
	var stamps []time.Time
	err := Do(context.Background(), 3, 20*time.Millisecond, func(ctx context.Context) error {
		stamps = append(stamps, time.Now())
		return &pgconn.PgError{Code: "08006"}
	})

	assert.Error(t, err)
	assert.Len(t, stamps, 3)
	// randomization keeps each wait within half of the nominal interval
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 10*time.Millisecond)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(errors.New("plain")))
	assert.False(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(&pgconn.PgError{Code: "40001"}))
}
