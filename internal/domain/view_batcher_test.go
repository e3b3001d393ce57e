package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Vovarama1992/newsroom/internal/logging"
	"github.com/Vovarama1992/newsroom/internal/ports/portstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestViewBatcher_FlushesAtBatchSize(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := portstest.NewArticleRepo()
	b := NewViewBatcher(repo, 3, time.Hour, logging.Nop())
	defer b.Close()

	b.Track("a1")
	b.Track("a1")
	b.Track("a2")
	assert.Empty(t, repo.ViewsCalls())

	b.Track("a3")
	require.Eventually(t, func() bool { return len(repo.ViewsCalls()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, map[string]int64{"a1": 2, "a2": 1, "a3": 1}, repo.ViewsCalls()[0])
	assert.Equal(t, 0, b.Pending())
}

func TestViewBatcher_FlushesOnInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := portstest.NewArticleRepo()
	b := NewViewBatcher(repo, 50, 20*time.Millisecond, logging.Nop())
	defer b.Close()

	b.Track("a1")
	require.Eventually(t, func() bool { return len(repo.ViewsCalls()) >= 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, map[string]int64{"a1": 1}, repo.ViewsCalls()[0])
}

func TestViewBatcher_CloseFlushesPending(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := portstest.NewArticleRepo()
	b := NewViewBatcher(repo, 50, time.Hour, logging.Nop())

	b.Track("a1")
	b.Track("a2")
	b.Close()
	b.Close()

	calls := repo.ViewsCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]int64{"a1": 1, "a2": 1}, calls[0])

	b.Track("a3")
	assert.Equal(t, 0, b.Pending())
}

func TestViewBatcher_FailedFlushKeepsCounts(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := portstest.NewArticleRepo()
	repo.SetAddViewsErr(errors.New("boom"))
	b := NewViewBatcher(repo, 50, time.Hour, logging.Nop())
	defer b.Close()

	b.Track("a1")
	require.Error(t, b.Flush(context.Background()))
	b.Track("a1")
	assert.Equal(t, 1, b.Pending())

	repo.SetAddViewsErr(nil)
	require.NoError(t, b.Flush(context.Background()))

	calls := repo.ViewsCalls()
	assert.Equal(t, map[string]int64{"a1": 2}, calls[len(calls)-1])
}

func TestViewBatcher_ZeroIntervalFallsBackToDefault(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := portstest.NewArticleRepo()
	var b *ViewBatcher
	require.NotPanics(t, func() { b = NewViewBatcher(repo, 50, 0, logging.Nop()) })
	assert.Equal(t, defaultFlushInterval, b.interval)

	b.Track("a1")
	b.Close()
	assert.Len(t, repo.ViewsCalls(), 1)
}
