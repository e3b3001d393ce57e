package domain

import (
	"context"
	"sync"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/metrics"
	"github.com/Vovarama1992/newsroom/internal/retry"
)

const defaultFlushInterval = 30 * time.Second

// ViewSink persists accumulated view deltas.
type ViewSink interface {
	AddViews(ctx context.Context, deltas map[string]int64) error
}

// ViewBatcher counts article views in memory and writes them in batches,
// either when BatchSize distinct articles are pending or every interval.
type ViewBatcher struct {
	sink      ViewSink
	log       *logger.ZapLogger
	batchSize int
	interval  time.Duration

	mu      sync.Mutex
	pending map[string]int64
	closed  bool

	kick      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewViewBatcher(sink ViewSink, batchSize int, interval time.Duration, log *logger.ZapLogger) *ViewBatcher {
	if batchSize < 1 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	b := &ViewBatcher{
		sink:      sink,
		log:       log,
		batchSize: batchSize,
		interval:  interval,
		pending:   make(map[string]int64),
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	go b.loop()
	return b
}

// Track counts one view. Views tracked after Close are dropped.
func (b *ViewBatcher) Track(articleID string) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.pending[articleID]++
	full := len(b.pending) >= b.batchSize
	b.mu.Unlock()

	if full {
		select {
		case b.kick <- struct{}{}:
		default:
		}
	}
}

func (b *ViewBatcher) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *ViewBatcher) loop() {
	defer close(b.stopped)

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = b.Flush(ctx)
			cancel()
			return
		case <-ticker.C:
			_ = b.Flush(context.Background())
		case <-b.kick:
			_ = b.Flush(context.Background())
		}
	}
}

// Flush writes everything pending. On failure the counts are merged back so
// the next flush retries them.
func (b *ViewBatcher) Flush(ctx context.Context) error {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return nil
	}
	batch := b.pending
	b.pending = make(map[string]int64, len(batch))
	b.mu.Unlock()

	err := retry.Do(ctx, 3, 200*time.Millisecond, func(ctx context.Context) error {
		return b.sink.AddViews(ctx, batch)
	})
	if err != nil {
		b.mu.Lock()
		for id, n := range batch {
			b.pending[id] += n
		}
		b.mu.Unlock()

		metrics.ViewFlushErrors.Inc()
		b.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "view flush failed",
			Fields:  map[string]any{"articles": len(batch)},
			Error:   err,
		})
		return err
	}

	var total int64
	for _, n := range batch {
		total += n
	}
	metrics.ViewsFlushed.Add(float64(total))
	return nil
}

// Close stops the loop after a final flush. Safe to call more than once.
func (b *ViewBatcher) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()
		close(b.done)
	})
	<-b.stopped
}
