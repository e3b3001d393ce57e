package infra

import (
	"context"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const InvalidationChannel = "cache_invalidate"

// InvalidationListener drops cache patterns announced by other instances
// through NOTIFY cache_invalidate, '<pattern>'.
type InvalidationListener struct {
	dsn   string
	cache ports.Cache
	log   *logger.ZapLogger
}

func NewInvalidationListener(dsn string, cache ports.Cache, log *logger.ZapLogger) *InvalidationListener {
	return &InvalidationListener{dsn: dsn, cache: cache, log: log}
}

// Run blocks until ctx is done.
func (l *InvalidationListener) Run(ctx context.Context) error {
	listener := pq.NewListener(l.dsn, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			l.log.Log(logger.LogEntry{
				Level:   "warn",
				Message: "cache listener event",
				Fields:  map[string]any{"event": int(ev)},
				Error:   err,
			})
		}
	})
	defer listener.Close()

	if err := listener.Listen(InvalidationChannel); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil after a reconnect; state may have been missed
			if n == nil {
				l.drop(ctx, "*")
				continue
			}
			l.drop(ctx, n.Extra)
		case <-time.After(90 * time.Second):
			go func() { _ = listener.Ping() }()
		}
	}
}

func (l *InvalidationListener) drop(ctx context.Context, pattern string) {
	if pattern == "" {
		return
	}
	if err := l.cache.DeletePattern(ctx, pattern); err != nil {
		l.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "cache invalidation failed",
			Fields:  map[string]any{"pattern": pattern},
			Error:   err,
		})
	}
}

// Invalidator drops a pattern locally and announces it to other instances.
type Invalidator struct {
	pool  *pgxpool.Pool
	cache ports.Cache
}

func NewInvalidator(pool *pgxpool.Pool, cache ports.Cache) *Invalidator {
	return &Invalidator{pool: pool, cache: cache}
}

var _ ports.Cache = (*Invalidator)(nil)

func (i *Invalidator) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return i.cache.Get(ctx, key)
}

func (i *Invalidator) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return i.cache.Set(ctx, key, value, ttl)
}

func (i *Invalidator) DeletePattern(ctx context.Context, pattern string) error {
	if err := i.cache.DeletePattern(ctx, pattern); err != nil {
		return err
	}
	_, err := i.pool.Exec(ctx, `SELECT pg_notify($1, $2)`, InvalidationChannel, pattern)
	return mapErr("pg_notify", err)
}
