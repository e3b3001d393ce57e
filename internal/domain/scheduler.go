package domain

import (
	"context"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/models"
)

type DuePublisher interface {
	PublishDue(ctx context.Context, now time.Time) ([]models.Article, error)
}

// Scheduler publishes scheduled articles on a ticker.
type Scheduler struct {
	publisher DuePublisher
	interval  time.Duration
	log       *logger.ZapLogger
	now       func() time.Time
}

const defaultScheduleInterval = time.Minute

func NewScheduler(publisher DuePublisher, interval time.Duration, log *logger.ZapLogger) *Scheduler {
	if interval <= 0 {
		interval = defaultScheduleInterval
	}
	return &Scheduler{publisher: publisher, interval: interval, log: log, now: time.Now}
}

// RunOnce publishes what is due right now and returns the published articles.
func (s *Scheduler) RunOnce(ctx context.Context) ([]models.Article, error) {
	published, err := s.publisher.PublishDue(ctx, s.now())
	if err != nil {
		return nil, err
	}
	if len(published) > 0 {
		ids := make([]string, 0, len(published))
		for _, a := range published {
			ids = append(ids, a.ID)
		}
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "scheduled articles published",
			Fields:  map[string]any{"count": len(published), "ids": ids},
		})
	}
	return published, nil
}

// Run blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Log(logger.LogEntry{
					Level:   "error",
					Message: "scheduled publish failed",
					Error:   err,
				})
			}
		}
	}
}
