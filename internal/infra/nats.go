package infra

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Vovarama1992/newsroom/internal/metrics"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/nats-io/nats.go"
)

const (
	SubjectArticlePublished     = "articles.published"
	SubjectNotificationsCreated = "notifications.created"
)

// EventMessage is the envelope sent on every subject.
type EventMessage struct {
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

type NATSPublisher struct {
	conn *nats.Conn
}

var _ ports.EventPublisher = (*NATSPublisher)(nil)

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("newsroom"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: nc}, nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *NATSPublisher) publish(subject string, data any) error {
	payload, err := json.Marshal(EventMessage{
		Data:      data,
		Timestamp: time.Now().UTC(),
		Source:    "newsroom",
		Version:   "1.0",
	})
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		metrics.EventsPublished.WithLabelValues(subject, "error").Inc()
		return err
	}
	metrics.EventsPublished.WithLabelValues(subject, "ok").Inc()
	return nil
}

func (p *NATSPublisher) ArticlePublished(_ context.Context, a models.Article) error {
	return p.publish(SubjectArticlePublished, a)
}

func (p *NATSPublisher) NotificationsCreated(_ context.Context, items []models.SmartNotification) error {
	if len(items) == 0 {
		return nil
	}
	return p.publish(SubjectNotificationsCreated, items)
}

// NopPublisher is used when NATS_URL is empty.
type NopPublisher struct{}

var _ ports.EventPublisher = NopPublisher{}

func (NopPublisher) ArticlePublished(context.Context, models.Article) error { return nil }

func (NopPublisher) NotificationsCreated(context.Context, []models.SmartNotification) error {
	return nil
}
