package infra

import (
	"context"
	"testing"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.ArticlePublished(context.Background(), models.Article{ID: "a1"}))
	assert.NoError(t, p.NotificationsCreated(context.Background(), []models.SmartNotification{{ID: "n1"}}))
}

func TestNATSPublisher_EmptyBatchSkipsConnection(t *testing.T) {
	p := &NATSPublisher{}
	assert.NoError(t, p.NotificationsCreated(context.Background(), nil))
}
