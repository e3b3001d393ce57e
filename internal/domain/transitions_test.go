package domain

import (
	"testing"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []models.ArticleStatus{
		models.StatusDraft, models.StatusPublished, models.StatusScheduled, models.StatusArchived,
	}
	allowed := map[[2]models.ArticleStatus]bool{
		{models.StatusDraft, models.StatusPublished}:     true,
		{models.StatusDraft, models.StatusScheduled}:     true,
		{models.StatusDraft, models.StatusArchived}:      true,
		{models.StatusScheduled, models.StatusPublished}: true,
		{models.StatusScheduled, models.StatusDraft}:     true,
		{models.StatusScheduled, models.StatusArchived}:  true,
		{models.StatusPublished, models.StatusArchived}:  true,
		{models.StatusPublished, models.StatusDraft}:     true,
		{models.StatusArchived, models.StatusDraft}:      true,
	}

	for _, from := range all {
		for _, to := range all {
			want := from == to || allowed[[2]models.ArticleStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, CanTransition("bogus", "bogus"))
}

func TestNewPage(t *testing.T) {
	assert.Equal(t, Page{Page: 1, Limit: 20}, NewPage(0, 0))
	assert.Equal(t, Page{Page: 3, Limit: 100}, NewPage(3, 1000))
	assert.Equal(t, 40, NewPage(3, 20).Offset())
}
