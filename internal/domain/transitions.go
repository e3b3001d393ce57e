package domain

import "github.com/Vovarama1992/newsroom/internal/models"

var allowedTransitions = map[models.ArticleStatus][]models.ArticleStatus{
	models.StatusDraft:     {models.StatusPublished, models.StatusScheduled, models.StatusArchived},
	models.StatusScheduled: {models.StatusPublished, models.StatusDraft, models.StatusArchived},
	models.StatusPublished: {models.StatusArchived, models.StatusDraft},
	models.StatusArchived:  {models.StatusDraft},
}

// CanTransition reports whether an article may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to models.ArticleStatus) bool {
	if from == to {
		return to.Valid()
	}
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
