package models

import "time"

type InteractionType string

const (
	InteractionView    InteractionType = "view"
	InteractionLike    InteractionType = "like"
	InteractionSave    InteractionType = "save"
	InteractionShare   InteractionType = "share"
	InteractionComment InteractionType = "comment"
)

// Toggleable interactions are unique per (user, article, type).
func (t InteractionType) Toggleable() bool {
	return t == InteractionLike || t == InteractionSave
}

type Interaction struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	ArticleID string          `db:"article_id" json:"article_id"`
	Type      InteractionType `db:"type" json:"type"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`

	// joined from articles
	CategoryID string `db:"category_id" json:"category_id,omitempty"`
}
