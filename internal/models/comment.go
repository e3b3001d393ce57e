package models

import "time"

type CommentStatus string

const (
	CommentPending  CommentStatus = "pending"
	CommentApproved CommentStatus = "approved"
	CommentRejected CommentStatus = "rejected"
)

type Comment struct {
	ID        string        `db:"id" json:"id"`
	ArticleID string        `db:"article_id" json:"article_id"`
	UserID    string        `db:"user_id" json:"user_id"`
	ParentID  *string       `db:"parent_id" json:"parent_id,omitempty"`
	Content   string        `db:"content" json:"content"`
	Status    CommentStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
}
