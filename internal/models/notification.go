package models

import "time"

type NotificationType string

const (
	NotificationNewArticle   NotificationType = "new_article"
	NotificationBreaking     NotificationType = "breaking_news"
	NotificationCommentReply NotificationType = "comment_reply"
	NotificationSystem       NotificationType = "system"
)

type SmartNotification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"user_id"`
	ArticleID *string          `db:"article_id" json:"article_id,omitempty"`
	Type      NotificationType `db:"type" json:"type"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Priority  string           `db:"priority" json:"priority"`
	ReadAt    *time.Time       `db:"read_at" json:"read_at,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}
