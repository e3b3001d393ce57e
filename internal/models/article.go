package models

import "time"

type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusScheduled ArticleStatus = "scheduled"
	StatusArchived  ArticleStatus = "archived"
)

func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusScheduled, StatusArchived:
		return true
	}
	return false
}

type Article struct {
	ID            string        `db:"id" json:"id"`
	Title         string        `db:"title" json:"title"`
	Slug          string        `db:"slug" json:"slug"`
	Content       string        `db:"content" json:"content"`
	Excerpt       string        `db:"excerpt" json:"excerpt"`
	FeaturedImage *string       `db:"featured_image" json:"featured_image,omitempty"`
	CategoryID    string        `db:"category_id" json:"category_id"`
	AuthorID      string        `db:"author_id" json:"author_id"`
	Status        ArticleStatus `db:"status" json:"status"`
	Featured      bool          `db:"featured" json:"featured"`
	Breaking      bool          `db:"breaking" json:"breaking"`
	ReadingTime   int           `db:"reading_time" json:"reading_time"`
	Tags          []string      `db:"tags" json:"tags"`
	Views         int64         `db:"views" json:"views"`
	Likes         int64         `db:"likes" json:"likes"`
	Saves         int64         `db:"saves" json:"saves"`
	Shares        int64         `db:"shares" json:"shares"`
	CommentsCount int64         `db:"comments_count" json:"comments_count"`
	ScheduledFor  *time.Time    `db:"scheduled_for" json:"scheduled_for,omitempty"`
	PublishedAt   *time.Time    `db:"published_at" json:"published_at,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}
