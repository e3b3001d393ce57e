package models

import "time"

// MuqtarabCorner is an editorial opinion column.
type MuqtarabCorner struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	AuthorName  string    `db:"author_name" json:"author_name"`
	CoverImage  string    `db:"cover_image" json:"cover_image"`
	ThemeColor  string    `db:"theme_color" json:"theme_color"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type MuqtarabArticle struct {
	ID          string        `db:"id" json:"id"`
	CornerID    string        `db:"corner_id" json:"corner_id"`
	Title       string        `db:"title" json:"title"`
	Slug        string        `db:"slug" json:"slug"`
	Content     string        `db:"content" json:"content"`
	Excerpt     string        `db:"excerpt" json:"excerpt"`
	AuthorName  string        `db:"author_name" json:"author_name"`
	Status      ArticleStatus `db:"status" json:"status"`
	ReadingTime int           `db:"reading_time" json:"reading_time"`
	Views       int64         `db:"views" json:"views"`
	PublishedAt *time.Time    `db:"published_at" json:"published_at,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}
