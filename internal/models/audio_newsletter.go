package models

import "time"

type AudioNewsletter struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	AudioURL    string    `db:"audio_url" json:"audio_url"`
	Duration    int       `db:"duration" json:"duration"` // seconds
	Voice       string    `db:"voice" json:"voice"`
	IsPublished bool      `db:"is_published" json:"is_published"`
	IsFeatured  bool      `db:"is_featured" json:"is_featured"`
	PlayCount   int64     `db:"play_count" json:"play_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
