package models

import "time"

type Category struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	NameEn       string    `db:"name_en" json:"name_en"`
	Slug         string    `db:"slug" json:"slug"`
	Description  string    `db:"description" json:"description"`
	Color        string    `db:"color" json:"color"`
	Icon         string    `db:"icon" json:"icon"`
	ParentID     *string   `db:"parent_id" json:"parent_id,omitempty"`
	DisplayOrder int       `db:"display_order" json:"display_order"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
