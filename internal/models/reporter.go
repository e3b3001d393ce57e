package models

type Reporter struct {
	ID            string   `db:"id" json:"id"`
	UserID        *string  `db:"user_id" json:"user_id,omitempty"`
	FullName      string   `db:"full_name" json:"full_name"`
	Slug          string   `db:"slug" json:"slug"`
	Bio           string   `db:"bio" json:"bio"`
	AvatarURL     string   `db:"avatar_url" json:"avatar_url"`
	Specialties   []string `db:"specialties" json:"specialties"`
	IsVerified    bool     `db:"is_verified" json:"is_verified"`
	IsActive      bool     `db:"is_active" json:"is_active"`
	ArticlesCount int64    `db:"articles_count" json:"articles_count"`
}
