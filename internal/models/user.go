package models

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEditor   Role = "editor"
	RoleReporter Role = "reporter"
	RoleReader   Role = "reader"
)

func (r Role) Valid() bool {
	return r.IsStaff() || r == RoleReader
}

// IsStaff reports whether the role may author content.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleEditor || r == RoleReporter
}

type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type RoleDefinition struct {
	Name        Role     `db:"name" json:"name"`
	DisplayName string   `db:"display_name" json:"display_name"`
	Permissions []string `db:"permissions" json:"permissions"`
}
