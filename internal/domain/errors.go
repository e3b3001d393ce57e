package domain

import (
	"errors"

	"github.com/Vovarama1992/newsroom/internal/ports"
)

var (
	ErrNotFound          = ports.ErrNotFound
	ErrConflict          = ports.ErrConflict
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
)

// Page normalizes 1-based paging: limit defaults to 20 and is capped at 100.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

const (
	defaultLimit = 20
	maxLimit     = 100
)

func NewPage(page, limit int) Page {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
