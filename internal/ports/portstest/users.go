package portstest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo struct {
	mu    sync.Mutex
	items map[string]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{items: map[string]models.User{}}
}

var _ ports.UserRepository = (*UserRepo)(nil)

// AddUser stores an active user with a bcrypt hash of password.
func (r *UserRepo) AddUser(id, email, password string, role models.Role) models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	u := models.User{
		ID:           id,
		Email:        strings.ToLower(email),
		Name:         id,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	r.mu.Lock()
	r.items[id] = u
	r.mu.Unlock()
	return u
}

func (r *UserRepo) Deactivate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.items[id]
	u.IsActive = false
	r.items[id] = u
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.items {
		if strings.EqualFold(o.Email, u.Email) {
			return fmt.Errorf("insert user: %w", ports.ErrConflict)
		}
	}
	u.CreatedAt = time.Now()
	r.items[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.items {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *UserRepo) ActiveIDs(context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for id, u := range r.items {
		if u.IsActive {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *UserRepo) ListRoles(context.Context) ([]models.RoleDefinition, error) {
	return []models.RoleDefinition{
		{Name: models.RoleAdmin, DisplayName: "مدير النظام", Permissions: []string{"*"}},
		{Name: models.RoleEditor, DisplayName: "محرر"},
		{Name: models.RoleReporter, DisplayName: "مراسل"},
		{Name: models.RoleReader, DisplayName: "قارئ"},
	}, nil
}

type CategoryRepo struct {
	mu    sync.Mutex
	items map[string]models.Category
}

func NewCategoryRepo() *CategoryRepo {
	return &CategoryRepo{items: map[string]models.Category{}}
}

var _ ports.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Put(c models.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = c
}

func (r *CategoryRepo) List(_ context.Context, active *bool) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Category
	for _, c := range r.items {
		if active == nil || c.IsActive == *active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &c, nil
}

func (r *CategoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.items {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *CategoryRepo) Create(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.items {
		if o.Slug == c.Slug {
			return fmt.Errorf("insert category: %w", ports.ErrConflict)
		}
	}
	r.items[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Update(_ context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return ports.ErrNotFound
	}
	r.items[c.ID] = *c
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}
