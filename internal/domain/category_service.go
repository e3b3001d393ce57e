package domain

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/Vovarama1992/newsroom/internal/textutil"
	"github.com/google/uuid"
)

type CategoryInput struct {
	Name         string  `json:"name"`
	NameEn       string  `json:"name_en"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	Color        string  `json:"color"`
	Icon         string  `json:"icon"`
	ParentID     *string `json:"parent_id"`
	DisplayOrder int     `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

type CategoryService struct {
	repo     ports.CategoryRepository
	articles ports.ArticleRepository
	cache    ports.Cache
}

func NewCategoryService(repo ports.CategoryRepository, articles ports.ArticleRepository, cache ports.Cache) *CategoryService {
	return &CategoryService{repo: repo, articles: articles, cache: cache}
}

func (s *CategoryService) List(ctx context.Context, active *bool) ([]models.Category, error) {
	items, err := s.repo.List(ctx, active)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Category{}
	}
	return items, nil
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c := &models.Category{ID: uuid.NewString(), IsActive: true}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.ParentID != nil && *in.ParentID == id {
		return nil, fmt.Errorf("%w: category cannot be its own parent", ErrInvalidInput)
	}
	if err := applyCategory(c, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	s.dropArticleCache(ctx)
	return c, nil
}

// Delete refuses categories that still have articles.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	n, err := s.articles.CountInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category has %d articles", ErrConflict, n)
	}
	return s.repo.Delete(ctx, id)
}

func applyCategory(c *models.Category, in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" && c.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if name != "" {
		c.Name = name
	}
	if in.NameEn != "" {
		c.NameEn = in.NameEn
	}

	switch {
	case in.Slug != "":
		c.Slug = textutil.Slugify(in.Slug)
	case c.Slug == "" && c.NameEn != "":
		c.Slug = textutil.Slugify(c.NameEn)
	case c.Slug == "":
		c.Slug = textutil.Slugify(c.Name)
	}
	if c.Slug == "" {
		return fmt.Errorf("%w: slug is empty", ErrInvalidInput)
	}

	if in.Description != "" {
		c.Description = in.Description
	}
	if in.Color != "" {
		c.Color = in.Color
	}
	if in.Icon != "" {
		c.Icon = in.Icon
	}
	if in.ParentID != nil {
		c.ParentID = in.ParentID
		if *in.ParentID == "" {
			c.ParentID = nil
		}
	}
	if in.DisplayOrder != 0 {
		c.DisplayOrder = in.DisplayOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return nil
}

func (s *CategoryService) dropArticleCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.DeletePattern(ctx, articleCacheKey+"*")
	}
}
