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
)

type CommentRepo struct {
	mu       sync.Mutex
	articles *ArticleRepo
	items    map[string]models.Comment
}

func NewCommentRepo(articles *ArticleRepo) *CommentRepo {
	return &CommentRepo{articles: articles, items: map[string]models.Comment{}}
}

var _ ports.CommentRepository = (*CommentRepo)(nil)

func (r *CommentRepo) bump(articleID string, delta int64) {
	r.articles.adjust(articleID, func(a *models.Article) {
		a.CommentsCount = max(a.CommentsCount+delta, 0)
	})
}

func (r *CommentRepo) Create(_ context.Context, c *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.CreatedAt = time.Now()
	r.items[c.ID] = *c
	if c.Status == models.CommentApproved {
		r.bump(c.ArticleID, 1)
	}
	return nil
}

func (r *CommentRepo) GetByID(_ context.Context, id string) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &c, nil
}

func (r *CommentRepo) filter(keep func(models.Comment) bool) []models.Comment {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Comment
	for _, c := range r.items {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *CommentRepo) ListByArticle(_ context.Context, articleID string, status models.CommentStatus) ([]models.Comment, error) {
	return r.filter(func(c models.Comment) bool {
		return c.ArticleID == articleID && c.Status == status
	}), nil
}

func (r *CommentRepo) ListByStatus(_ context.Context, status models.CommentStatus, limit, offset int) ([]models.Comment, error) {
	out := r.filter(func(c models.Comment) bool { return c.Status == status })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *CommentRepo) SetStatus(_ context.Context, id string, status models.CommentStatus) (*models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	switch {
	case c.Status != models.CommentApproved && status == models.CommentApproved:
		r.bump(c.ArticleID, 1)
	case c.Status == models.CommentApproved && status != models.CommentApproved:
		r.bump(c.ArticleID, -1)
	}
	c.Status = status
	r.items[id] = c
	return &c, nil
}

func (r *CommentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.items[id]
	if !ok {
		return ports.ErrNotFound
	}
	r.deleteTree(c)
	return nil
}

// deleteTree mirrors ON DELETE CASCADE on parent_id.
func (r *CommentRepo) deleteTree(c models.Comment) {
	for _, child := range r.items {
		if child.ParentID != nil && *child.ParentID == c.ID {
			r.deleteTree(child)
		}
	}
	if c.Status == models.CommentApproved {
		r.bump(c.ArticleID, -1)
	}
	delete(r.items, c.ID)
}

type MediaRepo struct {
	mu      sync.Mutex
	folders map[string]models.MediaFolder
	assets  map[string]models.MediaAsset
}

func NewMediaRepo() *MediaRepo {
	return &MediaRepo{folders: map[string]models.MediaFolder{}, assets: map[string]models.MediaAsset{}}
}

var _ ports.MediaRepository = (*MediaRepo)(nil)

func (r *MediaRepo) CreateFolder(_ context.Context, f *models.MediaFolder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f.ParentID != nil {
		if _, ok := r.folders[*f.ParentID]; !ok {
			return fmt.Errorf("insert folder: %w", ports.ErrConflict)
		}
	}
	f.CreatedAt = time.Now()
	r.folders[f.ID] = *f
	return nil
}

func (r *MediaRepo) ListFolders(context.Context) ([]models.MediaFolder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MediaFolder
	for _, f := range r.folders {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MediaRepo) DeleteFolder(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[id]; !ok {
		return ports.ErrNotFound
	}
	for _, a := range r.assets {
		if a.FolderID != nil && *a.FolderID == id {
			return fmt.Errorf("folder not empty: %w", ports.ErrConflict)
		}
	}
	for _, f := range r.folders {
		if f.ParentID != nil && *f.ParentID == id {
			return fmt.Errorf("folder not empty: %w", ports.ErrConflict)
		}
	}
	delete(r.folders, id)
	return nil
}

func (r *MediaRepo) InsertAsset(_ context.Context, a *models.MediaAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.CreatedAt = time.Now()
	r.assets[a.ID] = *a
	return nil
}

func (r *MediaRepo) GetAsset(_ context.Context, id string) (*models.MediaAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &a, nil
}

func (r *MediaRepo) ListAssets(_ context.Context, f ports.MediaFilter) ([]models.MediaAsset, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MediaAsset
	for _, a := range r.assets {
		if f.FolderID != nil {
			if *f.FolderID == "" && a.FolderID != nil {
				continue
			}
			if *f.FolderID != "" && (a.FolderID == nil || *a.FolderID != *f.FolderID) {
				continue
			}
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if f.Search != "" && !strings.Contains(a.OriginalName+" "+a.AltText, f.Search) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if f.Offset >= len(out) {
		return nil, total, nil
	}
	out = out[f.Offset:]
	if len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (r *MediaRepo) DeleteAsset(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.assets, id)
	return nil
}

type AudioRepo struct {
	mu    sync.Mutex
	items map[string]models.AudioNewsletter
}

func NewAudioRepo() *AudioRepo {
	return &AudioRepo{items: map[string]models.AudioNewsletter{}}
}

var _ ports.AudioNewsletterRepository = (*AudioRepo)(nil)

func (r *AudioRepo) Create(_ context.Context, n *models.AudioNewsletter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.CreatedAt = time.Now()
	r.items[n.ID] = *n
	return nil
}

func (r *AudioRepo) GetByID(_ context.Context, id string) (*models.AudioNewsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &n, nil
}

func (r *AudioRepo) List(_ context.Context, publishedOnly bool, limit, offset int) ([]models.AudioNewsletter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AudioNewsletter
	for _, n := range r.items {
		if !publishedOnly || n.IsPublished {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsFeatured != out[j].IsFeatured {
			return out[i].IsFeatured
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AudioRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *AudioRepo) SetPublished(_ context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return ports.ErrNotFound
	}
	n.IsPublished = published
	n.IsFeatured = n.IsFeatured && published
	r.items[id] = n
	return nil
}

func (r *AudioRepo) SetFeatured(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	for k, n := range r.items {
		n.IsFeatured = k == id
		r.items[k] = n
	}
	return nil
}

func (r *AudioRepo) IncrementPlays(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return 0, ports.ErrNotFound
	}
	n.PlayCount++
	r.items[id] = n
	return n.PlayCount, nil
}

type ReporterRepo struct {
	Items []models.Reporter
}

var _ ports.ReporterRepository = (*ReporterRepo)(nil)

func (r *ReporterRepo) List(_ context.Context, activeOnly bool) ([]models.Reporter, error) {
	var out []models.Reporter
	for _, rep := range r.Items {
		if !activeOnly || rep.IsActive {
			out = append(out, rep)
		}
	}
	return out, nil
}

func (r *ReporterRepo) GetBySlug(_ context.Context, slug string) (*models.Reporter, error) {
	for _, rep := range r.Items {
		if rep.Slug == slug {
			return &rep, nil
		}
	}
	return nil, ports.ErrNotFound
}

type MuqtarabRepo struct {
	mu       sync.Mutex
	Corners  []models.MuqtarabCorner
	Articles []models.MuqtarabArticle
}

var _ ports.MuqtarabRepository = (*MuqtarabRepo)(nil)

func (r *MuqtarabRepo) ListCorners(_ context.Context, activeOnly bool) ([]models.MuqtarabCorner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MuqtarabCorner
	for _, c := range r.Corners {
		if !activeOnly || c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MuqtarabRepo) GetCornerBySlug(_ context.Context, slug string) (*models.MuqtarabCorner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Corners {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *MuqtarabRepo) ListArticles(_ context.Context, cornerID string, limit, offset int) ([]models.MuqtarabArticle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MuqtarabArticle
	for _, a := range r.Articles {
		if a.CornerID == cornerID && a.Status == models.StatusPublished {
			out = append(out, a)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MuqtarabRepo) CreateArticle(_ context.Context, a *models.MuqtarabArticle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.CreatedAt = time.Now()
	r.Articles = append(r.Articles, *a)
	return nil
}

type StatsRepo struct {
	Stats    models.DashboardStats
	GotSince time.Time
	GotLimit int
}

var _ ports.StatsRepository = (*StatsRepo)(nil)

func (r *StatsRepo) Dashboard(_ context.Context, topSince time.Time, topLimit int) (*models.DashboardStats, error) {
	r.GotSince, r.GotLimit = topSince, topLimit
	s := r.Stats
	return &s, nil
}
