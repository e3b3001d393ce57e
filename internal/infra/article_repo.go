package infra

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/Vovarama1992/newsroom/internal/textutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const articleColumns = `id, title, slug, content, excerpt, featured_image, category_id, author_id,
	status, featured, breaking, reading_time, tags, views, likes, saves, shares,
	comments_count, scheduled_for, published_at, created_at, updated_at`

type PostgresArticleRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresArticleRepo(pool *pgxpool.Pool) *PostgresArticleRepo {
	return &PostgresArticleRepo{pool: pool}
}

var _ ports.ArticleRepository = (*PostgresArticleRepo)(nil)

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.FeaturedImage,
		&a.CategoryID, &a.AuthorID, &a.Status, &a.Featured, &a.Breaking,
		&a.ReadingTime, &a.Tags, &a.Views, &a.Likes, &a.Saves, &a.Shares,
		&a.CommentsCount, &a.ScheduledFor, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectArticles(rows pgx.Rows) ([]models.Article, error) {
	defer rows.Close()

	var out []models.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func searchText(a *models.Article) string {
	return textutil.NormalizeArabic(a.Title + " " + a.Excerpt)
}

func (r *PostgresArticleRepo) Create(ctx context.Context, a *models.Article) error {
	query := `
		INSERT INTO articles (id, title, slug, content, excerpt, search_text, featured_image,
			category_id, author_id, status, featured, breaking, reading_time, tags,
			scheduled_for, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.ID, a.Title, a.Slug, a.Content, a.Excerpt, searchText(a), a.FeaturedImage,
		a.CategoryID, a.AuthorID, a.Status, a.Featured, a.Breaking, a.ReadingTime,
		nonNil(a.Tags), a.ScheduledFor, a.PublishedAt,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return mapErr("insert article", err)
}

func (r *PostgresArticleRepo) Update(ctx context.Context, a *models.Article) error {
	query := `
		UPDATE articles
		SET title = $2, slug = $3, content = $4, excerpt = $5, search_text = $6,
			featured_image = $7, category_id = $8, status = $9, featured = $10,
			breaking = $11, reading_time = $12, tags = $13, scheduled_for = $14,
			published_at = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.ID, a.Title, a.Slug, a.Content, a.Excerpt, searchText(a), a.FeaturedImage,
		a.CategoryID, a.Status, a.Featured, a.Breaking, a.ReadingTime,
		nonNil(a.Tags), a.ScheduledFor, a.PublishedAt,
	).Scan(&a.UpdatedAt)
	return mapErr("update article", err)
}

func (r *PostgresArticleRepo) GetByID(ctx context.Context, id string) (*models.Article, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
	a, err := scanArticle(row)
	if err != nil {
		return nil, mapErr("get article", err)
	}
	return a, nil
}

func (r *PostgresArticleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug)
	a, err := scanArticle(row)
	if err != nil {
		return nil, mapErr("get article by slug", err)
	}
	return a, nil
}

func (r *PostgresArticleRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1 AND id <> $2)`,
		slug, excludeID,
	).Scan(&exists)
	return exists, mapErr("slug exists", err)
}

func articleWhere(f ports.ArticleFilter) sq.And {
	where := sq.And{}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if f.CategoryID != "" {
		where = append(where, sq.Eq{"category_id": f.CategoryID})
	}
	if len(f.CategoryIDs) > 0 {
		where = append(where, sq.Eq{"category_id": f.CategoryIDs})
	}
	if f.AuthorID != "" {
		where = append(where, sq.Eq{"author_id": f.AuthorID})
	}
	if f.Featured != nil {
		where = append(where, sq.Eq{"featured": *f.Featured})
	}
	if f.Breaking != nil {
		where = append(where, sq.Eq{"breaking": *f.Breaking})
	}
	if f.Search != "" {
		where = append(where, sq.ILike{"search_text": "%" + textutil.NormalizeArabic(f.Search) + "%"})
	}
	if f.PublishedAfter != nil {
		where = append(where, sq.GtOrEq{"published_at": *f.PublishedAfter})
	}
	if len(f.ExcludeIDs) > 0 {
		where = append(where, sq.NotEq{"id": f.ExcludeIDs})
	}
	return where
}

func articleOrder(s ports.ArticleSort) string {
	switch s {
	case ports.SortViews:
		return "views DESC, published_at DESC NULLS LAST"
	case ports.SortCreatedAt:
		return "created_at DESC"
	default:
		return "published_at DESC NULLS LAST, created_at DESC"
	}
}

func (r *PostgresArticleRepo) List(ctx context.Context, f ports.ArticleFilter) ([]models.Article, int, error) {
	where := articleWhere(f)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("articles").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapErr("count articles", err)
	}

	q := psql.Select(articleColumns).From("articles").Where(where).OrderBy(articleOrder(f.Sort))
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}
	listSQL, args, err := q.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list: %w", err)
	}

	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, mapErr("list articles", err)
	}
	items, err := collectArticles(rows)
	if err != nil {
		return nil, 0, mapErr("scan articles", err)
	}
	return items, total, nil
}

func (r *PostgresArticleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete article", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete article: %w", ports.ErrNotFound)
	}
	return nil
}

func (r *PostgresArticleRepo) CountInCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM articles WHERE category_id = $1`, categoryID).Scan(&n)
	return n, mapErr("count in category", err)
}

func (r *PostgresArticleRepo) SetStatus(
	ctx context.Context,
	id string,
	status models.ArticleStatus,
	publishedAt *time.Time,
) (*models.Article, error) {
	query := `
		UPDATE articles
		SET status = $2,
			published_at = COALESCE($3, published_at),
			scheduled_for = CASE WHEN $2 = 'scheduled' THEN scheduled_for ELSE NULL END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + articleColumns
	a, err := scanArticle(r.pool.QueryRow(ctx, query, id, status, publishedAt))
	if err != nil {
		return nil, mapErr("set article status", err)
	}
	return a, nil
}

func (r *PostgresArticleRepo) PublishDue(ctx context.Context, now time.Time) ([]models.Article, error) {
	query := `
		UPDATE articles
		SET status = 'published',
			published_at = scheduled_for,
			scheduled_for = NULL,
			updated_at = NOW()
		WHERE id IN (
			SELECT id FROM articles
			WHERE status = 'scheduled' AND scheduled_for <= $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + articleColumns
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, mapErr("publish due", err)
	}
	items, err := collectArticles(rows)
	return items, mapErr("scan published", err)
}

func (r *PostgresArticleRepo) AddViews(ctx context.Context, deltas map[string]int64) error {
	if len(deltas) == 0 {
		return nil
	}
	ids := make([]string, 0, len(deltas))
	counts := make([]int64, 0, len(deltas))
	for id, n := range deltas {
		ids = append(ids, id)
		counts = append(counts, n)
	}

	_, err := r.pool.Exec(ctx, `
		UPDATE articles a
		SET views = a.views + d.n
		FROM unnest($1::text[], $2::bigint[]) AS d(id, n)
		WHERE a.id = d.id
	`, ids, counts)
	return mapErr("add views", err)
}
