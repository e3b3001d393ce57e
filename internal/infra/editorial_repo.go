package infra

import (
	"context"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresReporterRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresReporterRepo(pool *pgxpool.Pool) *PostgresReporterRepo {
	return &PostgresReporterRepo{pool: pool}
}

var _ ports.ReporterRepository = (*PostgresReporterRepo)(nil)

// articles_count counts published articles written by the linked user.
const reporterSelect = `
	SELECT r.id, r.user_id, r.full_name, r.slug, r.bio, r.avatar_url, r.specialties,
		r.is_verified, r.is_active,
		(SELECT COUNT(*) FROM articles a
		 WHERE a.author_id = r.user_id AND a.status = 'published') AS articles_count
	FROM reporters r
`

func (r *PostgresReporterRepo) List(ctx context.Context, activeOnly bool) ([]models.Reporter, error) {
	query := reporterSelect
	if activeOnly {
		query += ` WHERE r.is_active`
	}
	query += ` ORDER BY r.is_verified DESC, r.full_name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapErr("list reporters", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Reporter])
	return out, mapErr("scan reporters", err)
}

func (r *PostgresReporterRepo) GetBySlug(ctx context.Context, slug string) (*models.Reporter, error) {
	rows, err := r.pool.Query(ctx, reporterSelect+` WHERE r.slug = $1`, slug)
	if err != nil {
		return nil, mapErr("get reporter", err)
	}
	rep, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Reporter])
	if err != nil {
		return nil, mapErr("get reporter", err)
	}
	return rep, nil
}

type PostgresMuqtarabRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMuqtarabRepo(pool *pgxpool.Pool) *PostgresMuqtarabRepo {
	return &PostgresMuqtarabRepo{pool: pool}
}

var _ ports.MuqtarabRepository = (*PostgresMuqtarabRepo)(nil)

const (
	cornerColumns = `id, name, slug, description, author_name, cover_image, theme_color,
		is_active, created_at`
	muqtarabArticleColumns = `id, corner_id, title, slug, content, excerpt, author_name,
		status, reading_time, views, published_at, created_at`
)

func (r *PostgresMuqtarabRepo) ListCorners(ctx context.Context, activeOnly bool) ([]models.MuqtarabCorner, error) {
	q := psql.Select(cornerColumns).From("muqtarab_corners").OrderBy("created_at DESC")
	if activeOnly {
		q = q.Where("is_active")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr("list corners", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.MuqtarabCorner])
	return out, mapErr("scan corners", err)
}

func (r *PostgresMuqtarabRepo) GetCornerBySlug(ctx context.Context, slug string) (*models.MuqtarabCorner, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+cornerColumns+` FROM muqtarab_corners WHERE slug = $1`, slug)
	if err != nil {
		return nil, mapErr("get corner", err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.MuqtarabCorner])
	if err != nil {
		return nil, mapErr("get corner", err)
	}
	return c, nil
}

func (r *PostgresMuqtarabRepo) ListArticles(ctx context.Context, cornerID string, limit, offset int) ([]models.MuqtarabArticle, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+muqtarabArticleColumns+` FROM muqtarab_articles
		WHERE corner_id = $1 AND status = 'published'
		ORDER BY published_at DESC NULLS LAST
		LIMIT $2 OFFSET $3
	`, cornerID, limit, offset)
	if err != nil {
		return nil, mapErr("list corner articles", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.MuqtarabArticle])
	return out, mapErr("scan corner articles", err)
}

func (r *PostgresMuqtarabRepo) CreateArticle(ctx context.Context, a *models.MuqtarabArticle) error {
	query := `
		INSERT INTO muqtarab_articles (id, corner_id, title, slug, content, excerpt,
			author_name, status, reading_time, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.ID, a.CornerID, a.Title, a.Slug, a.Content, a.Excerpt,
		a.AuthorName, a.Status, a.ReadingTime, a.PublishedAt,
	).Scan(&a.CreatedAt)
	return mapErr("insert corner article", err)
}

type PostgresStatsRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresStatsRepo(pool *pgxpool.Pool) *PostgresStatsRepo {
	return &PostgresStatsRepo{pool: pool}
}

var _ ports.StatsRepository = (*PostgresStatsRepo)(nil)

func (r *PostgresStatsRepo) Dashboard(ctx context.Context, topSince time.Time, topLimit int) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{
		ArticlesByStatus: map[models.ArticleStatus]int64{},
		TopArticles:      []models.ArticleStat{},
	}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*), COALESCE(SUM(views), 0) FROM articles GROUP BY status`)
	if err != nil {
		return nil, mapErr("count by status", err)
	}
	for rows.Next() {
		var status models.ArticleStatus
		var n, views int64
		if err := rows.Scan(&status, &n, &views); err != nil {
			rows.Close()
			return nil, mapErr("scan status counts", err)
		}
		stats.ArticlesByStatus[status] = n
		stats.TotalViews += views
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, mapErr("count by status", err)
	}

	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE is_active),
			(SELECT COUNT(*) FROM comments WHERE status = 'pending')
	`).Scan(&stats.Users, &stats.PendingComments)
	if err != nil {
		return nil, mapErr("dashboard totals", err)
	}

	rows, err = r.pool.Query(ctx, `
		SELECT id, title, views FROM articles
		WHERE status = 'published' AND published_at >= $1
		ORDER BY views DESC
		LIMIT $2
	`, topSince, topLimit)
	if err != nil {
		return nil, mapErr("top articles", err)
	}
	defer rows.Close()
	for rows.Next() {
		var s models.ArticleStat
		if err := rows.Scan(&s.ID, &s.Title, &s.Views); err != nil {
			return nil, mapErr("scan top articles", err)
		}
		stats.TopArticles = append(stats.TopArticles, s)
	}
	return stats, mapErr("top articles", rows.Err())
}
