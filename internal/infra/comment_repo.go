package infra

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const commentColumns = `id, article_id, user_id, parent_id, content, status, created_at`

type PostgresCommentRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentRepo(pool *pgxpool.Pool) *PostgresCommentRepo {
	return &PostgresCommentRepo{pool: pool}
}

var _ ports.CommentRepository = (*PostgresCommentRepo)(nil)

func scanComments(rows pgx.Rows) ([]models.Comment, error) {
	return pgx.CollectRows(rows, pgx.RowToStructByName[models.Comment])
}

func (r *PostgresCommentRepo) Create(ctx context.Context, c *models.Comment) error {
	return mapErr("insert comment", pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
			INSERT INTO comments (id, article_id, user_id, parent_id, content, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING created_at
		`, c.ID, c.ArticleID, c.UserID, c.ParentID, c.Content, c.Status).Scan(&c.CreatedAt); err != nil {
			return err
		}
		if c.Status != models.CommentApproved {
			return nil
		}
		_, err := tx.Exec(ctx,
			`UPDATE articles SET comments_count = comments_count + 1 WHERE id = $1`, c.ArticleID)
		return err
	}))
}

func (r *PostgresCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr("get comment", err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Comment])
	if err != nil {
		return nil, mapErr("get comment", err)
	}
	return c, nil
}

func (r *PostgresCommentRepo) ListByArticle(ctx context.Context, articleID string, status models.CommentStatus) ([]models.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE article_id = $1 AND status = $2
		ORDER BY created_at ASC
	`, articleID, status)
	if err != nil {
		return nil, mapErr("list comments", err)
	}
	out, err := scanComments(rows)
	return out, mapErr("scan comments", err)
}

func (r *PostgresCommentRepo) ListByStatus(ctx context.Context, status models.CommentStatus, limit, offset int) ([]models.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, status, limit, offset)
	if err != nil {
		return nil, mapErr("list comments by status", err)
	}
	out, err := scanComments(rows)
	return out, mapErr("scan comments", err)
}

func (r *PostgresCommentRepo) SetStatus(ctx context.Context, id string, status models.CommentStatus) (*models.Comment, error) {
	var out *models.Comment
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var prev models.CommentStatus
		var articleID string
		if err := tx.QueryRow(ctx,
			`SELECT status, article_id FROM comments WHERE id = $1 FOR UPDATE`, id,
		).Scan(&prev, &articleID); err != nil {
			return err
		}

		rows, err := tx.Query(ctx,
			`UPDATE comments SET status = $2 WHERE id = $1 RETURNING `+commentColumns, id, status)
		if err != nil {
			return err
		}
		out, err = pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Comment])
		if err != nil {
			return err
		}

		delta := 0
		switch {
		case prev != models.CommentApproved && status == models.CommentApproved:
			delta = 1
		case prev == models.CommentApproved && status != models.CommentApproved:
			delta = -1
		}
		if delta == 0 {
			return nil
		}
		_, err = tx.Exec(ctx,
			`UPDATE articles SET comments_count = GREATEST(comments_count + $2, 0) WHERE id = $1`,
			articleID, delta)
		return err
	})
	if err != nil {
		return nil, mapErr("set comment status", err)
	}
	return out, nil
}

// Delete removes a comment with its replies. Every approved row in the
// removed subtree is subtracted from the article's comments_count.
func (r *PostgresCommentRepo) Delete(ctx context.Context, id string) error {
	return mapErr("delete comment", pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var articleID string
		var approved int64
		err := tx.QueryRow(ctx, `
			WITH RECURSIVE subtree AS (
				SELECT id, article_id, status FROM comments WHERE id = $1
				UNION ALL
				SELECT c.id, c.article_id, c.status
				FROM comments c JOIN subtree s ON c.parent_id = s.id
			)
			SELECT article_id, COUNT(*) FILTER (WHERE status = $2)
			FROM subtree
			GROUP BY article_id
		`, id, models.CommentApproved).Scan(&articleID, &approved)
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		if approved == 0 {
			return nil
		}
		_, err = tx.Exec(ctx,
			`UPDATE articles SET comments_count = GREATEST(comments_count - $2, 0) WHERE id = $1`,
			articleID, approved)
		if err != nil {
			return fmt.Errorf("decrement comments_count: %w", err)
		}
		return nil
	}))
}
