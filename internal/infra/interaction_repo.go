package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresInteractionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresInteractionRepo(pool *pgxpool.Pool) *PostgresInteractionRepo {
	return &PostgresInteractionRepo{pool: pool}
}

var _ ports.InteractionRepository = (*PostgresInteractionRepo)(nil)

func counterColumn(t models.InteractionType) (string, error) {
	switch t {
	case models.InteractionLike:
		return "likes", nil
	case models.InteractionSave:
		return "saves", nil
	case models.InteractionShare:
		return "shares", nil
	}
	return "", fmt.Errorf("interaction %q has no counter", t)
}

func (r *PostgresInteractionRepo) Toggle(
	ctx context.Context,
	userID, articleID string,
	t models.InteractionType,
) (bool, int64, error) {
	column, err := counterColumn(t)
	if err != nil || !t.Toggleable() {
		return false, 0, fmt.Errorf("toggle %s: not toggleable", t)
	}

	var (
		active bool
		count  int64
	)
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// row lock serializes concurrent toggles on the same article
		if err := tx.QueryRow(ctx,
			`SELECT `+column+` FROM articles WHERE id = $1 FOR UPDATE`, articleID,
		).Scan(&count); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx,
			`DELETE FROM interactions WHERE user_id = $1 AND article_id = $2 AND type = $3`,
			userID, articleID, t,
		)
		if err != nil {
			return err
		}

		delta := -1
		if tag.RowsAffected() == 0 {
			if _, err := tx.Exec(ctx, `
				INSERT INTO interactions (id, user_id, article_id, type)
				VALUES ($1, $2, $3, $4)`,
				uuid.NewString(), userID, articleID, t,
			); err != nil {
				return err
			}
			delta = 1
			active = true
		}

		return tx.QueryRow(ctx,
			`UPDATE articles SET `+column+` = GREATEST(`+column+` + $2, 0) WHERE id = $1 RETURNING `+column,
			articleID, delta,
		).Scan(&count)
	})
	if err != nil {
		return false, 0, mapErr("toggle "+string(t), err)
	}
	return active, count, nil
}

func (r *PostgresInteractionRepo) Record(
	ctx context.Context,
	userID, articleID string,
	t models.InteractionType,
) (int64, error) {
	var count int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO interactions (id, user_id, article_id, type)
			VALUES ($1, $2, $3, $4)`,
			uuid.NewString(), userID, articleID, t,
		); err != nil {
			return err
		}
		if t != models.InteractionShare {
			return nil
		}
		return tx.QueryRow(ctx,
			`UPDATE articles SET shares = shares + 1 WHERE id = $1 RETURNING shares`, articleID,
		).Scan(&count)
	})
	if err != nil {
		return 0, mapErr("record "+string(t), err)
	}
	return count, nil
}

func (r *PostgresInteractionRepo) ListSince(ctx context.Context, userID string, since time.Time) ([]models.Interaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT i.id, i.user_id, i.article_id, i.type, i.created_at, a.category_id
		FROM interactions i
		JOIN articles a ON a.id = i.article_id
		WHERE i.user_id = $1 AND i.created_at >= $2
		ORDER BY i.created_at DESC
	`, userID, since)
	if err != nil {
		return nil, mapErr("list interactions", err)
	}
	defer rows.Close()

	var out []models.Interaction
	for rows.Next() {
		var it models.Interaction
		if err := rows.Scan(&it.ID, &it.UserID, &it.ArticleID, &it.Type, &it.CreatedAt, &it.CategoryID); err != nil {
			return nil, mapErr("scan interaction", err)
		}
		out = append(out, it)
	}
	return out, mapErr("iterate interactions", rows.Err())
}

func (r *PostgresInteractionRepo) SavedArticles(ctx context.Context, userID string, limit, offset int) ([]models.Article, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixed("a", articleColumns)+`
		FROM interactions i
		JOIN articles a ON a.id = i.article_id
		WHERE i.user_id = $1 AND i.type = 'save' AND a.status = 'published'
		ORDER BY i.created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, mapErr("saved articles", err)
	}
	items, err := collectArticles(rows)
	return items, mapErr("scan saved", err)
}

func (r *PostgresInteractionRepo) ActiveUsersInCategory(ctx context.Context, categoryID string, since time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT i.user_id
		FROM interactions i
		JOIN articles a ON a.id = i.article_id
		JOIN users u ON u.id = i.user_id
		WHERE a.category_id = $1 AND i.created_at >= $2 AND u.is_active
	`, categoryID, since)
	if err != nil {
		return nil, mapErr("category audience", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, mapErr("scan audience", err)
}
