package infra

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationColumns = `id, user_id, article_id, type, title, message, priority, read_at, created_at`

type PostgresNotificationRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepo(pool *pgxpool.Pool) *PostgresNotificationRepo {
	return &PostgresNotificationRepo{pool: pool}
}

var _ ports.NotificationRepository = (*PostgresNotificationRepo)(nil)

func collectNotifications(rows pgx.Rows) ([]models.SmartNotification, error) {
	defer rows.Close()

	var out []models.SmartNotification
	for rows.Next() {
		var n models.SmartNotification
		if err := rows.Scan(&n.ID, &n.UserID, &n.ArticleID, &n.Type, &n.Title,
			&n.Message, &n.Priority, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *PostgresNotificationRepo) InsertBatch(ctx context.Context, items []models.SmartNotification) ([]models.SmartNotification, error) {
	if len(items) == 0 {
		return nil, nil
	}

	var (
		ids, users, types, titles, messages, priorities []string
		articles                                        []*string
	)
	for _, n := range items {
		ids = append(ids, n.ID)
		users = append(users, n.UserID)
		articles = append(articles, n.ArticleID)
		types = append(types, string(n.Type))
		titles = append(titles, n.Title)
		messages = append(messages, n.Message)
		priorities = append(priorities, n.Priority)
	}

	rows, err := r.pool.Query(ctx, `
		INSERT INTO smart_notifications (id, user_id, article_id, type, title, message, priority)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[])
		ON CONFLICT (user_id, article_id, type)
			WHERE article_id IS NOT NULL AND type IN ('new_article', 'breaking_news')
			DO NOTHING
		RETURNING `+notificationColumns,
		ids, users, articles, types, titles, messages, priorities,
	)
	if err != nil {
		return nil, mapErr("insert notifications", err)
	}
	out, err := collectNotifications(rows)
	return out, mapErr("scan inserted notifications", err)
}

func (r *PostgresNotificationRepo) ListForUser(
	ctx context.Context,
	userID string,
	unreadOnly bool,
	limit, offset int,
) ([]models.SmartNotification, int, error) {
	q := psql.Select(notificationColumns).From("smart_notifications").Where("user_id = ?", userID)
	c := psql.Select("COUNT(*)").From("smart_notifications").Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
		c = c.Where("read_at IS NULL")
	}

	countSQL, countArgs, err := c.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapErr("count notifications", err)
	}

	listSQL, args, err := q.OrderBy("created_at DESC").Limit(uint64(limit)).Offset(uint64(offset)).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, mapErr("list notifications", err)
	}
	out, err := collectNotifications(rows)
	if err != nil {
		return nil, 0, mapErr("scan notifications", err)
	}
	return out, total, nil
}

func (r *PostgresNotificationRepo) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE smart_notifications SET read_at = NOW()
		WHERE user_id = $1 AND id = ANY($2) AND read_at IS NULL
	`, userID, ids)
	if err != nil {
		return 0, mapErr("mark read", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE smart_notifications SET read_at = NOW() WHERE user_id = $1 AND read_at IS NULL`, userID)
	if err != nil {
		return 0, mapErr("mark all read", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresNotificationRepo) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM smart_notifications WHERE user_id = $1 AND read_at IS NULL`, userID,
	).Scan(&n)
	return n, mapErr("unread count", err)
}
