package infra

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const audioColumns = `id, title, content, audio_url, duration, voice, is_published,
	is_featured, play_count, created_at`

type PostgresAudioRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresAudioRepo(pool *pgxpool.Pool) *PostgresAudioRepo {
	return &PostgresAudioRepo{pool: pool}
}

var _ ports.AudioNewsletterRepository = (*PostgresAudioRepo)(nil)

func (r *PostgresAudioRepo) Create(ctx context.Context, n *models.AudioNewsletter) error {
	query := `
		INSERT INTO audio_newsletters (id, title, content, audio_url, duration, voice, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		n.ID, n.Title, n.Content, n.AudioURL, n.Duration, n.Voice, n.IsPublished,
	).Scan(&n.CreatedAt)
	return mapErr("insert audio newsletter", err)
}

func (r *PostgresAudioRepo) GetByID(ctx context.Context, id string) (*models.AudioNewsletter, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+audioColumns+` FROM audio_newsletters WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr("get audio newsletter", err)
	}
	n, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.AudioNewsletter])
	if err != nil {
		return nil, mapErr("get audio newsletter", err)
	}
	return n, nil
}

func (r *PostgresAudioRepo) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]models.AudioNewsletter, error) {
	q := psql.Select(audioColumns).From("audio_newsletters").
		OrderBy("is_featured DESC", "created_at DESC").
		Limit(uint64(limit)).Offset(uint64(offset))
	if publishedOnly {
		q = q.Where("is_published")
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr("list audio newsletters", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.AudioNewsletter])
	return out, mapErr("scan audio newsletters", err)
}

func (r *PostgresAudioRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audio_newsletters WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete audio newsletter", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete audio newsletter: %w", ports.ErrNotFound)
	}
	return nil
}

func (r *PostgresAudioRepo) SetPublished(ctx context.Context, id string, published bool) error {
	// unpublishing also drops the featured flag
	tag, err := r.pool.Exec(ctx, `
		UPDATE audio_newsletters
		SET is_published = $2, is_featured = is_featured AND $2
		WHERE id = $1
	`, id, published)
	if err != nil {
		return mapErr("set published", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set published: %w", ports.ErrNotFound)
	}
	return nil
}

func (r *PostgresAudioRepo) SetFeatured(ctx context.Context, id string) error {
	return mapErr("set featured", pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE audio_newsletters SET is_featured = FALSE WHERE is_featured AND id <> $1`, id,
		); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx,
			`UPDATE audio_newsletters SET is_featured = TRUE WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	}))
}

func (r *PostgresAudioRepo) IncrementPlays(ctx context.Context, id string) (int64, error) {
	var plays int64
	err := r.pool.QueryRow(ctx,
		`UPDATE audio_newsletters SET play_count = play_count + 1 WHERE id = $1 RETURNING play_count`, id,
	).Scan(&plays)
	return plays, mapErr("increment plays", err)
}
