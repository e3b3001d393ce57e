package infra

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const mediaAssetColumns = `id, folder_id, filename, original_name, url, media_type, mime_type,
	size, width, height, alt_text, uploaded_by, created_at`

type PostgresMediaRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMediaRepo(pool *pgxpool.Pool) ports.MediaRepository {
	return &PostgresMediaRepo{pool: pool}
}

func (r *PostgresMediaRepo) CreateFolder(ctx context.Context, f *models.MediaFolder) error {
	query := `
		INSERT INTO media_folders (id, name, parent_id)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query, f.ID, f.Name, f.ParentID).Scan(&f.CreatedAt)
	return mapErr("insert folder", err)
}

func (r *PostgresMediaRepo) ListFolders(ctx context.Context) ([]models.MediaFolder, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, parent_id, created_at FROM media_folders ORDER BY name`)
	if err != nil {
		return nil, mapErr("list folders", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.MediaFolder])
	return out, mapErr("scan folders", err)
}

// DeleteFolder refuses folders that still hold assets or sub-folders.
func (r *PostgresMediaRepo) DeleteFolder(ctx context.Context, id string) error {
	return mapErr("delete folder", pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var busy bool
		err := tx.QueryRow(ctx, `
			SELECT EXISTS (SELECT 1 FROM media_assets WHERE folder_id = $1)
				OR EXISTS (SELECT 1 FROM media_folders WHERE parent_id = $1)
		`, id).Scan(&busy)
		if err != nil {
			return err
		}
		if busy {
			return fmt.Errorf("folder not empty: %w", ports.ErrConflict)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM media_folders WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ports.ErrNotFound
		}
		return nil
	}))
}

func (r *PostgresMediaRepo) InsertAsset(ctx context.Context, a *models.MediaAsset) error {
	query := `
		INSERT INTO media_assets (id, folder_id, filename, original_name, url, media_type,
			mime_type, size, width, height, alt_text, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		a.ID, a.FolderID, a.Filename, a.OriginalName, a.URL, a.Type,
		a.MimeType, a.Size, a.Width, a.Height, a.AltText, a.UploadedBy,
	).Scan(&a.CreatedAt)
	return mapErr("insert asset", err)
}

func (r *PostgresMediaRepo) GetAsset(ctx context.Context, id string) (*models.MediaAsset, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+mediaAssetColumns+` FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return nil, mapErr("get asset", err)
	}
	a, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.MediaAsset])
	if err != nil {
		return nil, mapErr("get asset", err)
	}
	return a, nil
}

func (r *PostgresMediaRepo) ListAssets(ctx context.Context, f ports.MediaFilter) ([]models.MediaAsset, int, error) {
	q := psql.Select(mediaAssetColumns).From("media_assets")
	c := psql.Select("COUNT(*)").From("media_assets")

	if f.FolderID != nil {
		if *f.FolderID == "" {
			q, c = q.Where("folder_id IS NULL"), c.Where("folder_id IS NULL")
		} else {
			q, c = q.Where("folder_id = ?", *f.FolderID), c.Where("folder_id = ?", *f.FolderID)
		}
	}
	if f.Type != "" {
		q, c = q.Where("media_type = ?", f.Type), c.Where("media_type = ?", f.Type)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("(original_name ILIKE ? OR alt_text ILIKE ?)", like, like)
		c = c.Where("(original_name ILIKE ? OR alt_text ILIKE ?)", like, like)
	}

	countSQL, countArgs, err := c.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, mapErr("count assets", err)
	}

	listSQL, args, err := q.OrderBy("created_at DESC").
		Limit(uint64(f.Limit)).Offset(uint64(f.Offset)).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, mapErr("list assets", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.MediaAsset])
	if err != nil {
		return nil, 0, mapErr("scan assets", err)
	}
	return out, total, nil
}

func (r *PostgresMediaRepo) DeleteAsset(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM media_assets WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete asset", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete asset: %w", ports.ErrNotFound)
	}
	return nil
}
