package infra

import (
	"context"
	"fmt"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `id, name, name_en, slug, description, color, icon, parent_id,
	display_order, is_active, created_at, updated_at`

type PostgresCategoryRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepo(pool *pgxpool.Pool) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{pool: pool}
}

var _ ports.CategoryRepository = (*PostgresCategoryRepo)(nil)

func (r *PostgresCategoryRepo) List(ctx context.Context, active *bool) ([]models.Category, error) {
	q := psql.Select(categoryColumns).From("categories").OrderBy("display_order", "name")
	if active != nil {
		q = q.Where("is_active = ?", *active)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapErr("list categories", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Category])
	return out, mapErr("scan categories", err)
}

func (r *PostgresCategoryRepo) getOne(ctx context.Context, where string, arg any) (*models.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE `+where, arg)
	if err != nil {
		return nil, mapErr("get category", err)
	}
	c, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Category])
	if err != nil {
		return nil, mapErr("get category", err)
	}
	return c, nil
}

func (r *PostgresCategoryRepo) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PostgresCategoryRepo) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return r.getOne(ctx, "slug = $1", slug)
}

func (r *PostgresCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (id, name, name_en, slug, description, color, icon,
			parent_id, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, c.ID, c.Name, c.NameEn, c.Slug, c.Description, c.Color, c.Icon,
		c.ParentID, c.DisplayOrder, c.IsActive,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapErr("insert category", err)
}

func (r *PostgresCategoryRepo) Update(ctx context.Context, c *models.Category) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE categories
		SET name = $2, name_en = $3, slug = $4, description = $5, color = $6, icon = $7,
			parent_id = $8, display_order = $9, is_active = $10, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, c.ID, c.Name, c.NameEn, c.Slug, c.Description, c.Color, c.Icon,
		c.ParentID, c.DisplayOrder, c.IsActive,
	).Scan(&c.UpdatedAt)
	return mapErr("update category", err)
}

func (r *PostgresCategoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return mapErr("delete category", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete category: %w", ports.ErrNotFound)
	}
	return nil
}
