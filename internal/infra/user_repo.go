package infra

import (
	"context"

	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

var _ ports.UserRepository = (*PostgresUserRepo)(nil)

func (r *PostgresUserRepo) Create(ctx context.Context, u *models.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, u.ID, u.Email, u.Name, u.PasswordHash, u.Role, u.IsActive).Scan(&u.CreatedAt)
	return mapErr("insert user", err)
}

func (r *PostgresUserRepo) get(ctx context.Context, where string, arg any) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, name, password_hash, role, is_active, created_at
		FROM users WHERE `+where, arg,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, mapErr("get user", err)
	}
	return &u, nil
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.get(ctx, "lower(email) = lower($1)", email)
}

func (r *PostgresUserRepo) ActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM users WHERE is_active`)
	if err != nil {
		return nil, mapErr("active users", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	return ids, mapErr("scan active users", err)
}

func (r *PostgresUserRepo) ListRoles(ctx context.Context) ([]models.RoleDefinition, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, display_name, permissions FROM roles ORDER BY name`)
	if err != nil {
		return nil, mapErr("list roles", err)
	}
	roles, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.RoleDefinition])
	return roles, mapErr("scan roles", err)
}
