package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prd-generator/internal/model"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.Account, error) {
	var a model.Account
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, is_active, is_superuser, created_at, updated_at
		 FROM users WHERE id = $1`, id).
		Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.IsActive, &a.IsSuperuser,
			&a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find account by id: %w", err)
	}
	return a, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	var a model.Account
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, password_hash, is_active, is_superuser, created_at, updated_at
		 FROM users WHERE lower(email) = lower($1)`, strings.TrimSpace(email)).
		Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.IsActive, &a.IsSuperuser,
			&a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find account by email: %w", err)
	}
	return a, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE lower(email) = lower($1))`,
		strings.TrimSpace(email)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) Create(ctx context.Context, a model.Account) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, email, full_name, password_hash, is_active, is_superuser, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Email, a.FullName, a.PasswordHash, a.IsActive, a.IsSuperuser, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, a model.Account) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET email = $2, full_name = $3, password_hash = $4, is_active = $5,
		        is_superuser = $6, updated_at = $7
		 WHERE id = $1`,
		a.ID, a.Email, a.FullName, a.PasswordHash, a.IsActive, a.IsSuperuser, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, limit int, offset int) ([]model.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, full_name, password_hash, is_active, is_superuser, created_at, updated_at
		 FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]model.Account, 0)
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.IsActive,
			&a.IsSuperuser, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}
