package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prd-generator/internal/model"
)

type PRDRepository struct {
	pool *pgxpool.Pool
}

func NewPRDRepository(pool *pgxpool.Pool) *PRDRepository {
	return &PRDRepository{pool: pool}
}

func (r *PRDRepository) FindByID(ctx context.Context, id string) (model.PRD, error) {
	var p model.PRD
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, input_prompt, template_type, format, content, created_at, updated_at
		 FROM prds WHERE id = $1`, id).
		Scan(&p.ID, &p.UserID, &p.Title, &p.InputPrompt, &p.TemplateType, &p.Format,
			&p.Content, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.PRD{}, model.ErrPRDNotFound
	}
	if err != nil {
		return model.PRD{}, fmt.Errorf("find prd by id: %w", err)
	}
	return p, nil
}

func (r *PRDRepository) ListByUser(ctx context.Context, userID string, limit int, offset int) ([]model.PRD, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, input_prompt, template_type, format, content, created_at, updated_at
		 FROM prds WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list prds: %w", err)
	}
	defer rows.Close()

	prds := make([]model.PRD, 0)
	for rows.Next() {
		var p model.PRD
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.InputPrompt, &p.TemplateType,
			&p.Format, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan prd: %w", err)
		}
		prds = append(prds, p)
	}
	return prds, rows.Err()
}

func (r *PRDRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM prds WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count prds: %w", err)
	}
	return count, nil
}

func (r *PRDRepository) Create(ctx context.Context, p model.PRD) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO prds (id, user_id, title, input_prompt, template_type, format, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.UserID, p.Title, p.InputPrompt, p.TemplateType, p.Format, p.Content, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create prd: %w", err)
	}
	return nil
}

func (r *PRDRepository) Update(ctx context.Context, p model.PRD) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE prds SET title = $2, format = $3, content = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.Title, p.Format, p.Content, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update prd: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPRDNotFound
	}
	return nil
}

func (r *PRDRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM prds WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete prd: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPRDNotFound
	}
	return nil
}
