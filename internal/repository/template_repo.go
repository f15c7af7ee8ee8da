package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prd-generator/internal/model"
)

type TemplateRepository struct {
	pool *pgxpool.Pool
}

func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

// FindByType returns the enabled template for a template type, preferring
// the default one when several are enabled.
func (r *TemplateRepository) FindByType(ctx context.Context, templateType model.TemplateType) (model.PromptTemplate, error) {
	var t model.PromptTemplate
	err := r.pool.QueryRow(ctx,
		`SELECT id, template_type, title, description, template_body, model_hint, is_default, enabled, created_at, updated_at
		 FROM prompt_templates
		 WHERE template_type = $1 AND enabled
		 ORDER BY is_default DESC, created_at
		 LIMIT 1`, templateType).
		Scan(&t.ID, &t.TemplateType, &t.Title, &t.Description, &t.Body, &t.ModelHint,
			&t.IsDefault, &t.Enabled, &t.CreatedAt, &t.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.PromptTemplate{}, model.ErrTemplateNotFound
	}
	if err != nil {
		return model.PromptTemplate{}, fmt.Errorf("find template by type: %w", err)
	}
	return t, nil
}
