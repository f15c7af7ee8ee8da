package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"prd-generator/internal/model"
	"prd-generator/internal/service/llm"
)

type PRDStore interface {
	FindByID(ctx context.Context, id string) (model.PRD, error)
	ListByUser(ctx context.Context, userID string, limit int, offset int) ([]model.PRD, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, prd model.PRD) error
	Update(ctx context.Context, prd model.PRD) error
	Delete(ctx context.Context, id string) error
}

type PRDService struct {
	prds     PRDStore
	prompts  *PromptBuilder
	provider llm.Provider
}

func NewPRDService(prds PRDStore, prompts *PromptBuilder, provider llm.Provider) *PRDService {
	return &PRDService{prds: prds, prompts: prompts, provider: provider}
}

// CheckOwnership decides whether account may act on a resource owned by
// ownerID. Privilege does not bypass ownership; existence must already be
// resolved by the caller, so a failure here is always "forbidden", never
// "not found".
func CheckOwnership(account model.Account, ownerID string) error {
	if account.ID != ownerID {
		return model.ErrNotOwner
	}
	return nil
}

// Generate builds the prompt, calls the LLM provider and persists the
// resulting document under the caller's ownership.
func (s *PRDService) Generate(ctx context.Context, owner model.Account, req model.GeneratePRDRequest) (model.PRD, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.InputPrompt = strings.TrimSpace(req.InputPrompt)
	if req.Title == "" || req.InputPrompt == "" {
		return model.PRD{}, model.ErrInvalidInput
	}
	if req.TemplateType == "" {
		req.TemplateType = model.TemplateCRUD
	}
	if req.Format == "" {
		req.Format = model.FormatMarkdown
	}
	if !req.TemplateType.Valid() || !req.Format.Valid() {
		return model.PRD{}, model.ErrInvalidInput
	}

	prompt, err := s.prompts.Build(ctx, req)
	if err != nil {
		return model.PRD{}, err
	}

	content, err := s.provider.GenerateText(ctx, prompt)
	if err != nil {
		slog.Error("generation failed", "provider", s.provider.Name(), "error", err.Error())
		return model.PRD{}, fmt.Errorf("%w: %v", model.ErrGenerationFailed, err)
	}

	now := time.Now().UTC()
	prd := model.PRD{
		ID:           uuid.NewString(),
		UserID:       owner.ID,
		Title:        req.Title,
		InputPrompt:  req.InputPrompt,
		TemplateType: req.TemplateType,
		Format:       req.Format,
		Content:      content,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.prds.Create(ctx, prd); err != nil {
		return model.PRD{}, err
	}

	return prd, nil
}

func (s *PRDService) List(ctx context.Context, ownerID string, page int, limit int) ([]model.PRD, *model.Meta, error) {
	page, limit = normalizePage(page, limit)

	total, err := s.prds.CountByUser(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}

	prds, err := s.prds.ListByUser(ctx, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	return prds, pageMeta(page, limit, total), nil
}

// Get returns the document when it exists and the caller owns it.
// Existence is resolved before ownership: a missing document is "not
// found", someone else's document is "forbidden".
func (s *PRDService) Get(ctx context.Context, caller model.Account, prdID string) (model.PRD, error) {
	prd, err := s.prds.FindByID(ctx, prdID)
	if err != nil {
		return model.PRD{}, err
	}
	if err := CheckOwnership(caller, prd.UserID); err != nil {
		return model.PRD{}, err
	}
	return prd, nil
}

func (s *PRDService) Update(ctx context.Context, caller model.Account, prdID string, req model.UpdatePRDRequest) (model.PRD, error) {
	prd, err := s.Get(ctx, caller, prdID)
	if err != nil {
		return model.PRD{}, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return model.PRD{}, model.ErrInvalidInput
		}
		prd.Title = title
	}
	if req.Content != nil {
		prd.Content = *req.Content
	}
	if req.Format != nil {
		if !req.Format.Valid() {
			return model.PRD{}, model.ErrInvalidInput
		}
		prd.Format = *req.Format
	}

	prd.UpdatedAt = time.Now().UTC()
	if err := s.prds.Update(ctx, prd); err != nil {
		return model.PRD{}, err
	}

	return prd, nil
}

func (s *PRDService) Delete(ctx context.Context, caller model.Account, prdID string) error {
	if _, err := s.Get(ctx, caller, prdID); err != nil {
		return err
	}
	return s.prds.Delete(ctx, prdID)
}
