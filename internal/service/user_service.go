package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"prd-generator/internal/model"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, accountID string) (model.AccountProfile, error) {
	account, err := s.users.FindByID(ctx, accountID)
	if err != nil {
		return model.AccountProfile{}, err
	}
	return account.Profile(), nil
}

// UpdateProfile applies partial changes to the caller's own account.
// Changing the email re-checks uniqueness; changing the password re-hashes.
func (s *UserService) UpdateProfile(ctx context.Context, account model.Account, req model.UpdateProfileRequest) (model.AccountProfile, error) {
	changed := false

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return model.AccountProfile{}, model.ErrInvalidInput
		}
		if !strings.EqualFold(email, account.Email) {
			exists, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return model.AccountProfile{}, err
			}
			if exists {
				return model.AccountProfile{}, model.ErrEmailAlreadyExists
			}
		}
		account.Email = email
		changed = true
	}

	if req.FullName != nil {
		account.FullName = strings.TrimSpace(*req.FullName)
		changed = true
	}

	if req.Password != nil {
		if *req.Password == "" {
			return model.AccountProfile{}, model.ErrInvalidInput
		}
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return model.AccountProfile{}, err
		}
		account.PasswordHash = hash
		changed = true
	}

	if !changed {
		return account.Profile(), nil
	}

	account.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, account); err != nil {
		return model.AccountProfile{}, err
	}

	return account.Profile(), nil
}

func (s *UserService) List(ctx context.Context, page int, limit int) ([]model.AccountProfile, *model.Meta, error) {
	page, limit = normalizePage(page, limit)

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, nil, err
	}

	accounts, err := s.users.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, nil, err
	}

	profiles := make([]model.AccountProfile, 0, len(accounts))
	for _, account := range accounts {
		profiles = append(profiles, account.Profile())
	}

	return profiles, pageMeta(page, limit, total), nil
}

func normalizePage(page int, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func pageMeta(page int, limit int, total int) *model.Meta {
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	return &model.Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}
