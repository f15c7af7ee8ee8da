package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"prd-generator/internal/model"
)

// UserStore is the credential-store boundary consumed by the auth and user
// services. Email lookups are case-insensitive.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.Account, error)
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account model.Account) error
	Update(ctx context.Context, account model.Account) error
	List(ctx context.Context, limit int, offset int) ([]model.Account, error)
	Count(ctx context.Context) (int, error)
}

type AuthService struct {
	codec *TokenCodec
	users UserStore
}

func NewAuthService(codec *TokenCodec, users UserStore) *AuthService {
	return &AuthService{codec: codec, users: users}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AccountProfile, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return model.AccountProfile{}, model.ErrInvalidInput
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.AccountProfile{}, model.ErrInvalidInput
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AccountProfile{}, err
	}
	if exists {
		return model.AccountProfile{}, model.ErrEmailAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return model.AccountProfile{}, err
	}

	now := time.Now().UTC()
	account := model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, account); err != nil {
		return model.AccountProfile{}, err
	}

	return account.Profile(), nil
}

// Login authenticates email+password and issues an access token. Unknown
// emails and wrong passwords fail identically so that callers cannot probe
// which addresses are registered.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	account, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return model.TokenResponse{}, model.ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	if !VerifyPassword(req.Password, account.PasswordHash) {
		return model.TokenResponse{}, model.ErrInvalidCredentials
	}

	if !account.IsActive {
		return model.TokenResponse{}, model.ErrInactiveAccount
	}

	token, err := s.codec.Issue(account.ID)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.codec.TTL().Seconds()),
	}, nil
}

// Resolve evaluates an optional bearer token against the account store.
// Decode failures of any kind collapse to an anonymous resolution; the
// specific kind is logged but never surfaced, so unauthenticated callers
// cannot tell a bad signature from an expired token. Exactly one store
// lookup is performed, and only for tokens that decode.
func (s *AuthService) Resolve(ctx context.Context, tokenString string) (model.ResolvedAccess, error) {
	if strings.TrimSpace(tokenString) == "" {
		return model.ResolvedAccess{State: model.AccessAnonymous}, nil
	}

	claims, err := s.codec.Decode(tokenString)
	if err != nil {
		slog.Debug("token rejected", "reason", err.Error())
		return model.ResolvedAccess{State: model.AccessAnonymous}, nil
	}

	account, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			slog.Warn("valid token with unknown subject", "subject", claims.Subject)
			return model.ResolvedAccess{State: model.AccessUnknownSubject}, nil
		}
		return model.ResolvedAccess{}, err
	}

	return model.ResolvedAccess{State: model.AccessResolved, Account: account}, nil
}

func (s *AuthService) GetAccountByID(ctx context.Context, id string) (model.Account, error) {
	return s.users.FindByID(ctx, id)
}
