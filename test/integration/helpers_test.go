//go:build integration

// Package integration exercises the full HTTP surface: router, gates,
// handlers and services wired together over in-memory stores and the
// static LLM provider.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"prd-generator/internal/config"
	"prd-generator/internal/handler"
	"prd-generator/internal/middleware"
	"prd-generator/internal/model"
	"prd-generator/internal/router"
	"prd-generator/internal/service"
	"prd-generator/internal/service/llm"
)

type memoryUserStore struct {
	mu       sync.Mutex
	accounts map[string]model.Account
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{accounts: make(map[string]model.Account)}
}

func (s *memoryUserStore) FindByID(_ context.Context, id string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return account, nil
}

func (s *memoryUserStore) FindByEmail(_ context.Context, email string) (model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, account := range s.accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

func (s *memoryUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *memoryUserStore) Create(_ context.Context, account model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[account.ID] = account
	return nil
}

func (s *memoryUserStore) Update(_ context.Context, account model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accounts[account.ID]; !ok {
		return model.ErrAccountNotFound
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *memoryUserStore) List(_ context.Context, limit int, offset int) ([]model.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]model.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		all = append(all, account)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *memoryUserStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.accounts), nil
}

type memoryPRDStore struct {
	mu   sync.Mutex
	prds map[string]model.PRD
}

func newMemoryPRDStore() *memoryPRDStore {
	return &memoryPRDStore{prds: make(map[string]model.PRD)}
}

func (s *memoryPRDStore) FindByID(_ context.Context, id string) (model.PRD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prd, ok := s.prds[id]
	if !ok {
		return model.PRD{}, model.ErrPRDNotFound
	}
	return prd, nil
}

func (s *memoryPRDStore) ListByUser(_ context.Context, userID string, limit int, offset int) ([]model.PRD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := make([]model.PRD, 0)
	for _, prd := range s.prds {
		if prd.UserID == userID {
			owned = append(owned, prd)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].CreatedAt.After(owned[j].CreatedAt) })

	if offset >= len(owned) {
		return nil, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (s *memoryPRDStore) CountByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, prd := range s.prds {
		if prd.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (s *memoryPRDStore) Create(_ context.Context, prd model.PRD) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prds[prd.ID] = prd
	return nil
}

func (s *memoryPRDStore) Update(_ context.Context, prd model.PRD) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prds[prd.ID]; !ok {
		return model.ErrPRDNotFound
	}
	s.prds[prd.ID] = prd
	return nil
}

func (s *memoryPRDStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prds[id]; !ok {
		return model.ErrPRDNotFound
	}
	delete(s.prds, id)
	return nil
}

type memoryTemplateStore struct{}

func (memoryTemplateStore) FindByType(_ context.Context, templateType model.TemplateType) (model.PromptTemplate, error) {
	return model.PromptTemplate{
		ID:           "tpl-" + string(templateType),
		TemplateType: templateType,
		Body:         "Create a PRD titled {{title}}.\n\nUser request: {{input_prompt}}",
		Enabled:      true,
	}, nil
}

type testEnv struct {
	server *httptest.Server
	users  *memoryUserStore
	prds   *memoryPRDStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     100000,
		AuthRateLimitRPM: 100000,
		RequestTimeout:   30 * time.Second,
	}

	users := newMemoryUserStore()
	prds := newMemoryPRDStore()

	codec, err := service.NewTokenCodec("integration-secret", time.Hour)
	require.NoError(t, err)

	authService := service.NewAuthService(codec, users)
	prdService := service.NewPRDService(prds, service.NewPromptBuilder(memoryTemplateStore{}), llm.NewStaticProvider())

	h := router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		User:   handler.NewUserHandler(service.NewUserService(users)),
		PRD:    handler.NewPRDHandler(prdService),
		Health: handler.NewHealthHandler(nil),
		Docs:   handler.NewDocsHandler(""),
	}

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(authService), h))
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users, prds: prds}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *model.APIError `json:"error"`
	Meta    *model.Meta     `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method string, path string, token string, payload any) (int, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	}
	return resp.StatusCode, env
}

func (e *testEnv) register(t *testing.T, email string, password string) model.AccountProfile {
	t.Helper()

	status, env := e.do(t, http.MethodPost, "/api/v1/auth/register", "", model.RegisterRequest{
		Email:    email,
		FullName: "Integration User",
		Password: password,
	})
	require.Equal(t, http.StatusCreated, status)

	var profile model.AccountProfile
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	return profile
}

func (e *testEnv) login(t *testing.T, email string, password string) string {
	t.Helper()

	status, env := e.do(t, http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusOK, status)

	var token model.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

// seedSuperuser inserts a privileged account directly into the store;
// registration never produces one.
func (e *testEnv) seedSuperuser(t *testing.T, email string, password string) model.Account {
	t.Helper()

	hash, err := service.HashPassword(password)
	require.NoError(t, err)

	now := time.Now().UTC()
	account := model.Account{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     "Admin",
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, e.users.Create(context.Background(), account))
	return account
}
