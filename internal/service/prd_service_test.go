package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"prd-generator/internal/model"
	"prd-generator/internal/service/llm"
)

type fakePRDStore struct {
	mu   sync.Mutex
	prds map[string]model.PRD
}

func newFakePRDStore() *fakePRDStore {
	return &fakePRDStore{prds: make(map[string]model.PRD)}
}

func (s *fakePRDStore) FindByID(_ context.Context, id string) (model.PRD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prd, ok := s.prds[id]
	if !ok {
		return model.PRD{}, model.ErrPRDNotFound
	}
	return prd, nil
}

func (s *fakePRDStore) ListByUser(_ context.Context, userID string, limit int, offset int) ([]model.PRD, error) {
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

func (s *fakePRDStore) CountByUser(_ context.Context, userID string) (int, error) {
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

func (s *fakePRDStore) Create(_ context.Context, prd model.PRD) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prds[prd.ID] = prd
	return nil
}

func (s *fakePRDStore) Update(_ context.Context, prd model.PRD) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prds[prd.ID]; !ok {
		return model.ErrPRDNotFound
	}
	s.prds[prd.ID] = prd
	return nil
}

func (s *fakePRDStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.prds[id]; !ok {
		return model.ErrPRDNotFound
	}
	delete(s.prds, id)
	return nil
}

type failingProvider struct{}

func (failingProvider) Name() string { return "failing" }

func (failingProvider) GenerateText(context.Context, string) (string, error) {
	return "", errors.New("upstream unavailable")
}

func newTestPRDService(store PRDStore, provider llm.Provider) *PRDService {
	return NewPRDService(store, NewPromptBuilder(newFakeTemplateStore()), provider)
}

func TestCheckOwnership(t *testing.T) {
	owner := model.Account{ID: "owner-1"}
	other := model.Account{ID: "other-2", IsSuperuser: true}

	require.NoError(t, CheckOwnership(owner, "owner-1"))
	// Privilege does not bypass ownership.
	require.ErrorIs(t, CheckOwnership(other, "owner-1"), model.ErrNotOwner)
}

func TestGenerateMarkdown(t *testing.T) {
	store := newFakePRDStore()
	svc := newTestPRDService(store, llm.NewStaticProvider())
	owner := model.Account{ID: "owner-1"}

	prd, err := svc.Generate(context.Background(), owner, model.GeneratePRDRequest{
		Title:       "Task Tracker",
		InputPrompt: "an app for tracking tasks",
	})
	require.NoError(t, err)
	require.NotEmpty(t, prd.ID)
	require.Equal(t, "owner-1", prd.UserID)
	require.Equal(t, model.TemplateCRUD, prd.TemplateType)
	require.Equal(t, model.FormatMarkdown, prd.Format)
	require.Contains(t, prd.Content, "# Product Requirements Document")

	stored, err := store.FindByID(context.Background(), prd.ID)
	require.NoError(t, err)
	require.Equal(t, prd.Content, stored.Content)
}

func TestGenerateJSON(t *testing.T) {
	svc := newTestPRDService(newFakePRDStore(), llm.NewStaticProvider())
	owner := model.Account{ID: "owner-1"}

	prd, err := svc.Generate(context.Background(), owner, model.GeneratePRDRequest{
		Title:        "Task Tracker",
		InputPrompt:  "an app",
		TemplateType: model.TemplateCustom,
		Format:       model.FormatJSON,
	})
	require.NoError(t, err)
	require.Equal(t, model.FormatJSON, prd.Format)
	require.True(t, json.Valid([]byte(prd.Content)))
}

func TestGenerateValidation(t *testing.T) {
	svc := newTestPRDService(newFakePRDStore(), llm.NewStaticProvider())
	owner := model.Account{ID: "owner-1"}

	_, err := svc.Generate(context.Background(), owner, model.GeneratePRDRequest{Title: "  ", InputPrompt: "x"})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.Generate(context.Background(), owner, model.GeneratePRDRequest{Title: "x", InputPrompt: ""})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.Generate(context.Background(), owner, model.GeneratePRDRequest{
		Title: "x", InputPrompt: "y", TemplateType: "bogus",
	})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.Generate(context.Background(), owner, model.GeneratePRDRequest{
		Title: "x", InputPrompt: "y", Format: "xml",
	})
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestGenerateProviderFailure(t *testing.T) {
	store := newFakePRDStore()
	svc := newTestPRDService(store, failingProvider{})

	_, err := svc.Generate(context.Background(), model.Account{ID: "owner-1"}, model.GeneratePRDRequest{
		Title:       "x",
		InputPrompt: "y",
	})
	require.ErrorIs(t, err, model.ErrGenerationFailed)

	count, err := store.CountByUser(context.Background(), "owner-1")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestGetExistenceBeforeOwnership(t *testing.T) {
	store := newFakePRDStore()
	svc := newTestPRDService(store, llm.NewStaticProvider())

	owner := model.Account{ID: "owner-1"}
	stranger := model.Account{ID: "stranger-2"}

	prd, err := svc.Generate(context.Background(), owner, model.GeneratePRDRequest{
		Title:       "Mine",
		InputPrompt: "an app",
	})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), stranger, "no-such-id")
	require.ErrorIs(t, err, model.ErrPRDNotFound)

	_, err = svc.Get(context.Background(), stranger, prd.ID)
	require.ErrorIs(t, err, model.ErrNotOwner)

	got, err := svc.Get(context.Background(), owner, prd.ID)
	require.NoError(t, err)
	require.Equal(t, prd.ID, got.ID)
}

func TestUpdatePRD(t *testing.T) {
	store := newFakePRDStore()
	svc := newTestPRDService(store, llm.NewStaticProvider())
	owner := model.Account{ID: "owner-1"}

	prd, err := svc.Generate(context.Background(), owner, model.GeneratePRDRequest{
		Title:       "Original",
		InputPrompt: "an app",
	})
	require.NoError(t, err)

	newTitle := "Renamed"
	newContent := "updated body"
	updated, err := svc.Update(context.Background(), owner, prd.ID, model.UpdatePRDRequest{
		Title:   &newTitle,
		Content: &newContent,
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, "updated body", updated.Content)
	require.False(t, updated.UpdatedAt.Before(prd.UpdatedAt))

	empty := "   "
	_, err = svc.Update(context.Background(), owner, prd.ID, model.UpdatePRDRequest{Title: &empty})
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.Update(context.Background(), model.Account{ID: "stranger"}, prd.ID, model.UpdatePRDRequest{Title: &newTitle})
	require.ErrorIs(t, err, model.ErrNotOwner)
}

func TestDeletePRD(t *testing.T) {
	store := newFakePRDStore()
	svc := newTestPRDService(store, llm.NewStaticProvider())
	owner := model.Account{ID: "owner-1"}

	prd, err := svc.Generate(context.Background(), owner, model.GeneratePRDRequest{
		Title:       "Doomed",
		InputPrompt: "an app",
	})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), model.Account{ID: "stranger"}, prd.ID), model.ErrNotOwner)
	require.NoError(t, svc.Delete(context.Background(), owner, prd.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), owner, prd.ID), model.ErrPRDNotFound)
}

func TestListPagination(t *testing.T) {
	store := newFakePRDStore()
	svc := newTestPRDService(store, llm.NewStaticProvider())
	owner := model.Account{ID: "owner-1"}

	base := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Create(context.Background(), model.PRD{
			ID:        string(rune('a' + i)),
			UserID:    owner.ID,
			Title:     "doc",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
	require.NoError(t, store.Create(context.Background(), model.PRD{ID: "other", UserID: "someone-else"}))

	prds, meta, err := svc.List(context.Background(), owner.ID, 1, 2)
	require.NoError(t, err)
	require.Len(t, prds, 2)
	require.Equal(t, 5, meta.Total)
	require.Equal(t, 3, meta.TotalPages)
	// Newest first.
	require.Equal(t, "e", prds[0].ID)

	prds, meta, err = svc.List(context.Background(), owner.ID, 3, 2)
	require.NoError(t, err)
	require.Len(t, prds, 1)
	require.Equal(t, 3, meta.Page)
}
