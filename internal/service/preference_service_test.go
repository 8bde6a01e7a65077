package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
)

func newPreferenceFixture(repo *preferenceRepoStub) *PreferenceService {
	return NewPreferenceService(repo, validator.New(), zap.NewNop())
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	repo := &preferenceRepoStub{categoryNames: map[string]bool{"fitness": true}}
	svc := newPreferenceFixture(repo)

	_, err := svc.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "fitness"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestCreateCategorySucceeds(t *testing.T) {
	repo := &preferenceRepoStub{categoryNames: map[string]bool{}}
	svc := newPreferenceFixture(repo)

	category, err := svc.CreateCategory(context.Background(), dto.CreateCategoryRequest{Name: "study"})
	require.NoError(t, err)
	assert.Equal(t, "study", category.Name)
	assert.NotEmpty(t, category.ID)
}

func TestCreatePreferenceValidates(t *testing.T) {
	svc := newPreferenceFixture(&preferenceRepoStub{})

	_, err := svc.Create(context.Background(), dto.CreatePreferenceRequest{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpdatePreferenceNotFound(t *testing.T) {
	svc := newPreferenceFixture(&preferenceRepoStub{})

	_, err := svc.Update(context.Background(), "missing", dto.UpdatePreferenceRequest{
		CategoryID: "cat-1",
		Value:      "running",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUpdatePreferenceReplacesValue(t *testing.T) {
	repo := &preferenceRepoStub{preferences: map[string]*models.Preference{
		"pref-1": {ID: "pref-1", UserID: "user-1", CategoryID: "cat-1", Value: "cycling"},
	}}
	svc := newPreferenceFixture(repo)

	updated, err := svc.Update(context.Background(), "pref-1", dto.UpdatePreferenceRequest{
		CategoryID: "cat-2",
		Value:      "swimming",
	})
	require.NoError(t, err)
	assert.Equal(t, "cat-2", updated.CategoryID)
	assert.Equal(t, "swimming", updated.Value)
}

func TestDeletePreferenceNotFound(t *testing.T) {
	svc := newPreferenceFixture(&preferenceRepoStub{})

	err := svc.Delete(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

// --- Fixtures ---

type preferenceRepoStub struct {
	categories    []models.PreferenceCategory
	categoryNames map[string]bool
	preferences   map[string]*models.Preference
	byUser        map[string][]models.PreferenceWithCategory
}

func (s *preferenceRepoStub) ListCategories(ctx context.Context) ([]models.PreferenceCategory, error) {
	return s.categories, nil
}

func (s *preferenceRepoStub) CreateCategory(ctx context.Context, category *models.PreferenceCategory) error {
	category.ID = fmt.Sprintf("cat-%d", len(s.categories)+1)
	s.categories = append(s.categories, *category)
	if s.categoryNames == nil {
		s.categoryNames = map[string]bool{}
	}
	s.categoryNames[category.Name] = true
	return nil
}

func (s *preferenceRepoStub) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	return s.categoryNames[name], nil
}

func (s *preferenceRepoStub) ListByUser(ctx context.Context, userID string) ([]models.PreferenceWithCategory, error) {
	return s.byUser[userID], nil
}

func (s *preferenceRepoStub) FindByID(ctx context.Context, id string) (*models.Preference, error) {
	return s.preferences[id], nil
}

func (s *preferenceRepoStub) Create(ctx context.Context, preference *models.Preference) error {
	preference.ID = fmt.Sprintf("pref-%d", len(s.preferences)+1)
	if s.preferences == nil {
		s.preferences = map[string]*models.Preference{}
	}
	s.preferences[preference.ID] = preference
	return nil
}

func (s *preferenceRepoStub) Update(ctx context.Context, preference *models.Preference) error {
	s.preferences[preference.ID] = preference
	return nil
}

func (s *preferenceRepoStub) Delete(ctx context.Context, id string) error {
	delete(s.preferences, id)
	return nil
}
