package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
)

type preferenceRepository interface {
	ListCategories(ctx context.Context) ([]models.PreferenceCategory, error)
	CreateCategory(ctx context.Context, category *models.PreferenceCategory) error
	CategoryExistsByName(ctx context.Context, name string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.PreferenceWithCategory, error)
	FindByID(ctx context.Context, id string) (*models.Preference, error)
	Create(ctx context.Context, preference *models.Preference) error
	Update(ctx context.Context, preference *models.Preference) error
	Delete(ctx context.Context, id string) error
}

// PreferenceService manages preference categories and per-user values.
type PreferenceService struct {
	repo      preferenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService constructs a PreferenceService.
func NewPreferenceService(repo preferenceRepository, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{repo: repo, validator: validate, logger: logger}
}

// ListCategories returns all preference categories.
func (s *PreferenceService) ListCategories(ctx context.Context) ([]models.PreferenceCategory, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}

// CreateCategory registers a new category, rejecting duplicates by name.
func (s *PreferenceService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*models.PreferenceCategory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid category payload")
	}

	exists, err := s.repo.CategoryExistsByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check category")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "category name already exists")
	}

	category := &models.PreferenceCategory{Name: req.Name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create category")
	}
	return category, nil
}

// ListByUser returns a user's preferences with category names.
func (s *PreferenceService) ListByUser(ctx context.Context, userID string) ([]models.PreferenceWithCategory, error) {
	preferences, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list preferences")
	}
	return preferences, nil
}

// Create stores one preference value for a user.
func (s *PreferenceService) Create(ctx context.Context, req dto.CreatePreferenceRequest) (*models.Preference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}

	preference := &models.Preference{
		UserID:     req.UserID,
		CategoryID: req.CategoryID,
		Value:      req.Value,
	}
	if err := s.repo.Create(ctx, preference); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create preference")
	}
	return preference, nil
}

// Update replaces the category and value of an existing preference.
// Get returns a single preference by id.
func (s *PreferenceService) Get(ctx context.Context, id string) (*models.Preference, error) {
	preference, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preference")
	}
	if preference == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "preference not found")
	}
	return preference, nil
}

func (s *PreferenceService) Update(ctx context.Context, id string, req dto.UpdatePreferenceRequest) (*models.Preference, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}

	preference, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preference")
	}
	if preference == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "preference not found")
	}

	preference.CategoryID = req.CategoryID
	preference.Value = req.Value
	if err := s.repo.Update(ctx, preference); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preference")
	}
	return preference, nil
}

// Delete removes a preference.
func (s *PreferenceService) Delete(ctx context.Context, id string) error {
	preference, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preference")
	}
	if preference == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "preference not found")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preference")
	}
	return nil
}
