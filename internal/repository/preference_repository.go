package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

// PreferenceRepository persists preference categories and user preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository constructs repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// ListCategories returns all preference categories alphabetically.
func (r *PreferenceRepository) ListCategories(ctx context.Context) ([]models.PreferenceCategory, error) {
	const query = `SELECT id, name, created_at FROM preference_categories ORDER BY name ASC`
	var categories []models.PreferenceCategory
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list preference categories: %w", err)
	}
	return categories, nil
}

// CreateCategory inserts a category.
func (r *PreferenceRepository) CreateCategory(ctx context.Context, category *models.PreferenceCategory) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO preference_categories (id, name, created_at) VALUES (:id, :name, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return fmt.Errorf("create preference category: %w", err)
	}
	return nil
}

// CategoryExistsByName checks for a duplicate category name.
func (r *PreferenceRepository) CategoryExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT 1 FROM preference_categories WHERE LOWER(name) = LOWER($1) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check preference category: %w", err)
	}
	return true, nil
}

// ListByUser returns a user's preferences joined with their categories.
func (r *PreferenceRepository) ListByUser(ctx context.Context, userID string) ([]models.PreferenceWithCategory, error) {
	const query = `SELECT p.id, p.user_id, p.category_id, p.value, p.created_at, p.updated_at, c.name AS category_name
FROM preferences p
JOIN preference_categories c ON c.id = p.category_id
WHERE p.user_id = $1
ORDER BY c.name ASC, p.value ASC`
	var preferences []models.PreferenceWithCategory
	if err := r.db.SelectContext(ctx, &preferences, query, userID); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return preferences, nil
}

// FindByID returns one preference, or nil when absent.
func (r *PreferenceRepository) FindByID(ctx context.Context, id string) (*models.Preference, error) {
	const query = `SELECT id, user_id, category_id, value, created_at, updated_at FROM preferences WHERE id = $1`
	var preference models.Preference
	if err := r.db.GetContext(ctx, &preference, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find preference %s: %w", id, err)
	}
	return &preference, nil
}

// Create inserts a preference.
func (r *PreferenceRepository) Create(ctx context.Context, preference *models.Preference) error {
	if preference.ID == "" {
		preference.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if preference.CreatedAt.IsZero() {
		preference.CreatedAt = now
	}
	preference.UpdatedAt = now

	const query = `INSERT INTO preferences (id, user_id, category_id, value, created_at, updated_at) VALUES (:id, :user_id, :category_id, :value, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, preference); err != nil {
		return fmt.Errorf("create preference: %w", err)
	}
	return nil
}

// Update replaces the category and value of a preference.
func (r *PreferenceRepository) Update(ctx context.Context, preference *models.Preference) error {
	preference.UpdatedAt = time.Now().UTC()
	const query = `UPDATE preferences SET category_id = :category_id, value = :value, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, preference); err != nil {
		return fmt.Errorf("update preference: %w", err)
	}
	return nil
}

// Delete removes a preference.
func (r *PreferenceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM preferences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preference rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
