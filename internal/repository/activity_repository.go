package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

// ActivityRepository persists recommendable activities.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindByPreferencesAndGoal returns activities whose preference matches any
// of the supplied values and whose goal matches exactly, both compared
// case-insensitively. An empty preference list matches on goal alone.
func (r *ActivityRepository) FindByPreferencesAndGoal(ctx context.Context, filter models.ActivityFilter) ([]models.Activity, error) {
	conditions := []string{"LOWER(goal) = $1"}
	args := []interface{}{strings.ToLower(filter.Goal)}

	if len(filter.Preferences) > 0 {
		placeholders := make([]string, 0, len(filter.Preferences))
		for _, preference := range filter.Preferences {
			args = append(args, strings.ToLower(preference))
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
		}
		conditions = append(conditions, fmt.Sprintf("LOWER(preference) IN (%s)", strings.Join(placeholders, ", ")))
	}

	query := fmt.Sprintf(`SELECT id, title, description, preference, goal, category, duration, created_at, updated_at
FROM activities WHERE %s ORDER BY created_at DESC`, strings.Join(conditions, " AND "))

	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("find activities: %w", err)
	}
	return activities, nil
}

// FindByID fetches a single activity.
func (r *ActivityRepository) FindByID(ctx context.Context, id string) (*models.Activity, error) {
	const query = `SELECT id, title, description, preference, goal, category, duration, created_at, updated_at
FROM activities WHERE id = $1`
	var activity models.Activity
	if err := r.db.GetContext(ctx, &activity, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find activity %s: %w", id, err)
	}
	return &activity, nil
}

// FindByIDs fetches the given activities preserving no particular order.
func (r *ActivityRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Activity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, title, description, preference, goal, category, duration, created_at, updated_at
FROM activities WHERE id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build activities lookup: %w", err)
	}
	query = r.db.Rebind(query)

	var activities []models.Activity
	if err := r.db.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("find activities by ids: %w", err)
	}
	return activities, nil
}

// InsertMany persists the given activities, assigning ids and timestamps.
func (r *ActivityRepository) InsertMany(ctx context.Context, activities []models.Activity) ([]models.Activity, error) {
	if len(activities) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	const query = `INSERT INTO activities (id, title, description, preference, goal, category, duration, created_at, updated_at)
VALUES (:id, :title, :description, :preference, :goal, :category, :duration, :created_at, :updated_at)`

	for i := range activities {
		payload := activities[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		payload.UpdatedAt = now

		if _, err := r.db.NamedExecContext(ctx, query, &payload); err != nil {
			return nil, fmt.Errorf("insert activity %s: %w", payload.Title, err)
		}
		activities[i] = payload
	}
	return activities, nil
}
