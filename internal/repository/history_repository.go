package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

// HistoryRepository persists append-only recommendation snapshots.
type HistoryRepository struct {
	db         *sqlx.DB
	activities *ActivityRepository
}

// NewHistoryRepository constructs repository.
func NewHistoryRepository(db *sqlx.DB, activities *ActivityRepository) *HistoryRepository {
	return &HistoryRepository{db: db, activities: activities}
}

// Append inserts a new history record. Records are never updated.
func (r *HistoryRepository) Append(ctx context.Context, record *models.RecommendationHistory) error {
	if record == nil {
		return fmt.Errorf("history payload is nil")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO recommendation_history (id, preferences, goal, max_activities, activity_ids, source, created_at)
VALUES (:id, :preferences, :goal, :max_activities, :activity_ids, :source, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("append recommendation history: %w", err)
	}
	return nil
}

// ListRecent returns the latest history records hydrated with their
// activities, newest first.
func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`SELECT id, preferences, goal, max_activities, activity_ids, source, created_at
FROM recommendation_history ORDER BY created_at DESC LIMIT %d`, limit)

	var records []models.RecommendationHistory
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list recommendation history: %w", err)
	}

	// One lookup covers every referenced activity across the page.
	idSet := make(map[string]struct{})
	for _, record := range records {
		for _, id := range record.ActivityIDs {
			idSet[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	activities, err := r.activities.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Activity, len(activities))
	for _, activity := range activities {
		byID[activity.ID] = activity
	}

	entries := make([]models.HistoryEntry, 0, len(records))
	for _, record := range records {
		entry := models.HistoryEntry{RecommendationHistory: record}
		for _, id := range record.ActivityIDs {
			if activity, ok := byID[id]; ok {
				entry.Activities = append(entry.Activities, activity)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
