package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

// SelectionRepository records which recommended activities users picked.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository constructs repository.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// InsertMany stores the selections in one transaction.
func (r *SelectionRepository) InsertMany(ctx context.Context, selections []models.ActivitySelection) error {
	if len(selections) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save selections: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	const query = `INSERT INTO activity_selections (id, session_id, activity_id, created_at)
VALUES (:id, :session_id, :activity_id, :created_at)`
	for i := range selections {
		payload := selections[i]
		if payload.ID == "" {
			payload.ID = uuid.NewString()
		}
		if payload.CreatedAt.IsZero() {
			payload.CreatedAt = now
		}
		if _, err = sqlx.NamedExecContext(ctx, tx, query, &payload); err != nil {
			return fmt.Errorf("insert selection %s: %w", payload.ActivityID, err)
		}
		selections[i] = payload
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save selections: %w", err)
	}
	return nil
}

// ListBySession returns selections for one recommendation session.
func (r *SelectionRepository) ListBySession(ctx context.Context, sessionID string) ([]models.ActivitySelection, error) {
	const query = `SELECT id, session_id, activity_id, created_at FROM activity_selections WHERE session_id = $1 ORDER BY created_at ASC`
	var selections []models.ActivitySelection
	if err := r.db.SelectContext(ctx, &selections, query, sessionID); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return selections, nil
}
