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

// TimetableRepository persists weekly plans and their placed activities.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

const timetableColumns = `id, user_id, title, week_start_date, week_end_date, is_generated, generation_method, created_at, updated_at`

const timetableActivityColumns = `id, timetable_id, day_number, day_name, activity_id, activity_name, category, duration_minutes, start_time, is_completed, user_rating, user_notes, completed_at`

// CreateWithActivities inserts a timetable and its activity rows in one
// transaction; a failed row insert rolls back the plan.
func (r *TimetableRepository) CreateWithActivities(ctx context.Context, timetable *models.Timetable, activities []models.TimetableActivity) error {
	if timetable == nil {
		return fmt.Errorf("timetable payload is nil")
	}
	if timetable.ID == "" {
		timetable.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if timetable.CreatedAt.IsZero() {
		timetable.CreatedAt = now
	}
	timetable.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create timetable: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertPlan = `INSERT INTO timetables (id, user_id, title, week_start_date, week_end_date, is_generated, generation_method, created_at, updated_at)
VALUES (:id, :user_id, :title, :week_start_date, :week_end_date, :is_generated, :generation_method, :created_at, :updated_at)`
	if _, err = sqlx.NamedExecContext(ctx, tx, insertPlan, timetable); err != nil {
		return fmt.Errorf("insert timetable: %w", err)
	}

	const insertRow = `INSERT INTO timetable_activities (id, timetable_id, day_number, day_name, activity_id, activity_name, category, duration_minutes, start_time, is_completed)
VALUES (:id, :timetable_id, :day_number, :day_name, :activity_id, :activity_name, :category, :duration_minutes, :start_time, :is_completed)`
	for i := range activities {
		row := activities[i]
		if row.ID == "" {
			row.ID = uuid.NewString()
		}
		row.TimetableID = timetable.ID
		if _, err = sqlx.NamedExecContext(ctx, tx, insertRow, &row); err != nil {
			return fmt.Errorf("insert timetable activity day %d: %w", row.DayNumber, err)
		}
		activities[i] = row
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create timetable: %w", err)
	}
	return nil
}

// FindByID returns the timetable, or nil when absent.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetables WHERE id = $1`, timetableColumns)
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find timetable %s: %w", id, err)
	}
	return &timetable, nil
}

// ListActivities returns the placed rows of a timetable ordered by day.
func (r *TimetableRepository) ListActivities(ctx context.Context, timetableID string) ([]models.TimetableActivity, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_activities WHERE timetable_id = $1 ORDER BY day_number ASC`, timetableActivityColumns)
	var rows []models.TimetableActivity
	if err := r.db.SelectContext(ctx, &rows, query, timetableID); err != nil {
		return nil, fmt.Errorf("list timetable activities: %w", err)
	}
	return rows, nil
}

// ListByUser returns a user's timetables newest first.
func (r *TimetableRepository) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Timetable, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const countQuery = `SELECT COUNT(*) FROM timetables WHERE user_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("count timetables: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM timetables WHERE user_id = $1 ORDER BY created_at DESC LIMIT %d OFFSET %d`, timetableColumns, pageSize, offset)
	var timetables []models.Timetable
	if err := r.db.SelectContext(ctx, &timetables, query, userID); err != nil {
		return nil, 0, fmt.Errorf("list timetables: %w", err)
	}
	return timetables, total, nil
}

// FindCurrentWeek returns the user's plan covering the given week start.
func (r *TimetableRepository) FindCurrentWeek(ctx context.Context, userID, weekStartDate string) (*models.Timetable, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetables WHERE user_id = $1 AND week_start_date = $2 ORDER BY created_at DESC LIMIT 1`, timetableColumns)
	var timetable models.Timetable
	if err := r.db.GetContext(ctx, &timetable, query, userID, weekStartDate); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find current week timetable: %w", err)
	}
	return &timetable, nil
}

// FindActivity returns one placed row of a timetable.
func (r *TimetableRepository) FindActivity(ctx context.Context, timetableID, activityRowID string) (*models.TimetableActivity, error) {
	query := fmt.Sprintf(`SELECT %s FROM timetable_activities WHERE timetable_id = $1 AND id = $2`, timetableActivityColumns)
	var row models.TimetableActivity
	if err := r.db.GetContext(ctx, &row, query, timetableID, activityRowID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find timetable activity %s: %w", activityRowID, err)
	}
	return &row, nil
}

// CompleteActivity marks a placed row as done with optional rating and notes.
func (r *TimetableRepository) CompleteActivity(ctx context.Context, row *models.TimetableActivity) error {
	now := time.Now().UTC()
	row.IsCompleted = true
	row.CompletedAt = &now

	const query = `UPDATE timetable_activities SET is_completed = :is_completed, user_rating = :user_rating, user_notes = :user_notes, completed_at = :completed_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("complete timetable activity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete timetable activity rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a timetable and its rows.
func (r *TimetableRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete timetable: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM timetable_activities WHERE timetable_id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable activities: %w", err)
	}

	var result sql.Result
	if result, err = tx.ExecContext(ctx, `DELETE FROM timetables WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete timetable rows affected: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete timetable: %w", err)
	}
	return nil
}
