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

// ExportJobRepository tracks queued timetable export jobs.
type ExportJobRepository struct {
	db *sqlx.DB
}

// NewExportJobRepository constructs repository.
func NewExportJobRepository(db *sqlx.DB) *ExportJobRepository {
	return &ExportJobRepository{db: db}
}

// Create inserts a pending job.
func (r *ExportJobRepository) Create(ctx context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ExportStatusPending
	}
	now := time.Now().UTC()
	if job.CreatedAt.IsZero() {
		job.CreatedAt = now
	}
	job.UpdatedAt = now

	const query = `INSERT INTO export_jobs (id, timetable_id, requested_by, format, status, file_path, token, error, expires_at, created_at, updated_at)
VALUES (:id, :timetable_id, :requested_by, :format, :status, :file_path, :token, :error, :expires_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create export job: %w", err)
	}
	return nil
}

// FindByID returns the job, or nil when absent.
func (r *ExportJobRepository) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	const query = `SELECT id, timetable_id, requested_by, format, status, file_path, token, error, expires_at, created_at, updated_at
FROM export_jobs WHERE id = $1`
	var job models.ExportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find export job %s: %w", id, err)
	}
	return &job, nil
}

// UpdateStatus transitions a job, recording result fields as they appear.
func (r *ExportJobRepository) UpdateStatus(ctx context.Context, job *models.ExportJob) error {
	job.UpdatedAt = time.Now().UTC()
	const query = `UPDATE export_jobs SET status = :status, file_path = :file_path, token = :token, error = :error, expires_at = :expires_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("update export job %s: %w", job.ID, err)
	}
	return nil
}

// ListByUser returns a user's export jobs newest first.
func (r *ExportJobRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.ExportJob, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query := fmt.Sprintf(`SELECT id, timetable_id, requested_by, format, status, file_path, token, error, expires_at, created_at, updated_at
FROM export_jobs WHERE requested_by = $1 ORDER BY created_at DESC LIMIT %d`, limit)
	var jobs []models.ExportJob
	if err := r.db.SelectContext(ctx, &jobs, query, userID); err != nil {
		return nil, fmt.Errorf("list export jobs: %w", err)
	}
	return jobs, nil
}
