package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/export"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/jobs"
)

// ExportJobType identifies timetable export jobs on the queue.
const ExportJobType = "timetable_export"

type exportJobStore interface {
	Create(ctx context.Context, job *models.ExportJob) error
	FindByID(ctx context.Context, id string) (*models.ExportJob, error)
	UpdateStatus(ctx context.Context, job *models.ExportJob) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.ExportJob, error)
}

type exportPlanReader interface {
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	ListActivities(ctx context.Context, timetableID string) ([]models.TimetableActivity, error)
}

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type downloadSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string) (jobID, relPath string, expiresAt time.Time, err error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type planRenderer interface {
	Render(doc export.PlanDocument) ([]byte, error)
}

// ExportService queues timetable exports and renders them in the background.
type ExportService struct {
	store     exportJobStore
	plans     exportPlanReader
	files     fileStore
	signer    downloadSigner
	queue     jobEnqueuer
	renderers map[models.ExportFormat]planRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService. Process must be registered
// as the queue handler before jobs are enqueued.
func NewExportService(
	store exportJobStore,
	plans exportPlanReader,
	files fileStore,
	signer downloadSigner,
	validate *validator.Validate,
	logger *zap.Logger,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		store:  store,
		plans:  plans,
		files:  files,
		signer: signer,
		renderers: map[models.ExportFormat]planRenderer{
			models.ExportFormatCSV: export.NewCSVExporter(),
			models.ExportFormatPDF: export.NewPDFExporter(),
		},
		validator: validate,
		logger:    logger,
	}
}

// AttachQueue wires the queue used to dispatch jobs.
func (s *ExportService) AttachQueue(queue jobEnqueuer) {
	s.queue = queue
}

// CreateExport validates the request, records a pending job and enqueues it.
func (s *ExportService) CreateExport(ctx context.Context, timetableID, userID string, req dto.CreateExportRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "export queue is not running")
	}

	timetable, err := s.plans.FindByID(ctx, timetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if timetable == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}

	job := &models.ExportJob{
		TimetableID: timetableID,
		RequestedBy: userID,
		Format:      models.ExportFormat(req.Format),
		Status:      models.ExportStatusPending,
	}
	if err := s.store.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: ExportJobType, Payload: job.ID}); err != nil {
		job.Status = models.ExportStatusFailed
		job.Error = "queue unavailable"
		if updateErr := s.store.UpdateStatus(ctx, job); updateErr != nil {
			s.logger.Warn("failed to mark unqueued export job", zap.Error(updateErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	return s.toResponse(job), nil
}

// GetJob returns the state of an export job owned by the user.
func (s *ExportService) GetJob(ctx context.Context, jobID, userID string) (*dto.ExportJobResponse, error) {
	job, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	if job.RequestedBy != userID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export job belongs to another user")
	}
	return s.toResponse(job), nil
}

// ListJobs returns the user's export jobs newest first.
func (s *ExportService) ListJobs(ctx context.Context, userID string, limit int) ([]dto.ExportJobResponse, error) {
	records, err := s.store.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list export jobs")
	}
	responses := make([]dto.ExportJobResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *s.toResponse(&records[i]))
	}
	return responses, nil
}

// OpenDownload validates a signed token and opens the rendered file.
func (s *ExportService) OpenDownload(ctx context.Context, token string) (*os.File, *models.ExportJob, error) {
	jobID, relPath, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}

	job, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job == nil || job.Status != models.ExportStatusCompleted || job.FilePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "export file not available")
	}

	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return file, job, nil
}

// Process renders one queued export. It is the queue handler: a returned
// error triggers the queue's retry policy, and a later successful attempt
// overwrites the FAILED status it records here.
func (s *ExportService) Process(ctx context.Context, queued jobs.Job) error {
	jobID, ok := queued.Payload.(string)
	if !ok || jobID == "" {
		return fmt.Errorf("export job payload must be a job id")
	}

	job, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load export job %s: %w", jobID, err)
	}
	if job == nil {
		return fmt.Errorf("export job %s no longer exists", jobID)
	}

	job.Status = models.ExportStatusRunning
	job.Error = ""
	if err := s.store.UpdateStatus(ctx, job); err != nil {
		return fmt.Errorf("mark export job running: %w", err)
	}

	if err := s.render(ctx, job); err != nil {
		job.Status = models.ExportStatusFailed
		job.Error = err.Error()
		if updateErr := s.store.UpdateStatus(ctx, job); updateErr != nil {
			s.logger.Warn("failed to mark export job failed", zap.Error(updateErr))
		}
		return err
	}

	job.Status = models.ExportStatusCompleted
	job.Error = ""
	if err := s.store.UpdateStatus(ctx, job); err != nil {
		return fmt.Errorf("mark export job completed: %w", err)
	}

	s.logger.Info("export rendered",
		zap.String("job_id", job.ID),
		zap.String("timetable_id", job.TimetableID),
		zap.String("format", string(job.Format)),
	)
	return nil
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) error {
	renderer, ok := s.renderers[job.Format]
	if !ok {
		return fmt.Errorf("unsupported export format %q", job.Format)
	}

	timetable, err := s.plans.FindByID(ctx, job.TimetableID)
	if err != nil {
		return fmt.Errorf("load timetable: %w", err)
	}
	if timetable == nil {
		return fmt.Errorf("timetable %s no longer exists", job.TimetableID)
	}

	activities, err := s.plans.ListActivities(ctx, job.TimetableID)
	if err != nil {
		return fmt.Errorf("load timetable activities: %w", err)
	}

	data, err := renderer.Render(buildPlanDocument(timetable, activities))
	if err != nil {
		return fmt.Errorf("render %s export: %w", job.Format, err)
	}

	filename := fmt.Sprintf("timetable-%s-%s.%s", job.TimetableID, job.ID, job.Format)
	relPath, err := s.files.Save(filename, data)
	if err != nil {
		return fmt.Errorf("save export file: %w", err)
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return fmt.Errorf("sign download token: %w", err)
	}

	job.FilePath = relPath
	job.Token = token
	job.ExpiresAt = &expiresAt
	return nil
}

func (s *ExportService) toResponse(job *models.ExportJob) *dto.ExportJobResponse {
	resp := &dto.ExportJobResponse{
		ID:          job.ID,
		TimetableID: job.TimetableID,
		Format:      string(job.Format),
		Status:      string(job.Status),
		ExpiresAt:   job.ExpiresAt,
		Error:       job.Error,
	}
	if job.Status == models.ExportStatusCompleted && job.Token != "" {
		resp.DownloadURL = fmt.Sprintf("/api/v1/exports/download?token=%s", job.Token)
	}
	return resp
}

func buildPlanDocument(timetable *models.Timetable, activities []models.TimetableActivity) export.PlanDocument {
	rows := make([]export.PlanRow, 0, len(activities))
	for _, activity := range activities {
		completed := "no"
		if activity.IsCompleted {
			completed = "yes"
		}
		rows = append(rows, export.PlanRow{
			Day:       activity.DayName,
			Activity:  activity.ActivityName,
			Category:  activity.Category,
			Duration:  fmt.Sprintf("%d min", activity.DurationMinutes),
			StartTime: activity.StartTime,
			Completed: completed,
		})
	}
	return export.PlanDocument{
		Title:     timetable.Title,
		WeekStart: timetable.WeekStartDate,
		WeekEnd:   timetable.WeekEndDate,
		Method:    timetable.GenerationMethod,
		Rows:      rows,
	}
}
