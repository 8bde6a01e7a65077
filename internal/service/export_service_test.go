package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/jobs"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/storage"
)

func exportPlanStoreFixture() *timetableStoreStub {
	return &timetableStoreStub{
		timetables: map[string]*models.Timetable{
			"tt-1": {
				ID:               "tt-1",
				UserID:           "user-1",
				Title:            "Weekly Plan - Week 35",
				WeekStartDate:    "2026-08-24",
				WeekEndDate:      "2026-08-30",
				GenerationMethod: models.GenerationSmart,
			},
		},
		rows: map[string][]models.TimetableActivity{
			"tt-1": {
				{ID: "row-1", DayNumber: 0, DayName: "Monday", ActivityName: "Morning Jog", Category: "fitness", DurationMinutes: 30, StartTime: "18:00:00", IsCompleted: true},
				{ID: "row-2", DayNumber: 1, DayName: "Tuesday", ActivityName: "Language Drills", Category: "study", DurationMinutes: 45, StartTime: "18:00:00"},
			},
		},
	}
}

func newExportFixture(t *testing.T, jobStore *exportJobStoreStub) (*ExportService, *enqueuerStub) {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	svc := NewExportService(
		jobStore,
		exportPlanStoreFixture(),
		files,
		storage.NewSignedURLSigner("test-secret", time.Hour),
		validator.New(),
		zap.NewNop(),
	)
	queue := &enqueuerStub{}
	svc.AttachQueue(queue)
	return svc, queue
}

func TestCreateExportQueuesPendingJob(t *testing.T) {
	jobStore := &exportJobStoreStub{}
	svc, queue := newExportFixture(t, jobStore)

	resp, err := svc.CreateExport(context.Background(), "tt-1", "user-1", dto.CreateExportRequest{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, string(models.ExportStatusPending), resp.Status)
	assert.Empty(t, resp.DownloadURL)

	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, ExportJobType, queue.enqueued[0].Type)
	assert.Equal(t, resp.ID, queue.enqueued[0].Payload)
}

func TestCreateExportRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportFixture(t, &exportJobStoreStub{})

	_, err := svc.CreateExport(context.Background(), "tt-1", "user-1", dto.CreateExportRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateExportMissingTimetable(t *testing.T) {
	svc, _ := newExportFixture(t, &exportJobStoreStub{})

	_, err := svc.CreateExport(context.Background(), "missing", "user-1", dto.CreateExportRequest{Format: "pdf"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProcessRendersCSVAndSignsDownload(t *testing.T) {
	jobStore := &exportJobStoreStub{}
	svc, queue := newExportFixture(t, jobStore)

	resp, err := svc.CreateExport(context.Background(), "tt-1", "user-1", dto.CreateExportRequest{Format: "csv"})
	require.NoError(t, err)

	require.NoError(t, svc.Process(context.Background(), queue.enqueued[0]))

	job := jobStore.jobs[resp.ID]
	require.NotNil(t, job)
	assert.Equal(t, models.ExportStatusCompleted, job.Status)
	assert.NotEmpty(t, job.FilePath)
	assert.NotEmpty(t, job.Token)
	require.NotNil(t, job.ExpiresAt)

	file, downloadJob, err := svc.OpenDownload(context.Background(), job.Token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, job.ID, downloadJob.ID)

	data, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Morning Jog")
	assert.Contains(t, content, "Monday")
	assert.Equal(t, ".csv", filepath.Ext(file.Name()))
	// Header row plus one line per placed activity.
	assert.Len(t, strings.Split(strings.TrimSpace(content), "\n"), 3)
}

func TestProcessRendersPDF(t *testing.T) {
	jobStore := &exportJobStoreStub{}
	svc, queue := newExportFixture(t, jobStore)

	resp, err := svc.CreateExport(context.Background(), "tt-1", "user-1", dto.CreateExportRequest{Format: "pdf"})
	require.NoError(t, err)
	require.NoError(t, svc.Process(context.Background(), queue.enqueued[0]))

	job := jobStore.jobs[resp.ID]
	assert.Equal(t, models.ExportStatusCompleted, job.Status)

	file, _, err := svc.OpenDownload(context.Background(), job.Token)
	require.NoError(t, err)
	defer file.Close()
	data, err := os.ReadFile(file.Name())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestProcessMarksFailureOnMissingTimetable(t *testing.T) {
	jobStore := &exportJobStoreStub{}
	svc, _ := newExportFixture(t, jobStore)

	job := &models.ExportJob{TimetableID: "missing", RequestedBy: "user-1", Format: models.ExportFormatCSV}
	require.NoError(t, jobStore.Create(context.Background(), job))

	err := svc.Process(context.Background(), jobs.Job{ID: job.ID, Type: ExportJobType, Payload: job.ID})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusFailed, jobStore.jobs[job.ID].Status)
	assert.NotEmpty(t, jobStore.jobs[job.ID].Error)
}

func TestGetJobEnforcesOwnership(t *testing.T) {
	jobStore := &exportJobStoreStub{}
	svc, _ := newExportFixture(t, jobStore)

	resp, err := svc.CreateExport(context.Background(), "tt-1", "user-1", dto.CreateExportRequest{Format: "csv"})
	require.NoError(t, err)

	_, err = svc.GetJob(context.Background(), resp.ID, "intruder")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestOpenDownloadRejectsTamperedToken(t *testing.T) {
	svc, _ := newExportFixture(t, &exportJobStoreStub{})

	_, _, err := svc.OpenDownload(context.Background(), "bogus.token.value.sig")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

// --- Fixtures ---

type exportJobStoreStub struct {
	jobs map[string]*models.ExportJob
}

func (s *exportJobStoreStub) Create(ctx context.Context, job *models.ExportJob) error {
	if s.jobs == nil {
		s.jobs = map[string]*models.ExportJob{}
	}
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", len(s.jobs)+1)
	}
	if job.Status == "" {
		job.Status = models.ExportStatusPending
	}
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *exportJobStoreStub) FindByID(ctx context.Context, id string) (*models.ExportJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (s *exportJobStoreStub) UpdateStatus(ctx context.Context, job *models.ExportJob) error {
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *exportJobStoreStub) ListByUser(ctx context.Context, userID string, limit int) ([]models.ExportJob, error) {
	var records []models.ExportJob
	for _, job := range s.jobs {
		if job.RequestedBy == userID {
			records = append(records, *job)
		}
	}
	return records, nil
}

type enqueuerStub struct {
	enqueued []jobs.Job
	err      error
}

func (s *enqueuerStub) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, job)
	return nil
}
