package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
)

type timetableStore interface {
	CreateWithActivities(ctx context.Context, timetable *models.Timetable, activities []models.TimetableActivity) error
	FindByID(ctx context.Context, id string) (*models.Timetable, error)
	ListActivities(ctx context.Context, timetableID string) ([]models.TimetableActivity, error)
	ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Timetable, int, error)
	FindCurrentWeek(ctx context.Context, userID, weekStartDate string) (*models.Timetable, error)
	FindActivity(ctx context.Context, timetableID, activityRowID string) (*models.TimetableActivity, error)
	CompleteActivity(ctx context.Context, row *models.TimetableActivity) error
	Delete(ctx context.Context, id string) error
}

type planCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetricsRecorder interface {
	RecordCacheOperation(hit bool, duration time.Duration)
}

// TimetableServiceConfig tunes plan generation and caching.
type TimetableServiceConfig struct {
	FillEmptySlots bool
	CacheTTL       time.Duration
}

// TimetableService turns candidate activities into persisted weekly plans
// and serves them back, caching the current-week lookup.
type TimetableService struct {
	store     timetableStore
	cache     planCache
	generator *TimetableGenerator
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableServiceConfig
	metrics   cacheMetricsRecorder
	newRNG    func() *rand.Rand
	now       func() time.Time
}

// AttachMetrics wires an optional cache hit/miss recorder.
func (s *TimetableService) AttachMetrics(rec cacheMetricsRecorder) {
	s.metrics = rec
}

// NewTimetableService wires the timetable dependencies. The rng factory and
// clock may be nil; production wiring leaves them defaulted.
func NewTimetableService(
	store timetableStore,
	cache planCache,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg TimetableServiceConfig,
	newRNG func() *rand.Rand,
	now func() time.Time,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if newRNG == nil {
		newRNG = func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		}
	}
	if now == nil {
		now = time.Now
	}
	return &TimetableService{
		store:     store,
		cache:     cache,
		generator: NewTimetableGenerator(TimetableGeneratorConfig{FillEmptySlots: cfg.FillEmptySlots}),
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		newRNG:    newRNG,
		now:       now,
	}
}

// Generate places the candidates over the current Monday-Sunday week with
// the requested method and persists the plan with its rows atomically.
func (s *TimetableService) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable payload")
	}

	method := req.GenerationMethod
	if method == "" {
		method = models.GenerationRandom
	}

	candidates := make([]models.ActivityCandidate, 0, len(req.Activities))
	for _, activity := range req.Activities {
		candidate := models.ActivityCandidate{
			ID:                 activity.ID,
			Name:               activity.Name,
			Category:           activity.Category,
			Duration:           activity.Duration,
			Priority:           activity.Priority,
			PreferredTimeOfDay: activity.PreferredTimeOfDay,
		}
		if candidate.Priority == 0 {
			candidate.Priority = models.DefaultPriority
		}
		if candidate.PreferredTimeOfDay == "" {
			candidate.PreferredTimeOfDay = models.TimeOfDayAny
		}
		candidates = append(candidates, candidate)
	}

	window := weekWindow(s.now())
	placements := s.generator.Place(method, candidates, s.newRNG())

	title := req.Title
	if title == "" {
		title = fmt.Sprintf("Weekly Plan - Week %d", window.WeekNumber)
	}

	timetable := &models.Timetable{
		UserID:           req.UserID,
		Title:            title,
		WeekStartDate:    window.StartDate,
		WeekEndDate:      window.EndDate,
		IsGenerated:      true,
		GenerationMethod: method,
	}

	rows := make([]models.TimetableActivity, 0, len(placements))
	for _, placement := range placements {
		if placement.IsEmpty {
			continue
		}
		rows = append(rows, models.TimetableActivity{
			DayNumber:       placement.DayNumber,
			DayName:         placement.DayName,
			ActivityID:      placement.ActivityID,
			ActivityName:    placement.ActivityName,
			Category:        placement.Category,
			DurationMinutes: placement.DurationMinutes,
			StartTime:       placement.StartTime,
		})
	}

	if err := s.store.CreateWithActivities(ctx, timetable, rows); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist timetable")
	}

	s.invalidateUserCache(ctx, req.UserID)

	s.logger.Info("timetable generated",
		zap.String("timetable_id", timetable.ID),
		zap.String("method", method),
		zap.Int("placed", len(rows)),
		zap.Int("week", window.WeekNumber),
	)

	return &dto.GenerateTimetableResponse{
		Timetable: dto.TimetableDetail{
			Timetable:  *timetable,
			Activities: rows,
		},
		Generation: dto.GenerationInfo{
			Method:          method,
			ActivitiesCount: len(rows),
			WeekNumber:      window.WeekNumber,
		},
	}, nil
}

// GetByID returns a timetable hydrated with its placed activities.
func (s *TimetableService) GetByID(ctx context.Context, id string) (*dto.TimetableDetail, error) {
	timetable, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if timetable == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	return s.hydrate(ctx, timetable)
}

// ListByUser returns a page of the user's timetables newest first.
func (s *TimetableService) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Timetable, int, error) {
	timetables, total, err := s.store.ListByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	return timetables, total, nil
}

// CurrentWeek returns the user's plan covering today, serving a cached copy
// when one is fresh.
func (s *TimetableService) CurrentWeek(ctx context.Context, userID string) (*dto.TimetableDetail, error) {
	window := weekWindow(s.now())
	key := s.currentWeekKey(userID, window.StartDate)

	if s.cache != nil {
		var cached dto.TimetableDetail
		start := time.Now()
		err := s.cache.Get(ctx, key, &cached)
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		}
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("current week cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	timetable, err := s.store.FindCurrentWeek(ctx, userID, window.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load current week")
	}
	if timetable == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable for the current week")
	}

	detail, err := s.hydrate(ctx, timetable)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, detail, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("current week cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return detail, nil
}

// CompleteActivity marks one placed row as done with optional rating/notes.
func (s *TimetableService) CompleteActivity(ctx context.Context, timetableID, activityRowID string, req dto.CompleteActivityRequest) (*models.TimetableActivity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid completion payload")
	}

	timetable, err := s.store.FindByID(ctx, timetableID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if timetable == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}

	row, err := s.store.FindActivity(ctx, timetableID, activityRowID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable activity")
	}
	if row == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable activity not found")
	}

	row.UserRating = req.Rating
	row.UserNotes = req.Notes
	if err := s.store.CompleteActivity(ctx, row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable activity not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete activity")
	}

	s.invalidateUserCache(ctx, timetable.UserID)
	return row, nil
}

// Delete removes a timetable with its rows.
func (s *TimetableService) Delete(ctx context.Context, id string) error {
	timetable, err := s.store.FindByID(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if timetable == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}

	s.invalidateUserCache(ctx, timetable.UserID)
	return nil
}

func (s *TimetableService) hydrate(ctx context.Context, timetable *models.Timetable) (*dto.TimetableDetail, error) {
	activities, err := s.store.ListActivities(ctx, timetable.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable activities")
	}
	return &dto.TimetableDetail{
		Timetable:  *timetable,
		Activities: activities,
	}, nil
}

func (s *TimetableService) currentWeekKey(userID, weekStart string) string {
	return fmt.Sprintf("timetable:user:%s:week:%s", userID, weekStart)
}

func (s *TimetableService) invalidateUserCache(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("timetable:user:%s:*", userID)
	if err := s.cache.DeleteByPattern(ctx, pattern); err != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}
