package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)
	}
}

func newTimetableFixture(store *timetableStoreStub, cache *planCacheStub) *TimetableService {
	return NewTimetableService(
		store,
		cache,
		validator.New(),
		zap.NewNop(),
		TimetableServiceConfig{CacheTTL: time.Minute},
		func() *rand.Rand { return rand.New(rand.NewSource(7)) },
		fixedClock(),
	)
}

func generateRequestFixture() dto.GenerateTimetableRequest {
	return dto.GenerateTimetableRequest{
		UserID:           "user-1",
		GenerationMethod: models.GenerationSmart,
		Activities: []dto.CandidateActivity{
			{ID: "act-1", Name: "Morning Jog", Category: "fitness", Duration: 30},
			{ID: "act-2", Name: "Language Drills", Category: "study", Duration: 45},
			{ID: "act-3", Name: "Guitar Practice", Category: "music", Duration: 40},
		},
	}
}

func TestGeneratePersistsPlanForCurrentWeek(t *testing.T) {
	store := &timetableStoreStub{}
	cache := &planCacheStub{}
	svc := newTimetableFixture(store, cache)

	resp, err := svc.Generate(context.Background(), generateRequestFixture())
	require.NoError(t, err)

	assert.Equal(t, "2026-08-24", resp.Timetable.WeekStartDate)
	assert.Equal(t, "2026-08-30", resp.Timetable.WeekEndDate)
	assert.Equal(t, models.GenerationSmart, resp.Generation.Method)
	assert.True(t, resp.Timetable.IsGenerated)
	assert.NotEmpty(t, resp.Timetable.Title)
	assert.Equal(t, len(resp.Timetable.Activities), resp.Generation.ActivitiesCount)

	require.NotNil(t, store.created)
	assert.Equal(t, "user-1", store.created.UserID)
	for _, row := range store.createdRows {
		assert.NotEmpty(t, row.ActivityName)
		assert.NotEmpty(t, row.StartTime)
	}
	assert.Contains(t, cache.deletedPatterns, "timetable:user:user-1:*")
}

func TestGenerateDefaultsMethodAndCandidateFields(t *testing.T) {
	store := &timetableStoreStub{}
	svc := newTimetableFixture(store, &planCacheStub{})

	req := generateRequestFixture()
	req.GenerationMethod = ""
	resp, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.GenerationRandom, resp.Generation.Method)
	// Random placement fills all seven days.
	assert.Len(t, resp.Timetable.Activities, 7)
}

func TestGenerateRejectsEmptyCandidates(t *testing.T) {
	svc := newTimetableFixture(&timetableStoreStub{}, &planCacheStub{})

	_, err := svc.Generate(context.Background(), dto.GenerateTimetableRequest{UserID: "user-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTimetableFixture(&timetableStoreStub{}, &planCacheStub{})

	_, err := svc.GetByID(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCurrentWeekServesCachedCopy(t *testing.T) {
	store := &timetableStoreStub{}
	cache := &planCacheStub{values: map[string]dto.TimetableDetail{
		"timetable:user:user-1:week:2026-08-24": {
			Timetable: models.Timetable{ID: "tt-cached", UserID: "user-1"},
		},
	}}
	svc := newTimetableFixture(store, cache)

	detail, err := svc.CurrentWeek(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "tt-cached", detail.ID)
	assert.Zero(t, store.findCurrentWeekCalls, "cache hit must not touch the store")
}

func TestCurrentWeekFallsThroughToStoreAndCaches(t *testing.T) {
	store := &timetableStoreStub{
		timetables: map[string]*models.Timetable{
			"tt-1": {ID: "tt-1", UserID: "user-1", WeekStartDate: "2026-08-24", WeekEndDate: "2026-08-30"},
		},
		currentWeek: "tt-1",
		rows: map[string][]models.TimetableActivity{
			"tt-1": {{ID: "row-1", TimetableID: "tt-1", DayNumber: 0, DayName: "Monday"}},
		},
	}
	cache := &planCacheStub{values: map[string]dto.TimetableDetail{}}
	svc := newTimetableFixture(store, cache)

	detail, err := svc.CurrentWeek(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "tt-1", detail.ID)
	require.Len(t, detail.Activities, 1)
	assert.Contains(t, cache.values, "timetable:user:user-1:week:2026-08-24")
}

func TestCurrentWeekNotFound(t *testing.T) {
	svc := newTimetableFixture(&timetableStoreStub{}, &planCacheStub{})

	_, err := svc.CurrentWeek(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCompleteActivityRecordsRatingAndInvalidatesCache(t *testing.T) {
	rating := 5
	notes := "felt great"
	store := &timetableStoreStub{
		timetables: map[string]*models.Timetable{
			"tt-1": {ID: "tt-1", UserID: "user-1"},
		},
		rows: map[string][]models.TimetableActivity{
			"tt-1": {{ID: "row-1", TimetableID: "tt-1", DayNumber: 2, DayName: "Wednesday"}},
		},
	}
	cache := &planCacheStub{}
	svc := newTimetableFixture(store, cache)

	row, err := svc.CompleteActivity(context.Background(), "tt-1", "row-1", dto.CompleteActivityRequest{
		Rating: &rating,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.True(t, row.IsCompleted)
	require.NotNil(t, row.UserRating)
	assert.Equal(t, 5, *row.UserRating)
	assert.Contains(t, cache.deletedPatterns, "timetable:user:user-1:*")
}

func TestCompleteActivityRejectsOutOfRangeRating(t *testing.T) {
	rating := 9
	svc := newTimetableFixture(&timetableStoreStub{}, &planCacheStub{})

	_, err := svc.CompleteActivity(context.Background(), "tt-1", "row-1", dto.CompleteActivityRequest{Rating: &rating})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDeleteRemovesPlanAndInvalidatesCache(t *testing.T) {
	store := &timetableStoreStub{
		timetables: map[string]*models.Timetable{
			"tt-1": {ID: "tt-1", UserID: "user-1"},
		},
	}
	cache := &planCacheStub{}
	svc := newTimetableFixture(store, cache)

	require.NoError(t, svc.Delete(context.Background(), "tt-1"))
	assert.NotContains(t, store.timetables, "tt-1")
	assert.Contains(t, cache.deletedPatterns, "timetable:user:user-1:*")
}

// --- Fixtures ---

type timetableStoreStub struct {
	timetables           map[string]*models.Timetable
	rows                 map[string][]models.TimetableActivity
	currentWeek          string
	created              *models.Timetable
	createdRows          []models.TimetableActivity
	findCurrentWeekCalls int
	err                  error
}

func (s *timetableStoreStub) CreateWithActivities(ctx context.Context, timetable *models.Timetable, activities []models.TimetableActivity) error {
	if s.err != nil {
		return s.err
	}
	timetable.ID = fmt.Sprintf("tt-%d", len(s.timetables)+1)
	for i := range activities {
		activities[i].ID = fmt.Sprintf("row-%d", i+1)
		activities[i].TimetableID = timetable.ID
	}
	if s.timetables == nil {
		s.timetables = map[string]*models.Timetable{}
	}
	if s.rows == nil {
		s.rows = map[string][]models.TimetableActivity{}
	}
	s.timetables[timetable.ID] = timetable
	s.rows[timetable.ID] = activities
	s.created = timetable
	s.createdRows = activities
	return nil
}

func (s *timetableStoreStub) FindByID(ctx context.Context, id string) (*models.Timetable, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.timetables[id], nil
}

func (s *timetableStoreStub) ListActivities(ctx context.Context, timetableID string) ([]models.TimetableActivity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rows[timetableID], nil
}

func (s *timetableStoreStub) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Timetable, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	var list []models.Timetable
	for _, timetable := range s.timetables {
		if timetable.UserID == userID {
			list = append(list, *timetable)
		}
	}
	return list, len(list), nil
}

func (s *timetableStoreStub) FindCurrentWeek(ctx context.Context, userID, weekStartDate string) (*models.Timetable, error) {
	s.findCurrentWeekCalls++
	if s.err != nil {
		return nil, s.err
	}
	if s.currentWeek == "" {
		return nil, nil
	}
	return s.timetables[s.currentWeek], nil
}

func (s *timetableStoreStub) FindActivity(ctx context.Context, timetableID, activityRowID string) (*models.TimetableActivity, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, row := range s.rows[timetableID] {
		if row.ID == activityRowID {
			copied := row
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *timetableStoreStub) CompleteActivity(ctx context.Context, row *models.TimetableActivity) error {
	if s.err != nil {
		return s.err
	}
	now := time.Now().UTC()
	row.IsCompleted = true
	row.CompletedAt = &now
	return nil
}

func (s *timetableStoreStub) Delete(ctx context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.timetables, id)
	delete(s.rows, id)
	return nil
}

type planCacheStub struct {
	values          map[string]dto.TimetableDetail
	deletedPatterns []string
}

func (c *planCacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	detail, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if out, ok := dest.(*dto.TimetableDetail); ok {
		*out = detail
	}
	return nil
}

func (c *planCacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.values == nil {
		c.values = map[string]dto.TimetableDetail{}
	}
	if detail, ok := value.(*dto.TimetableDetail); ok {
		c.values[key] = *detail
	}
	return nil
}

func (c *planCacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.deletedPatterns = append(c.deletedPatterns, pattern)
	return nil
}
