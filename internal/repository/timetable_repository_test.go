package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
)

func newTimetableRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTimetableRepositoryCreateWithActivities(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetables")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	timetable := &models.Timetable{
		UserID:           "user-1",
		Title:            "Weekly Plan",
		WeekStartDate:    "2026-08-24",
		WeekEndDate:      "2026-08-30",
		IsGenerated:      true,
		GenerationMethod: models.GenerationSmart,
	}
	rows := []models.TimetableActivity{
		{DayNumber: 0, DayName: "Monday", ActivityID: "act-1", ActivityName: "Run", Category: "fitness", DurationMinutes: 30, StartTime: "18:00:00"},
		{DayNumber: 1, DayName: "Tuesday", ActivityID: "act-2", ActivityName: "Read", Category: "study", DurationMinutes: 45, StartTime: "18:00:00"},
	}

	err := repo.CreateWithActivities(context.Background(), timetable, rows)
	require.NoError(t, err)
	assert.NotEmpty(t, timetable.ID)
	for _, row := range rows {
		assert.Equal(t, timetable.ID, row.TimetableID)
		assert.NotEmpty(t, row.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateRollsBackOnRowFailure(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetables")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO timetable_activities")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	timetable := &models.Timetable{UserID: "user-1", WeekStartDate: "2026-08-24", WeekEndDate: "2026-08-30"}
	rows := []models.TimetableActivity{{DayNumber: 0, DayName: "Monday", ActivityID: "act-1"}}

	err := repo.CreateWithActivities(context.Background(), timetable, rows)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectQuery("SELECT .+ FROM timetables WHERE id =").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	timetable, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, timetable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListActivitiesOrdersByDay(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	columns := []string{"id", "timetable_id", "day_number", "day_name", "activity_id", "activity_name", "category", "duration_minutes", "start_time", "is_completed", "user_rating", "user_notes", "completed_at"}
	rows := sqlmock.NewRows(columns).
		AddRow("row-1", "tt-1", 0, "Monday", "act-1", "Run", "fitness", 30, "18:00:00", false, nil, nil, nil).
		AddRow("row-2", "tt-1", 1, "Tuesday", "act-2", "Read", "study", 45, "18:00:00", true, 4, "good session", time.Now())

	mock.ExpectQuery("SELECT .+ FROM timetable_activities WHERE timetable_id = .+ ORDER BY day_number ASC").
		WithArgs("tt-1").
		WillReturnRows(rows)

	activities, err := repo.ListActivities(context.Background(), "tt-1")
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, "Monday", activities[0].DayName)
	assert.True(t, activities[1].IsCompleted)
	require.NotNil(t, activities[1].UserRating)
	assert.Equal(t, 4, *activities[1].UserRating)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetable_activities WHERE timetable_id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM timetables WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryFindByPreferencesAndGoal(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	columns := []string{"id", "title", "description", "preference", "goal", "category", "duration", "created_at", "updated_at"}
	rows := sqlmock.NewRows(columns).
		AddRow("act-1", "Morning Jog", "easy pace", "sports", "fitness", "cardio", 30, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(goal) = $1") + ".+" + regexp.QuoteMeta("LOWER(preference) IN ($2, $3)")).
		WithArgs("fitness", "sports", "wellness").
		WillReturnRows(rows)

	activities, err := repo.FindByPreferencesAndGoal(context.Background(), models.ActivityFilter{
		Preferences: []string{"Sports", "Wellness"},
		Goal:        "Fitness",
	})
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Morning Jog", activities[0].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositoryInsertManyAssignsIDs(t *testing.T) {
	db, mock, cleanup := newTimetableRepoMock(t)
	defer cleanup()
	repo := NewActivityRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activities")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	inserted, err := repo.InsertMany(context.Background(), []models.Activity{
		{Title: "Yoga Flow", Preference: "wellness", Goal: "relaxation", Category: "mindfulness", Duration: 30},
		{Title: "Interval Sprints", Preference: "sports", Goal: "fitness", Category: "cardio", Duration: 20},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	for _, activity := range inserted {
		assert.NotEmpty(t, activity.ID)
		assert.False(t, activity.CreatedAt.IsZero())
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
