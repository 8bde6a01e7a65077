package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/middleware"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
)

type timetablePlannerMock struct {
	generateReq  *dto.GenerateTimetableRequest
	generateResp *dto.GenerateTimetableResponse
	generateErr  error
	currentWeek  *dto.TimetableDetail
}

func (m *timetablePlannerMock) Generate(ctx context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	m.generateReq = &req
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return m.generateResp, nil
}

func (m *timetablePlannerMock) GetByID(ctx context.Context, id string) (*dto.TimetableDetail, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
}

func (m *timetablePlannerMock) ListByUser(ctx context.Context, userID string, page, pageSize int) ([]models.Timetable, int, error) {
	return nil, 0, nil
}

func (m *timetablePlannerMock) CurrentWeek(ctx context.Context, userID string) (*dto.TimetableDetail, error) {
	if m.currentWeek == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable for the current week")
	}
	return m.currentWeek, nil
}

func (m *timetablePlannerMock) CompleteActivity(ctx context.Context, timetableID, activityRowID string, req dto.CompleteActivityRequest) (*models.TimetableActivity, error) {
	return nil, nil
}

func (m *timetablePlannerMock) Delete(ctx context.Context, id string) error {
	return nil
}

func testClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "user-1", Role: models.RoleUser}
}

func TestTimetableHandlerGenerateUsesClaimsUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &timetablePlannerMock{
		generateResp: &dto.GenerateTimetableResponse{
			Generation: dto.GenerationInfo{Method: models.GenerationRandom, ActivitiesCount: 3, WeekNumber: 35},
		},
	}
	handler := NewTimetableHandler(mock, nil)

	body := `{"userId":"someone-else","activities":[{"id":"a","name":"Jog","category":"sports","duration":30}]}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetables/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, testClaims())

	handler.Generate(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.generateReq)
	require.Equal(t, "user-1", mock.generateReq.UserID)
}

func TestTimetableHandlerGenerateInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetablePlannerMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/timetables/generate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, testClaims())

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerCurrentWeekNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewTimetableHandler(&timetablePlannerMock{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetables/current-week", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, testClaims())

	handler.CurrentWeek(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerCurrentWeekOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	detail := &dto.TimetableDetail{}
	detail.ID = "plan-1"
	handler := NewTimetableHandler(&timetablePlannerMock{currentWeek: detail}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/timetables/current-week", nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, testClaims())

	handler.CurrentWeek(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "plan-1", envelope.Data.ID)
}
