package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/models"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/service"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/response"
)

type activityRecommender interface {
	Recommend(ctx context.Context, req dto.RecommendRequest) (*dto.RecommendResponse, error)
	History(ctx context.Context) ([]models.HistoryEntry, error)
	SaveSelection(ctx context.Context, req dto.SaveSelectionRequest) error
}

// RecommendationHandler exposes recommendation endpoints.
type RecommendationHandler struct {
	service activityRecommender
	metrics *service.MetricsService
}

// NewRecommendationHandler constructs the handler. The metrics service may be nil.
func NewRecommendationHandler(svc activityRecommender, metrics *service.MetricsService) *RecommendationHandler {
	return &RecommendationHandler{service: svc, metrics: metrics}
}

// Recommend godoc
// @Summary Recommend activities
// @Description Blend stored activities with synthesized fallback candidates for the requested preferences and goal
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param payload body dto.RecommendRequest true "Recommendation payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /recommendations [post]
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req dto.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid recommendation payload"))
		return
	}

	res, err := h.service.Recommend(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordRecommendation(res.Source)
	response.JSON(c, http.StatusOK, res, nil)
}

// History godoc
// @Summary List recent recommendation snapshots
// @Tags Recommendations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /recommendations/history [get]
func (h *RecommendationHandler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// SaveSelection godoc
// @Summary Record picked activities
// @Tags Recommendations
// @Accept json
// @Produce json
// @Param payload body dto.SaveSelectionRequest true "Selection payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /recommendations/selections [post]
func (h *RecommendationHandler) SaveSelection(c *gin.Context) {
	var req dto.SaveSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid selection payload"))
		return
	}

	if err := h.service.SaveSelection(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"saved": len(req.ActivityIDs)})
}
