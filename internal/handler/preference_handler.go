package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/dto"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/internal/service"
	appErrors "github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/errors"
	"github.com/Loria-fometio/ACTIVITY-GENERATOR-SYSTEM/pkg/response"
)

// PreferenceHandler exposes preference category and value endpoints.
type PreferenceHandler struct {
	service *service.PreferenceService
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(svc *service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: svc}
}

// ListCategories godoc
// @Summary List preference categories
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences/categories [get]
func (h *PreferenceHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}

// CreateCategory godoc
// @Summary Create a preference category
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.CreateCategoryRequest true "Category payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /preferences/categories [post]
func (h *PreferenceHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid category payload"))
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// List godoc
// @Summary List the current user's preferences
// @Tags Preferences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	preferences, err := h.service.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preferences, nil)
}

// Create godoc
// @Summary Store a preference value
// @Tags Preferences
// @Accept json
// @Produce json
// @Param payload body dto.CreatePreferenceRequest true "Preference payload"
// @Success 201 {object} response.Envelope
// @Router /preferences [post]
func (h *PreferenceHandler) Create(c *gin.Context) {
	var req dto.CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil {
		req.UserID = claims.UserID
	}

	preference, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, preference)
}

// Get godoc
// @Summary Get a preference value
// @Tags Preferences
// @Produce json
// @Param id path string true "Preference ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /preferences/{id} [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	preference, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preference, nil)
}

// Update godoc
// @Summary Update a preference value
// @Tags Preferences
// @Accept json
// @Produce json
// @Param id path string true "Preference ID"
// @Param payload body dto.UpdatePreferenceRequest true "Preference payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /preferences/{id} [put]
func (h *PreferenceHandler) Update(c *gin.Context) {
	var req dto.UpdatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}

	preference, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preference, nil)
}

// Delete godoc
// @Summary Delete a preference
// @Tags Preferences
// @Param id path string true "Preference ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /preferences/{id} [delete]
func (h *PreferenceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
