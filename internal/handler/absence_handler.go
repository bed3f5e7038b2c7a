package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecole-admin-api/internal/service"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
	"github.com/noah-isme/ecole-admin-api/pkg/response"
)

// AbsenceHandler exposes absence and tardiness endpoints.
type AbsenceHandler struct {
	absences  *service.AbsenceService
	dashboard *service.DashboardService
}

// NewAbsenceHandler constructs AbsenceHandler.
func NewAbsenceHandler(absences *service.AbsenceService, dashboard *service.DashboardService) *AbsenceHandler {
	return &AbsenceHandler{absences: absences, dashboard: dashboard}
}

// List godoc
// @Summary List absences with resolved student names
// @Tags Absences
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /absences [get]
func (h *AbsenceHandler) List(c *gin.Context) {
	details, err := h.absences.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}

// Create godoc
// @Summary Record an absence or tardy
// @Tags Absences
// @Accept json
// @Produce json
// @Param payload body service.AbsenceRequest true "Absence payload"
// @Success 201 {object} response.Envelope
// @Router /absences [post]
func (h *AbsenceHandler) Create(c *gin.Context) {
	var req service.AbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	absence, err := h.absences.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.Created(c, absence)
}

// Update godoc
// @Summary Update an absence record
// @Tags Absences
// @Accept json
// @Produce json
// @Param id path string true "Absence ID"
// @Param payload body service.AbsenceRequest true "Absence payload"
// @Success 200 {object} response.Envelope
// @Router /absences/{id} [put]
func (h *AbsenceHandler) Update(c *gin.Context) {
	var req service.AbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	absence, err := h.absences.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.JSON(c, http.StatusOK, absence, nil)
}

// Delete godoc
// @Summary Delete an absence record
// @Tags Absences
// @Produce json
// @Param id path string true "Absence ID"
// @Success 204
// @Router /absences/{id} [delete]
func (h *AbsenceHandler) Delete(c *gin.Context) {
	if err := h.absences.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.NoContent(c)
}

func (h *AbsenceHandler) invalidateDashboard(c *gin.Context) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
}
