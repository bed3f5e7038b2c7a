package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecole-admin-api/internal/service"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
	"github.com/noah-isme/ecole-admin-api/pkg/response"
)

// ScheduleHandler exposes weekly timetable endpoints.
type ScheduleHandler struct {
	schedule  *service.ScheduleService
	dashboard *service.DashboardService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedule *service.ScheduleService, dashboard *service.DashboardService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, dashboard: dashboard}
}

// Classes godoc
// @Summary List classes present in the timetable
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/classes [get]
func (h *ScheduleHandler) Classes(c *gin.Context) {
	classes, err := h.schedule.Classes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Slots godoc
// @Summary List grid time slots for a class
// @Tags Schedule
// @Produce json
// @Param class query string true "Class name"
// @Success 200 {object} response.Envelope
// @Router /schedule/slots [get]
func (h *ScheduleHandler) Slots(c *gin.Context) {
	class := c.Query("class")
	if class == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "class query parameter is required"))
		return
	}
	slots, err := h.schedule.Slots(c.Request.Context(), class)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Grid godoc
// @Summary Weekly grid for a class
// @Tags Schedule
// @Produce json
// @Param class query string true "Class name"
// @Success 200 {object} response.Envelope
// @Router /schedule/grid [get]
func (h *ScheduleHandler) Grid(c *gin.Context) {
	class := c.Query("class")
	if class == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "class query parameter is required"))
		return
	}
	grid, err := h.schedule.Grid(c.Request.Context(), class)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// List godoc
// @Summary List raw schedule entries
// @Tags Schedule
// @Produce json
// @Param class query string false "Restrict to one class"
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	entries, err := h.schedule.List(c.Request.Context(), c.Query("class"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Create godoc
// @Summary Create a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.ScheduleEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Router /schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req service.ScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.schedule.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.Created(c, entry)
}

// Update godoc
// @Summary Update a schedule entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.ScheduleEntryRequest true "Entry payload"
// @Success 200 {object} response.Envelope
// @Router /schedule/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	var req service.ScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.schedule.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a schedule entry
// @Tags Schedule
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204
// @Router /schedule/{id} [delete]
func (h *ScheduleHandler) Delete(c *gin.Context) {
	if err := h.schedule.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.NoContent(c)
}

func (h *ScheduleHandler) invalidateDashboard(c *gin.Context) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
}
