package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecole-admin-api/internal/service"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
	"github.com/noah-isme/ecole-admin-api/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	grades    *service.GradeService
	dashboard *service.DashboardService
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService, dashboard *service.DashboardService) *GradeHandler {
	return &GradeHandler{grades: grades, dashboard: dashboard}
}

// List godoc
// @Summary List all grades
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	grades, err := h.grades.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Grouped godoc
// @Summary Grades grouped by class then subject
// @Tags Grades
// @Produce json
// @Param class query string false "Restrict to one class"
// @Param subject query string false "Restrict to one subject"
// @Param student_id query string false "Restrict to one student"
// @Success 200 {object} response.Envelope
// @Router /grades/grouped [get]
func (h *GradeHandler) Grouped(c *gin.Context) {
	filter := service.GradeGroupFilter{
		Class:     c.Query("class"),
		Subject:   c.Query("subject"),
		StudentID: c.Query("student_id"),
	}
	groups, err := h.grades.Grouped(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Classes godoc
// @Summary List known classes
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades/classes [get]
func (h *GradeHandler) Classes(c *gin.Context) {
	classes, err := h.grades.KnownClasses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Create godoc
// @Summary Record a grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Create(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.Created(c, grade)
}

// Update godoc
// @Summary Update a grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Grade ID"
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /grades/{id} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete a grade
// @Tags Grades
// @Produce json
// @Param id path string true "Grade ID"
// @Success 204
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.grades.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.invalidateDashboard(c)
	response.NoContent(c)
}

func (h *GradeHandler) invalidateDashboard(c *gin.Context) {
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
}
