package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/ecole-admin-api/internal/models"
	"github.com/noah-isme/ecole-admin-api/internal/service"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
	"github.com/noah-isme/ecole-admin-api/pkg/response"
)

// ReportHandler exposes attendance and finance report endpoints.
type ReportHandler struct {
	attendance *service.AttendanceService
	finance    *service.FinanceService
	exports    *service.ExportService
	periods    *service.PeriodService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(attendance *service.AttendanceService, finance *service.FinanceService, exports *service.ExportService, periods *service.PeriodService) *ReportHandler {
	return &ReportHandler{attendance: attendance, finance: finance, exports: exports, periods: periods}
}

// Attendance godoc
// @Summary Absence/tardiness report for a period
// @Tags Reports
// @Produce json
// @Param period query string false "week or month (default week)"
// @Param anchor query string false "Any date inside the wanted period, YYYY-MM-DD"
// @Success 200 {object} response.Envelope
// @Router /reports/attendance [get]
func (h *ReportHandler) Attendance(c *gin.Context) {
	period, err := h.resolvePeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.attendance.Report(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// AttendanceExport godoc
// @Summary Download the attendance report as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param period query string false "week or month (default week)"
// @Param anchor query string false "Any date inside the wanted period, YYYY-MM-DD"
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /reports/attendance/export [get]
func (h *ReportHandler) AttendanceExport(c *gin.Context) {
	period, err := h.resolvePeriod(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Attendance(c.Request.Context(), period, service.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// Finance godoc
// @Summary Payment report with totals
// @Tags Reports
// @Produce json
// @Param class query string false "Filter by class"
// @Param status query string false "payé or en retard"
// @Param student_id query string false "Filter by student"
// @Success 200 {object} response.Envelope
// @Router /reports/finance [get]
func (h *ReportHandler) Finance(c *gin.Context) {
	filter, err := financeFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.finance.Report(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// FinanceExport godoc
// @Summary Download the payment report as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param class query string false "Filter by class"
// @Param status query string false "payé or en retard"
// @Param student_id query string false "Filter by student"
// @Param format query string true "csv or pdf"
// @Success 200 {file} file
// @Router /reports/finance/export [get]
func (h *ReportHandler) FinanceExport(c *gin.Context) {
	filter, err := financeFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.Finance(c.Request.Context(), filter, service.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func (h *ReportHandler) resolvePeriod(c *gin.Context) (models.Period, error) {
	kind := models.PeriodKind(c.DefaultQuery("period", string(models.PeriodWeek)))
	if !kind.Valid() {
		return models.Period{}, appErrors.Clone(appErrors.ErrValidation, "period must be week or month")
	}
	anchor := c.Query("anchor")
	if anchor == "" {
		return h.periods.Default(kind), nil
	}
	t, err := time.Parse("2006-01-02", anchor)
	if err != nil {
		return models.Period{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid anchor, expected YYYY-MM-DD")
	}
	return h.periods.Resolve(kind, t), nil
}

func financeFilter(c *gin.Context) (models.PaymentFilter, error) {
	filter := models.PaymentFilter{
		Class:     c.Query("class"),
		StudentID: c.Query("student_id"),
	}
	if status := c.Query("status"); status != "" {
		parsed := models.PaymentStatus(status)
		if !parsed.Valid() {
			return models.PaymentFilter{}, appErrors.Clone(appErrors.ErrValidation, "status must be payé or en retard")
		}
		filter.Status = parsed
	}
	return filter, nil
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
