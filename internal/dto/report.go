package dto

import (
	"time"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

// AttendanceRow is one student's absence/tardiness tally for the period.
// Rows are only emitted when Absences+Tardies > 0.
type AttendanceRow struct {
	StudentID   string `json:"student_id"`
	StudentName string `json:"student_name"`
	Class       string `json:"class"`
	Absences    int    `json:"absences"`
	Tardies     int    `json:"tardies"`
}

// AttendanceReport is the per-period absence report.
type AttendanceReport struct {
	Period models.Period   `json:"period"`
	Rows   []AttendanceRow `json:"rows"`
	// NoData is true only when the report is empty and the period is not
	// the default current week, so a fresh screen does not show a
	// misleading "no results" message.
	NoData bool `json:"no_data"`
}

// FinanceSummary aggregates the filtered payment set.
type FinanceSummary struct {
	TotalDue    float64 `json:"total_due"`
	TotalPaid   float64 `json:"total_paid"`
	TotalRest   float64 `json:"total_rest"`
	CountPaid   int     `json:"count_paid"`
	CountLate   int     `json:"count_late"`
	PercentPaid int     `json:"percent_paid"`
	AvgPaid     int     `json:"avg_paid"`
	AvgDue      int     `json:"avg_due"`
}

// FinancePaymentRow is a payment joined with its student's display name,
// "-" when the student no longer exists.
type FinancePaymentRow struct {
	models.Payment
	StudentName string `json:"student_name"`
}

// FinanceReport couples the filtered payments with their aggregates.
type FinanceReport struct {
	Payments []FinancePaymentRow `json:"payments"`
	Summary  FinanceSummary      `json:"summary"`
}

// ScheduleCell is one slot × day position in the weekly grid; Entry is nil
// for addable empty cells.
type ScheduleCell struct {
	Day   string                `json:"day"`
	Entry *models.ScheduleEntry `json:"entry,omitempty"`
}

// ScheduleGridRow is one time slot with its six day cells.
type ScheduleGridRow struct {
	Slot  models.TimeSlot `json:"slot"`
	Cells []ScheduleCell  `json:"cells"`
}

// ScheduleGrid is the weekly timetable for one class.
type ScheduleGrid struct {
	Class string            `json:"class"`
	Days  []string          `json:"days"`
	Rows  []ScheduleGridRow `json:"rows"`
}

// GradeRow is one grade with its student resolved for display.
type GradeRow struct {
	GradeID      string    `json:"grade_id"`
	StudentID    string    `json:"student_id"`
	StudentName  string    `json:"student_name"`
	Value        float64   `json:"value"`
	Appreciation string    `json:"appreciation,omitempty"`
	Date         time.Time `json:"date"`
}

// SubjectGroup is the grades of one subject within a class.
type SubjectGroup struct {
	Subject string     `json:"subject"`
	Rows    []GradeRow `json:"rows"`
}

// ClassGroup is the progressive-disclosure grouping of grades for one class.
// Only classes and subjects with at least one matching grade are present.
type ClassGroup struct {
	Class    string         `json:"class"`
	Subjects []SubjectGroup `json:"subjects"`
}

// Dashboard aggregates the landing-screen counters.
type Dashboard struct {
	Students      int           `json:"students"`
	ArchivedCount int           `json:"archived_count"`
	Classes       int           `json:"classes"`
	WeekAbsences  int           `json:"week_absences"`
	WeekTardies   int           `json:"week_tardies"`
	PercentPaid   int           `json:"percent_paid"`
	TotalRest     float64       `json:"total_rest"`
	CurrentPeriod models.Period `json:"current_period"`
	GeneratedAt   time.Time     `json:"generated_at"`
}
