package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/dto"
	"github.com/noah-isme/ecole-admin-api/internal/models"
)

type absenceLister interface {
	List(ctx context.Context) ([]models.Absence, error)
}

type studentLister interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
}

// AttendanceService aggregates absences and tardies per student over a
// reporting period. Report payloads are cached; mutating handlers drop them
// together with the dashboard payload.
type AttendanceService struct {
	absences absenceLister
	students studentLister
	periods  *PeriodService
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(absences absenceLister, students studentLister, periods *PeriodService, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{absences: absences, students: students, periods: periods, cache: cache, metrics: metrics, logger: logger}
}

// Report tallies absences and tardies per active student within the period.
// Absences are matched against [start-1d, end+1d] inclusive: the legacy
// console padded the window by one day on each side to keep day-boundary
// records in regardless of timezone parsing, and that boundary-inclusion
// policy is kept so both systems agree row-for-row. Storage read failures
// degrade to an empty report rather than an error.
func (s *AttendanceService) Report(ctx context.Context, period models.Period) (*dto.AttendanceReport, error) {
	cacheKey := makeReportCacheKey("attendance", string(period.Kind),
		period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
	if s.cache.Enabled() {
		var cached dto.AttendanceReport
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	start := time.Now()
	degraded := false
	absences, err := s.absences.List(ctx)
	if err != nil {
		s.logger.Warn("failed to load absences for attendance report", zap.Error(err))
		absences = nil
		degraded = true
	}
	students, err := s.students.List(ctx, models.StudentFilter{Status: models.StudentStatusActive})
	if err != nil {
		s.logger.Warn("failed to load students for attendance report", zap.Error(err))
		students = nil
		degraded = true
	}
	if !degraded && s.metrics != nil {
		s.metrics.ObserveDBQuery("report_attendance", time.Since(start))
	}

	padStart := period.Start.AddDate(0, 0, -1)
	padEnd := period.End.AddDate(0, 0, 1)

	type tally struct {
		abs int
		ret int
	}
	counts := make(map[string]tally)
	for _, a := range absences {
		if a.Date.Before(padStart) || a.Date.After(padEnd) {
			continue
		}
		t := counts[a.StudentID]
		switch a.Type {
		case models.AbsenceTypeAbsence:
			t.abs++
		case models.AbsenceTypeTardy:
			t.ret++
		}
		counts[a.StudentID] = t
	}

	rows := make([]dto.AttendanceRow, 0)
	for _, student := range students {
		t := counts[student.ID]
		if t.abs+t.ret == 0 {
			continue
		}
		rows = append(rows, dto.AttendanceRow{
			StudentID:   student.ID,
			StudentName: student.DisplayName(),
			Class:       student.Class,
			Absences:    t.abs,
			Tardies:     t.ret,
		})
	}

	report := &dto.AttendanceReport{
		Period: period,
		Rows:   rows,
		NoData: len(rows) == 0 && !s.periods.IsDefaultWeek(period),
	}
	// A degraded report is not cached; the next read retries storage.
	if !degraded && s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, report, 0); err != nil {
			s.logger.Warn("attendance report cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

func makeReportCacheKey(parts ...string) string {
	var builder strings.Builder
	builder.Grow(len(parts) * 16)
	builder.WriteString("report")
	for _, part := range parts {
		if part == "" {
			continue
		}
		builder.WriteByte(':')
		builder.WriteString(strings.ReplaceAll(part, ":", "|"))
	}
	return builder.String()
}
