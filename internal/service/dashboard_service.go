package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/dto"
	"github.com/noah-isme/ecole-admin-api/internal/models"
)

const dashboardCacheKey = "dashboard:summary"

type attendanceReporter interface {
	Report(ctx context.Context, period models.Period) (*dto.AttendanceReport, error)
}

type financeReporter interface {
	Report(ctx context.Context, filter models.PaymentFilter) (*dto.FinanceReport, error)
}

type classProvider interface {
	KnownClasses(ctx context.Context) ([]string, error)
}

// DashboardService composes the landing-page counters from the other
// aggregators. The payload is cached briefly since every console load
// requests it.
type DashboardService struct {
	students   studentLister
	attendance attendanceReporter
	finance    financeReporter
	classes    classProvider
	periods    *PeriodService
	cache      *CacheService
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(students studentLister, attendance attendanceReporter, finance financeReporter, classes classProvider, periods *PeriodService, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if periods == nil {
		periods = NewPeriodService()
	}
	return &DashboardService{
		students:   students,
		attendance: attendance,
		finance:    finance,
		classes:    classes,
		periods:    periods,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Summary builds the dashboard payload for the current week.
func (s *DashboardService) Summary(ctx context.Context) (*dto.Dashboard, error) {
	if s.cache.Enabled() {
		var cached dto.Dashboard
		if hit, err := s.cache.Get(ctx, dashboardCacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	period := s.periods.Default(models.PeriodWeek)
	summary := &dto.Dashboard{
		CurrentPeriod: period,
		GeneratedAt:   s.now(),
	}

	students, err := s.students.List(ctx, models.StudentFilter{Status: models.StudentStatusAll})
	if err != nil {
		s.logger.Warn("dashboard student load failed", zap.Error(err))
		students = nil
	}
	for _, student := range students {
		if student.Archived {
			summary.ArchivedCount++
		} else {
			summary.Students++
		}
	}

	if classes, err := s.classes.KnownClasses(ctx); err != nil {
		s.logger.Warn("dashboard class load failed", zap.Error(err))
	} else {
		summary.Classes = len(classes)
	}

	if report, err := s.attendance.Report(ctx, period); err != nil {
		s.logger.Warn("dashboard attendance report failed", zap.Error(err))
	} else {
		for _, row := range report.Rows {
			summary.WeekAbsences += row.Absences
			summary.WeekTardies += row.Tardies
		}
	}

	if report, err := s.finance.Report(ctx, models.PaymentFilter{}); err != nil {
		s.logger.Warn("dashboard finance report failed", zap.Error(err))
	} else {
		summary.PercentPaid = report.Summary.PercentPaid
		summary.TotalRest = report.Summary.TotalRest
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, dashboardCacheKey, summary, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

// Invalidate drops the cached dashboard payload. Mutating handlers call it
// so the next load reflects the change. The attendance and finance report
// payloads derive from the same tables, so they are dropped together.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Invalidate(ctx, "dashboard:*"); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.Invalidate(ctx, "report:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
