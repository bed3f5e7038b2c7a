package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/dto"
	"github.com/noah-isme/ecole-admin-api/internal/models"
)

type paymentLister interface {
	List(ctx context.Context) ([]models.Payment, error)
}

// FinanceService filters payments and computes the finance screen's
// aggregates. Report payloads are cached; mutating handlers drop them
// together with the dashboard payload.
type FinanceService struct {
	payments paymentLister
	students studentLister
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewFinanceService constructs a FinanceService.
func NewFinanceService(payments paymentLister, students studentLister, cache *CacheService, metrics *MetricsService, logger *zap.Logger) *FinanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceService{payments: payments, students: students, cache: cache, metrics: metrics, logger: logger}
}

// Report applies the class/status/student filters and aggregates the
// filtered set. A payment whose student is missing fails a class filter,
// because the class lookup yields nothing. Storage read failures degrade to
// an empty report.
func (s *FinanceService) Report(ctx context.Context, filter models.PaymentFilter) (*dto.FinanceReport, error) {
	cacheKey := makeReportCacheKey("finance", filter.Class, string(filter.Status), filter.StudentID)
	if s.cache.Enabled() {
		var cached dto.FinanceReport
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	start := time.Now()
	degraded := false
	payments, err := s.payments.List(ctx)
	if err != nil {
		s.logger.Warn("failed to load payments for finance report", zap.Error(err))
		payments = nil
		degraded = true
	}
	students, err := s.students.List(ctx, models.StudentFilter{Status: models.StudentStatusAll})
	if err != nil {
		s.logger.Warn("failed to load students for finance report", zap.Error(err))
		students = nil
		degraded = true
	}
	if !degraded && s.metrics != nil {
		s.metrics.ObserveDBQuery("report_finance", time.Since(start))
	}

	byID := make(map[string]models.Student, len(students))
	for _, student := range students {
		byID[student.ID] = student
	}

	rows := make([]dto.FinancePaymentRow, 0)
	summary := dto.FinanceSummary{}
	for _, p := range payments {
		student, found := byID[p.StudentID]
		if filter.Class != "" && (!found || student.Class != filter.Class) {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.StudentID != "" && p.StudentID != filter.StudentID {
			continue
		}

		name := "-"
		if found {
			name = student.DisplayName()
		}
		rows = append(rows, dto.FinancePaymentRow{Payment: p, StudentName: name})

		summary.TotalDue += p.AmountDue
		summary.TotalPaid += p.AmountPaid
		switch p.Status {
		case models.PaymentStatusPaid:
			summary.CountPaid++
		case models.PaymentStatusLate:
			summary.CountLate++
		}
	}

	summary.TotalRest = summary.TotalDue - summary.TotalPaid
	if total := len(rows); total > 0 {
		// Half-away-from-zero, matching the legacy console's Math.round
		// for these non-negative quantities.
		summary.PercentPaid = int(math.Round(100 * float64(summary.CountPaid) / float64(total)))
		summary.AvgPaid = int(math.Round(summary.TotalPaid / float64(total)))
		summary.AvgDue = int(math.Round(summary.TotalDue / float64(total)))
	}

	report := &dto.FinanceReport{Payments: rows, Summary: summary}
	// A degraded report is not cached; the next read retries storage.
	if !degraded && s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, report, 0); err != nil {
			s.logger.Warn("finance report cache write failed", zap.Error(err))
		}
	}
	return report, nil
}
