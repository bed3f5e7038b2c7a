package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

type paymentListerStub struct {
	payments []models.Payment
	err      error
}

func (s paymentListerStub) List(ctx context.Context) ([]models.Payment, error) {
	return s.payments, s.err
}

func financeFixture() (paymentListerStub, studentListerStub) {
	students := []models.Student{
		{ID: "s1", FirstName: "Aminata", LastName: "Diallo", Class: "3A"},
		{ID: "s2", FirstName: "Ousmane", LastName: "Ndiaye", Class: "3A"},
		{ID: "s3", FirstName: "Awa", LastName: "Sow", Class: "4B"},
	}
	payments := []models.Payment{
		{ID: "p1", StudentID: "s1", AmountDue: 100, AmountPaid: 100, Status: models.PaymentStatusPaid},
		{ID: "p2", StudentID: "s2", AmountDue: 100, AmountPaid: 40, Status: models.PaymentStatusLate},
		{ID: "p3", StudentID: "s3", AmountDue: 200, AmountPaid: 200, Status: models.PaymentStatusPaid},
		{ID: "p4", StudentID: "ghost", AmountDue: 50, AmountPaid: 0, Status: models.PaymentStatusLate},
	}
	return paymentListerStub{payments: payments}, studentListerStub{students: students}
}

func TestFinanceReportSummary(t *testing.T) {
	payments, students := financeFixture()
	svc := NewFinanceService(payments, students, nil, nil, zap.NewNop())

	report, err := svc.Report(context.Background(), models.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, report.Payments, 4)

	s := report.Summary
	assert.Equal(t, 450.0, s.TotalDue)
	assert.Equal(t, 340.0, s.TotalPaid)
	assert.Equal(t, 110.0, s.TotalRest)
	assert.Equal(t, 2, s.CountPaid)
	assert.Equal(t, 2, s.CountLate)
	assert.Equal(t, 50, s.PercentPaid)
	assert.Equal(t, 85, s.AvgPaid)
	assert.Equal(t, 113, s.AvgDue) // 450/4, rounded half away from zero
}

func TestFinanceReportStudentNameFallback(t *testing.T) {
	payments, students := financeFixture()
	svc := NewFinanceService(payments, students, nil, nil, zap.NewNop())

	report, err := svc.Report(context.Background(), models.PaymentFilter{})
	require.NoError(t, err)
	assert.Equal(t, "Diallo Aminata", report.Payments[0].StudentName)
	assert.Equal(t, "-", report.Payments[3].StudentName)
}

func TestFinanceReportClassFilterDropsDanglingStudents(t *testing.T) {
	payments, students := financeFixture()
	svc := NewFinanceService(payments, students, nil, nil, zap.NewNop())

	report, err := svc.Report(context.Background(), models.PaymentFilter{Class: "3A"})
	require.NoError(t, err)
	require.Len(t, report.Payments, 2)
	assert.Equal(t, "p1", report.Payments[0].ID)
	assert.Equal(t, "p2", report.Payments[1].ID)
	assert.Equal(t, 200.0, report.Summary.TotalDue)
}

func TestFinanceReportStatusAndStudentFilters(t *testing.T) {
	payments, students := financeFixture()
	svc := NewFinanceService(payments, students, nil, nil, zap.NewNop())

	report, err := svc.Report(context.Background(), models.PaymentFilter{Status: models.PaymentStatusLate})
	require.NoError(t, err)
	require.Len(t, report.Payments, 2)
	assert.Equal(t, 0, report.Summary.CountPaid)
	assert.Equal(t, 2, report.Summary.CountLate)
	assert.Equal(t, 0, report.Summary.PercentPaid)

	report, err = svc.Report(context.Background(), models.PaymentFilter{StudentID: "s3"})
	require.NoError(t, err)
	require.Len(t, report.Payments, 1)
	assert.Equal(t, "p3", report.Payments[0].ID)
	assert.Equal(t, 100, report.Summary.PercentPaid)
}

func TestFinanceReportEmptyFilteredSet(t *testing.T) {
	payments, students := financeFixture()
	svc := NewFinanceService(payments, students, nil, nil, zap.NewNop())

	report, err := svc.Report(context.Background(), models.PaymentFilter{Class: "6D"})
	require.NoError(t, err)
	assert.Empty(t, report.Payments)
	assert.Equal(t, 0, report.Summary.PercentPaid)
	assert.Equal(t, 0, report.Summary.AvgPaid)
}

func TestFinanceReportDegradesOnReadFailure(t *testing.T) {
	svc := NewFinanceService(paymentListerStub{err: errors.New("boom")}, studentListerStub{}, nil, nil, zap.NewNop())

	report, err := svc.Report(context.Background(), models.PaymentFilter{})
	require.NoError(t, err)
	assert.Empty(t, report.Payments)
}

type countingPaymentLister struct {
	payments []models.Payment
	calls    int
}

func (s *countingPaymentLister) List(ctx context.Context) ([]models.Payment, error) {
	s.calls++
	return s.payments, nil
}

func TestFinanceReportCachesPerFilter(t *testing.T) {
	fixture, students := financeFixture()
	payments := &countingPaymentLister{payments: fixture.payments}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewFinanceService(payments, students, cacheSvc, nil, zap.NewNop())

	first, err := svc.Report(context.Background(), models.PaymentFilter{Class: "3A"})
	require.NoError(t, err)
	assert.Equal(t, 1, payments.calls)

	cached, err := svc.Report(context.Background(), models.PaymentFilter{Class: "3A"})
	require.NoError(t, err)
	assert.Equal(t, 1, payments.calls)
	assert.Equal(t, first.Summary, cached.Summary)

	// A different filter is a different key and recomputes.
	_, err = svc.Report(context.Background(), models.PaymentFilter{Class: "4B"})
	require.NoError(t, err)
	assert.Equal(t, 2, payments.calls)
}
