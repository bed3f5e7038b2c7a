package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/dto"
	"github.com/noah-isme/ecole-admin-api/internal/models"
)

type attendanceReporterStub struct {
	report *dto.AttendanceReport
	err    error
}

func (s attendanceReporterStub) Report(ctx context.Context, period models.Period) (*dto.AttendanceReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

type financeReporterStub struct {
	report *dto.FinanceReport
	err    error
}

func (s financeReporterStub) Report(ctx context.Context, filter models.PaymentFilter) (*dto.FinanceReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

func testPeriod() models.Period {
	return models.Period{
		Kind:  models.PeriodWeek,
		Start: day(2025, 7, 7),
		End:   day(2025, 7, 13),
	}
}

func TestExportAttendanceCSV(t *testing.T) {
	attendance := attendanceReporterStub{report: &dto.AttendanceReport{
		Period: testPeriod(),
		Rows: []dto.AttendanceRow{
			{StudentID: "s1", StudentName: "Diallo Aminata", Class: "3A", Absences: 2, Tardies: 1},
		},
	}}
	svc := NewExportService(attendance, financeReporterStub{}, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2025, 7, 10, 9, 30, 0, 0, time.UTC) }

	file, err := svc.Attendance(context.Background(), testPeriod(), ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "assiduite-20250710-093000.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Élève,Classe,Absences,Retards", lines[0])
	assert.Equal(t, "Diallo Aminata,3A,2,1", lines[1])
}

func TestExportFinanceCSV(t *testing.T) {
	finance := financeReporterStub{report: &dto.FinanceReport{
		Payments: []dto.FinancePaymentRow{
			{
				Payment: models.Payment{
					AmountDue:  150,
					AmountPaid: 100,
					Status:     models.PaymentStatusLate,
					Date:       day(2025, 7, 1),
				},
				StudentName: "Ndiaye Moussa",
			},
		},
	}}
	svc := NewExportService(attendanceReporterStub{}, finance, nil, nil, zap.NewNop())

	file, err := svc.Finance(context.Background(), models.PaymentFilter{}, ExportFormatCSV)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Filename, "paiements-"))

	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Élève,Montant dû,Montant payé,Reste,Statut,Date", lines[0])
	assert.Equal(t, "Ndiaye Moussa,150.00,100.00,50.00,en retard,2025-07-01", lines[1])
}

func TestExportAttendancePDF(t *testing.T) {
	attendance := attendanceReporterStub{report: &dto.AttendanceReport{
		Period: testPeriod(),
		Rows: []dto.AttendanceRow{
			{StudentID: "s1", StudentName: "Diallo Aminata", Class: "3A", Absences: 2, Tardies: 0},
		},
	}}
	svc := NewExportService(attendance, financeReporterStub{}, nil, nil, zap.NewNop())

	file, err := svc.Attendance(context.Background(), testPeriod(), ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := NewExportService(attendanceReporterStub{}, financeReporterStub{}, nil, nil, zap.NewNop())

	_, err := svc.Attendance(context.Background(), testPeriod(), ExportFormat("xlsx"))
	require.Error(t, err)
	_, err = svc.Finance(context.Background(), models.PaymentFilter{}, ExportFormat("docx"))
	require.Error(t, err)
}
