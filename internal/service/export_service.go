package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
	"github.com/noah-isme/ecole-admin-api/pkg/export"
)

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// Valid returns true for supported formats.
func (f ExportFormat) Valid() bool {
	return f == ExportFormatCSV || f == ExportFormatPDF
}

// ExportFile is a rendered report ready to be sent as a download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders attendance and finance reports as CSV or PDF
// downloads. Files are rendered on demand and streamed back, never stored.
type ExportService struct {
	attendance attendanceReporter
	finance    financeReporter
	csv        csvRenderer
	pdf        pdfRenderer
	logger     *zap.Logger
	now        func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(attendance attendanceReporter, finance financeReporter, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		attendance: attendance,
		finance:    finance,
		csv:        csv,
		pdf:        pdf,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Attendance renders the absence report for the given period.
func (s *ExportService) Attendance(ctx context.Context, period models.Period, format ExportFormat) (*ExportFile, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	report, err := s.attendance.Report(ctx, period)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Élève", "Classe", "Absences", "Retards"},
	}
	for _, row := range report.Rows {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Élève":    row.StudentName,
			"Classe":   row.Class,
			"Absences": strconv.Itoa(row.Absences),
			"Retards":  strconv.Itoa(row.Tardies),
		})
	}

	title := fmt.Sprintf("Rapport d'assiduité %s - %s",
		period.Start.Format("2006-01-02"), period.End.Format("2006-01-02"))
	return s.render(dataset, "assiduite", title, format)
}

// Finance renders the payment report for the given filter.
func (s *ExportService) Finance(ctx context.Context, filter models.PaymentFilter, format ExportFormat) (*ExportFile, error) {
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	report, err := s.finance.Report(ctx, filter)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Headers: []string{"Élève", "Montant dû", "Montant payé", "Reste", "Statut", "Date"},
	}
	for _, row := range report.Payments {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Élève":        row.StudentName,
			"Montant dû":   formatAmount(row.AmountDue),
			"Montant payé": formatAmount(row.AmountPaid),
			"Reste":        formatAmount(row.AmountDue - row.AmountPaid),
			"Statut":       string(row.Status),
			"Date":         row.Date.Format("2006-01-02"),
		})
	}

	return s.render(dataset, "paiements", "Rapport des paiements", format)
}

func (s *ExportService) render(dataset export.Dataset, base, title string, format ExportFormat) (*ExportFile, error) {
	stamp := s.now().Format("20060102-150405")
	switch format {
	case ExportFormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.csv", base, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.pdf", base, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
