package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
)

type absenceListerStub struct {
	absences []models.Absence
	err      error
}

func (s absenceListerStub) List(ctx context.Context) ([]models.Absence, error) {
	return s.absences, s.err
}

type studentListerStub struct {
	students []models.Student
	err      error
}

func (s studentListerStub) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.Student, 0, len(s.students))
	for _, student := range s.students {
		switch filter.Status {
		case models.StudentStatusArchived:
			if !student.Archived {
				continue
			}
		case models.StudentStatusAll:
		default:
			if student.Archived {
				continue
			}
		}
		out = append(out, student)
	}
	return out, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAttendanceReportTalliesPerStudent(t *testing.T) {
	students := []models.Student{
		{ID: "s1", FirstName: "Aminata", LastName: "Diallo", Class: "3A"},
		{ID: "s2", FirstName: "Ousmane", LastName: "Ndiaye", Class: "3A"},
		{ID: "s3", FirstName: "Awa", LastName: "Sow", Class: "4B"},
	}
	absences := []models.Absence{
		{StudentID: "s1", Date: day(2025, 7, 8), Type: models.AbsenceTypeAbsence},
		{StudentID: "s1", Date: day(2025, 7, 9), Type: models.AbsenceTypeTardy},
		{StudentID: "s1", Date: day(2025, 7, 10), Type: models.AbsenceTypeTardy},
		{StudentID: "s2", Date: day(2025, 7, 11), Type: models.AbsenceTypeAbsence},
	}
	svc := NewAttendanceService(absenceListerStub{absences: absences}, studentListerStub{students: students}, NewPeriodService(), nil, nil, zap.NewNop())
	period := NewPeriodService().Resolve(models.PeriodWeek, day(2025, 7, 7))

	report, err := svc.Report(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	assert.Equal(t, "Diallo Aminata", report.Rows[0].StudentName)
	assert.Equal(t, 1, report.Rows[0].Absences)
	assert.Equal(t, 2, report.Rows[0].Tardies)
	assert.Equal(t, "3A", report.Rows[0].Class)

	assert.Equal(t, "s2", report.Rows[1].StudentID)
	assert.Equal(t, 1, report.Rows[1].Absences)
	assert.Equal(t, 0, report.Rows[1].Tardies)

	// s3 has no records and therefore no row.
	assert.False(t, report.NoData)
}

func TestAttendanceReportPadsWindowByOneDay(t *testing.T) {
	students := []models.Student{{ID: "s1", FirstName: "A", LastName: "B", Class: "3A"}}
	absences := []models.Absence{
		{StudentID: "s1", Date: day(2025, 7, 6), Type: models.AbsenceTypeAbsence},  // start-1, in
		{StudentID: "s1", Date: day(2025, 7, 14), Type: models.AbsenceTypeAbsence}, // end+1, in
		{StudentID: "s1", Date: day(2025, 7, 5), Type: models.AbsenceTypeAbsence},  // start-2, out
		{StudentID: "s1", Date: day(2025, 7, 15), Type: models.AbsenceTypeAbsence}, // end+2, out
	}
	svc := NewAttendanceService(absenceListerStub{absences: absences}, studentListerStub{students: students}, NewPeriodService(), nil, nil, zap.NewNop())
	period := NewPeriodService().Resolve(models.PeriodWeek, day(2025, 7, 7))

	report, err := svc.Report(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 2, report.Rows[0].Absences)
}

func TestAttendanceReportSkipsArchivedStudents(t *testing.T) {
	students := []models.Student{
		{ID: "s1", FirstName: "A", LastName: "B", Class: "3A", Archived: true},
	}
	absences := []models.Absence{
		{StudentID: "s1", Date: day(2025, 7, 8), Type: models.AbsenceTypeAbsence},
	}
	svc := NewAttendanceService(absenceListerStub{absences: absences}, studentListerStub{students: students}, NewPeriodService(), nil, nil, zap.NewNop())
	period := NewPeriodService().Resolve(models.PeriodWeek, day(2025, 7, 7))

	report, err := svc.Report(context.Background(), period)
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
}

func TestAttendanceReportNoDataFlag(t *testing.T) {
	periods := fixedPeriodService(day(2025, 7, 10))
	svc := NewAttendanceService(absenceListerStub{}, studentListerStub{}, periods, nil, nil, zap.NewNop())

	// Empty report on the default current week: no_data stays false so the
	// fresh screen does not claim there are no results.
	report, err := svc.Report(context.Background(), periods.Default(models.PeriodWeek))
	require.NoError(t, err)
	assert.False(t, report.NoData)

	// Same empty report on a manually picked past week flags no_data.
	past := periods.Resolve(models.PeriodWeek, day(2025, 6, 2))
	report, err = svc.Report(context.Background(), past)
	require.NoError(t, err)
	assert.True(t, report.NoData)
}

func TestAttendanceReportDegradesOnReadFailure(t *testing.T) {
	periods := fixedPeriodService(day(2025, 7, 10))
	svc := NewAttendanceService(
		absenceListerStub{err: errors.New("boom")},
		studentListerStub{err: errors.New("boom")},
		periods,
		nil,
		nil,
		zap.NewNop(),
	)

	report, err := svc.Report(context.Background(), periods.Default(models.PeriodWeek))
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
}

type countingAbsenceLister struct {
	absences []models.Absence
	calls    int
}

func (s *countingAbsenceLister) List(ctx context.Context) ([]models.Absence, error) {
	s.calls++
	return s.absences, nil
}

type stubCacheRepo struct {
	store map[string][]byte
}

func (s *stubCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	if s.store == nil {
		return appErrors.ErrCacheMiss
	}
	payload, ok := s.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (s *stubCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	if s.store == nil {
		s.store = make(map[string][]byte)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store[key] = payload
	return nil
}

func (s *stubCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	s.store = nil
	return nil
}

func TestAttendanceReportCachesPayload(t *testing.T) {
	absences := &countingAbsenceLister{absences: []models.Absence{
		{StudentID: "s1", Date: day(2025, 7, 8), Type: models.AbsenceTypeAbsence},
	}}
	students := studentListerStub{students: []models.Student{
		{ID: "s1", FirstName: "Aminata", LastName: "Diallo", Class: "3A"},
	}}
	cacheSvc := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := NewAttendanceService(absences, students, NewPeriodService(), cacheSvc, nil, zap.NewNop())
	period := NewPeriodService().Resolve(models.PeriodWeek, day(2025, 7, 7))

	first, err := svc.Report(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, first.Rows, 1)
	assert.Equal(t, 1, absences.calls)

	second, err := svc.Report(context.Background(), period)
	require.NoError(t, err)
	assert.Equal(t, 1, absences.calls)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestAttendanceReportSkipsCacheWhenDegraded(t *testing.T) {
	cacheRepo := &stubCacheRepo{}
	cacheSvc := NewCacheService(cacheRepo, nil, time.Minute, zap.NewNop(), true)
	svc := NewAttendanceService(absenceListerStub{err: errors.New("boom")}, studentListerStub{}, NewPeriodService(), cacheSvc, nil, zap.NewNop())
	period := NewPeriodService().Resolve(models.PeriodWeek, day(2025, 7, 7))

	report, err := svc.Report(context.Background(), period)
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Empty(t, cacheRepo.store)
}

func TestAttendanceReportObservesQueryTiming(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewAttendanceService(absenceListerStub{}, studentListerStub{}, NewPeriodService(), nil, metrics, zap.NewNop())
	period := NewPeriodService().Resolve(models.PeriodWeek, day(2025, 7, 7))

	_, err := svc.Report(context.Background(), period)
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.dbQueryDuration))
}
