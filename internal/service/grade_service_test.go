package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

type fakeGradeRepo struct {
	grades []models.Grade
	nextID int
}

func (f *fakeGradeRepo) List(ctx context.Context) ([]models.Grade, error) {
	return f.grades, nil
}

func (f *fakeGradeRepo) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	for i := range f.grades {
		if f.grades[i].ID == id {
			g := f.grades[i]
			return &g, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeGradeRepo) Create(ctx context.Context, grade *models.Grade) error {
	f.nextID++
	grade.ID = fmt.Sprintf("g%d", f.nextID)
	f.grades = append(f.grades, *grade)
	return nil
}

func (f *fakeGradeRepo) Update(ctx context.Context, grade *models.Grade) error {
	for i := range f.grades {
		if f.grades[i].ID == grade.ID {
			f.grades[i] = *grade
		}
	}
	return nil
}

func (f *fakeGradeRepo) Delete(ctx context.Context, id string) error {
	for i := range f.grades {
		if f.grades[i].ID == id {
			f.grades = append(f.grades[:i], f.grades[i+1:]...)
			return nil
		}
	}
	return nil
}

func newGradeServiceForTest(grades []models.Grade, students []models.Student, entries []models.ScheduleEntry) *GradeService {
	return NewGradeService(
		&fakeGradeRepo{grades: grades},
		studentListerStub{students: students},
		&fakeScheduleRepo{entries: entries},
		nil,
		zap.NewNop(),
	)
}

func TestKnownClassesCanonicalFirstThenObserved(t *testing.T) {
	students := []models.Student{
		{ID: "s1", Class: "3A"},
		{ID: "s2", Class: "CP1"}, // non-canonical
	}
	entries := []models.ScheduleEntry{
		{ID: "e1", Class: "CE2"}, // non-canonical
		{ID: "e2", Class: "4B"},
	}
	svc := newGradeServiceForTest(nil, students, entries)

	classes, err := svc.KnownClasses(context.Background())
	require.NoError(t, err)
	require.Len(t, classes, len(canonicalClasses)+2)
	assert.Equal(t, canonicalClasses, classes[:len(canonicalClasses)])
	assert.Equal(t, "CP1", classes[len(canonicalClasses)])
	assert.Equal(t, "CE2", classes[len(canonicalClasses)+1])
}

func TestGradesGroupedByClassThenSubject(t *testing.T) {
	students := []models.Student{
		{ID: "s1", FirstName: "Aminata", LastName: "Diallo", Class: "3A"},
		{ID: "s2", FirstName: "Ousmane", LastName: "Ndiaye", Class: "3A"},
		{ID: "s3", FirstName: "Awa", LastName: "Sow", Class: "4B"},
	}
	grades := []models.Grade{
		{ID: "g1", StudentID: "s1", Subject: "Mathématiques", Value: 15},
		{ID: "g2", StudentID: "s2", Subject: "Mathématiques", Value: 10},
		{ID: "g3", StudentID: "s1", Subject: "Français", Value: 13},
		{ID: "g4", StudentID: "s3", Subject: "Anglais", Value: 17},
		{ID: "g5", StudentID: "ghost", Subject: "SVT", Value: 8},
	}
	svc := newGradeServiceForTest(grades, students, nil)

	groups, err := svc.Grouped(context.Background(), GradeGroupFilter{})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "3A", groups[0].Class)
	require.Len(t, groups[0].Subjects, 2)
	assert.Equal(t, "Mathématiques", groups[0].Subjects[0].Subject)
	require.Len(t, groups[0].Subjects[0].Rows, 2)
	assert.Equal(t, "g1", groups[0].Subjects[0].Rows[0].GradeID)
	assert.Equal(t, "Diallo Aminata", groups[0].Subjects[0].Rows[0].StudentName)
	assert.Equal(t, "Français", groups[0].Subjects[1].Subject)

	assert.Equal(t, "4B", groups[1].Class)
	require.Len(t, groups[1].Subjects, 1)
	assert.Equal(t, "Anglais", groups[1].Subjects[0].Subject)
}

func TestGradesGroupedFilters(t *testing.T) {
	students := []models.Student{
		{ID: "s1", FirstName: "Aminata", LastName: "Diallo", Class: "3A"},
		{ID: "s3", FirstName: "Awa", LastName: "Sow", Class: "4B"},
	}
	grades := []models.Grade{
		{ID: "g1", StudentID: "s1", Subject: "Mathématiques", Value: 15},
		{ID: "g3", StudentID: "s1", Subject: "Français", Value: 13},
		{ID: "g4", StudentID: "s3", Subject: "Anglais", Value: 17},
	}
	svc := newGradeServiceForTest(grades, students, nil)

	groups, err := svc.Grouped(context.Background(), GradeGroupFilter{Class: "3A"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "3A", groups[0].Class)

	groups, err = svc.Grouped(context.Background(), GradeGroupFilter{Subject: "Anglais"})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "4B", groups[0].Class)

	groups, err = svc.Grouped(context.Background(), GradeGroupFilter{Class: "6D"})
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestGradeCreateValidation(t *testing.T) {
	svc := newGradeServiceForTest(nil, nil, nil)

	grade, err := svc.Create(context.Background(), GradeRequest{
		StudentID: "s1", Subject: "Mathématiques", Value: 12.5, Date: "2025-07-10",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, grade.ID)

	_, err = svc.Create(context.Background(), GradeRequest{
		StudentID: "s1", Subject: "Alchimie", Value: 12, Date: "2025-07-10",
	})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), GradeRequest{
		StudentID: "s1", Subject: "Mathématiques", Value: 21, Date: "2025-07-10",
	})
	require.Error(t, err)

	_, err = svc.Create(context.Background(), GradeRequest{
		StudentID: "s1", Subject: "Mathématiques", Value: 12, Date: "not-a-date",
	})
	require.Error(t, err)
}

func TestGradeUpdateAndDeleteMissing(t *testing.T) {
	svc := newGradeServiceForTest(nil, nil, nil)

	_, err := svc.Update(context.Background(), "missing", GradeRequest{
		StudentID: "s1", Subject: "Mathématiques", Value: 12, Date: "2025-07-10",
	})
	require.Error(t, err)

	err = svc.Delete(context.Background(), "missing")
	require.Error(t, err)
}
