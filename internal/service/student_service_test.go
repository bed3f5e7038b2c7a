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
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
)

type fakeStudentRepo struct {
	students map[string]*models.Student
	lastList models.StudentFilter
	nextID   int
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[string]*models.Student)}
}

func (f *fakeStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	f.lastList = filter
	out := make([]models.Student, 0, len(f.students))
	for _, s := range f.students {
		switch filter.Status {
		case models.StudentStatusArchived:
			if !s.Archived {
				continue
			}
		case models.StudentStatusAll:
		default:
			if s.Archived {
				continue
			}
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	f.nextID++
	student.ID = fmt.Sprintf("s%d", f.nextID)
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f *fakeStudentRepo) Archive(ctx context.Context, id string) error {
	if s, ok := f.students[id]; ok {
		s.Archived = true
	}
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	delete(f.students, id)
	return nil
}

func validStudentRequest() StudentRequest {
	return StudentRequest{
		FirstName:   "Aminata",
		LastName:    "Diallo",
		BirthDate:   "2011-03-14",
		Gender:      "F",
		Class:       "3A",
		Level:       "3ème",
		Average:     14.5,
		ParentName:  "Mamadou Diallo",
		ParentEmail: "m.diallo@example.com",
		ParentPhone: "+221770000001",
	}
}

func TestStudentCreateAndGet(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo, nil, zap.NewNop())

	created, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Diallo Aminata", created.DisplayName())

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.False(t, got.Archived)
}

func TestStudentCreateValidation(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo(), nil, zap.NewNop())

	req := validStudentRequest()
	req.Gender = "X"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)

	req = validStudentRequest()
	req.Average = 25
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	req = validStudentRequest()
	req.ParentEmail = "not-an-email"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)

	req = validStudentRequest()
	req.BirthDate = "14/03/2011"
	_, err = svc.Create(context.Background(), req)
	require.Error(t, err)
}

func TestStudentListDefaultsToActive(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo, nil, zap.NewNop())

	created, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Archive(context.Background(), created.ID))

	students, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Empty(t, students)
	assert.Equal(t, models.StudentStatusActive, repo.lastList.Status)

	students, err = svc.List(context.Background(), models.StudentFilter{Status: models.StudentStatusArchived})
	require.NoError(t, err)
	assert.Len(t, students, 1)

	_, err = svc.List(context.Background(), models.StudentFilter{Status: "everything"})
	require.Error(t, err)
}

func TestStudentArchiveMissing(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo(), nil, zap.NewNop())

	err := svc.Archive(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentUpdate(t *testing.T) {
	repo := newFakeStudentRepo()
	svc := NewStudentService(repo, nil, zap.NewNop())

	created, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)

	req := validStudentRequest()
	req.Class = "4B"
	req.PaymentUpToDate = true
	updated, err := svc.Update(context.Background(), created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "4B", updated.Class)
	assert.True(t, updated.PaymentUpToDate)
}

func TestStudentDeleteMissing(t *testing.T) {
	svc := NewStudentService(newFakeStudentRepo(), nil, zap.NewNop())
	require.Error(t, svc.Delete(context.Background(), "missing"))
}
