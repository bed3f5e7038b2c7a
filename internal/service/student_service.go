package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Archive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// StudentRequest holds payload for creating or updating students.
type StudentRequest struct {
	FirstName       string  `json:"first_name" validate:"required"`
	LastName        string  `json:"last_name" validate:"required"`
	BirthDate       string  `json:"birth_date" validate:"required"`
	Gender          string  `json:"gender" validate:"required,oneof=M F"`
	Class           string  `json:"class" validate:"required"`
	Level           string  `json:"level" validate:"required"`
	Average         float64 `json:"average" validate:"gte=0,lte=20"`
	PaymentUpToDate bool    `json:"payment_up_to_date"`
	ParentName      string  `json:"parent_name" validate:"required"`
	ParentEmail     string  `json:"parent_email" validate:"required,email"`
	ParentPhone     string  `json:"parent_phone" validate:"required"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students for the given status (active by default); archived
// students only appear when asked for explicitly.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	if filter.Status == "" {
		filter.Status = models.StudentStatusActive
	}
	if !filter.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be active, archived or all")
	}
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	student := &models.Student{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		BirthDate:       birthDate,
		Gender:          req.Gender,
		Class:           req.Class,
		Level:           req.Level,
		Average:         req.Average,
		PaymentUpToDate: req.PaymentUpToDate,
		ParentName:      req.ParentName,
		ParentEmail:     req.ParentEmail,
		ParentPhone:     req.ParentPhone,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update modifies an existing student record.
func (s *StudentService) Update(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.BirthDate = birthDate
	student.Gender = req.Gender
	student.Class = req.Class
	student.Level = req.Level
	student.Average = req.Average
	student.PaymentUpToDate = req.PaymentUpToDate
	student.ParentName = req.ParentName
	student.ParentEmail = req.ParentEmail
	student.ParentPhone = req.ParentPhone
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// Archive soft-deletes a student; it disappears from the default list but
// remains retrievable through the archived listing.
func (s *StudentService) Archive(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Archive(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive student")
	}
	return nil
}

// Delete removes a student permanently. Related absence, grade and payment
// records keep their studentId; reports render those as "-".
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}
