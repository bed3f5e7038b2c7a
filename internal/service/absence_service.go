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

type absenceRepository interface {
	List(ctx context.Context) ([]models.Absence, error)
	FindByID(ctx context.Context, id string) (*models.Absence, error)
	Create(ctx context.Context, absence *models.Absence) error
	Update(ctx context.Context, absence *models.Absence) error
	Delete(ctx context.Context, id string) error
}

// AbsenceRequest holds payload for creating or updating absence records.
type AbsenceRequest struct {
	StudentID string  `json:"student_id" validate:"required"`
	Date      string  `json:"date" validate:"required"`
	Type      string  `json:"type" validate:"required"`
	Justified bool    `json:"justified"`
	Comment   *string `json:"comment,omitempty"`
}

// AbsenceService manages absence/tardiness records.
type AbsenceService struct {
	repo      absenceRepository
	students  studentLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAbsenceService constructs the absence service.
func NewAbsenceService(repo absenceRepository, students studentLister, validate *validator.Validate, logger *zap.Logger) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{repo: repo, students: students, validator: validate, logger: logger}
}

// List returns every absence with its student name resolved; records whose
// student was deleted render "-" instead of failing.
func (s *AbsenceService) List(ctx context.Context) ([]models.AbsenceDetail, error) {
	absences, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list absences")
	}
	students, err := s.students.List(ctx, models.StudentFilter{Status: models.StudentStatusAll})
	if err != nil {
		s.logger.Warn("failed to resolve students for absence list", zap.Error(err))
		students = nil
	}
	byID := make(map[string]models.Student, len(students))
	for _, student := range students {
		byID[student.ID] = student
	}

	details := make([]models.AbsenceDetail, 0, len(absences))
	for _, absence := range absences {
		name := "-"
		if student, ok := byID[absence.StudentID]; ok {
			name = student.DisplayName()
		}
		details = append(details, models.AbsenceDetail{Absence: absence, StudentName: name})
	}
	return details, nil
}

// Create records a new absence or tardy and marks the parent as notified.
// The notification itself is simulated: a log line stands in for the
// SMS/email the legacy console pretended to send.
func (s *AbsenceService) Create(ctx context.Context, req AbsenceRequest) (*models.Absence, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	absence := &models.Absence{
		StudentID: req.StudentID,
		Date:      date,
		Type:      models.AbsenceType(req.Type),
		Justified: req.Justified,
		Comment:   req.Comment,
		Notified:  true,
	}
	if err := s.repo.Create(ctx, absence); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create absence")
	}
	s.logger.Info("parent notification simulated",
		zap.String("absence_id", absence.ID),
		zap.String("student_id", absence.StudentID),
		zap.String("type", string(absence.Type)),
	)
	return absence, nil
}

// Update modifies an existing absence record.
func (s *AbsenceService) Update(ctx context.Context, id string, req AbsenceRequest) (*models.Absence, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	absence, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absence")
	}
	absence.StudentID = req.StudentID
	absence.Date = date
	absence.Type = models.AbsenceType(req.Type)
	absence.Justified = req.Justified
	absence.Comment = req.Comment
	if err := s.repo.Update(ctx, absence); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update absence")
	}
	return absence, nil
}

// Delete removes an absence record.
func (s *AbsenceService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absence")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete absence")
	}
	return nil
}

func (s *AbsenceService) validateRequest(req AbsenceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	if !models.AbsenceType(req.Type).Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "type must be absence or retard")
	}
	return nil
}
