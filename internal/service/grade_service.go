package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/dto"
	"github.com/noah-isme/ecole-admin-api/internal/models"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
)

// canonicalClasses lists every class label the school runs, so classes with
// no enrolled students yet still show up in pickers once schedule data
// references them.
var canonicalClasses = []string{
	"3A", "3B", "3C",
	"4A", "4B", "4C",
	"5A", "5B", "5C", "5D",
	"6A", "6B", "6C", "6D",
}

type gradeRepository interface {
	List(ctx context.Context) ([]models.Grade, error)
	FindByID(ctx context.Context, id string) (*models.Grade, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id string) error
}

type scheduleEntryLister interface {
	List(ctx context.Context, class string) ([]models.ScheduleEntry, error)
}

// GradeRequest holds payload for creating or updating grades.
type GradeRequest struct {
	StudentID    string  `json:"student_id" validate:"required"`
	Subject      string  `json:"subject" validate:"required"`
	Value        float64 `json:"value" validate:"gte=0,lte=20"`
	Appreciation *string `json:"appreciation,omitempty"`
	Date         string  `json:"date" validate:"required"`
}

// GradeGroupFilter scopes the grouped grade view. Empty fields match
// everything.
type GradeGroupFilter struct {
	Class     string
	Subject   string
	StudentID string
}

// GradeService manages grade records and the class → subject grouped view.
type GradeService struct {
	grades    gradeRepository
	students  studentLister
	schedule  scheduleEntryLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs the grade service.
func NewGradeService(grades gradeRepository, students studentLister, schedule scheduleEntryLister, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, students: students, schedule: schedule, validator: validate, logger: logger}
}

// KnownClasses returns the canonical class labels unioned with any classes
// observed in students or schedule data, canonical labels first and
// observed extras in first-seen order.
func (s *GradeService) KnownClasses(ctx context.Context) ([]string, error) {
	students, err := s.students.List(ctx, models.StudentFilter{Status: models.StudentStatusActive})
	if err != nil {
		s.logger.Warn("failed to load students for class list", zap.Error(err))
		students = nil
	}
	entries, err := s.schedule.List(ctx, "")
	if err != nil {
		s.logger.Warn("failed to load schedule entries for class list", zap.Error(err))
		entries = nil
	}

	seen := make(map[string]struct{}, len(canonicalClasses))
	classes := make([]string, 0, len(canonicalClasses))
	add := func(class string) {
		if class == "" {
			return
		}
		if _, ok := seen[class]; ok {
			return
		}
		seen[class] = struct{}{}
		classes = append(classes, class)
	}
	for _, class := range canonicalClasses {
		add(class)
	}
	for _, student := range students {
		add(student.Class)
	}
	for _, entry := range entries {
		add(entry.Class)
	}
	return classes, nil
}

// Grouped builds the progressive-disclosure view: grades grouped by class
// (via the owning student) then by subject. Only classes and subjects with
// at least one matching grade appear; rows keep the underlying insertion
// order. Storage read failures degrade to an empty view.
func (s *GradeService) Grouped(ctx context.Context, filter GradeGroupFilter) ([]dto.ClassGroup, error) {
	grades, err := s.grades.List(ctx)
	if err != nil {
		s.logger.Warn("failed to load grades for grouped view", zap.Error(err))
		grades = nil
	}
	students, err := s.students.List(ctx, models.StudentFilter{Status: models.StudentStatusAll})
	if err != nil {
		s.logger.Warn("failed to load students for grouped view", zap.Error(err))
		students = nil
	}
	classes, err := s.KnownClasses(ctx)
	if err != nil {
		classes = canonicalClasses
	}

	byID := make(map[string]models.Student, len(students))
	for _, student := range students {
		byID[student.ID] = student
	}

	groups := make([]dto.ClassGroup, 0)
	for _, class := range classes {
		if filter.Class != "" && class != filter.Class {
			continue
		}
		subjects := make([]dto.SubjectGroup, 0)
		for _, subject := range models.Subjects {
			if filter.Subject != "" && subject != filter.Subject {
				continue
			}
			rows := make([]dto.GradeRow, 0)
			for _, grade := range grades {
				student, found := byID[grade.StudentID]
				if !found || student.Class != class || grade.Subject != subject {
					continue
				}
				if filter.StudentID != "" && grade.StudentID != filter.StudentID {
					continue
				}
				row := dto.GradeRow{
					GradeID:     grade.ID,
					StudentID:   grade.StudentID,
					StudentName: student.DisplayName(),
					Value:       grade.Value,
					Date:        grade.Date,
				}
				if grade.Appreciation != nil {
					row.Appreciation = *grade.Appreciation
				}
				rows = append(rows, row)
			}
			if len(rows) > 0 {
				subjects = append(subjects, dto.SubjectGroup{Subject: subject, Rows: rows})
			}
		}
		if len(subjects) > 0 {
			groups = append(groups, dto.ClassGroup{Class: class, Subjects: subjects})
		}
	}
	return groups, nil
}

// List returns every grade record.
func (s *GradeService) List(ctx context.Context) ([]models.Grade, error) {
	grades, err := s.grades.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// Create registers a new grade.
func (s *GradeService) Create(ctx context.Context, req GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if !models.ValidSubject(req.Subject) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	grade := &models.Grade{
		StudentID:    req.StudentID,
		Subject:      req.Subject,
		Value:        req.Value,
		Appreciation: req.Appreciation,
		Date:         date,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create grade")
	}
	return grade, nil
}

// Update modifies an existing grade.
func (s *GradeService) Update(ctx context.Context, id string, req GradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if !models.ValidSubject(req.Subject) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	grade, err := s.grades.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	grade.StudentID = req.StudentID
	grade.Subject = req.Subject
	grade.Value = req.Value
	grade.Appreciation = req.Appreciation
	grade.Date = date
	if err := s.grades.Update(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update grade")
	}
	return grade, nil
}

// Delete removes a grade record.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	if _, err := s.grades.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	if err := s.grades.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	return nil
}
