package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/dto"
	"github.com/noah-isme/ecole-admin-api/internal/models"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, class string) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

// ScheduleEntryRequest holds payload for creating or updating timetable
// entries.
type ScheduleEntryRequest struct {
	Class       string  `json:"class" validate:"required"`
	Day         string  `json:"day" validate:"required"`
	StartTime   string  `json:"start_time" validate:"required"`
	EndTime     string  `json:"end_time" validate:"required"`
	Subject     string  `json:"subject" validate:"required"`
	Teacher     string  `json:"teacher" validate:"required"`
	Room        string  `json:"room" validate:"required"`
	Description *string `json:"description,omitempty"`
}

// ScheduleService manages timetable entries and builds the weekly grid.
type ScheduleService struct {
	repo      scheduleRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, validator: validate, logger: logger}
}

// Classes returns the distinct classes that have at least one timetable
// entry, in first-seen order.
func (s *ScheduleService) Classes(ctx context.Context) ([]string, error) {
	entries, err := s.repo.List(ctx, "")
	if err != nil {
		s.logger.Warn("failed to load schedule entries for class list", zap.Error(err))
		entries = nil
	}
	seen := make(map[string]struct{})
	classes := make([]string, 0)
	for _, e := range entries {
		if _, ok := seen[e.Class]; ok {
			continue
		}
		seen[e.Class] = struct{}{}
		classes = append(classes, e.Class)
	}
	return classes, nil
}

// Slots returns the time-slot rows for a class's grid: the canonical
// default slots merged with any non-standard slots found in that class's
// entries, de-duplicated by exact start+end and sorted by start time.
// Without a class the default list is returned as-is (class-picker view).
// Storage read failures degrade to the default slots.
func (s *ScheduleService) Slots(ctx context.Context, class string) ([]models.TimeSlot, error) {
	if class == "" {
		return models.DefaultSlots(), nil
	}
	entries, err := s.repo.List(ctx, class)
	if err != nil {
		s.logger.Warn("failed to load schedule entries for slots", zap.Error(err), zap.String("class", class))
		entries = nil
	}
	return mergeSlots(entries), nil
}

// Grid builds the slot × weekday timetable for one class. Cells without a
// matching entry stay empty (addable in the UI).
func (s *ScheduleService) Grid(ctx context.Context, class string) (*dto.ScheduleGrid, error) {
	if class == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class is required")
	}
	entries, err := s.repo.List(ctx, class)
	if err != nil {
		s.logger.Warn("failed to load schedule entries for grid", zap.Error(err), zap.String("class", class))
		entries = nil
	}

	slots := mergeSlots(entries)
	rows := make([]dto.ScheduleGridRow, 0, len(slots))
	for _, slot := range slots {
		cells := make([]dto.ScheduleCell, 0, len(models.Weekdays))
		for _, day := range models.Weekdays {
			cell := dto.ScheduleCell{Day: day}
			for i := range entries {
				e := entries[i]
				if e.Day == day && e.StartTime == slot.Start && e.EndTime == slot.End {
					cell.Entry = &entries[i]
					break
				}
			}
			cells = append(cells, cell)
		}
		rows = append(rows, dto.ScheduleGridRow{Slot: slot, Cells: cells})
	}

	return &dto.ScheduleGrid{Class: class, Days: models.Weekdays, Rows: rows}, nil
}

// List returns timetable entries, optionally restricted to a class.
func (s *ScheduleService) List(ctx context.Context, class string) ([]models.ScheduleEntry, error) {
	entries, err := s.repo.List(ctx, class)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule entries")
	}
	return entries, nil
}

// Create registers a new timetable entry.
func (s *ScheduleService) Create(ctx context.Context, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	entry := &models.ScheduleEntry{
		Class:       req.Class,
		Day:         req.Day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Subject:     req.Subject,
		Teacher:     req.Teacher,
		Room:        req.Room,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	return entry, nil
}

// Update modifies an existing timetable entry.
func (s *ScheduleService) Update(ctx context.Context, id string, req ScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	entry.Class = req.Class
	entry.Day = req.Day
	entry.StartTime = req.StartTime
	entry.EndTime = req.EndTime
	entry.Subject = req.Subject
	entry.Teacher = req.Teacher
	entry.Room = req.Room
	entry.Description = req.Description
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}
	return entry, nil
}

// Delete removes a timetable entry.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	return nil
}

func (s *ScheduleService) validateRequest(req ScheduleEntryRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	if !models.ValidWeekday(req.Day) {
		return appErrors.Clone(appErrors.ErrValidation, "day must be one of Lundi..Samedi")
	}
	for _, raw := range []string{req.StartTime, req.EndTime} {
		if _, err := time.Parse("15:04", raw); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "times must use the HH:MM 24h format")
		}
	}
	if req.EndTime <= req.StartTime {
		return appErrors.Clone(appErrors.ErrValidation, "end time must be after start time")
	}
	return nil
}

// mergeSlots unions the canonical default slots with the slots present in
// entries. Duplicate (start,end) pairs collapse; ordering is by start time,
// which is chronological for the zero-padded HH:MM format.
func mergeSlots(entries []models.ScheduleEntry) []models.TimeSlot {
	slots := models.DefaultSlots()
	seen := make(map[models.TimeSlot]struct{}, len(slots))
	for _, slot := range slots {
		seen[slot] = struct{}{}
	}
	for _, e := range entries {
		slot := models.TimeSlot{Start: e.StartTime, End: e.EndTime}
		if _, ok := seen[slot]; ok {
			continue
		}
		seen[slot] = struct{}{}
		slots = append(slots, slot)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start < slots[j].Start
	})
	return slots
}
