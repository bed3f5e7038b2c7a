package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

type seedStudentRepository interface {
	Count(ctx context.Context, status models.StudentStatus) (int, error)
	Create(ctx context.Context, student *models.Student) error
}

// SeedService populates an empty database with demonstration data so the
// console is usable out of the box. It runs once at startup and is a no-op
// when any student already exists.
type SeedService struct {
	students seedStudentRepository
	absences absenceRepository
	grades   gradeRepository
	payments paymentRepository
	schedule scheduleRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewSeedService constructs the seed service.
func NewSeedService(students seedStudentRepository, absences absenceRepository, grades gradeRepository, payments paymentRepository, schedule scheduleRepository, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{
		students: students,
		absences: absences,
		grades:   grades,
		payments: payments,
		schedule: schedule,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run seeds demo data when the student table is empty.
func (s *SeedService) Run(ctx context.Context) error {
	count, err := s.students.Count(ctx, models.StudentStatusAll)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Debug("seed skipped, students already present", zap.Int("count", count))
		return nil
	}

	now := s.now()
	week := weekStart(now)

	students := []models.Student{
		{FirstName: "Aminata", LastName: "Diallo", BirthDate: date(2011, 3, 14), Gender: "F", Class: "3A", Level: "3ème", Average: 14.5, PaymentUpToDate: true, ParentName: "Mamadou Diallo", ParentEmail: "m.diallo@example.com", ParentPhone: "+221770000001"},
		{FirstName: "Ousmane", LastName: "Ndiaye", BirthDate: date(2011, 7, 2), Gender: "M", Class: "3A", Level: "3ème", Average: 11.2, PaymentUpToDate: false, ParentName: "Fatou Ndiaye", ParentEmail: "f.ndiaye@example.com", ParentPhone: "+221770000002"},
		{FirstName: "Awa", LastName: "Sow", BirthDate: date(2012, 1, 25), Gender: "F", Class: "4B", Level: "4ème", Average: 16.0, PaymentUpToDate: true, ParentName: "Ibrahima Sow", ParentEmail: "i.sow@example.com", ParentPhone: "+221770000003"},
		{FirstName: "Moussa", LastName: "Ba", BirthDate: date(2012, 9, 8), Gender: "M", Class: "4B", Level: "4ème", Average: 9.8, PaymentUpToDate: false, ParentName: "Aïssatou Ba", ParentEmail: "a.ba@example.com", ParentPhone: "+221770000004"},
		{FirstName: "Khady", LastName: "Fall", BirthDate: date(2013, 5, 19), Gender: "F", Class: "5A", Level: "5ème", Average: 13.3, PaymentUpToDate: true, ParentName: "Cheikh Fall", ParentEmail: "c.fall@example.com", ParentPhone: "+221770000005"},
		{FirstName: "Ibrahima", LastName: "Gueye", BirthDate: date(2014, 11, 30), Gender: "M", Class: "6C", Level: "6ème", Average: 12.7, PaymentUpToDate: true, ParentName: "Mariama Gueye", ParentEmail: "m.gueye@example.com", ParentPhone: "+221770000006"},
	}
	for i := range students {
		if err := s.students.Create(ctx, &students[i]); err != nil {
			return err
		}
	}

	comment := "Rendez-vous médical"
	absences := []models.Absence{
		{StudentID: students[1].ID, Date: week, Type: models.AbsenceTypeAbsence, Justified: true, Comment: &comment, Notified: true},
		{StudentID: students[1].ID, Date: week.AddDate(0, 0, 2), Type: models.AbsenceTypeTardy, Notified: true},
		{StudentID: students[3].ID, Date: week.AddDate(0, 0, 1), Type: models.AbsenceTypeAbsence, Notified: true},
	}
	for i := range absences {
		if err := s.absences.Create(ctx, &absences[i]); err != nil {
			return err
		}
	}

	appreciation := "Bon travail"
	grades := []models.Grade{
		{StudentID: students[0].ID, Subject: "Mathématiques", Value: 15.5, Appreciation: &appreciation, Date: week.AddDate(0, 0, -7)},
		{StudentID: students[1].ID, Subject: "Mathématiques", Value: 10, Date: week.AddDate(0, 0, -7)},
		{StudentID: students[0].ID, Subject: "Français", Value: 13, Date: week.AddDate(0, 0, -5)},
		{StudentID: students[2].ID, Subject: "Anglais", Value: 17, Appreciation: &appreciation, Date: week.AddDate(0, 0, -3)},
	}
	for i := range grades {
		if err := s.grades.Create(ctx, &grades[i]); err != nil {
			return err
		}
	}

	payments := []models.Payment{
		{StudentID: students[0].ID, AmountDue: 50000, AmountPaid: 50000, Status: models.PaymentStatusPaid, Date: week.AddDate(0, 0, -10)},
		{StudentID: students[1].ID, AmountDue: 50000, AmountPaid: 20000, Status: models.PaymentStatusLate, Date: week.AddDate(0, 0, -10)},
		{StudentID: students[2].ID, AmountDue: 50000, AmountPaid: 50000, Status: models.PaymentStatusPaid, Date: week.AddDate(0, 0, -9)},
		{StudentID: students[3].ID, AmountDue: 50000, AmountPaid: 0, Status: models.PaymentStatusLate, Date: week.AddDate(0, 0, -8)},
	}
	for i := range payments {
		if err := s.payments.Create(ctx, &payments[i]); err != nil {
			return err
		}
	}

	entries := []models.ScheduleEntry{
		{Class: "3A", Day: "Lundi", StartTime: "08:00", EndTime: "09:00", Subject: "Mathématiques", Teacher: "M. Sarr", Room: "B12"},
		{Class: "3A", Day: "Lundi", StartTime: "09:00", EndTime: "10:00", Subject: "Français", Teacher: "Mme Kane", Room: "B12"},
		{Class: "3A", Day: "Mardi", StartTime: "10:00", EndTime: "11:00", Subject: "Histoire", Teacher: "M. Diop", Room: "A03"},
		{Class: "4B", Day: "Jeudi", StartTime: "14:00", EndTime: "15:00", Subject: "SVT", Teacher: "Mme Thiam", Room: "Labo 1"},
	}
	for i := range entries {
		if err := s.schedule.Create(ctx, &entries[i]); err != nil {
			return err
		}
	}

	s.logger.Info("demo data seeded",
		zap.Int("students", len(students)),
		zap.Int("absences", len(absences)),
		zap.Int("grades", len(grades)),
		zap.Int("payments", len(payments)),
		zap.Int("schedule_entries", len(entries)),
	)
	return nil
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
