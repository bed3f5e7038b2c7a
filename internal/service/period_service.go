package service

import (
	"time"

	"github.com/noah-isme/ecole-admin-api/internal/models"
	appErrors "github.com/noah-isme/ecole-admin-api/pkg/errors"
)

// PeriodService resolves week and month reporting ranges. Weeks run Monday
// through Sunday: the school week is Lundi..Samedi, so Monday is the fixed
// first day regardless of locale.
type PeriodService struct {
	now func() time.Time
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService() *PeriodService {
	return &PeriodService{now: time.Now}
}

// Resolve snaps the anchor to its week or month start and returns the
// inclusive range. The end is never before the start.
func (s *PeriodService) Resolve(kind models.PeriodKind, anchor time.Time) models.Period {
	anchor = truncateDay(anchor)
	switch kind {
	case models.PeriodMonth:
		start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(0, 1, -1)
		return models.Period{Kind: models.PeriodMonth, Start: start, End: end}
	default:
		start := weekStart(anchor)
		return models.Period{Kind: models.PeriodWeek, Start: start, End: start.AddDate(0, 0, 6)}
	}
}

// Default returns the today-relative period for the kind. Switching the
// period kind discards any manually picked anchor and falls back to this.
func (s *PeriodService) Default(kind models.PeriodKind) models.Period {
	return s.Resolve(kind, s.now().UTC())
}

// IsDefaultWeek reports whether p is the current default week; the
// attendance report suppresses its empty-state message on that period.
func (s *PeriodService) IsDefaultWeek(p models.Period) bool {
	if p.Kind != models.PeriodWeek {
		return false
	}
	return p.Start.Equal(s.Default(models.PeriodWeek).Start)
}

func weekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate parses the console's YYYY-MM-DD wire format as a UTC midnight
// instant.
func parseDate(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}
