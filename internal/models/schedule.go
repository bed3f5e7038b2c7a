package models

import "time"

// Weekdays lists the six teaching days, in grid order.
var Weekdays = []string{"Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

// ValidWeekday reports whether day is one of the six teaching days.
func ValidWeekday(day string) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// TimeSlot is a start/end pair in zero-padded 24h "HH:MM" form, so
// lexicographic ordering on Start is chronological.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultSlots returns the canonical grid rows: 08-12 and 14-16 in one-hour
// increments.
func DefaultSlots() []TimeSlot {
	return []TimeSlot{
		{Start: "08:00", End: "09:00"},
		{Start: "09:00", End: "10:00"},
		{Start: "10:00", End: "11:00"},
		{Start: "11:00", End: "12:00"},
		{Start: "14:00", End: "15:00"},
		{Start: "15:00", End: "16:00"},
	}
}

// ScheduleEntry represents one taught session in a class's weekly timetable.
type ScheduleEntry struct {
	ID          string    `db:"id" json:"id"`
	Class       string    `db:"class" json:"class"`
	Day         string    `db:"day" json:"day"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Subject     string    `db:"subject" json:"subject"`
	Teacher     string    `db:"teacher" json:"teacher"`
	Room        string    `db:"room" json:"room"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}
