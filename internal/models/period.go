package models

import "time"

// PeriodKind selects the reporting window length.
type PeriodKind string

const (
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
)

// Valid returns true when the kind is a supported value.
func (k PeriodKind) Valid() bool {
	return k == PeriodWeek || k == PeriodMonth
}

// Period is an inclusive [Start, End] date range scoping attendance reports.
type Period struct {
	Kind  PeriodKind `json:"kind"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

// Contains reports whether t falls inside the inclusive range.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}
