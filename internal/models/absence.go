package models

import "time"

// AbsenceType distinguishes a full absence from a tardy arrival. The stored
// values match the legacy console's wire format.
type AbsenceType string

const (
	AbsenceTypeAbsence AbsenceType = "absence"
	AbsenceTypeTardy   AbsenceType = "retard"
)

// Valid returns true when the type is a supported value.
func (t AbsenceType) Valid() bool {
	switch t {
	case AbsenceTypeAbsence, AbsenceTypeTardy:
		return true
	default:
		return false
	}
}

// Absence represents a recorded absence or tardiness for a student. The
// student reference is not enforced; reports tolerate dangling IDs.
type Absence struct {
	ID        string      `db:"id" json:"id"`
	StudentID string      `db:"student_id" json:"student_id"`
	Date      time.Time   `db:"date" json:"date"`
	Type      AbsenceType `db:"type" json:"type"`
	Justified bool        `db:"justified" json:"justified"`
	Comment   *string     `db:"comment" json:"comment,omitempty"`
	Notified  bool        `db:"notified" json:"notified"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}

// AbsenceDetail extends an absence with the resolved student name, "-" when
// the student no longer exists.
type AbsenceDetail struct {
	Absence
	StudentName string `json:"student_name"`
}
