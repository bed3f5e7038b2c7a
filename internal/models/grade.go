package models

import "time"

// Subjects is the fixed subject enumeration grades are recorded against.
var Subjects = []string{"Mathématiques", "Français", "Histoire", "SVT", "Anglais"}

// ValidSubject reports whether the subject belongs to the enumeration.
func ValidSubject(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}

// Grade represents a graded assessment on the 0-20 scale.
type Grade struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	Subject      string    `db:"subject" json:"subject"`
	Value        float64   `db:"value" json:"value"`
	Appreciation *string   `db:"appreciation" json:"appreciation,omitempty"`
	Date         time.Time `db:"date" json:"date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
