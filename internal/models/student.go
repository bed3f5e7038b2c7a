package models

import "time"

// StudentStatus selects which records a student listing returns. The archive
// flag is a soft delete: archived students disappear from the default list
// but stay retrievable.
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "active"
	StudentStatusArchived StudentStatus = "archived"
	StudentStatusAll      StudentStatus = "all"
)

// Valid returns true when the status is a supported value.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentStatusActive, StudentStatusArchived, StudentStatusAll:
		return true
	default:
		return false
	}
}

// Student represents a learner registered in the institution.
type Student struct {
	ID              string    `db:"id" json:"id"`
	FirstName       string    `db:"first_name" json:"first_name"`
	LastName        string    `db:"last_name" json:"last_name"`
	BirthDate       time.Time `db:"birth_date" json:"birth_date"`
	Gender          string    `db:"gender" json:"gender"`
	Class           string    `db:"class" json:"class"`
	Level           string    `db:"level" json:"level"`
	Average         float64   `db:"average" json:"average"`
	PaymentUpToDate bool      `db:"payment_up_to_date" json:"payment_up_to_date"`
	Archived        bool      `db:"archived" json:"archived"`
	ParentName      string    `db:"parent_name" json:"parent_name"`
	ParentEmail     string    `db:"parent_email" json:"parent_email"`
	ParentPhone     string    `db:"parent_phone" json:"parent_phone"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// DisplayName renders the roll-call form "LastName FirstName".
func (s Student) DisplayName() string {
	return s.LastName + " " + s.FirstName
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Status StudentStatus
	Class  string
	Search string
}
