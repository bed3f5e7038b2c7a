package models

import "time"

// PaymentStatus captures whether a tuition payment is settled or overdue.
// Stored values keep the legacy console's wire format.
type PaymentStatus string

const (
	PaymentStatusPaid PaymentStatus = "payé"
	PaymentStatusLate PaymentStatus = "en retard"
)

// Valid returns true when the status is a supported value.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusLate:
		return true
	default:
		return false
	}
}

// Payment represents a tuition payment record for a student.
type Payment struct {
	ID          string        `db:"id" json:"id"`
	StudentID   string        `db:"student_id" json:"student_id"`
	AmountDue   float64       `db:"amount_due" json:"amount_due"`
	AmountPaid  float64       `db:"amount_paid" json:"amount_paid"`
	Status      PaymentStatus `db:"status" json:"status"`
	Date        time.Time     `db:"date" json:"date"`
	Description *string       `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// PaymentFilter scopes finance listings and summaries. Empty fields match
// everything.
type PaymentFilter struct {
	Class     string
	Status    PaymentStatus
	StudentID string
}
