package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

// PaymentRepository manages persistence for tuition payment records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = "id, student_id, amount_due, amount_paid, status, date, description, created_at, updated_at"

// List returns every payment in insertion order. Class/status/student
// filtering happens in the finance aggregator because the class filter
// depends on a student lookup with dangling-reference semantics.
func (r *PaymentRepository) List(ctx context.Context) ([]models.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments ORDER BY created_at ASC, id ASC", paymentColumns)
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// FindByID fetches a payment by ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*models.Payment, error) {
	query := fmt.Sprintf("SELECT %s FROM payments WHERE id = $1", paymentColumns)
	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, query, id); err != nil {
		return nil, err
	}
	return &payment, nil
}

// Create inserts a new payment record.
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = now
	}
	payment.UpdatedAt = now
	const query = `INSERT INTO payments (id, student_id, amount_due, amount_paid, status, date, description, created_at, updated_at)
        VALUES (:id, :student_id, :amount_due, :amount_paid, :status, :date, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// Update overwrites an existing payment record.
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	payment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE payments SET student_id = :student_id, amount_due = :amount_due, amount_paid = :amount_paid, status = :status, date = :date, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// Delete removes a payment record.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM payments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
