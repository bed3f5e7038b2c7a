package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

// AbsenceRepository manages persistence for absence and tardiness records.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

const absenceColumns = "id, student_id, date, type, justified, comment, notified, created_at, updated_at"

// List returns every absence record in insertion order. Period scoping is
// done by the attendance aggregator, not in SQL, so its boundary policy
// lives in one place.
func (r *AbsenceRepository) List(ctx context.Context) ([]models.Absence, error) {
	query := fmt.Sprintf("SELECT %s FROM absences ORDER BY created_at ASC, id ASC", absenceColumns)
	var absences []models.Absence
	if err := r.db.SelectContext(ctx, &absences, query); err != nil {
		return nil, fmt.Errorf("list absences: %w", err)
	}
	return absences, nil
}

// FindByID fetches an absence by ID.
func (r *AbsenceRepository) FindByID(ctx context.Context, id string) (*models.Absence, error) {
	query := fmt.Sprintf("SELECT %s FROM absences WHERE id = $1", absenceColumns)
	var absence models.Absence
	if err := r.db.GetContext(ctx, &absence, query, id); err != nil {
		return nil, err
	}
	return &absence, nil
}

// Create inserts a new absence record.
func (r *AbsenceRepository) Create(ctx context.Context, absence *models.Absence) error {
	if absence.ID == "" {
		absence.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if absence.CreatedAt.IsZero() {
		absence.CreatedAt = now
	}
	absence.UpdatedAt = now
	const query = `INSERT INTO absences (id, student_id, date, type, justified, comment, notified, created_at, updated_at)
        VALUES (:id, :student_id, :date, :type, :justified, :comment, :notified, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, absence); err != nil {
		return fmt.Errorf("create absence: %w", err)
	}
	return nil
}

// Update overwrites an existing absence record.
func (r *AbsenceRepository) Update(ctx context.Context, absence *models.Absence) error {
	absence.UpdatedAt = time.Now().UTC()
	const query = `UPDATE absences SET student_id = :student_id, date = :date, type = :type, justified = :justified, comment = :comment, notified = :notified, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, absence); err != nil {
		return fmt.Errorf("update absence: %w", err)
	}
	return nil
}

// Delete removes an absence record.
func (r *AbsenceRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM absences WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete absence: %w", err)
	}
	return nil
}
