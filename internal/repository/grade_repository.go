package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

// GradeRepository manages persistence for grade records.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs a GradeRepository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

const gradeColumns = "id, student_id, subject, value, appreciation, date, created_at, updated_at"

// List returns every grade in insertion order; the grouped view relies on
// that order being stable.
func (r *GradeRepository) List(ctx context.Context) ([]models.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades ORDER BY created_at ASC, id ASC", gradeColumns)
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// FindByID fetches a grade by ID.
func (r *GradeRepository) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	query := fmt.Sprintf("SELECT %s FROM grades WHERE id = $1", gradeColumns)
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Create inserts a new grade record.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, student_id, subject, value, appreciation, date, created_at, updated_at)
        VALUES (:id, :student_id, :subject, :value, :appreciation, :date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// Update overwrites an existing grade record.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	grade.UpdatedAt = time.Now().UTC()
	const query = `UPDATE grades SET student_id = :student_id, subject = :subject, value = :value, appreciation = :appreciation, date = :date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("update grade: %w", err)
	}
	return nil
}

// Delete removes a grade record.
func (r *GradeRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM grades WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}
