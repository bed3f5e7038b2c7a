package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = "id, first_name, last_name, birth_date, gender, class, level, average, payment_up_to_date, archived, parent_name, parent_email, parent_phone, created_at, updated_at"

// List returns students matching the provided filters in insertion order.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	switch filter.Status {
	case models.StudentStatusArchived:
		conditions = append(conditions, "archived = true")
	case models.StudentStatusAll:
	default:
		conditions = append(conditions, "archived = false")
	}
	if filter.Class != "" {
		conditions = append(conditions, fmt.Sprintf("class = $%d", len(args)+1))
		args = append(args, filter.Class)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(first_name) LIKE $%d OR LOWER(last_name) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	query := fmt.Sprintf("SELECT %s FROM students WHERE %s ORDER BY created_at ASC, id ASC",
		studentColumns, strings.Join(conditions, " AND "))

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf("SELECT %s FROM students WHERE id = $1", studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, first_name, last_name, birth_date, gender, class, level, average, payment_up_to_date, archived, parent_name, parent_email, parent_phone, created_at, updated_at)
        VALUES (:id, :first_name, :last_name, :birth_date, :gender, :class, :level, :average, :payment_up_to_date, :archived, :parent_name, :parent_email, :parent_phone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update overwrites an existing student. Updating an absent ID affects no
// rows and is not an error.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET first_name = :first_name, last_name = :last_name, birth_date = :birth_date, gender = :gender, class = :class, level = :level, average = :average, payment_up_to_date = :payment_up_to_date, archived = :archived, parent_name = :parent_name, parent_email = :parent_email, parent_phone = :parent_phone, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Archive soft-deletes a student; it stays retrievable via the archived
// listing.
func (r *StudentRepository) Archive(ctx context.Context, id string) error {
	const query = `UPDATE students SET archived = true, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("archive student: %w", err)
	}
	return nil
}

// Delete removes the student record permanently.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}

// Count returns the number of students, optionally limited to archived ones.
func (r *StudentRepository) Count(ctx context.Context, status models.StudentStatus) (int, error) {
	query := "SELECT COUNT(*) FROM students"
	switch status {
	case models.StudentStatusArchived:
		query += " WHERE archived = true"
	case models.StudentStatusActive:
		query += " WHERE archived = false"
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query); err != nil {
		return 0, fmt.Errorf("count students: %w", err)
	}
	return total, nil
}
