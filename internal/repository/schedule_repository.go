package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/ecole-admin-api/internal/models"
)

// ScheduleRepository manages persistence for timetable entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

const scheduleColumns = "id, class, day, start_time, end_time, subject, teacher, room, description, created_at, updated_at"

// List returns schedule entries, optionally restricted to one class.
func (r *ScheduleRepository) List(ctx context.Context, class string) ([]models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries", scheduleColumns)
	args := []interface{}{}
	if class != "" {
		query += " WHERE class = $1"
		args = append(args, class)
	}
	query += " ORDER BY created_at ASC, id ASC"

	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list schedule entries: %w", err)
	}
	return entries, nil
}

// FindByID fetches a schedule entry by ID.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM schedule_entries WHERE id = $1", scheduleColumns)
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Create inserts a new schedule entry.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	const query = `INSERT INTO schedule_entries (id, class, day, start_time, end_time, subject, teacher, room, description, created_at, updated_at)
        VALUES (:id, :class, :day, :start_time, :end_time, :subject, :teacher, :room, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// Update overwrites an existing schedule entry.
func (r *ScheduleRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedule_entries SET class = :class, day = :day, start_time = :start_time, end_time = :end_time, subject = :subject, teacher = :teacher, room = :room, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	return nil
}

// Delete removes a schedule entry.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM schedule_entries WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}
