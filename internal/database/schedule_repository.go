package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/viaflight/layover-planner/internal/models"
)

// ScheduleRepository handles remote-backend operations for saved schedules
type ScheduleRepository struct {
	db RemoteDB
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(db RemoteDB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// CreateSchedule inserts a schedule and fills in the generated id, origin
// and timestamps
func (r *ScheduleRepository) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	schedule.ID = uuid.New().String()
	schedule.Origin = models.ScheduleOriginRemote

	query := `
		INSERT INTO schedules (id, user_id, name, plan, itinerary, origin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(
		ctx,
		query,
		schedule.ID,
		schedule.UserID,
		schedule.Name,
		[]byte(schedule.Plan),
		[]byte(schedule.Itinerary),
		schedule.Origin,
	).Scan(&schedule.CreatedAt, &schedule.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// GetScheduleByID retrieves a schedule by id, nil when absent
func (r *ScheduleRepository) GetScheduleByID(ctx context.Context, id string) (*models.Schedule, error) {
	var schedule models.Schedule
	query := `SELECT * FROM schedules WHERE id = $1`
	err := r.db.GetContext(ctx, &schedule, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

// GetSchedulesByUserID retrieves a user's schedules newest-first
func (r *ScheduleRepository) GetSchedulesByUserID(ctx context.Context, userID string) ([]models.Schedule, error) {
	var schedules []models.Schedule
	query := `
		SELECT * FROM schedules
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &schedules, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get schedules: %w", err)
	}
	return schedules, nil
}

// UpdateScheduleName renames a schedule. Returns ErrNotFound when no row
// matches.
func (r *ScheduleRepository) UpdateScheduleName(ctx context.Context, id, name string) error {
	query := `
		UPDATE schedules
		SET name = $1, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("failed to update schedule name: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSchedule deletes a schedule; deleting a missing id is a no-op
func (r *ScheduleRepository) DeleteSchedule(ctx context.Context, id string) error {
	query := `DELETE FROM schedules WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}
