package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classpulse/classpulse-api/internal/models"
)

// CancellationRepository handles persistence of class cancellations.
type CancellationRepository struct {
	db *sqlx.DB
}

// NewCancellationRepository constructs the repository.
func NewCancellationRepository(db *sqlx.DB) *CancellationRepository {
	return &CancellationRepository{db: db}
}

const cancellationColumns = `id, class_id, teacher_id, reason, additional_notes, will_reschedule, cancelled_at, date`

// Create persists a new cancellation record.
func (r *CancellationRepository) Create(ctx context.Context, cancellation *models.Cancellation) error {
	if cancellation.ID == "" {
		cancellation.ID = uuid.NewString()
	}
	if cancellation.CancelledAt.IsZero() {
		cancellation.CancelledAt = time.Now().UTC()
	}
	const query = `INSERT INTO cancellations (id, class_id, teacher_id, reason, additional_notes, will_reschedule, cancelled_at, date)
        VALUES (:id, :class_id, :teacher_id, :reason, :additional_notes, :will_reschedule, :cancelled_at, :date)`
	if _, err := r.db.NamedExecContext(ctx, query, cancellation); err != nil {
		return fmt.Errorf("create cancellation: %w", err)
	}
	return nil
}

// ListByTeacher returns cancellations issued by a teacher, newest first.
func (r *CancellationRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.Cancellation, error) {
	query := fmt.Sprintf(`SELECT %s FROM cancellations WHERE teacher_id = $1 ORDER BY cancelled_at DESC`, cancellationColumns)
	var cancellations []models.Cancellation
	if err := r.db.SelectContext(ctx, &cancellations, query, teacherID); err != nil {
		return nil, fmt.Errorf("list cancellations by teacher: %w", err)
	}
	return cancellations, nil
}

// ListByClass returns cancellations recorded for a class, newest first.
func (r *CancellationRepository) ListByClass(ctx context.Context, classID string) ([]models.Cancellation, error) {
	query := fmt.Sprintf(`SELECT %s FROM cancellations WHERE class_id = $1 ORDER BY cancelled_at DESC`, cancellationColumns)
	var cancellations []models.Cancellation
	if err := r.db.SelectContext(ctx, &cancellations, query, classID); err != nil {
		return nil, fmt.Errorf("list cancellations by class: %w", err)
	}
	return cancellations, nil
}

// CountByTeacherBetween counts cancellations by a teacher with cancelled_at
// in [from, to).
func (r *CancellationRepository) CountByTeacherBetween(ctx context.Context, teacherID string, from, to time.Time) (int, error) {
	const query = `SELECT COUNT(*) FROM cancellations WHERE teacher_id = $1 AND cancelled_at >= $2 AND cancelled_at < $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID, from, to); err != nil {
		return 0, fmt.Errorf("count cancellations by teacher: %w", err)
	}
	return count, nil
}
