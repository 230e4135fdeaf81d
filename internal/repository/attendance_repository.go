package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/classpulse/classpulse-api/internal/models"
)

// AttendanceRepository handles persistence of attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create persists a new attendance mark. Marking is append-only; the same
// (class, student, date) tuple may accumulate multiple rows.
func (r *AttendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	if attendance.ID == "" {
		attendance.ID = uuid.NewString()
	}
	if attendance.MarkedAt.IsZero() {
		attendance.MarkedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance (id, class_id, student_id, teacher_id, date, status, notes, marked_at)
        VALUES (:id, :class_id, :student_id, :teacher_id, :date, :status, :notes, :marked_at)`
	if _, err := r.db.NamedExecContext(ctx, query, attendance); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// FindByID returns an attendance record by its ID.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	const query = `SELECT id, class_id, student_id, teacher_id, date, status, notes, marked_at
        FROM attendance WHERE id = $1 LIMIT 1`
	var attendance models.Attendance
	if err := r.db.GetContext(ctx, &attendance, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance by id: %w", err)
	}
	return &attendance, nil
}

// ListByClassAndDate returns all marks for a class on a calendar date.
func (r *AttendanceRepository) ListByClassAndDate(ctx context.Context, classID, date string) ([]models.Attendance, error) {
	const query = `SELECT id, class_id, student_id, teacher_id, date, status, notes, marked_at
        FROM attendance WHERE class_id = $1 AND date = $2 ORDER BY marked_at DESC`
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, classID, date); err != nil {
		return nil, fmt.Errorf("list attendance by class and date: %w", err)
	}
	return records, nil
}

// ListByStudent returns a student's marks, most recent first. The ordering
// is a contract, not incidental.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Attendance, error) {
	const query = `SELECT id, class_id, student_id, teacher_id, date, status, notes, marked_at
        FROM attendance WHERE student_id = $1 ORDER BY marked_at DESC`
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance by student: %w", err)
	}
	return records, nil
}

// ListByClassBetween returns marks for a class within an inclusive date
// range; empty bounds are open-ended.
func (r *AttendanceRepository) ListByClassBetween(ctx context.Context, classID, dateFrom, dateTo string) ([]models.Attendance, error) {
	query := `SELECT id, class_id, student_id, teacher_id, date, status, notes, marked_at
        FROM attendance WHERE class_id = $1`
	args := []interface{}{classID}
	if dateFrom != "" {
		query += fmt.Sprintf(" AND date >= $%d", len(args)+1)
		args = append(args, dateFrom)
	}
	if dateTo != "" {
		query += fmt.Sprintf(" AND date <= $%d", len(args)+1)
		args = append(args, dateTo)
	}
	query += " ORDER BY date, marked_at"
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list attendance by class between: %w", err)
	}
	return records, nil
}

// Update applies the provided partial fields and returns the updated row.
// sql.ErrNoRows is returned when the id does not exist.
func (r *AttendanceRepository) Update(ctx context.Context, id string, update models.AttendanceUpdate) (*models.Attendance, error) {
	var sets []string
	var args []interface{}

	if update.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *update.Status)
	}
	if update.Notes != nil {
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)+1))
		args = append(args, *update.Notes)
	}

	if len(sets) > 0 {
		query := fmt.Sprintf("UPDATE attendance SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)+1)
		args = append(args, id)
		result, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("update attendance: %w", err)
		}
		if affected, err := result.RowsAffected(); err == nil && affected == 0 {
			return nil, sql.ErrNoRows
		}
	}

	return r.FindByID(ctx, id)
}
